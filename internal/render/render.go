/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package render is the reference consumer of the adjustment state: it
// applies a sanitized state to pixels in a fixed, deterministic order
// (geometry, crop/rotate, exposure, color balance, curves, HSL, split
// toning, detail, vignette, grain). The edit-state core never touches
// pixels; everything image-shaped lives here.
package render

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"quickfix/internal/adjust"
)

// Options tunes rendering behavior.
type Options struct {
	// GrainSeed makes film grain reproducible. 0 picks a fixed default so
	// repeated renders of the same state are identical.
	GrainSeed int64
}

// Apply renders the full adjustment state onto img and returns the result.
// The input image is never modified.
func Apply(img image.Image, s adjust.State, opt Options) image.Image {
	out := imaging.Clone(img)
	out = applyGeometry(out, s.Geometry)
	out = applyCropRotate(out, s.Crop)
	out = applyExposure(out, s.Exposure)
	out = applyColorBalance(out, s.Color)
	out = applyCurves(out, s.Curves)
	out = applyHSL(out, s.HSL)
	out = applySplitToning(out, s.SplitToning)
	out = applyDetail(out, s.Detail)
	out = applyVignette(out, s.Vignette)
	out = applyGrain(out, s.Grain, opt.GrainSeed)
	return out
}

// applyGeometry warps the image by the perspective quad: vertical tilt
// insets the top/bottom x edges, horizontal tilt the left/right y edges,
// each up to a quarter of the image size. Output pixels sample the quad
// bilinearly.
func applyGeometry(img *image.NRGBA, g adjust.GeometrySettings) *image.NRGBA {
	if g.FlipHorizontal {
		img = imaging.FlipH(img)
	}
	if g.FlipVertical {
		img = imaging.FlipV(img)
	}
	if g.Vertical == 0 && g.Horizontal == 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	fw, fh := float64(w), float64(h)
	maxX := fw * 0.25
	maxY := fh * 0.25

	v := clamp(g.Vertical, -1, 1)
	hz := clamp(g.Horizontal, -1, 1)

	topInset := v * maxX
	bottomInset := -v * maxX
	leftY := hz * maxY
	rightY := -hz * maxY

	// Source quad corners: ul, ur, ll, lr.
	ulx, uly := topInset, leftY
	urx, ury := fw-topInset, rightY
	llx, lly := bottomInset, fh-leftY
	lrx, lry := fw-bottomInset, fh-rightY

	out := imaging.New(w, h, color.NRGBA{})
	for y := 0; y < h; y++ {
		fy := (float64(y) + 0.5) / fh
		for x := 0; x < w; x++ {
			fx := (float64(x) + 0.5) / fw
			sx := lerp(lerp(ulx, urx, fx), lerp(llx, lrx, fx), fy)
			sy := lerp(lerp(uly, ury, fx), lerp(lly, lry, fx), fy)
			out.Set(x, y, sampleBilinear(img, sx, sy))
		}
	}
	return out
}

// applyCropRotate rotates around the center keeping the canvas size
// stable, then center-crops to the target aspect ratio.
func applyCropRotate(img *image.NRGBA, c adjust.CropSettings) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if c.Rotation != 0 {
		rotated := imaging.Rotate(img, -c.Rotation, color.NRGBA{})
		img = imaging.CropCenter(rotated, w, h)
	}
	if c.AspectRatio != nil && *c.AspectRatio > 0 {
		target := *c.AspectRatio
		current := float64(w) / float64(h)
		if math.Abs(current-target) > 1e-3 {
			if current > target {
				img = imaging.CropCenter(img, int(float64(h)*target), h)
			} else {
				img = imaging.CropCenter(img, w, int(float64(w)/target))
			}
		}
	}
	return img
}

// applyExposure runs the tonal chain in linear-ish 0..1 space: exposure
// as a power-of-two gain, contrast as a pivot around middle gray, then
// masked highlight and shadow recovery.
func applyExposure(img *image.NRGBA, e adjust.ExposureSettings) *image.NRGBA {
	if e.Exposure == 0 && math.Abs(e.Contrast-1) <= 1e-3 && e.Highlights == 0 && e.Shadows == 0 {
		return img
	}
	gain := math.Pow(2, e.Exposure)
	lut := makeLUT(func(v float64) float64 {
		v *= gain
		if math.Abs(e.Contrast-1) > 1e-3 {
			v = (v-0.5)*e.Contrast + 0.5
		}
		if e.Highlights != 0 {
			mask := clamp((v-0.5)*2, 0, 1)
			v += mask * e.Highlights * 0.5
		}
		if e.Shadows != 0 {
			mask := clamp((0.5-v)*2, 0, 1)
			v += mask * e.Shadows * 0.5
		}
		return clamp(v, 0, 1)
	})
	return mapChannels(img, lut, lut, lut)
}

// applyColorBalance scales the channels by the temperature and tint
// factors: warm pushes red up and blue down by up to 25%, tint trades
// green against red/blue.
func applyColorBalance(img *image.NRGBA, c adjust.ColorSettings) *image.NRGBA {
	if c.Temperature == 0 && c.Tint == 0 {
		return img
	}
	temp := clamp(c.Temperature, -1, 1)
	tint := clamp(c.Tint, -1, 1)
	tempR := 1 + temp*0.25
	tempB := 1 - temp*0.25
	tintG := 1 - tint*0.2
	tintRB := 1 + tint*0.1

	fr, fg, fb := tempR*tintRB, tintG, tempB*tintRB
	rl := makeLUT(func(v float64) float64 { return clamp(v*fr, 0, 1) })
	gl := makeLUT(func(v float64) float64 { return clamp(v*fg, 0, 1) })
	bl := makeLUT(func(v float64) float64 { return clamp(v*fb, 0, 1) })
	return mapChannels(img, rl, gl, bl)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// makeLUT samples f at the 256 channel values.
func makeLUT(f func(float64) float64) [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(math.Round(f(float64(i)/255) * 255))
	}
	return lut
}

// mapChannels applies per-channel lookup tables in place over a clone.
func mapChannels(img *image.NRGBA, r, g, b [256]uint8) *image.NRGBA {
	out := imaging.Clone(img)
	p := out.Pix
	for i := 0; i < len(p); i += 4 {
		p[i] = r[p[i]]
		p[i+1] = g[p[i+1]]
		p[i+2] = b[p[i+2]]
	}
	return out
}

func sampleBilinear(img *image.NRGBA, x, y float64) color.NRGBA {
	b := img.Bounds()
	x -= 0.5
	y -= 0.5
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	tx := x - float64(x0)
	ty := y - float64(y0)

	px := func(ix, iy int) (float64, float64, float64, float64) {
		if ix < b.Min.X || ix >= b.Max.X || iy < b.Min.Y || iy >= b.Max.Y {
			return 0, 0, 0, 0
		}
		c := img.NRGBAAt(ix, iy)
		return float64(c.R), float64(c.G), float64(c.B), float64(c.A)
	}
	r00, g00, b00, a00 := px(x0, y0)
	r10, g10, b10, a10 := px(x0+1, y0)
	r01, g01, b01, a01 := px(x0, y0+1)
	r11, g11, b11, a11 := px(x0+1, y0+1)

	mix := func(v00, v10, v01, v11 float64) uint8 {
		top := lerp(v00, v10, tx)
		bot := lerp(v01, v11, tx)
		return uint8(clamp(math.Round(lerp(top, bot, ty)), 0, 255))
	}
	return color.NRGBA{
		R: mix(r00, r10, r01, r11),
		G: mix(g00, g10, g01, g11),
		B: mix(b00, b10, b01, b11),
		A: mix(a00, a10, a01, a11),
	}
}

// applyDetail covers the four detail sections: unsharp masking for
// sharpen, a wide low-amount unsharp pass for clarity, a contrast lift
// for dehaze, and a blended gaussian blur for luminance denoise.
func applyDetail(img *image.NRGBA, d adjust.DetailSettings) *image.NRGBA {
	if d.DenoiseLuminance > 0 {
		blurred := blur.Gaussian(img, 1+d.DenoiseLuminance*2)
		img = blendNRGBA(img, imaging.Clone(blurred), d.DenoiseLuminance)
	}
	if d.Clarity != 0 {
		sharp := effect.UnsharpMask(img, 8, math.Abs(d.Clarity)*0.6)
		if d.Clarity > 0 {
			img = blendNRGBA(img, imaging.Clone(sharp), d.Clarity)
		} else {
			soft := blur.Gaussian(img, 2)
			img = blendNRGBA(img, imaging.Clone(soft), -d.Clarity*0.5)
		}
	}
	if d.Dehaze != 0 {
		img = imaging.AdjustContrast(img, d.Dehaze*30)
	}
	if d.SharpenAmount > 0 {
		sharp := effect.UnsharpMask(img, d.SharpenRadius, d.SharpenAmount)
		img = imaging.Clone(sharp)
	}
	return img
}

// blendNRGBA mixes b over a with weight t in [0,1].
func blendNRGBA(a, b *image.NRGBA, t float64) *image.NRGBA {
	t = clamp(t, 0, 1)
	out := imaging.Clone(a)
	pa, pb := out.Pix, b.Pix
	n := len(pa)
	if len(pb) < n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		pa[i] = uint8(math.Round(lerp(float64(pa[i]), float64(pb[i]), t)))
	}
	return out
}

// applyVignette darkens (or lifts) toward the frame edge. Midpoint sets
// where falloff starts, feather its width, roundness morphs between an
// ellipse fitted to the frame and a circle.
func applyVignette(img *image.NRGBA, v adjust.VignetteSettings) *image.NRGBA {
	if v.Amount == 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cx, cy := float64(w)/2, float64(h)/2
	rx, ry := cx, cy
	if v.Roundness > 0 {
		// Pull both axes toward the smaller one.
		r := math.Min(rx, ry)
		rx = lerp(rx, r, v.Roundness)
		ry = lerp(ry, r, v.Roundness)
	}
	feather := math.Max(v.Feather, 0.01)

	out := imaging.Clone(img)
	p := out.Pix
	for y := 0; y < h; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			d := math.Sqrt(dx*dx+dy*dy) / math.Sqrt2
			t := clamp((d-v.Midpoint)/feather, 0, 1)
			// Smoothstep keeps the falloff free of banding edges.
			t = t * t * (3 - 2*t)
			// Negative amount darkens the edge, positive lifts it.
			gain := 1 + v.Amount*t
			i := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				p[i+c] = uint8(clamp(math.Round(float64(p[i+c])*gain), 0, 255))
			}
		}
	}
	return out
}

// applyGrain adds gaussian luminance noise in cells of 1, 2 or 4 pixels
// depending on grain size, with sigma scaled to a quarter of the channel
// range at full amount.
func applyGrain(img *image.NRGBA, g adjust.GrainSettings, seed int64) *image.NRGBA {
	if g.Amount <= 0 {
		return img
	}
	if seed == 0 {
		seed = 1
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	scale := 1
	switch g.Size {
	case adjust.GrainMedium:
		scale = 2
	case adjust.GrainCoarse:
		scale = 4
	}
	nw := (w + scale - 1) / scale
	nh := (h + scale - 1) / scale

	sigma := clamp(g.Amount, 0, 1) * 25
	rng := rand.New(rand.NewSource(seed))
	noise := make([]float64, nw*nh)
	for i := range noise {
		noise[i] = rng.NormFloat64() * sigma
	}

	out := imaging.Clone(img)
	p := out.Pix
	for y := 0; y < h; y++ {
		row := (y / scale) * nw
		for x := 0; x < w; x++ {
			n := noise[row+x/scale]
			i := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				p[i+c] = uint8(clamp(math.Round(float64(p[i+c])+n), 0, 255))
			}
		}
	}
	return out
}
