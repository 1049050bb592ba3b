/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package render

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"quickfix/internal/adjust"
	"quickfix/internal/curve"
)

// applyCurves runs the master curve and then the per-channel curves as
// 256-entry lookup tables, blended with the curve intensity.
func applyCurves(img *image.NRGBA, c adjust.CurveSettings) *image.NRGBA {
	if c.Intensity <= 0 {
		return img
	}
	if curve.New(c.Master).Identity() && curve.New(c.Red).Identity() &&
		curve.New(c.Green).Identity() && curve.New(c.Blue).Identity() {
		return img
	}
	master := curveLUT(c.Master, c.Intensity)
	r := composeLUT(curveLUT(c.Red, c.Intensity), master)
	g := composeLUT(curveLUT(c.Green, c.Intensity), master)
	b := composeLUT(curveLUT(c.Blue, c.Intensity), master)
	return mapChannels(img, r, g, b)
}

func curveLUT(pts []curve.Point, intensity float64) [256]uint8 {
	ev := curve.New(pts)
	return makeLUT(func(v float64) float64 {
		return lerp(v, ev.Eval(v), clamp(intensity, 0, 1))
	})
}

func composeLUT(outer, inner [256]uint8) [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = outer[inner[i]]
	}
	return lut
}

// hslBandCenters are the hue bucket centers in degrees, matching the
// eight named bands of the state tree.
var hslBandCenters = []struct {
	name string
	hue  float64
}{
	{"red", 0}, {"orange", 30}, {"yellow", 60}, {"green", 120},
	{"aqua", 180}, {"blue", 240}, {"purple", 280}, {"magenta", 320},
}

// applyHSL shifts hue, saturation and luminance per hue bucket. Each
// pixel belongs to the band whose center is nearest its hue; a hue shift
// of 1 moves a full band width (30 degrees).
func applyHSL(img *image.NRGBA, hs adjust.HSLSettings) *image.NRGBA {
	bands := map[string]*adjust.HSLBand{}
	active := false
	for _, b := range hs.Bands() {
		bands[b.Name] = b.Band
		if b.Band.Hue != 0 || b.Band.Saturation != 0 || b.Band.Luminance != 0 {
			active = true
		}
	}
	if !active {
		return img
	}

	out := imaging.Clone(img)
	p := out.Pix
	for i := 0; i < len(p); i += 4 {
		c := colorful.Color{R: float64(p[i]) / 255, G: float64(p[i+1]) / 255, B: float64(p[i+2]) / 255}
		h, s, l := c.Hsl()
		band := bands[nearestBand(h)]
		if band.Hue == 0 && band.Saturation == 0 && band.Luminance == 0 {
			continue
		}
		h = math.Mod(h+band.Hue*30+360, 360)
		s = clamp(s*(1+band.Saturation), 0, 1)
		l = clamp(l*(1+band.Luminance), 0, 1)
		nc := colorful.Hsl(h, s, l).Clamped()
		p[i] = uint8(clamp(math.Round(nc.R*255), 0, 255))
		p[i+1] = uint8(clamp(math.Round(nc.G*255), 0, 255))
		p[i+2] = uint8(clamp(math.Round(nc.B*255), 0, 255))
	}
	return out
}

func nearestBand(hue float64) string {
	best := hslBandCenters[0].name
	bestDist := math.MaxFloat64
	for _, b := range hslBandCenters {
		d := math.Abs(hue - b.hue)
		if d > 180 {
			d = 360 - d
		}
		if d < bestDist {
			bestDist = d
			best = b.name
		}
	}
	return best
}

// applySplitToning tints shadows and highlights toward their configured
// hues. Balance shifts the crossover away from middle gray.
func applySplitToning(img *image.NRGBA, st adjust.SplitToningSettings) *image.NRGBA {
	if st.ShadowSaturation == 0 && st.HighlightSaturation == 0 {
		return img
	}
	shadow := colorful.Hsl(st.ShadowHue, 1, 0.5)
	highlight := colorful.Hsl(st.HighlightHue, 1, 0.5)
	pivot := clamp(0.5+st.Balance*0.25, 0.05, 0.95)

	out := imaging.Clone(img)
	p := out.Pix
	for i := 0; i < len(p); i += 4 {
		r := float64(p[i]) / 255
		g := float64(p[i+1]) / 255
		b := float64(p[i+2]) / 255
		lum := 0.299*r + 0.587*g + 0.114*b

		var tr, tg, tb, w float64
		if lum < pivot {
			w = (pivot - lum) / pivot * st.ShadowSaturation
			tr, tg, tb = shadow.R, shadow.G, shadow.B
		} else {
			w = (lum - pivot) / (1 - pivot) * st.HighlightSaturation
			tr, tg, tb = highlight.R, highlight.G, highlight.B
		}
		w *= 0.3 // keep toning subtle at full saturation
		p[i] = uint8(clamp(math.Round(lerp(r, tr, w)*255), 0, 255))
		p[i+1] = uint8(clamp(math.Round(lerp(g, tg, w)*255), 0, 255))
		p[i+2] = uint8(clamp(math.Round(lerp(b, tb, w)*255), 0, 255))
	}
	return out
}
