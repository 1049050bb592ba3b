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
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"quickfix/internal/adjust"
	"quickfix/internal/curve"
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestDefaultStateIsIdentity(t *testing.T) {
	src := uniform(32, 24, color.NRGBA{R: 120, G: 90, B: 60, A: 255})
	out := Apply(src, adjust.Default(), Options{})
	got := imaging.Clone(out)
	for i := 0; i < len(src.Pix); i++ {
		if src.Pix[i] != got.Pix[i] {
			t.Fatalf("default state must not change pixels (offset %d: %d != %d)", i, src.Pix[i], got.Pix[i])
		}
	}
}

func TestExposureOneStopDoubles(t *testing.T) {
	s := adjust.Default()
	s.Exposure.Exposure = 1
	src := uniform(8, 8, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	out := imaging.Clone(Apply(src, s, Options{}))
	if got := out.NRGBAAt(4, 4).R; absDiff(got, 200) > 1 {
		t.Fatalf("+1EV on 100 should give ~200, got %d", got)
	}
}

func TestContrastPivotsAroundMiddleGray(t *testing.T) {
	s := adjust.Default()
	s.Exposure.Contrast = 2
	src := uniform(4, 4, color.NRGBA{R: 64, G: 128, B: 192, A: 255})
	out := imaging.Clone(Apply(src, s, Options{}))
	px := out.NRGBAAt(1, 1)
	if px.R > 5 {
		t.Fatalf("dark channel must drop toward black, got %d", px.R)
	}
	if absDiff(px.G, 128) > 3 {
		t.Fatalf("middle gray must stay put, got %d", px.G)
	}
	if px.B < 250 {
		t.Fatalf("bright channel must rise toward white, got %d", px.B)
	}
}

func TestWarmTemperatureShiftsChannels(t *testing.T) {
	s := adjust.Default()
	s.Color.Temperature = 1
	src := uniform(4, 4, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	out := imaging.Clone(Apply(src, s, Options{}))
	px := out.NRGBAAt(2, 2)
	if absDiff(px.R, 125) > 1 {
		t.Fatalf("full warm should scale red by 1.25, got %d", px.R)
	}
	if absDiff(px.B, 75) > 1 {
		t.Fatalf("full warm should scale blue by 0.75, got %d", px.B)
	}
	if absDiff(px.G, 100) > 1 {
		t.Fatalf("temperature alone must leave green, got %d", px.G)
	}
}

func TestAspectRatioCenterCrop(t *testing.T) {
	s := adjust.Default()
	r := 1.0
	s.Crop.AspectRatio = &r
	src := uniform(400, 200, color.NRGBA{R: 50, G: 50, B: 50, A: 255})
	out := Apply(src, s, Options{})
	if b := out.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("square crop of 400x200 should be 200x200, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRotationKeepsCanvasSize(t *testing.T) {
	s := adjust.Default()
	s.Crop.Rotation = 15
	src := uniform(300, 200, color.NRGBA{R: 50, G: 50, B: 50, A: 255})
	out := Apply(src, s, Options{})
	if b := out.Bounds(); b.Dx() != 300 || b.Dy() != 200 {
		t.Fatalf("rotation must keep the canvas stable, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestMasterCurveLiftsMidtones(t *testing.T) {
	s := adjust.Default()
	s.Curves.Master = []curve.Point{{X: 0, Y: 0}, {X: 0.5, Y: 0.8}, {X: 1, Y: 1}}
	src := uniform(4, 4, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	out := imaging.Clone(Apply(src, s, Options{}))
	if got := out.NRGBAAt(1, 1).G; got <= 150 {
		t.Fatalf("lifted curve must brighten midtones, got %d", got)
	}
}

func TestCurveIntensityBlends(t *testing.T) {
	s := adjust.Default()
	s.Curves.Master = []curve.Point{{X: 0, Y: 0}, {X: 0.5, Y: 0.9}, {X: 1, Y: 1}}
	src := uniform(4, 4, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	full := imaging.Clone(Apply(src, s, Options{})).NRGBAAt(1, 1).G
	s.Curves.Intensity = 0.5
	half := imaging.Clone(Apply(src, s, Options{})).NRGBAAt(1, 1).G
	if !(128 < half && half < full) {
		t.Fatalf("half intensity must land between source and full effect: 128 < %d < %d", half, full)
	}
}

func TestGrainIsDeterministicPerSeed(t *testing.T) {
	s := adjust.Default()
	s.Grain.Amount = 0.5
	src := uniform(32, 32, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	a := imaging.Clone(Apply(src, s, Options{GrainSeed: 42}))
	b := imaging.Clone(Apply(src, s, Options{GrainSeed: 42}))
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("same seed must give identical grain")
		}
	}

	c := imaging.Clone(Apply(src, s, Options{GrainSeed: 7}))
	same := true
	for i := range a.Pix {
		if a.Pix[i] != c.Pix[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds should give different grain")
	}
}

func TestGrainCellSize(t *testing.T) {
	s := adjust.Default()
	s.Grain.Amount = 1
	s.Grain.Size = adjust.GrainCoarse
	src := uniform(16, 16, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	out := imaging.Clone(Apply(src, s, Options{GrainSeed: 3}))
	// Coarse grain uses 4px cells: everything inside one cell shares noise.
	base := out.NRGBAAt(0, 0).R
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if out.NRGBAAt(x, y).R != base {
				t.Fatalf("pixels inside a coarse cell must share their noise value")
			}
		}
	}
}

func TestVignetteDarkensCornersOnly(t *testing.T) {
	s := adjust.Default()
	s.Vignette.Amount = -0.8
	src := uniform(64, 64, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	out := imaging.Clone(Apply(src, s, Options{}))
	center := out.NRGBAAt(32, 32).R
	corner := out.NRGBAAt(1, 1).R
	if absDiff(center, 200) > 3 {
		t.Fatalf("center must stay near 200, got %d", center)
	}
	if corner >= center-20 {
		t.Fatalf("corner must darken well below center: corner=%d center=%d", corner, center)
	}
}

func TestFlipHorizontal(t *testing.T) {
	s := adjust.Default()
	s.Geometry.FlipHorizontal = true
	src := uniform(4, 2, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	src.SetNRGBA(0, 0, color.NRGBA{R: 250, G: 0, B: 0, A: 255})
	out := imaging.Clone(Apply(src, s, Options{}))
	if out.NRGBAAt(3, 0).R != 250 {
		t.Fatalf("flip must mirror the marker pixel, got %d", out.NRGBAAt(3, 0).R)
	}
}

func TestHSLShiftTargetsOneBand(t *testing.T) {
	s := adjust.Default()
	s.HSL.Red.Saturation = -1 // fully desaturate reds
	src := uniform(4, 4, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	out := imaging.Clone(Apply(src, s, Options{}))
	px := out.NRGBAAt(1, 1)
	if absDiff(px.R, px.G) > 3 || absDiff(px.G, px.B) > 3 {
		t.Fatalf("desaturated red should be near gray, got %+v", px)
	}

	blue := uniform(4, 4, color.NRGBA{R: 40, G: 40, B: 200, A: 255})
	out = imaging.Clone(Apply(blue, s, Options{}))
	if got := out.NRGBAAt(1, 1); got.B < 190 {
		t.Fatalf("blue pixels must be untouched by the red band, got %+v", got)
	}
}

func TestSplitToningTintsShadows(t *testing.T) {
	s := adjust.Default()
	s.SplitToning.ShadowHue = 240 // blue
	s.SplitToning.ShadowSaturation = 1
	src := uniform(4, 4, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	out := imaging.Clone(Apply(src, s, Options{}))
	px := out.NRGBAAt(1, 1)
	if px.B <= px.R {
		t.Fatalf("blue shadow toning must raise blue above red, got %+v", px)
	}
}

func TestRedundantDiagonalCurveIsNoop(t *testing.T) {
	// A diagonal spelled with extra control points has no visible effect
	// and must take the same skip path as the two-point identity.
	s := adjust.Default()
	s.Curves.Master = []curve.Point{{X: 0, Y: 0}, {X: 0.25, Y: 0.25}, {X: 0.75, Y: 0.75}, {X: 1, Y: 1}}
	src := uniform(4, 4, color.NRGBA{R: 73, G: 140, B: 201, A: 255})
	out := imaging.Clone(Apply(src, s, Options{}))
	if got := out.NRGBAAt(2, 2); got != src.NRGBAAt(2, 2) {
		t.Fatalf("redundant diagonal changed pixels: %v -> %v", src.NRGBAAt(2, 2), got)
	}
}
