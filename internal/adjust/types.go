/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package adjust holds the canonical, non-destructive edit state of a photo:
// a tree of independent value groups (crop, exposure, color, curves, HSL,
// split toning, detail, grain, vignette, lens geometry). The package owns
// defaulting, sanitization of untrusted input, tolerant structural equality,
// per-group reset, and the lossless mapping to and from the sparse wire
// payload consumed by the rendering engine.
package adjust

import "quickfix/internal/curve"

// Group names a unit of reset and comparison within the state tree.
type Group string

const (
	GroupCrop        Group = "crop"
	GroupExposure    Group = "exposure"
	GroupColor       Group = "color"
	GroupCurves      Group = "curves"
	GroupHSL         Group = "hsl"
	GroupSplitToning Group = "splitToning"
	GroupDetail      Group = "detail"
	GroupGrain       Group = "grain"
	GroupVignette    Group = "vignette"
	GroupGeometry    Group = "geometry"
)

// Groups lists every group in a stable order.
var Groups = []Group{
	GroupCrop, GroupExposure, GroupColor, GroupCurves, GroupHSL,
	GroupSplitToning, GroupDetail, GroupGrain, GroupVignette, GroupGeometry,
}

// GrainSize selects the grain cell size.
type GrainSize string

const (
	GrainFine   GrainSize = "fine"
	GrainMedium GrainSize = "medium"
	GrainCoarse GrainSize = "coarse"
)

// CropSettings holds the straighten rotation in degrees and the target
// aspect ratio. A nil ratio means free/unconstrained; sanitization
// normalizes decimal, "W:H" string and 0/absent inputs to this shape.
type CropSettings struct {
	Rotation    float64  `json:"rotation"`
	AspectRatio *float64 `json:"aspectRatio,omitempty"`
}

type ExposureSettings struct {
	Exposure   float64 `json:"exposure"`  // EV
	Contrast   float64 `json:"contrast"`  // multiplier, 1 = neutral
	Highlights float64 `json:"highlights"`
	Shadows    float64 `json:"shadows"`
}

type ColorSettings struct {
	Temperature float64 `json:"temperature"`
	Tint        float64 `json:"tint"`
}

// CurveSettings holds the four tone curves and a blend intensity.
// Each curve is an x-ordered control point list with pinned endpoints.
type CurveSettings struct {
	Intensity float64       `json:"intensity"`
	Master    []curve.Point `json:"master"`
	Red       []curve.Point `json:"red"`
	Green     []curve.Point `json:"green"`
	Blue      []curve.Point `json:"blue"`
}

// HSLBand is the per-hue-bucket adjustment triple. All values are relative
// shifts in [-1, 1].
type HSLBand struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Luminance  float64 `json:"luminance"`
}

// HSLSettings covers the eight hue buckets.
type HSLSettings struct {
	Red     HSLBand `json:"red"`
	Orange  HSLBand `json:"orange"`
	Yellow  HSLBand `json:"yellow"`
	Green   HSLBand `json:"green"`
	Aqua    HSLBand `json:"aqua"`
	Blue    HSLBand `json:"blue"`
	Purple  HSLBand `json:"purple"`
	Magenta HSLBand `json:"magenta"`
}

// Bands returns pointers to the buckets paired with their wire names, in a
// stable order. Callers may mutate through the pointers.
func (h *HSLSettings) Bands() []struct {
	Name string
	Band *HSLBand
} {
	return []struct {
		Name string
		Band *HSLBand
	}{
		{"red", &h.Red}, {"orange", &h.Orange}, {"yellow", &h.Yellow},
		{"green", &h.Green}, {"aqua", &h.Aqua}, {"blue", &h.Blue},
		{"purple", &h.Purple}, {"magenta", &h.Magenta},
	}
}

type SplitToningSettings struct {
	ShadowHue           float64 `json:"shadowHue"`    // degrees [0,360)
	ShadowSaturation    float64 `json:"shadowSat"`    // [0,1]
	HighlightHue        float64 `json:"highlightHue"` // degrees [0,360)
	HighlightSaturation float64 `json:"highlightSat"` // [0,1]
	Balance             float64 `json:"balance"`      // [-1,1]
}

type DetailSettings struct {
	SharpenAmount    float64 `json:"sharpenAmount"`
	SharpenRadius    float64 `json:"sharpenRadius"`
	SharpenThreshold float64 `json:"sharpenThreshold"`
	Clarity          float64 `json:"clarity"`
	Dehaze           float64 `json:"dehaze"`
	DenoiseLuminance float64 `json:"denoiseLuminance"`
	DenoiseColor     float64 `json:"denoiseColor"`
}

type GrainSettings struct {
	Amount float64   `json:"amount"`
	Size   GrainSize `json:"size"`
}

type VignetteSettings struct {
	Amount    float64 `json:"amount"`
	Midpoint  float64 `json:"midpoint"`
	Roundness float64 `json:"roundness"`
	Feather   float64 `json:"feather"`
}

type GeometrySettings struct {
	Vertical       float64 `json:"vertical"`
	Horizontal     float64 `json:"horizontal"`
	FlipVertical   bool    `json:"flipVertical"`
	FlipHorizontal bool    `json:"flipHorizontal"`
	DistortionK1   float64 `json:"distortionK1"`
	DistortionK2   float64 `json:"distortionK2"`
}

// State is the full per-image adjustment tree. Groups are independent:
// resetting or comparing one never touches another.
type State struct {
	Crop        CropSettings        `json:"crop"`
	Exposure    ExposureSettings    `json:"exposure"`
	Color       ColorSettings       `json:"color"`
	Curves      CurveSettings       `json:"curves"`
	HSL         HSLSettings         `json:"hsl"`
	SplitToning SplitToningSettings `json:"splitToning"`
	Detail      DetailSettings      `json:"detail"`
	Grain       GrainSettings       `json:"grain"`
	Vignette    VignetteSettings    `json:"vignette"`
	Geometry    GeometrySettings    `json:"geometry"`
}

// IdentityCurve returns a fresh two-point diagonal curve.
func IdentityCurve() []curve.Point {
	return []curve.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
}

// Default returns the documented neutral state: every leaf at the value an
// untouched photo renders with.
func Default() State {
	return State{
		Crop:     CropSettings{Rotation: 0, AspectRatio: nil},
		Exposure: ExposureSettings{Exposure: 0, Contrast: 1, Highlights: 0, Shadows: 0},
		Color:    ColorSettings{Temperature: 0, Tint: 0},
		Curves: CurveSettings{
			Intensity: 1,
			Master:    IdentityCurve(),
			Red:       IdentityCurve(),
			Green:     IdentityCurve(),
			Blue:      IdentityCurve(),
		},
		HSL:         HSLSettings{},
		SplitToning: SplitToningSettings{},
		Detail:      DetailSettings{SharpenRadius: 1},
		Grain:       GrainSettings{Amount: 0, Size: GrainMedium},
		Vignette:    VignetteSettings{Midpoint: 0.5, Feather: 0.5},
		Geometry:    GeometrySettings{},
	}
}

// Clone returns a deep, value-semantic copy sharing no references with the
// receiver. Live drafts are always cloned before editing.
func (s State) Clone() State {
	c := s
	if s.Crop.AspectRatio != nil {
		v := *s.Crop.AspectRatio
		c.Crop.AspectRatio = &v
	}
	c.Curves.Master = append([]curve.Point(nil), s.Curves.Master...)
	c.Curves.Red = append([]curve.Point(nil), s.Curves.Red...)
	c.Curves.Green = append([]curve.Point(nil), s.Curves.Green...)
	c.Curves.Blue = append([]curve.Point(nil), s.Curves.Blue...)
	return c
}
