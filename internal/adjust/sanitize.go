/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package adjust

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"quickfix/internal/curve"
)

// Documented leaf ranges. A payload value outside its range is malformed
// and falls back to the leaf default; it is not clamped.
const (
	MaxRotation = 45.0 // straighten control, degrees either way
	MaxExposure = 5.0  // EV either way
	MaxContrast = 2.0  // multiplier; neutral is 1
	MaxSharpen  = 1.5
	MinRadius   = 0.5
	MaxRadius   = 3.0
	MaxThresh   = 0.25

	// MinCurveGap is the smallest x-distance between adjacent curve control
	// points kept after sanitization.
	MinCurveGap = 0.01
)

// SanitizeJSON decodes raw JSON and sanitizes it. Any decode failure yields
// the default state; this function never fails.
func SanitizeJSON(raw []byte) State {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Default()
	}
	return Sanitize(payload)
}

// Sanitize is the total mapping from an untrusted wire payload to a valid
// State. Recognized, well-typed, in-range leaves are taken from the
// payload; everything else keeps the documented default. Wire sections that
// were split off a group (sharpen/clarity/dehaze/denoise, distortion) are
// folded back into their in-memory group here.
func Sanitize(payload map[string]any) State {
	s := Default()
	if payload == nil {
		return s
	}

	if m := section(payload, "crop"); m != nil {
		s.Crop.Rotation = numOr(m, "rotation", 0, -MaxRotation, MaxRotation)
		s.Crop.AspectRatio = ParseAspectRatio(m["aspectRatio"])
	}
	if m := section(payload, "exposure"); m != nil {
		s.Exposure.Exposure = numOr(m, "exposure", 0, -MaxExposure, MaxExposure)
		s.Exposure.Contrast = numOr(m, "contrast", 1, 0, MaxContrast)
		s.Exposure.Highlights = numOr(m, "highlights", 0, -1, 1)
		s.Exposure.Shadows = numOr(m, "shadows", 0, -1, 1)
	}
	if m := section(payload, "color"); m != nil {
		s.Color.Temperature = numOr(m, "temperature", 0, -1, 1)
		s.Color.Tint = numOr(m, "tint", 0, -1, 1)
	}
	if m := section(payload, "curves"); m != nil {
		s.Curves.Intensity = numOr(m, "intensity", 1, 0, 1)
		s.Curves.Master = sanitizePoints(m["master"])
		s.Curves.Red = sanitizePoints(m["red"])
		s.Curves.Green = sanitizePoints(m["green"])
		s.Curves.Blue = sanitizePoints(m["blue"])
	}
	if m := section(payload, "hsl"); m != nil {
		for _, b := range s.HSL.Bands() {
			bm := section(m, b.Name)
			if bm == nil {
				continue
			}
			b.Band.Hue = numOr(bm, "hue", 0, -1, 1)
			b.Band.Saturation = numOr(bm, "saturation", 0, -1, 1)
			b.Band.Luminance = numOr(bm, "luminance", 0, -1, 1)
		}
	}
	if m := section(payload, "splitToning"); m != nil {
		s.SplitToning.ShadowHue = numOr(m, "shadowHue", 0, 0, 360)
		s.SplitToning.ShadowSaturation = numOr(m, "shadowSat", 0, 0, 1)
		s.SplitToning.HighlightHue = numOr(m, "highlightHue", 0, 0, 360)
		s.SplitToning.HighlightSaturation = numOr(m, "highlightSat", 0, 0, 1)
		s.SplitToning.Balance = numOr(m, "balance", 0, -1, 1)
	}
	// Detail arrives as four wire sections.
	if m := section(payload, "sharpen"); m != nil {
		s.Detail.SharpenAmount = numOr(m, "amount", 0, 0, MaxSharpen)
		s.Detail.SharpenRadius = numOr(m, "radius", 1, MinRadius, MaxRadius)
		s.Detail.SharpenThreshold = numOr(m, "threshold", 0, 0, MaxThresh)
	}
	if m := section(payload, "clarity"); m != nil {
		s.Detail.Clarity = numOr(m, "amount", 0, -1, 1)
	}
	if m := section(payload, "dehaze"); m != nil {
		s.Detail.Dehaze = numOr(m, "amount", 0, -1, 1)
	}
	if m := section(payload, "denoise"); m != nil {
		s.Detail.DenoiseLuminance = numOr(m, "luminance", 0, 0, 1)
		s.Detail.DenoiseColor = numOr(m, "color", 0, 0, 1)
	}
	if m := section(payload, "grain"); m != nil {
		s.Grain.Amount = numOr(m, "amount", 0, 0, 1)
		s.Grain.Size = grainSizeOr(m["size"], GrainMedium)
	}
	if m := section(payload, "vignette"); m != nil {
		s.Vignette.Amount = numOr(m, "amount", 0, -1, 1)
		s.Vignette.Midpoint = numOr(m, "midpoint", 0.5, 0, 1)
		s.Vignette.Roundness = numOr(m, "roundness", 0, -1, 1)
		s.Vignette.Feather = numOr(m, "feather", 0.5, 0, 1)
	}
	if m := section(payload, "geometry"); m != nil {
		s.Geometry.Vertical = numOr(m, "vertical", 0, -1, 1)
		s.Geometry.Horizontal = numOr(m, "horizontal", 0, -1, 1)
		s.Geometry.FlipVertical = boolOr(m, "flipVertical", false)
		s.Geometry.FlipHorizontal = boolOr(m, "flipHorizontal", false)
	}
	if m := section(payload, "distortion"); m != nil {
		s.Geometry.DistortionK1 = numOr(m, "k1", 0, -1, 1)
		s.Geometry.DistortionK2 = numOr(m, "k2", 0, -1, 1)
	}
	return s
}

// ParseAspectRatio normalizes the three accepted aspect-ratio shapes to a
// decimal-or-nil: a positive number, a "W:H" string, or 0/absent/anything
// unusable meaning free.
func ParseAspectRatio(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return positiveRatio(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		return positiveRatio(f)
	case string:
		str := strings.TrimSpace(t)
		if str == "" {
			return nil
		}
		if w, h, ok := strings.Cut(str, ":"); ok {
			wf, werr := strconv.ParseFloat(strings.TrimSpace(w), 64)
			hf, herr := strconv.ParseFloat(strings.TrimSpace(h), 64)
			if werr != nil || herr != nil || hf == 0 {
				return nil
			}
			return positiveRatio(wf / hf)
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil
		}
		return positiveRatio(f)
	default:
		return nil
	}
}

func positiveRatio(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return nil
	}
	return &f
}

// sanitizePoints rebuilds a curve control list from untrusted input:
// malformed entries are dropped, survivors are clamped into the unit
// square, sorted, thinned to MinCurveGap, and the endpoints pinned to x=0
// and x=1. Anything that leaves fewer than two points becomes the identity
// curve.
func sanitizePoints(v any) []curve.Point {
	list, ok := v.([]any)
	if !ok {
		return IdentityCurve()
	}
	var pts []curve.Point
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		x, okx := finiteNum(m["x"])
		y, oky := finiteNum(m["y"])
		if !okx || !oky {
			continue
		}
		if x < 0 || x > 1 || y < 0 || y > 1 {
			continue
		}
		pts = append(pts, curve.Point{X: x, Y: y})
	}
	if len(pts) < 2 {
		return IdentityCurve()
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	out := pts[:1]
	for _, p := range pts[1:] {
		if p.X-out[len(out)-1].X < MinCurveGap {
			out[len(out)-1].Y = p.Y
			continue
		}
		out = append(out, p)
	}
	if len(out) < 2 {
		return IdentityCurve()
	}
	out[0].X = 0
	out[len(out)-1].X = 1
	return append([]curve.Point(nil), out...)
}

func section(m map[string]any, key string) map[string]any {
	sub, _ := m[key].(map[string]any)
	return sub
}

// numOr extracts a numeric leaf. Numbers may arrive as float64, integers,
// json.Number or numeric strings; NaN, infinities, wrong types and values
// outside [lo,hi] all fall back to def.
func numOr(m map[string]any, key string, def, lo, hi float64) float64 {
	v, ok := m[key]
	if !ok {
		return def
	}
	f, ok := finiteNum(v)
	if !ok || f < lo || f > hi {
		return def
	}
	return f
}

func finiteNum(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func boolOr(m map[string]any, key string, def bool) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return def
}

func grainSizeOr(v any, def GrainSize) GrainSize {
	s, ok := v.(string)
	if !ok {
		return def
	}
	switch GrainSize(strings.ToLower(strings.TrimSpace(s))) {
	case GrainFine:
		return GrainFine
	case GrainMedium:
		return GrainMedium
	case GrainCoarse:
		return GrainCoarse
	default:
		return def
	}
}
