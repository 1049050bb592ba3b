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
	"math"
	"testing"
)

func TestSanitizeNilAndGarbage(t *testing.T) {
	if !Equal(Sanitize(nil), Default()) {
		t.Fatalf("nil payload should sanitize to default")
	}
	garbage := []map[string]any{
		{"exposure": "not a map"},
		{"exposure": 42.0},
		{"crop": []any{"x"}},
		{"curves": map[string]any{"master": "nope"}},
		{"unknownGroup": map[string]any{"a": 1.0}},
		{"hsl": map[string]any{"red": "x", "cyan": map[string]any{}}},
	}
	for _, p := range garbage {
		if !Equal(Sanitize(p), Default()) {
			t.Fatalf("garbage payload %v should sanitize to default", p)
		}
	}
}

func TestSanitizeJSONNeverFails(t *testing.T) {
	inputs := []string{
		"", "null", "[]", "42", `"hi"`, "{broken",
		`{"exposure":{"exposure":"NaN"}}`,
		`{"exposure":{"exposure":1e999}}`,
	}
	for _, in := range inputs {
		s := SanitizeJSON([]byte(in))
		if !Equal(s, Default()) {
			t.Fatalf("input %q should sanitize to default", in)
		}
	}
}

func TestSanitizeKeepsValidLeaves(t *testing.T) {
	s := Sanitize(map[string]any{
		"exposure": map[string]any{
			"exposure": 1.5,
			"contrast": 1.2,
			"shadows":  "0.25", // numeric strings parse
		},
		"color": map[string]any{"temperature": -0.4},
	})
	if s.Exposure.Exposure != 1.5 || s.Exposure.Contrast != 1.2 || s.Exposure.Shadows != 0.25 {
		t.Fatalf("valid leaves lost: %+v", s.Exposure)
	}
	if s.Color.Temperature != -0.4 || s.Color.Tint != 0 {
		t.Fatalf("color wrong: %+v", s.Color)
	}
}

func TestSanitizeOutOfRangeFallsBackToDefault(t *testing.T) {
	s := Sanitize(map[string]any{
		"exposure": map[string]any{"exposure": 99.0, "contrast": -3.0},
		"color":    map[string]any{"tint": math.NaN()},
		"vignette": map[string]any{"midpoint": 7.0},
	})
	if s.Exposure.Exposure != 0 || s.Exposure.Contrast != 1 {
		t.Fatalf("out-of-range should reset to default, got %+v", s.Exposure)
	}
	if s.Color.Tint != 0 {
		t.Fatalf("NaN tint should reset, got %v", s.Color.Tint)
	}
	if s.Vignette.Midpoint != 0.5 {
		t.Fatalf("midpoint should reset to 0.5, got %v", s.Vignette.Midpoint)
	}
}

func TestAspectRatioForms(t *testing.T) {
	cases := []struct {
		in   any
		want float64 // 0 means nil expected
	}{
		{1.5, 1.5},
		{"1.5", 1.5},
		{"3:2", 1.5},
		{" 16 : 9 ", 16.0 / 9.0},
		{0.0, 0},
		{-2.0, 0},
		{"0", 0},
		{"1:0", 0},
		{"banana", 0},
		{nil, 0},
		{true, 0},
	}
	for _, c := range cases {
		got := ParseAspectRatio(c.in)
		if c.want == 0 {
			if got != nil {
				t.Fatalf("%v: want free crop, got %v", c.in, *got)
			}
			continue
		}
		if got == nil || math.Abs(*got-c.want) > 1e-9 {
			t.Fatalf("%v: want %v, got %v", c.in, c.want, got)
		}
	}
}

func TestSanitizeCurvePoints(t *testing.T) {
	s := Sanitize(map[string]any{
		"curves": map[string]any{
			"master": []any{
				map[string]any{"x": 0.5, "y": 0.8},
				map[string]any{"x": 0.0, "y": 0.0},
				map[string]any{"x": 1.0, "y": 1.0},
				map[string]any{"x": 2.0, "y": 0.5},  // out of range: dropped
				map[string]any{"x": "a", "y": 0.5},  // malformed: dropped
				"junk",                              // malformed: dropped
				map[string]any{"x": 0.501, "y": 0.7}, // too close: collapsed
			},
		},
	})
	m := s.Curves.Master
	if len(m) != 3 {
		t.Fatalf("expected 3 surviving points, got %v", m)
	}
	if m[0].X != 0 || m[len(m)-1].X != 1 {
		t.Fatalf("endpoints not pinned: %v", m)
	}
	if m[1].X != 0.5 || m[1].Y != 0.7 {
		t.Fatalf("collapsed point should keep the last y: %v", m[1])
	}
	// Untouched channels keep the identity default.
	if len(s.Curves.Red) != 2 || s.Curves.Red[1].Y != 1 {
		t.Fatalf("red channel should be identity: %v", s.Curves.Red)
	}
}

func TestSanitizeCurveDegenerateBecomesIdentity(t *testing.T) {
	s := Sanitize(map[string]any{
		"curves": map[string]any{
			"master": []any{map[string]any{"x": 0.5, "y": 0.5}},
			"blue":   []any{},
		},
	})
	if len(s.Curves.Master) != 2 || len(s.Curves.Blue) != 2 {
		t.Fatalf("degenerate curves should become identity: %+v", s.Curves)
	}
}

// HSL input is validated per leaf like every other group: out-of-range
// channels reset while valid siblings survive.
func TestSanitizeHSLPerLeaf(t *testing.T) {
	s := Sanitize(map[string]any{
		"hsl": map[string]any{
			"orange": map[string]any{"hue": 0.5, "saturation": 9.0, "luminance": -0.2},
		},
	})
	o := s.HSL.Orange
	if o.Hue != 0.5 || o.Saturation != 0 || o.Luminance != -0.2 {
		t.Fatalf("per-leaf HSL validation wrong: %+v", o)
	}
	if s.HSL.Red != (HSLBand{}) {
		t.Fatalf("untouched band should stay default: %+v", s.HSL.Red)
	}
}

func TestSanitizeGrainAndGeometry(t *testing.T) {
	s := Sanitize(map[string]any{
		"grain":      map[string]any{"amount": 0.3, "size": "COARSE"},
		"geometry":   map[string]any{"vertical": 0.2, "flipHorizontal": true},
		"distortion": map[string]any{"k1": -0.1, "k2": 5.0},
	})
	if s.Grain.Amount != 0.3 || s.Grain.Size != GrainCoarse {
		t.Fatalf("grain wrong: %+v", s.Grain)
	}
	if s.Geometry.Vertical != 0.2 || !s.Geometry.FlipHorizontal || s.Geometry.FlipVertical {
		t.Fatalf("geometry wrong: %+v", s.Geometry)
	}
	if s.Geometry.DistortionK1 != -0.1 || s.Geometry.DistortionK2 != 0 {
		t.Fatalf("distortion wrong: %+v", s.Geometry)
	}
	s = Sanitize(map[string]any{"grain": map[string]any{"size": "gigantic"}})
	if s.Grain.Size != GrainMedium {
		t.Fatalf("unknown grain size should default to medium, got %v", s.Grain.Size)
	}
}
