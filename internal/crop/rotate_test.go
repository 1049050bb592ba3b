/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crop

import (
	"math"
	"testing"
)

func TestRotatedBoundsFullFrameExample(t *testing.T) {
	// Full crop on a square image at 30 degrees: must shrink about the
	// center until its corners lie exactly on the rotated boundary.
	got := ClampToRotatedBounds(Full, 30, 1000, 1000, 1)
	validRect(t, got)
	cx, cy := got.Center()
	if math.Abs(cx-0.5) > 1e-9 || math.Abs(cy-0.5) > 1e-9 {
		t.Fatalf("rect not centered: %+v", got)
	}
	if math.Abs(got.W-got.H) > 1e-9 {
		t.Fatalf("square crop lost symmetry: %+v", got)
	}
	// cos30 + sin30 scaling: expected edge = 1/(cos+sin)
	want := 1 / (math.Cos(math.Pi/6) + math.Sin(math.Pi/6))
	if math.Abs(got.W-want) > 1e-6 {
		t.Fatalf("edge %v, want %v", got.W, want)
	}
	if ex := RotatedCornerExcess(got, 30, 1000, 1000, 1); ex > 1e-6 {
		t.Fatalf("corners outside rotated bounds by %v px", ex)
	}
}

func TestRotatedBoundsZeroAngleNoop(t *testing.T) {
	r := Rect{0.1, 0.2, 0.5, 0.4}
	if got := ClampToRotatedBounds(r, 0, 4000, 3000, 1); got != r {
		t.Fatalf("zero angle should not move a valid rect: %+v", got)
	}
}

func TestRotatedBoundsConvergence(t *testing.T) {
	rects := []Rect{
		Full,
		{0.7, 0.7, 0.25, 0.25},
		{0, 0, 0.3, 0.9},
		{0.05, 0.6, 0.9, 0.3},
		{0.45, 0.45, 0.1, 0.1},
	}
	angles := []float64{-45, -30, -10, 0, 5, 15, 30, 45}
	for _, r0 := range rects {
		for _, a := range angles {
			// Interactive callers consume the result of every single
			// call, so one call must already leave subpixel residue.
			r := ClampToRotatedBounds(r0, a, 4000, 3000, 1)
			validRect(t, r)
			if ex := RotatedCornerExcess(r, a, 4000, 3000, 1); ex > 0.01 {
				t.Fatalf("rect %+v angle %v: residual excess %v px (rect now %+v)", r0, a, ex, r)
			}
		}
	}
}

func TestRotatedBoundsOffCenterSingleCall(t *testing.T) {
	// Off-center rects exercise the translate step alone: the rotated
	// bounding box already fits, so no shrink happens and the whole
	// violation has to be removed by translation in one call.
	cases := []struct {
		r          Rect
		angle      float64
		imgW, imgH float64
	}{
		{Rect{0.64, 0, 0.36, 1}, 17.8, 538, 1163},
		{Rect{0, 0, 0.36, 1}, -17.8, 538, 1163},
		{Rect{0.75, 0.05, 0.2, 0.2}, 25, 4000, 3000},
		{Rect{0.01, 0.75, 0.3, 0.2}, -12, 1200, 800},
	}
	for _, c := range cases {
		got := ClampToRotatedBounds(c.r, c.angle, c.imgW, c.imgH, 1)
		validRect(t, got)
		if ex := RotatedCornerExcess(got, c.angle, c.imgW, c.imgH, 1); ex > 0.01 {
			t.Fatalf("rect %+v angle %v: %v px outside after one call (rect now %+v)", c.r, c.angle, ex, got)
		}
	}
}

func TestRotatedBoundsWithScale(t *testing.T) {
	// A display scale above 1 gives the rect more room; the full crop at a
	// modest angle then needs less shrinking.
	plain := ClampToRotatedBounds(Full, 20, 1000, 1000, 1)
	scaled := ClampToRotatedBounds(Full, 20, 1000, 1000, 1.3)
	if scaled.W < plain.W {
		t.Fatalf("scale should relax the limit: %v < %v", scaled.W, plain.W)
	}
	if ex := RotatedCornerExcess(scaled, 20, 1000, 1000, 1.3); ex > 1e-6 {
		t.Fatalf("scaled corners out of bounds by %v px", ex)
	}
}

func TestRotatedBoundsDegenerateInputs(t *testing.T) {
	r := Rect{0.2, 0.2, 0.5, 0.5}
	cases := []struct{ w, h, s float64 }{
		{0, 1000, 1},
		{1000, -5, 1},
		{1000, 1000, 0},
		{math.NaN(), 1000, 1},
		{1000, 1000, math.Inf(1)},
	}
	for _, c := range cases {
		got := ClampToRotatedBounds(r, 30, c.w, c.h, c.s)
		validRect(t, got)
		if got != r {
			t.Fatalf("degenerate input (%v,%v,%v) should return the clamped rect, got %+v", c.w, c.h, c.s, got)
		}
	}
}
