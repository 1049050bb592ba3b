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

func TestResizeSoutheastFreeForm(t *testing.T) {
	// Worked example: se drag by (0.3, 0.3) grows the rect in place.
	got := Resize(Rect{0.4, 0.4, 0.2, 0.2}, HandleSE, 0.3, 0.3, 0, 1)
	want := Rect{0.4, 0.4, 0.5, 0.5}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 ||
		math.Abs(got.W-want.W) > 1e-9 || math.Abs(got.H-want.H) > 1e-9 {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResizeClampsAtImageEdge(t *testing.T) {
	got := Resize(Rect{0.4, 0.4, 0.2, 0.2}, HandleSE, 5, 5, 0, 1)
	validRect(t, got)
	if got.X != 0.4 || got.Y != 0.4 {
		t.Fatalf("anchor moved: %+v", got)
	}
	if math.Abs(got.W-0.6) > 1e-9 || math.Abs(got.H-0.6) > 1e-9 {
		t.Fatalf("expected growth to the image edge, got %+v", got)
	}
}

func TestResizeNeverCollapsesBelowMinEdge(t *testing.T) {
	for _, h := range Handles {
		got := Resize(Rect{0.4, 0.4, 0.2, 0.2}, h, -5, -5, 0, 1)
		validRect(t, got)
		got = Resize(Rect{0.4, 0.4, 0.2, 0.2}, h, 5, -5, 0, 1)
		validRect(t, got)
	}
}

func TestResizeAnchorsStayFixed(t *testing.T) {
	start := Rect{0.3, 0.3, 0.3, 0.3}
	cases := []struct {
		h      Handle
		ax, ay float64
	}{
		{HandleSE, 0.3, 0.3}, // nw corner
		{HandleNW, 0.6, 0.6}, // se corner
		{HandleNE, 0.3, 0.6}, // sw corner
		{HandleSW, 0.6, 0.3}, // ne corner
	}
	for _, c := range cases {
		got := Resize(start, c.h, 0.08, -0.06, 0, 1)
		gax, gay := anchorPoint(got, c.h)
		if math.Abs(gax-c.ax) > 1e-9 || math.Abs(gay-c.ay) > 1e-9 {
			t.Fatalf("%s: anchor moved to (%v,%v), want (%v,%v)", c.h, gax, gay, c.ax, c.ay)
		}
	}
}

func TestResizeWithAspectReanchors(t *testing.T) {
	// Dragging the top-left handle with a square ratio must keep the
	// bottom-right corner fixed even after ratio correction.
	start := Rect{0.3, 0.3, 0.3, 0.3}
	got := Resize(start, HandleNW, -0.1, -0.05, 1, 1)
	validRect(t, got)
	if math.Abs(got.W/got.H-1) > 1e-6 {
		t.Fatalf("aspect lost: %+v", got)
	}
	if math.Abs((got.X+got.W)-0.6) > 1e-9 || math.Abs((got.Y+got.H)-0.6) > 1e-9 {
		t.Fatalf("se corner moved: %+v", got)
	}
}

func TestResizeEdgeHandleWithAspect(t *testing.T) {
	start := Rect{0.3, 0.3, 0.3, 0.3}
	got := Resize(start, HandleE, 0.1, 0, 2, 1)
	validRect(t, got)
	if math.Abs(got.W/got.H-2) > 1e-6 {
		t.Fatalf("aspect lost: %+v", got)
	}
	// West edge midpoint is the anchor.
	if math.Abs(got.X-0.3) > 1e-9 || math.Abs((got.Y+got.H/2)-0.45) > 1e-9 {
		t.Fatalf("west anchor moved: %+v", got)
	}
}

func TestMoveHandleTranslatesOnly(t *testing.T) {
	got := Resize(Rect{0.1, 0.1, 0.2, 0.2}, HandleMove, 0.3, 0.4, 0, 1)
	want := Rect{0.4, 0.5, 0.2, 0.2}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	// Moving past the boundary clamps without changing the size.
	got = Resize(Rect{0.1, 0.1, 0.2, 0.2}, HandleMove, 5, 5, 0, 1)
	if got.W != 0.2 || got.H != 0.2 || got.X != 0.8 || got.Y != 0.8 {
		t.Fatalf("clamped move wrong: %+v", got)
	}
}

func TestResizeRejectsNonFiniteDelta(t *testing.T) {
	start := Rect{0.3, 0.3, 0.3, 0.3}
	if got := Resize(start, HandleSE, math.NaN(), 0.1, 0, 1); got != start {
		t.Fatalf("NaN delta should be ignored, got %+v", got)
	}
	if got := Resize(start, HandleSE, 0.1, math.Inf(1), 0, 1); got != start {
		t.Fatalf("Inf delta should be ignored, got %+v", got)
	}
}
