/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crop maintains the crop rectangle of an image in normalized
// coordinates and enforces its shape and bounds invariants, including under
// arbitrary straighten rotation. All operations are previous-state to
// next-state transforms; nothing mutates in place.
package crop

import "math"

// MinEdge is the smallest allowed normalized width/height of a crop rect.
const MinEdge = 0.05

// Rect is a crop rectangle normalized to the unrotated source image:
// all fields are fractions of the image width/height in [0,1].
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Full is the whole-image crop.
var Full = Rect{X: 0, Y: 0, W: 1, H: 1}

// Center returns the rect's center point.
func (r Rect) Center() (float64, float64) { return r.X + r.W/2, r.Y + r.H/2 }

// Corners returns the four corners in nw, ne, se, sw order.
func (r Rect) Corners() [4][2]float64 {
	return [4][2]float64{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
}

// Clamp forces a candidate rect into a valid state: width and height into
// [MinEdge, 1], then origin into the remaining room. It is total and
// idempotent; non-finite fields fall back to the full-image crop.
func Clamp(r Rect) Rect {
	if !finite(r.X) || !finite(r.Y) || !finite(r.W) || !finite(r.H) {
		return Full
	}
	r.W = clampRange(r.W, MinEdge, 1)
	r.H = clampRange(r.H, MinEdge, 1)
	r.X = clampRange(r.X, 0, 1-r.W)
	r.Y = clampRange(r.Y, 0, 1-r.H)
	return r
}

// FitToAspect resizes the rect about its own center so that its effective
// ratio (width/height corrected for the container's aspect) equals target.
// The container ratio matters because normalized coordinates are not square
// when the image itself is not. A non-positive target or container ratio
// leaves the rect as-is (free crop); oversize results are scaled down
// proportionally before the final clamp.
func FitToAspect(r Rect, target, container float64) Rect {
	r = Clamp(r)
	if !finite(target) || !finite(container) || target <= 0 || container <= 0 {
		return r
	}
	effective := target / container
	w := r.W
	h := w / effective
	if h > 1 {
		w /= h
		h = 1
	}
	if w > 1 {
		h /= w
		w = 1
	}
	cx, cy := r.Center()
	return Clamp(Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h})
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
