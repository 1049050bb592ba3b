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

import "math"

// maxBoundsIterations caps the scale/translate correction loop. One pass
// settles rotated-frame containment exactly, but when the unit-square clamp
// pulls the rect back out the residual only halves per pass, so the cap
// must carry the worst 45-degree case down to subpixel. Typical inputs
// break out after two passes.
const maxBoundsIterations = 32

// cornerEps is the per-corner correction (in pixels) below which a pass is
// considered converged.
const cornerEps = 1e-6

// ClampToRotatedBounds adjusts the rect so that, with the image displayed
// rotated by angleDeg degrees and scaled by scale about its center, the rect
// still lies entirely on image pixels. The rect stays axis-aligned in
// display space; containment is solved iteratively because uniform scale
// limiting and per-corner clamping interact:
//
//  1. shrink the rect about its own center until the bounding box of its
//     rotated corners fits the scaled image's half-extents, then
//  2. translate the rect by the worst per-axis corner violation measured
//     in the image's rotated frame.
//
// Degenerate image dimensions or scale return the plainly clamped rect.
func ClampToRotatedBounds(r Rect, angleDeg, imgW, imgH, scale float64) Rect {
	r = Clamp(r)
	if !finite(angleDeg) || !finite(imgW) || !finite(imgH) || !finite(scale) {
		return r
	}
	if imgW <= 0 || imgH <= 0 || scale <= 0 {
		return r
	}

	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	absSin, absCos := math.Abs(sin), math.Abs(cos)

	// Half-extents of the scaled image in its own frame.
	hw := imgW * scale / 2
	hh := imgH * scale / 2

	for iter := 0; iter < maxBoundsIterations; iter++ {
		wPx := r.W * imgW
		hPx := r.H * imgH

		// Scale limit: the rect's rotated bounding box may not exceed the
		// image's half-extents in either axis.
		bbHalfW := (wPx*absCos + hPx*absSin) / 2
		bbHalfH := (wPx*absSin + hPx*absCos) / 2
		ratio := 1.0
		if bbHalfW > hw && bbHalfW > 0 {
			ratio = math.Min(ratio, hw/bbHalfW)
		}
		if bbHalfH > hh && bbHalfH > 0 {
			ratio = math.Min(ratio, hh/bbHalfH)
		}
		if ratio < 1 {
			cx, cy := r.Center()
			r.W *= ratio
			r.H *= ratio
			r.X = cx - r.W/2
			r.Y = cy - r.H/2
		}

		// Corner correction: after the scale limit the rect's rotated
		// bounding box fits the image, so on each axis at most one side
		// can stick out. Translating by that worst violation restores
		// containment; averaging over all corners would undershoot for
		// off-center rects. Translation alone cannot fix an over-large
		// bounding box and scaling alone cannot fix an off-center rect,
		// hence the two-step loop.
		minIx, maxIx := math.Inf(1), math.Inf(-1)
		minIy, maxIy := math.Inf(1), math.Inf(-1)
		for _, c := range r.Corners() {
			// Display-space pixels, centered on the image.
			px := c[0]*imgW - imgW/2
			py := c[1]*imgH - imgH/2
			// Into the image's rotated frame.
			ix := px*cos + py*sin
			iy := -px*sin + py*cos
			minIx = math.Min(minIx, ix)
			maxIx = math.Max(maxIx, ix)
			minIy = math.Min(minIy, iy)
			maxIy = math.Max(maxIy, iy)
		}
		var dx, dy float64
		if maxIx > hw {
			dx = hw - maxIx
		} else if minIx < -hw {
			dx = -hw - minIx
		}
		if maxIy > hh {
			dy = hh - maxIy
		} else if minIy < -hh {
			dy = -hh - minIy
		}
		if math.Abs(dx) <= cornerEps && math.Abs(dy) <= cornerEps && ratio >= 1 {
			break
		}
		// Back into display space. The unit square still binds; if the
		// clamp moves the rect back out of the rotated frame the next
		// pass corrects it.
		r.X += (dx*cos - dy*sin) / imgW
		r.Y += (dx*sin + dy*cos) / imgH
		r = Clamp(r)
	}
	return r
}

// RotatedCornerExcess reports how far (in pixels) the worst rect corner
// lies outside the scaled image once mapped into the image's rotated frame.
// Zero means fully contained. Used by callers and tests to check residue.
func RotatedCornerExcess(r Rect, angleDeg, imgW, imgH, scale float64) float64 {
	if imgW <= 0 || imgH <= 0 || scale <= 0 {
		return 0
	}
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	hw := imgW * scale / 2
	hh := imgH * scale / 2
	worst := 0.0
	for _, c := range r.Corners() {
		px := c[0]*imgW - imgW/2
		py := c[1]*imgH - imgH/2
		ix := px*cos + py*sin
		iy := -px*sin + py*cos
		worst = math.Max(worst, math.Abs(ix)-hw)
		worst = math.Max(worst, math.Abs(iy)-hh)
	}
	return math.Max(worst, 0)
}
