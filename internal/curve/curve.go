/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package curve evaluates tone curves: smooth monotone interpolants through
// a sparse set of control points in the unit square. The interpolant passes
// exactly through every control point and never overshoots the [0,1] range,
// which keeps repeated curve edits from pushing channel values out of gamut.
package curve

import (
	"math"
	"sort"
)

// Point is a curve control point. Both coordinates are normalized to [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MinSpacing is the smallest x-distance allowed between adjacent control
// points. Closer points are treated as duplicates and collapsed.
const MinSpacing = 1e-6

// DefaultSampleCount is the number of segments used by Sample when the
// caller passes a non-positive count.
const DefaultSampleCount = 100

// Evaluator holds a prepared monotone cubic Hermite spline
// (Fritsch-Butland tangents). The zero value evaluates to 0 everywhere.
// Evaluators are immutable after construction and safe for concurrent use.
type Evaluator struct {
	xs, ys []float64
	ms     []float64 // per-point tangents
}

// New prepares an evaluator for the given control points. The input is
// sorted by x and de-duplicated defensively; it is never rejected. An empty
// input yields the constant-zero curve, a single point a constant curve.
func New(points []Point) *Evaluator {
	pts := append([]Point(nil), points...)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

	e := &Evaluator{}
	for _, p := range pts {
		x := clamp01(p.X)
		y := clamp01(p.Y)
		if n := len(e.xs); n > 0 && x-e.xs[n-1] < MinSpacing {
			// Duplicate x: last writer wins.
			e.ys[n-1] = y
			continue
		}
		e.xs = append(e.xs, x)
		e.ys = append(e.ys, y)
	}
	e.ms = tangents(e.xs, e.ys)
	return e
}

// tangents computes per-point slopes using Fritsch-Butland weighting.
// Interior points whose adjacent secants disagree in sign (or touch zero)
// get a flat tangent, which pins local extrema and prevents overshoot.
func tangents(xs, ys []float64) []float64 {
	n := len(xs)
	if n < 2 {
		return nil
	}
	d := make([]float64, n-1) // secant slopes
	for i := 0; i < n-1; i++ {
		h := xs[i+1] - xs[i]
		if h <= 0 {
			d[i] = 0
			continue
		}
		d[i] = (ys[i+1] - ys[i]) / h
	}
	m := make([]float64, n)
	m[0] = d[0]
	m[n-1] = d[n-2]
	for i := 1; i < n-1; i++ {
		d0, d1 := d[i-1], d[i]
		if d0*d1 <= 0 {
			m[i] = 0
			continue
		}
		h0 := xs[i] - xs[i-1]
		h1 := xs[i+1] - xs[i]
		// Weighted harmonic mean keeps the interpolant inside the convex
		// hull of the neighboring values.
		m[i] = 3 * (h0 + h1) / ((2*h1+h0)/d0 + (h1+2*h0)/d1)
	}
	return m
}

// Eval returns the curve value at x. Outside the control range the boundary
// value is returned (flat extrapolation). The result is clamped to [0,1].
func (e *Evaluator) Eval(x float64) float64 {
	n := len(e.xs)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return e.ys[0]
	}
	if x <= e.xs[0] {
		return e.ys[0]
	}
	if x >= e.xs[n-1] {
		return e.ys[n-1]
	}
	// Linear scan; curve lists are small (typically under 20 points).
	i := 0
	for i < n-2 && x > e.xs[i+1] {
		i++
	}
	h := e.xs[i+1] - e.xs[i]
	if h <= 0 {
		return clamp01(e.ys[i])
	}
	t := (x - e.xs[i]) / h
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	y := h00*e.ys[i] + h10*h*e.ms[i] + h01*e.ys[i+1] + h11*h*e.ms[i+1]
	return clamp01(y)
}

// Sample evaluates the curve at segments+1 uniform steps across [0,1] and
// returns the resulting polyline. A non-positive count falls back to
// DefaultSampleCount.
func (e *Evaluator) Sample(segments int) []Point {
	if segments <= 0 {
		segments = DefaultSampleCount
	}
	out := make([]Point, segments+1)
	for i := 0; i <= segments; i++ {
		x := float64(i) / float64(segments)
		out[i] = Point{X: x, Y: e.Eval(x)}
	}
	return out
}

// Identity reports whether the prepared curve is the straight y=x diagonal,
// i.e. the curve has no visible effect.
func (e *Evaluator) Identity() bool {
	if len(e.xs) == 0 {
		return false
	}
	for i := range e.xs {
		if math.Abs(e.xs[i]-e.ys[i]) > 1e-9 {
			return false
		}
	}
	// Endpoints must span the full range for the identity to hold.
	return e.xs[0] == 0 && e.xs[len(e.xs)-1] == 1
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
