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

// Handle identifies which part of the crop rect a drag gesture grabs.
type Handle string

const (
	HandleN    Handle = "n"
	HandleS    Handle = "s"
	HandleE    Handle = "e"
	HandleW    Handle = "w"
	HandleNE   Handle = "ne"
	HandleNW   Handle = "nw"
	HandleSE   Handle = "se"
	HandleSW   Handle = "sw"
	HandleMove Handle = "move"
)

// Handles lists all resize handles (HandleMove excluded).
var Handles = []Handle{HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW}

// anchorPoint returns the point of r that must stay fixed while the given
// handle is dragged: the opposite corner for corner handles, the midpoint of
// the opposite edge for edge handles, the center for move.
func anchorPoint(r Rect, h Handle) (float64, float64) {
	switch h {
	case HandleSE:
		return r.X, r.Y
	case HandleNW:
		return r.X + r.W, r.Y + r.H
	case HandleNE:
		return r.X, r.Y + r.H
	case HandleSW:
		return r.X + r.W, r.Y
	case HandleE:
		return r.X, r.Y + r.H/2
	case HandleW:
		return r.X + r.W, r.Y + r.H/2
	case HandleS:
		return r.X + r.W/2, r.Y
	case HandleN:
		return r.X + r.W/2, r.Y + r.H
	default:
		return r.Center()
	}
}

// placeAtAnchor positions a rect of size w,h so that its own anchor point
// for the handle coincides with the given anchor coordinates.
func placeAtAnchor(h Handle, ax, ay, w, hh float64) Rect {
	r := Rect{W: w, H: hh}
	switch h {
	case HandleSE:
		r.X, r.Y = ax, ay
	case HandleNW:
		r.X, r.Y = ax-w, ay-hh
	case HandleNE:
		r.X, r.Y = ax, ay-hh
	case HandleSW:
		r.X, r.Y = ax-w, ay
	case HandleE:
		r.X, r.Y = ax, ay-hh/2
	case HandleW:
		r.X, r.Y = ax-w, ay-hh/2
	case HandleS:
		r.X, r.Y = ax-w/2, ay
	case HandleN:
		r.X, r.Y = ax-w/2, ay-hh
	default:
		r.X, r.Y = ax-w/2, ay-hh/2
	}
	return r
}

// Resize applies a pointer delta (normalized units) to the rect via the
// given handle. aspect is the target width/height ratio, 0 for free;
// container is the image's own aspect ratio used to correct for non-square
// normalized space. The handle's anchor stays fixed: with an active aspect
// the free-form result is re-fit to the ratio and then re-positioned so the
// anchor corner/edge of the new rect matches the pre-resize one.
func Resize(r Rect, h Handle, dx, dy, aspect, container float64) Rect {
	r = Clamp(r)
	if !finite(dx) || !finite(dy) {
		return r
	}
	if h == HandleMove {
		return Clamp(Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H})
	}

	ax, ay := anchorPoint(r, h)
	next := freeResize(r, h, dx, dy)
	if aspect > 0 && container > 0 {
		fitted := FitToAspect(next, aspect, container)
		next = placeAtAnchor(h, ax, ay, fitted.W, fitted.H)
	}
	return Clamp(next)
}

// freeResize extends the dragged edge(s) by the delta. Each edge is clamped
// independently so the rect never collapses below MinEdge or crosses the
// image bounds.
func freeResize(r Rect, h Handle, dx, dy float64) Rect {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H

	switch h {
	case HandleW, HandleNW, HandleSW:
		x0 = clampRange(x0+dx, 0, x1-MinEdge)
	case HandleE, HandleNE, HandleSE:
		x1 = clampRange(x1+dx, x0+MinEdge, 1)
	}
	switch h {
	case HandleN, HandleNW, HandleNE:
		y0 = clampRange(y0+dy, 0, y1-MinEdge)
	case HandleS, HandleSW, HandleSE:
		y1 = clampRange(y1+dy, y0+MinEdge, 1)
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
