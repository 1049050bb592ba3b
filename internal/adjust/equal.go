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

	"quickfix/internal/curve"
)

// Tolerance is the absolute slack used when comparing numeric leaves. It
// absorbs floating-point noise from repeated edit/serialize round-trips.
const Tolerance = 1e-3

func near(a, b float64) bool { return math.Abs(a-b) <= Tolerance }

// Equal reports whether two states are equal: every group equal, numeric
// leaves within Tolerance, enums and booleans exact, curves and HSL by
// structural comparison.
func Equal(a, b State) bool {
	for _, g := range Groups {
		if !GroupEqual(a, b, g) {
			return false
		}
	}
	return true
}

// GroupEqual compares a single named group of two states. Unknown group
// names compare as equal (there is nothing to differ on).
func GroupEqual(a, b State, g Group) bool {
	switch g {
	case GroupCrop:
		return near(a.Crop.Rotation, b.Crop.Rotation) && aspectEqual(a.Crop.AspectRatio, b.Crop.AspectRatio)
	case GroupExposure:
		return near(a.Exposure.Exposure, b.Exposure.Exposure) &&
			near(a.Exposure.Contrast, b.Exposure.Contrast) &&
			near(a.Exposure.Highlights, b.Exposure.Highlights) &&
			near(a.Exposure.Shadows, b.Exposure.Shadows)
	case GroupColor:
		return near(a.Color.Temperature, b.Color.Temperature) && near(a.Color.Tint, b.Color.Tint)
	case GroupCurves:
		return near(a.Curves.Intensity, b.Curves.Intensity) &&
			curveEqual(a.Curves.Master, b.Curves.Master) &&
			curveEqual(a.Curves.Red, b.Curves.Red) &&
			curveEqual(a.Curves.Green, b.Curves.Green) &&
			curveEqual(a.Curves.Blue, b.Curves.Blue)
	case GroupHSL:
		ab, bb := a.HSL, b.HSL
		ap, bp := ab.Bands(), bb.Bands()
		for i := range ap {
			if !near(ap[i].Band.Hue, bp[i].Band.Hue) ||
				!near(ap[i].Band.Saturation, bp[i].Band.Saturation) ||
				!near(ap[i].Band.Luminance, bp[i].Band.Luminance) {
				return false
			}
		}
		return true
	case GroupSplitToning:
		return near(a.SplitToning.ShadowHue, b.SplitToning.ShadowHue) &&
			near(a.SplitToning.ShadowSaturation, b.SplitToning.ShadowSaturation) &&
			near(a.SplitToning.HighlightHue, b.SplitToning.HighlightHue) &&
			near(a.SplitToning.HighlightSaturation, b.SplitToning.HighlightSaturation) &&
			near(a.SplitToning.Balance, b.SplitToning.Balance)
	case GroupDetail:
		return near(a.Detail.SharpenAmount, b.Detail.SharpenAmount) &&
			near(a.Detail.SharpenRadius, b.Detail.SharpenRadius) &&
			near(a.Detail.SharpenThreshold, b.Detail.SharpenThreshold) &&
			near(a.Detail.Clarity, b.Detail.Clarity) &&
			near(a.Detail.Dehaze, b.Detail.Dehaze) &&
			near(a.Detail.DenoiseLuminance, b.Detail.DenoiseLuminance) &&
			near(a.Detail.DenoiseColor, b.Detail.DenoiseColor)
	case GroupGrain:
		return near(a.Grain.Amount, b.Grain.Amount) && a.Grain.Size == b.Grain.Size
	case GroupVignette:
		return near(a.Vignette.Amount, b.Vignette.Amount) &&
			near(a.Vignette.Midpoint, b.Vignette.Midpoint) &&
			near(a.Vignette.Roundness, b.Vignette.Roundness) &&
			near(a.Vignette.Feather, b.Vignette.Feather)
	case GroupGeometry:
		return near(a.Geometry.Vertical, b.Geometry.Vertical) &&
			near(a.Geometry.Horizontal, b.Geometry.Horizontal) &&
			a.Geometry.FlipVertical == b.Geometry.FlipVertical &&
			a.Geometry.FlipHorizontal == b.Geometry.FlipHorizontal &&
			near(a.Geometry.DistortionK1, b.Geometry.DistortionK1) &&
			near(a.Geometry.DistortionK2, b.Geometry.DistortionK2)
	}
	return true
}

// IsDefault reports whether the named group matches the built-in default,
// using the same tolerance rules as Equal. It decides whether a reset
// affordance is enabled and whether the group appears on the wire at all.
func IsDefault(s State, g Group) bool {
	return GroupEqual(s, Default(), g)
}

// HasAdjustments reports whether any group differs from its default.
func HasAdjustments(s State) bool {
	for _, g := range Groups {
		if !IsDefault(s, g) {
			return true
		}
	}
	return false
}

// Reset returns a new state identical to s except that the named group is
// back at its default. All other groups are untouched.
func Reset(s State, g Group) State {
	out := s.Clone()
	def := Default()
	switch g {
	case GroupCrop:
		out.Crop = def.Crop
	case GroupExposure:
		out.Exposure = def.Exposure
	case GroupColor:
		out.Color = def.Color
	case GroupCurves:
		out.Curves = def.Curves
	case GroupHSL:
		out.HSL = def.HSL
	case GroupSplitToning:
		out.SplitToning = def.SplitToning
	case GroupDetail:
		out.Detail = def.Detail
	case GroupGrain:
		out.Grain = def.Grain
	case GroupVignette:
		out.Vignette = def.Vignette
	case GroupGeometry:
		out.Geometry = def.Geometry
	}
	return out
}

func aspectEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return near(*a, *b)
}

func curveEqual(a, b []curve.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !near(a[i].X, b[i].X) || !near(a[i].Y, b[i].Y) {
			return false
		}
	}
	return true
}
