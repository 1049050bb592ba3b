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

	"quickfix/internal/curve"
)

// ToPayload produces the sparse wire representation consumed by the
// rendering engine: only non-default sections appear, and an absent section
// means "default" on the consuming side. A state with no edits serializes
// to an empty payload. The mapping is the fixed inverse of Sanitize: the
// detail group fans out into sharpen/clarity/dehaze/denoise sections and
// the geometry distortion fields into a distortion section.
func ToPayload(s State) map[string]any {
	def := Default()
	p := map[string]any{}

	if !GroupEqual(s, def, GroupCrop) {
		m := map[string]any{"rotation": s.Crop.Rotation}
		if s.Crop.AspectRatio != nil {
			m["aspectRatio"] = *s.Crop.AspectRatio
		}
		p["crop"] = m
	}
	if !GroupEqual(s, def, GroupExposure) {
		p["exposure"] = map[string]any{
			"exposure":   s.Exposure.Exposure,
			"contrast":   s.Exposure.Contrast,
			"highlights": s.Exposure.Highlights,
			"shadows":    s.Exposure.Shadows,
		}
	}
	if !GroupEqual(s, def, GroupColor) {
		p["color"] = map[string]any{
			"temperature": s.Color.Temperature,
			"tint":        s.Color.Tint,
		}
	}
	if !GroupEqual(s, def, GroupCurves) {
		p["curves"] = map[string]any{
			"intensity": s.Curves.Intensity,
			"master":    pointsPayload(s.Curves.Master),
			"red":       pointsPayload(s.Curves.Red),
			"green":     pointsPayload(s.Curves.Green),
			"blue":      pointsPayload(s.Curves.Blue),
		}
	}
	if !GroupEqual(s, def, GroupHSL) {
		m := map[string]any{}
		h := s.HSL
		for _, b := range h.Bands() {
			if near(b.Band.Hue, 0) && near(b.Band.Saturation, 0) && near(b.Band.Luminance, 0) {
				continue
			}
			m[b.Name] = map[string]any{
				"hue":        b.Band.Hue,
				"saturation": b.Band.Saturation,
				"luminance":  b.Band.Luminance,
			}
		}
		p["hsl"] = m
	}
	if !GroupEqual(s, def, GroupSplitToning) {
		p["splitToning"] = map[string]any{
			"shadowHue":    s.SplitToning.ShadowHue,
			"shadowSat":    s.SplitToning.ShadowSaturation,
			"highlightHue": s.SplitToning.HighlightHue,
			"highlightSat": s.SplitToning.HighlightSaturation,
			"balance":      s.SplitToning.Balance,
		}
	}
	if !near(s.Detail.SharpenAmount, 0) || !near(s.Detail.SharpenRadius, 1) || !near(s.Detail.SharpenThreshold, 0) {
		p["sharpen"] = map[string]any{
			"amount":    s.Detail.SharpenAmount,
			"radius":    s.Detail.SharpenRadius,
			"threshold": s.Detail.SharpenThreshold,
		}
	}
	if !near(s.Detail.Clarity, 0) {
		p["clarity"] = map[string]any{"amount": s.Detail.Clarity}
	}
	if !near(s.Detail.Dehaze, 0) {
		p["dehaze"] = map[string]any{"amount": s.Detail.Dehaze}
	}
	if !near(s.Detail.DenoiseLuminance, 0) || !near(s.Detail.DenoiseColor, 0) {
		p["denoise"] = map[string]any{
			"luminance": s.Detail.DenoiseLuminance,
			"color":     s.Detail.DenoiseColor,
		}
	}
	if !GroupEqual(s, def, GroupGrain) {
		p["grain"] = map[string]any{
			"amount": s.Grain.Amount,
			"size":   string(s.Grain.Size),
		}
	}
	if !GroupEqual(s, def, GroupVignette) {
		p["vignette"] = map[string]any{
			"amount":    s.Vignette.Amount,
			"midpoint":  s.Vignette.Midpoint,
			"roundness": s.Vignette.Roundness,
			"feather":   s.Vignette.Feather,
		}
	}
	if !near(s.Geometry.Vertical, 0) || !near(s.Geometry.Horizontal, 0) ||
		s.Geometry.FlipVertical || s.Geometry.FlipHorizontal {
		p["geometry"] = map[string]any{
			"vertical":       s.Geometry.Vertical,
			"horizontal":     s.Geometry.Horizontal,
			"flipVertical":   s.Geometry.FlipVertical,
			"flipHorizontal": s.Geometry.FlipHorizontal,
		}
	}
	if !near(s.Geometry.DistortionK1, 0) || !near(s.Geometry.DistortionK2, 0) {
		p["distortion"] = map[string]any{
			"k1": s.Geometry.DistortionK1,
			"k2": s.Geometry.DistortionK2,
		}
	}
	return p
}

// PayloadJSON marshals the sparse payload. "No edits" becomes "{}".
func PayloadJSON(s State) ([]byte, error) {
	return json.Marshal(ToPayload(s))
}

func pointsPayload(pts []curve.Point) []any {
	out := make([]any, len(pts))
	for i, p := range pts {
		out[i] = map[string]any{"x": p.X, "y": p.Y}
	}
	return out
}
