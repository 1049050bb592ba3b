/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export holds the export job settings and the output writers:
// single-image encoding with optional long-edge resizing, and a
// contact-sheet builder (grid of captioned thumbnails) as PDF or image.
package export

import (
	"errors"
	"strings"
)

// Format is the output image format.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatTIFF Format = "tiff"
	FormatPNG  Format = "png"
)

// RawHandling selects what to export for raw assets.
type RawHandling string

const (
	// RawOriginal copies the raw file untouched.
	RawOriginal RawHandling = "raw"
	// RawDeveloped renders the adjusted image.
	RawDeveloped RawHandling = "developed"
)

// SizeMode selects output dimensions.
type SizeMode string

const (
	SizeOriginal SizeMode = "original"
	SizeResize   SizeMode = "resize"
)

// SheetFormat is the contact-sheet output format.
type SheetFormat string

const (
	SheetJPEG SheetFormat = "jpeg"
	SheetTIFF SheetFormat = "tiff"
	SheetPDF  SheetFormat = "pdf"
)

// Long-edge and quality bounds.
const (
	MinLongEdge = 32
	MaxLongEdge = 50000

	MinJPEGQuality     = 10
	MaxJPEGQuality     = 100
	DefaultJPEGQuality = 90
)

// ErrResizeNeedsLongEdge is the one validation failure an export job can
// have; every other questionable value falls back to a default instead.
var ErrResizeNeedsLongEdge = errors.New("export: resize mode requires a long edge")

// Settings describes one export job.
type Settings struct {
	Format      Format      `json:"format" yaml:"format"`
	RawHandling RawHandling `json:"rawHandling" yaml:"raw_handling"`
	SizeMode    SizeMode    `json:"sizeMode" yaml:"size_mode"`
	// LongEdge is the target length of the longer output edge in pixels.
	// Only meaningful with SizeResize; 0 means unset.
	LongEdge    int `json:"longEdge" yaml:"long_edge"`
	JPEGQuality int `json:"jpegQuality" yaml:"jpeg_quality"`

	ContactSheet bool        `json:"contactSheet" yaml:"contact_sheet"`
	SheetFormat  SheetFormat `json:"sheetFormat" yaml:"sheet_format"`
}

// DefaultSettings returns the stock export job.
func DefaultSettings() Settings {
	return Settings{
		Format:       FormatJPEG,
		RawHandling:  RawDeveloped,
		SizeMode:     SizeOriginal,
		LongEdge:     0,
		JPEGQuality:  DefaultJPEGQuality,
		ContactSheet: false,
		SheetFormat:  SheetPDF,
	}
}

// Normalize repairs a settings value in place of rejecting it: unknown
// enums fall back to their defaults and numeric fields are clamped into
// range. A zero LongEdge stays zero so Validate can flag it.
func Normalize(s Settings) Settings {
	switch Format(strings.ToLower(string(s.Format))) {
	case FormatJPEG, FormatTIFF, FormatPNG:
		s.Format = Format(strings.ToLower(string(s.Format)))
	default:
		s.Format = FormatJPEG
	}
	switch RawHandling(strings.ToLower(string(s.RawHandling))) {
	case RawOriginal, RawDeveloped:
		s.RawHandling = RawHandling(strings.ToLower(string(s.RawHandling)))
	default:
		s.RawHandling = RawDeveloped
	}
	switch SizeMode(strings.ToLower(string(s.SizeMode))) {
	case SizeOriginal, SizeResize:
		s.SizeMode = SizeMode(strings.ToLower(string(s.SizeMode)))
	default:
		s.SizeMode = SizeOriginal
	}
	switch SheetFormat(strings.ToLower(string(s.SheetFormat))) {
	case SheetJPEG, SheetTIFF, SheetPDF:
		s.SheetFormat = SheetFormat(strings.ToLower(string(s.SheetFormat)))
	default:
		s.SheetFormat = SheetPDF
	}
	if s.LongEdge != 0 {
		if s.LongEdge < MinLongEdge {
			s.LongEdge = MinLongEdge
		}
		if s.LongEdge > MaxLongEdge {
			s.LongEdge = MaxLongEdge
		}
	}
	if s.JPEGQuality < MinJPEGQuality || s.JPEGQuality > MaxJPEGQuality {
		s.JPEGQuality = DefaultJPEGQuality
	}
	return s
}

// Validate reports whether a normalized settings value describes a
// runnable job.
func Validate(s Settings) error {
	if s.SizeMode == SizeResize && s.LongEdge == 0 {
		return ErrResizeNeedsLongEdge
	}
	return nil
}
