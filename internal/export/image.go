/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

// ResizeForExport applies the job's size mode: with SizeResize the longer
// edge is scaled down to LongEdge, keeping aspect. Images already within
// the target are returned unchanged; export never upscales.
func ResizeForExport(img image.Image, s Settings) image.Image {
	if s.SizeMode != SizeResize || s.LongEdge <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	long := w
	if h > w {
		long = h
	}
	if long <= s.LongEdge {
		return img
	}
	if w >= h {
		return imaging.Resize(img, s.LongEdge, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, s.LongEdge, imaging.Lanczos)
}

// Encode writes img to w in the job's output format.
func Encode(w io.Writer, img image.Image, s Settings) error {
	switch s.Format {
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(s.JPEGQuality))
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatTIFF:
		// Deflate keeps archival TIFFs to a sane size.
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("unknown format: %s", s.Format)
	}
}

// Extension returns the filename extension for the job's format.
func Extension(s Settings) string {
	switch s.Format {
	case FormatTIFF:
		return ".tif"
	case FormatPNG:
		return ".png"
	default:
		return ".jpg"
	}
}

// WriteImage resizes and encodes img to outPath, creating the directory
// if needed.
func WriteImage(outPath string, img image.Image, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Encode(f, ResizeForExport(img, s), s); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", s.Format, err)
	}
	return f.Close()
}
