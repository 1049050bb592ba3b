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
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func testImage(w, h int) image.Image {
	return imaging.New(w, h, color.NRGBA{R: 128, G: 64, B: 32, A: 255})
}

func TestResizeForExportLongEdge(t *testing.T) {
	s := Normalize(Settings{SizeMode: "resize", LongEdge: 100, JPEGQuality: 90})

	out := ResizeForExport(testImage(400, 200), s)
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("landscape: got %dx%d, want 100x50", b.Dx(), b.Dy())
	}
	out = ResizeForExport(testImage(200, 400), s)
	if b := out.Bounds(); b.Dx() != 50 || b.Dy() != 100 {
		t.Fatalf("portrait: got %dx%d, want 50x100", b.Dx(), b.Dy())
	}
}

func TestResizeForExportNeverUpscales(t *testing.T) {
	s := Normalize(Settings{SizeMode: "resize", LongEdge: 1000, JPEGQuality: 90})
	out := ResizeForExport(testImage(400, 200), s)
	if b := out.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("small image must pass through, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestResizeForExportOriginalMode(t *testing.T) {
	s := DefaultSettings()
	out := ResizeForExport(testImage(400, 200), s)
	if b := out.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("original mode must pass through, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestWriteImageFormats(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []Format{FormatJPEG, FormatPNG, FormatTIFF} {
		s := DefaultSettings()
		s.Format = f
		out := filepath.Join(dir, "out"+Extension(s))
		if err := WriteImage(out, testImage(64, 48), s); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		fi, err := os.Stat(out)
		if err != nil || fi.Size() == 0 {
			t.Fatalf("%s: missing or empty output (%v)", f, err)
		}
	}
}

func TestWriteContactSheetPDF(t *testing.T) {
	dir := t.TempDir()
	items := []SheetItem{
		{Image: testImage(320, 240), Caption: "one.jpg"},
		{Image: testImage(240, 320), Caption: "two.jpg"},
		{Image: testImage(100, 100), Caption: "three.jpg"},
	}
	s := DefaultSettings()
	s.SheetFormat = SheetPDF
	out := filepath.Join(dir, "sheet.pdf")
	if err := WriteContactSheet(out, items, s, SheetOptions{Title: "contact sheet", Columns: 2}); err != nil {
		t.Fatalf("write sheet: %v", err)
	}
	fi, err := os.Stat(out)
	if err != nil || fi.Size() == 0 {
		t.Fatalf("missing or empty pdf (%v)", err)
	}
}

func TestContactSheetImageGrid(t *testing.T) {
	items := []SheetItem{
		{Image: testImage(320, 240)},
		{Image: testImage(320, 240)},
		{Image: testImage(320, 240)},
	}
	opt := SheetOptions{Columns: 2, ThumbEdge: 160}
	img := BuildContactSheetImage(items, opt)
	pad := 160 / 16
	cell := 160 + pad
	wantW := 2*cell + pad
	wantH := 2*cell + pad // three items on two rows
	if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Fatalf("grid size %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
}

func TestWriteContactSheetEmpty(t *testing.T) {
	if err := WriteContactSheet(filepath.Join(t.TempDir(), "s.pdf"), nil, DefaultSettings(), SheetOptions{}); err == nil {
		t.Fatalf("empty item list must fail")
	}
}
