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
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

// SheetItem is one cell of a contact sheet.
type SheetItem struct {
	Image   image.Image
	Caption string
}

// SheetOptions controls the contact-sheet grid.
type SheetOptions struct {
	// Columns per page/row; 4 when zero.
	Columns int
	// ThumbEdge is the thumbnail bounding square in pixels for image
	// sheets; 320 when zero. PDF sheets derive cell size from the page.
	ThumbEdge int
	Title     string
}

func (o SheetOptions) columns() int {
	if o.Columns <= 0 {
		return 4
	}
	return o.Columns
}

func (o SheetOptions) thumbEdge() int {
	if o.ThumbEdge <= 0 {
		return 320
	}
	return o.ThumbEdge
}

// WriteContactSheet renders items as a captioned thumbnail grid at
// outPath. PDF sheets may span multiple pages; image sheets are a single
// grid image in the job's sheet format.
func WriteContactSheet(outPath string, items []SheetItem, s Settings, opt SheetOptions) error {
	if len(items) == 0 {
		return fmt.Errorf("contact sheet: no items")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if s.SheetFormat == SheetPDF {
		return writeSheetPDF(outPath, items, opt)
	}
	img := BuildContactSheetImage(items, opt)
	enc := s
	if s.SheetFormat == SheetTIFF {
		enc.Format = FormatTIFF
	} else {
		enc.Format = FormatJPEG
	}
	enc.SizeMode = SizeOriginal
	return WriteImage(outPath, img, enc)
}

// BuildContactSheetImage composes the grid for the raster sheet formats.
// Each cell is a ThumbEdge square with the thumbnail fitted and centered;
// captions are dropped in raster sheets, the filenames live in the PDF
// variant.
func BuildContactSheetImage(items []SheetItem, opt SheetOptions) image.Image {
	cols := opt.columns()
	edge := opt.thumbEdge()
	rows := (len(items) + cols - 1) / cols

	pad := edge / 16
	cell := edge + pad
	sheet := imaging.New(cols*cell+pad, rows*cell+pad, color.NRGBA{R: 245, G: 245, B: 245, A: 255})
	for i, item := range items {
		thumb := imaging.Fit(item.Image, edge, edge, imaging.Lanczos)
		col := i % cols
		row := i / cols
		x := pad + col*cell + (edge-thumb.Bounds().Dx())/2
		y := pad + row*cell + (edge-thumb.Bounds().Dy())/2
		sheet = imaging.Paste(sheet, thumb, image.Pt(x, y))
	}
	return sheet
}

// writeSheetPDF lays the grid out on A4 pages, one caption line per cell.
func writeSheetPDF(outPath string, items []SheetItem, opt SheetOptions) error {
	const (
		pageW   = 210.0 // A4, mm
		pageH   = 297.0
		margin  = 12.0
		caption = 5.0
		gap     = 4.0
	)
	cols := opt.columns()
	cellW := (pageW - 2*margin - float64(cols-1)*gap) / float64(cols)
	cellH := cellW + caption
	rowsPerPage := int((pageH - 2*margin + gap) / (cellH + gap))
	if rowsPerPage < 1 {
		rowsPerPage = 1
	}
	perPage := rowsPerPage * cols

	pdf := gofpdf.New("P", "mm", "A4", "")
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, false)
	}
	pdf.SetFont("Helvetica", "", 7)

	for i, item := range items {
		if i%perPage == 0 {
			pdf.AddPage()
		}
		slot := i % perPage
		col := slot % cols
		row := slot / cols
		x := margin + float64(col)*(cellW+gap)
		y := margin + float64(row)*(cellH+gap)

		// gofpdf reads registered images; thumbnails go in as JPEG blobs.
		thumb := imaging.Fit(item.Image, 640, 640, imaging.Lanczos)
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
			return fmt.Errorf("thumbnail %d: %w", i, err)
		}
		name := fmt.Sprintf("thumb-%d", i)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "JPEG"}, &buf)

		tw := float64(thumb.Bounds().Dx())
		th := float64(thumb.Bounds().Dy())
		w, h := cellW, cellW*th/tw
		if h > cellW {
			h = cellW
			w = cellW * tw / th
		}
		pdf.ImageOptions(name, x+(cellW-w)/2, y+(cellW-h)/2, w, h, false, gofpdf.ImageOptions{ImageType: "JPEG"}, 0, "")
		if item.Caption != "" {
			pdf.Text(x, y+cellW+caption-1, item.Caption)
		}
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
