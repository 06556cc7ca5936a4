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
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"webtoonstudio/internal/domain"
	"webtoonstudio/internal/workspace"
)

func encodePNG(t *testing.T, c color.RGBA, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestComposeImageStacksPanelsInOrder(t *testing.T) {
	seq := workspace.NewSequence(2)
	store := workspace.NewStore()
	panels := seq.Panels()

	red := color.RGBA{R: 200, A: 255}
	blue := color.RGBA{B: 200, A: 255}
	a1 := store.AddGenerated("image/png", encodePNG(t, red, 3, 5))
	a2 := store.AddGenerated("image/png", encodePNG(t, blue, 3, 5))
	if err := seq.AttachGenerated(panels[0].ID, a1.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := seq.AttachGenerated(panels[1].ID, a2.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	img, err := ComposeImage(seq, store)
	if err != nil {
		t.Fatalf("ComposeImage: %v", err)
	}
	if got := img.Bounds(); got.Dx() != PanelWidth || got.Dy() != 2*PanelHeight {
		t.Fatalf("unexpected bounds: %v", got)
	}

	// First cell red, second cell blue; sample well inside each cell since
	// the scaler softens edges.
	if c := img.RGBAAt(PanelWidth/2, PanelHeight/2); c.R < 150 || c.B > 50 {
		t.Fatalf("first cell not red: %+v", c)
	}
	if c := img.RGBAAt(PanelWidth/2, PanelHeight+PanelHeight/2); c.B < 150 || c.R > 50 {
		t.Fatalf("second cell not blue: %+v", c)
	}
}

func TestComposeImageIsDeterministic(t *testing.T) {
	seq := workspace.NewSequence(1)
	store := workspace.NewStore()
	a := store.AddGenerated("image/png", encodePNG(t, color.RGBA{G: 180, A: 255}, 4, 4))
	if err := seq.AttachGenerated(seq.Panels()[0].ID, a.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	first, err := ComposeImage(seq, store)
	if err != nil {
		t.Fatalf("ComposeImage: %v", err)
	}
	second, err := ComposeImage(seq, store)
	if err != nil {
		t.Fatalf("ComposeImage: %v", err)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatalf("same inputs produced different pixels")
	}
}

func TestComposeImageEmptyPanelCell(t *testing.T) {
	seq := workspace.NewSequence(1)
	store := workspace.NewStore()

	img, err := ComposeImage(seq, store)
	if err != nil {
		t.Fatalf("ComposeImage: %v", err)
	}
	if c := img.RGBAAt(10, 10); c != emptyCellFill {
		t.Fatalf("empty cell corner not flat fill: %+v", c)
	}
	// The label row contains dark pixels somewhere near the vertical center.
	found := false
	for y := PanelHeight/2 - 15; y < PanelHeight/2+15 && !found; y++ {
		for x := 0; x < PanelWidth; x++ {
			if img.RGBAAt(x, y) == emptyCellLabel {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("no label pixels in empty cell")
	}
}

func TestComposeImageAbortsOnBadAsset(t *testing.T) {
	seq := workspace.NewSequence(2)
	store := workspace.NewStore()
	panels := seq.Panels()
	bad := store.AddGenerated("image/png", []byte("not an image"))
	if err := seq.AttachGenerated(panels[1].ID, bad.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	_, err := ComposeImage(seq, store)
	var dErr *domain.ExportDecodeError
	if !errors.As(err, &dErr) {
		t.Fatalf("expected ExportDecodeError, got %v", err)
	}
	if dErr.PanelID != panels[1].ID || dErr.AssetID != bad.ID {
		t.Fatalf("error names wrong panel/asset: %+v", dErr)
	}
}

func TestExportPNGWritesFile(t *testing.T) {
	seq := workspace.NewSequence(1)
	store := workspace.NewStore()
	dir := t.TempDir()

	path, err := ExportPNG(seq, store, dir)
	if err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	if path != filepath.Join(dir, OutputFileName) {
		t.Fatalf("unexpected path: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
	if cfg.Width != PanelWidth || cfg.Height != PanelHeight {
		t.Fatalf("unexpected output size: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestExportPNGDecodeFailureWritesNothing(t *testing.T) {
	seq := workspace.NewSequence(1)
	store := workspace.NewStore()
	bad := store.AddGenerated("image/png", []byte("garbage"))
	if err := seq.AttachGenerated(seq.Panels()[0].ID, bad.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	dir := t.TempDir()

	if _, err := ExportPNG(seq, store, dir); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := os.Stat(filepath.Join(dir, OutputFileName)); !os.IsNotExist(err) {
		t.Fatalf("partial output left behind")
	}
}

func TestExportPDFWritesOnePagePerPanel(t *testing.T) {
	seq := workspace.NewSequence(2)
	store := workspace.NewStore()
	a := store.AddGenerated("image/png", encodePNG(t, color.RGBA{R: 99, A: 255}, 2, 2))
	if err := seq.AttachGenerated(seq.Panels()[0].ID, a.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	dir := t.TempDir()

	path, err := ExportPDF(seq, store, dir)
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if bytes.Count(b, []byte("/Page")) < 2 {
		t.Fatalf("expected at least two page objects")
	}
}
