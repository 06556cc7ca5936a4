/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export stitches the panel sequence into publishable artifacts: a
// single vertical webtoon strip as PNG, or one page per panel as PDF.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // decoder for generated JPEG assets
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"webtoonstudio/internal/domain"
	applog "webtoonstudio/internal/log"
	"webtoonstudio/internal/telemetry"
	"webtoonstudio/internal/workspace"
)

// Every panel occupies one fixed-size cell; panels are stacked strictly in
// sequence order with no gaps.
const (
	PanelWidth  = 1200
	PanelHeight = 3000
)

// OutputFileName is the composite file written by ExportPNG.
const OutputFileName = "webtoon.png"

var (
	emptyCellFill  = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	emptyCellLabel = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// ComposeImage renders the full strip in memory. The output is a deterministic
// function of the sequence and the referenced assets: same inputs, same
// pixels. A panel whose generated image fails to decode aborts the whole
// export with a *domain.ExportDecodeError; partial strips are never produced.
func ComposeImage(seq *workspace.Sequence, store *workspace.Store) (*image.RGBA, error) {
	panels := seq.Panels()
	out := image.NewRGBA(image.Rect(0, 0, PanelWidth, PanelHeight*len(panels)))
	for i, p := range panels {
		cell, err := renderPanel(p, store)
		if err != nil {
			return nil, err
		}
		xdraw.Draw(out, image.Rect(0, i*PanelHeight, PanelWidth, (i+1)*PanelHeight), cell, image.Point{}, xdraw.Src)
	}
	return out, nil
}

// renderPanel produces one cell: the panel's generated image stretched to the
// cell size, or a flat labeled slab when the panel has no image yet.
func renderPanel(p domain.Panel, store *workspace.Store) (*image.RGBA, error) {
	cell := image.NewRGBA(image.Rect(0, 0, PanelWidth, PanelHeight))
	if !p.HasImage() {
		xdraw.Draw(cell, cell.Bounds(), image.NewUniform(emptyCellFill), image.Point{}, xdraw.Src)
		drawLabel(cell, fmt.Sprintf("Panel %s", p.Label))
		return cell, nil
	}

	asset, ok := store.Get(p.GeneratedAssetID)
	if !ok {
		return nil, &domain.ExportDecodeError{
			PanelID: p.ID,
			AssetID: p.GeneratedAssetID,
			Err:     fmt.Errorf("asset not found"),
		}
	}
	src, _, err := image.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		return nil, &domain.ExportDecodeError{PanelID: p.ID, AssetID: asset.ID, Err: err}
	}
	// Stretch to fill; aspect ratio is the generator's concern, not ours.
	xdraw.CatmullRom.Scale(cell, cell.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return cell, nil
}

func drawLabel(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	b := img.Bounds()
	x := b.Min.X + (b.Dx()-width)/2
	y := b.Min.Y + b.Dy()/2 + (face.Metrics().Ascent.Ceil()-face.Metrics().Descent.Ceil())/2
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(emptyCellLabel),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// ExportPNG writes the composite strip to dir and returns the full path.
func ExportPNG(seq *workspace.Sequence, store *workspace.Store, dir string) (string, error) {
	l := applog.WithOperation(applog.WithComponent("export"), "png")
	img, err := ComposeImage(seq, store)
	if err != nil {
		l.Error("compose failed", slog.Any("err", err))
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, OutputFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	l.Info("strip written", slog.String("path", path), slog.Int("panels", seq.Len()))
	telemetry.Event("export.png", map[string]any{"panels": seq.Len()})
	return path, nil
}
