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
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	applog "webtoonstudio/internal/log"
	"webtoonstudio/internal/telemetry"
	"webtoonstudio/internal/workspace"
)

// PDFFileName is the file written by ExportPDF.
const PDFFileName = "webtoon.pdf"

// ExportPDF writes one page per panel, each page sized to the panel cell in
// points for a 1:1 mapping from pixels. Decode failures abort exactly like
// the PNG path.
func ExportPDF(seq *workspace.Sequence, store *workspace.Store, dir string) (string, error) {
	l := applog.WithOperation(applog.WithComponent("export"), "pdf")
	panels := seq.Panels()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(PanelWidth), Ht: float64(PanelHeight)},
		OrientationStr: "",
	})
	pdf.SetTitle("Webtoon", false)
	pdf.SetAuthor("Webtoon Studio", false)

	for i, p := range panels {
		cell, err := renderPanel(p, store)
		if err != nil {
			l.Error("compose failed", slog.Any("err", err))
			return "", err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, cell); err != nil {
			return "", fmt.Errorf("encode panel %s: %w", p.Label, err)
		}
		name := fmt.Sprintf("panel-%d", i)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: float64(PanelWidth), Ht: float64(PanelHeight)})
		pdf.ImageOptions(name, 0, 0, float64(PanelWidth), float64(PanelHeight), false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
	if pdf.Err() {
		return "", fmt.Errorf("assemble pdf: %s", pdf.Error())
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, PDFFileName)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	l.Info("pdf written", slog.String("path", path), slog.Int("pages", len(panels)))
	telemetry.Event("export.pdf", map[string]any{"panels": len(panels)})
	return path, nil
}
