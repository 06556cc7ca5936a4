/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"webtoonstudio/internal/crash"
	"webtoonstudio/internal/export"
	"webtoonstudio/internal/generate"
)

var (
	renderScript   string
	renderInterval time.Duration
	renderPDF      bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Generate a strip headlessly from a script file",
	Long:  "Reads a script file with one panel description per line, generates\nevery panel, and exports the composite strip. Lines may contain @tokens\nreferencing earlier panels (s1, s2, ...) or preloaded uploads (c1, c2, ...).",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer crash.Recover(flagOut)
		if renderScript == "" {
			return fmt.Errorf("--script is required")
		}
		data, err := os.ReadFile(renderScript)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

		seq, store, orch, err := newSession(1)
		if err != nil {
			return err
		}
		if err := generate.RunBatch(cmd.Context(), orch, seq, store, lines, renderInterval); err != nil {
			return err
		}

		path, err := export.ExportPNG(seq, store, flagOut)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		if renderPDF {
			pdfPath, err := export.ExportPDF(seq, store, flagOut)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pdfPath)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderScript, "script", "", "script file, one panel description per line")
	renderCmd.Flags().DurationVar(&renderInterval, "interval", generate.DefaultBatchInterval, "minimum spacing between generation calls")
	renderCmd.Flags().BoolVar(&renderPDF, "pdf", false, "also export a one-page-per-panel PDF")
}
