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
	"github.com/spf13/cobra"

	"webtoonstudio/internal/crash"
	"webtoonstudio/internal/ui"
)

var editPanels int

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the interactive editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer crash.Recover(flagOut)
		seq, store, orch, err := newSession(editPanels)
		if err != nil {
			return err
		}
		return ui.Run(cmd.Context(), seq, store, orch, flagOut)
	},
}

func init() {
	editCmd.Flags().IntVar(&editPanels, "panels", 2, "number of panels to start with")
}
