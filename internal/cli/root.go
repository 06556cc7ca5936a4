/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package cli wires the commands: the interactive editor, headless rendering,
// and key management.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"webtoonstudio/internal/config"
	"webtoonstudio/internal/generate"
	applog "webtoonstudio/internal/log"
	"webtoonstudio/internal/version"
	"webtoonstudio/internal/workspace"
)

var (
	appCfg       config.AppConfig
	apiKey       string
	flagAsset    string // asset manifest path
	flagOut      string // export output directory
	flagLogLevel string
	flagLogFile  string
)

var rootCmd = &cobra.Command{
	Use:           "webtoonstudio",
	Short:         "Webtoon Studio - panel-based webtoon authoring",
	Long:          "Webtoon Studio composes webtoon strips panel by panel:\ndescribe each panel, reference earlier panels and uploads with @mentions,\nand export the finished strip as a single vertical image.",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := applog.FromEnv()
		if flagLogLevel != "" {
			opts.Level = flagLogLevel
		}
		if flagLogFile != "" {
			opts.File = flagLogFile
		}
		applog.Init(opts)
		var err error
		appCfg, apiKey, err = config.Load()
		if err != nil {
			return err
		}
		applog.WithComponent("cli").Debug("config loaded",
			slog.String("model", appCfg.Generation.Model),
			slog.Bool("api_key", apiKey != ""),
		)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		applog.WithComponent("cli").Error("command failed", slog.Any("err", err))
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAsset, "assets", "", "asset manifest (JSON) of images to preload")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", ".", "directory for exported files")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write rotated JSON logs to this file")
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(versionCmd)
}

// newSession builds the sequence, store, and orchestrator shared by the
// interactive and headless paths, preloading the asset manifest when given.
func newSession(panels int) (*workspace.Sequence, *workspace.Store, *generate.Orchestrator, error) {
	seq := workspace.NewSequence(panels)
	store := workspace.NewStore()
	if flagAsset != "" {
		ids, err := workspace.LoadManifest(flagAsset, store)
		if err != nil {
			return nil, nil, nil, err
		}
		applog.WithComponent("cli").Info("assets loaded", slog.Int("count", len(ids)))
	}
	client := generate.NewGeminiClient(
		appCfg.Generation.BaseURL,
		appCfg.Generation.Model,
		apiKey,
		time.Duration(appCfg.Generation.TimeoutMs)*time.Millisecond,
	)
	return seq, store, generate.New(seq, store, client), nil
}
