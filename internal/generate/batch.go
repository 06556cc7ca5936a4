/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package generate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	applog "webtoonstudio/internal/log"
	"webtoonstudio/internal/mention"
	"webtoonstudio/internal/workspace"
)

// DefaultBatchInterval spaces out generation calls in headless runs so the
// external service is not hammered.
const DefaultBatchInterval = 3 * time.Second

// RunBatch generates one panel per script line, rate-limited. Each line may
// carry @tokens which are resolved to attachments exactly like interactive
// acceptance; lines run strictly one at a time in script order, so a line
// referencing an earlier panel sees that panel's generated image. Blank lines
// are skipped. Panels are created up front so sequence order matches script
// order.
func RunBatch(ctx context.Context, o *Orchestrator, seq *workspace.Sequence, store *workspace.Store, lines []string, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultBatchInterval
	}
	l := applog.WithOperation(applog.WithComponent("generate"), "batch")

	var prompts []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			prompts = append(prompts, line)
		}
	}
	if len(prompts) == 0 {
		return nil
	}

	// Panels first: ids and labels must follow script order.
	panels := seq.Panels()
	for len(panels) < len(prompts) {
		panels = append(panels, seq.Add())
	}

	resolver := mention.NewResolver(seq, store)
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	l.Info("batch started", slog.Int("panels", len(prompts)), slog.String("interval", interval.String()))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(1)
	for i, prompt := range prompts {
		prompt := prompt
		panel := panels[i]
		eg.Go(func() error {
			if err := limiter.Wait(egCtx); err != nil {
				return err
			}
			// Extracted here, not up front: a @token naming an earlier
			// panel must see that panel's finished image.
			text, atts := resolver.ExtractAttachments(prompt)
			draft := &Draft{Text: text, Attachments: atts}
			if _, ok := o.Submit(egCtx, panel.ID, draft); !ok {
				l.Warn("submit dropped", slog.Int("panel", int(panel.ID)))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	l.Info("batch finished", slog.Int("panels", len(prompts)))
	return nil
}
