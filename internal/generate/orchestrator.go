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
	"sync"
	"time"

	"webtoonstudio/internal/domain"
	applog "webtoonstudio/internal/log"
	"webtoonstudio/internal/placeholder"
	"webtoonstudio/internal/telemetry"
	"webtoonstudio/internal/workspace"
)

// Draft is the pending message being composed for a panel: free text plus the
// attachments accepted from mention suggestions. It is cleared after an
// accepted submit.
type Draft struct {
	Text        string
	Attachments []domain.Attachment
}

// Blank reports whether the draft carries neither text nor attachments.
func (d *Draft) Blank() bool {
	return strings.TrimSpace(d.Text) == "" && len(d.Attachments) == 0
}

// Orchestrator drives the per-panel Idle → Generating → Idle state machine.
// At most one generation is in flight per panel; different panels run
// independently and each completion touches only its own panel.
type Orchestrator struct {
	seq    *workspace.Sequence
	store  *workspace.Store
	client Client
	log    *slog.Logger

	mu       sync.Mutex
	inflight map[domain.PanelID]bool
	results  map[domain.PanelID][]domain.GenerationResult
}

// New creates an orchestrator over the session's sequence and store.
func New(seq *workspace.Sequence, store *workspace.Store, client Client) *Orchestrator {
	return &Orchestrator{
		seq:      seq,
		store:    store,
		client:   client,
		log:      applog.WithComponent("generate"),
		inflight: map[domain.PanelID]bool{},
		results:  map[domain.PanelID][]domain.GenerationResult{},
	}
}

// InFlight reports whether the panel is currently Generating.
func (o *Orchestrator) InFlight(id domain.PanelID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inflight[id]
}

// Results returns a copy of the panel's message log.
func (o *Orchestrator) Results(id domain.PanelID) []domain.GenerationResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	rs := o.results[id]
	out := make([]domain.GenerationResult, len(rs))
	copy(out, rs)
	return out
}

// Submit runs one generation for the panel. The request is accepted only when
// the panel exists, is idle, and the draft is non-blank; otherwise it is
// dropped silently and nothing changes. On acceptance the external call is
// made exactly once; failure is recovered by attaching a placeholder image so
// the panel never ends up blank or stuck. The draft is cleared after an
// accepted submit regardless of outcome.
func (o *Orchestrator) Submit(ctx context.Context, panelID domain.PanelID, draft *Draft) (*domain.GenerationResult, bool) {
	if _, ok := o.seq.Get(panelID); !ok {
		return nil, false
	}
	if draft == nil || draft.Blank() {
		return nil, false
	}

	o.mu.Lock()
	if o.inflight[panelID] {
		o.mu.Unlock()
		return nil, false
	}
	o.inflight[panelID] = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.inflight, panelID)
		o.mu.Unlock()
	}()

	prompt := strings.TrimSpace(draft.Text)
	contextImages, contextIDs := o.resolveAttachments(draft.Attachments)
	l := applog.WithOperation(o.log, "submit").With(
		slog.Int("panel", int(panelID)),
		slog.Int("context_images", len(contextImages)),
	)

	result := domain.GenerationResult{
		PanelID:         panelID,
		Prompt:          prompt,
		ContextAssetIDs: contextIDs,
		At:              time.Now(),
	}

	resp, err := o.client.Generate(ctx, Request{
		Prompt:  prompt,
		Context: contextImages,
		Width:   TargetWidth,
		Height:  TargetHeight,
	})
	if err != nil {
		caption := "Error: " + err.Error()
		data, perr := placeholder.RenderPNG(caption, TargetWidth, TargetHeight)
		if perr != nil {
			l.Error("placeholder render failed", slog.Any("err", perr))
		}
		asset := o.store.AddGenerated("image/png", data)
		result.AssetID = asset.ID
		result.Failed = true
		result.Reason = err.Error()
		result.Display = caption
		l.Warn("generation failed, placeholder attached", slog.Any("err", err), slog.String("asset", asset.ID))
		telemetry.Event("generate.failure", map[string]any{"panel": int(panelID)})
	} else {
		asset := o.store.AddGenerated(resp.MimeType, resp.Data)
		result.AssetID = asset.ID
		result.Display = "Generated image: " + prompt
		l.Info("generated", slog.String("asset", asset.ID), slog.String("mime", resp.MimeType))
		telemetry.Event("generate.success", map[string]any{"panel": int(panelID)})
	}

	if err := o.seq.AttachGenerated(panelID, result.AssetID); err != nil {
		// Panel was deleted while generating; keep the log entry only.
		l.Warn("attach skipped", slog.Any("err", err))
	}

	o.mu.Lock()
	o.results[panelID] = append(o.results[panelID], result)
	o.mu.Unlock()

	draft.Text = ""
	draft.Attachments = nil
	return &result, true
}

// resolveAttachments maps the draft's attachments to image bytes in order.
// A panel reference without a generated asset contributes nothing; missing
// context is omitted, not an error.
func (o *Orchestrator) resolveAttachments(atts []domain.Attachment) ([]ContextImage, []string) {
	var images []ContextImage
	var ids []string
	for _, att := range atts {
		var assetID string
		switch att.Kind {
		case domain.AttachPanel:
			p, ok := o.seq.Get(att.PanelID)
			if !ok || !p.HasImage() {
				continue
			}
			assetID = p.GeneratedAssetID
		case domain.AttachAsset:
			assetID = att.AssetID
		}
		a, ok := o.store.Get(assetID)
		if !ok {
			continue
		}
		images = append(images, ContextImage{MimeType: a.MimeType, Data: a.Data})
		ids = append(ids, a.ID)
	}
	return images, ids
}
