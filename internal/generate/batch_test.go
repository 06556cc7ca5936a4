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
	"fmt"
	"sync"
	"testing"
	"time"

	"webtoonstudio/internal/workspace"
)

func TestRunBatchGeneratesPerLine(t *testing.T) {
	seq := workspace.NewSequence(1)
	store := workspace.NewStore()
	cli := &fakeClient{resp: &Response{MimeType: "image/png", Data: []byte("img")}}
	o := New(seq, store, cli)

	lines := []string{
		"a hero on a cliff",
		"",
		"the same hero, closer @s1",
		"   ",
		"final panel",
	}
	if err := RunBatch(context.Background(), o, seq, store, lines, time.Millisecond); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	// Three non-blank lines, starting from the one seeded panel.
	panels := seq.Panels()
	if len(panels) != 3 {
		t.Fatalf("expected 3 panels, got %d", len(panels))
	}
	for _, p := range panels {
		if p.GeneratedAssetID == "" {
			t.Fatalf("panel %s has no generated image", p.Label)
		}
	}
	if cli.calls() != 3 {
		t.Fatalf("expected 3 generation calls, got %d", cli.calls())
	}
}

func TestRunBatchResolvesMentionsToContext(t *testing.T) {
	seq := workspace.NewSequence(1)
	store := workspace.NewStore()
	up, err := store.AddUploaded("image/png", []byte("ref"))
	if err != nil {
		t.Fatalf("AddUploaded: %v", err)
	}
	cli := &fakeClient{resp: &Response{MimeType: "image/png", Data: []byte("img")}}
	o := New(seq, store, cli)

	if err := RunBatch(context.Background(), o, seq, store, []string{"use @" + up.ID + " here"}, time.Millisecond); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if cli.calls() != 1 {
		t.Fatalf("expected one call, got %d", cli.calls())
	}
	req := cli.requests[0]
	if len(req.Context) != 1 || string(req.Context[0].Data) != "ref" {
		t.Fatalf("mention not resolved to context image: %+v", req.Context)
	}
	if req.Prompt != "use here" {
		t.Fatalf("token not stripped from prompt: %q", req.Prompt)
	}
}

// countingClient returns distinct bytes per call so tests can trace which
// generated image ended up where.
type countingClient struct {
	mu       sync.Mutex
	requests []Request
}

func (c *countingClient) Generate(ctx context.Context, req Request) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	return &Response{MimeType: "image/png", Data: []byte(fmt.Sprintf("img-%d", len(c.requests)))}, nil
}

// A line mentioning an earlier panel must receive that panel's generated
// image as context, which requires the earlier line to have finished first.
func TestRunBatchPanelMentionCarriesEarlierImage(t *testing.T) {
	seq := workspace.NewSequence(1)
	store := workspace.NewStore()
	cli := &countingClient{}
	o := New(seq, store, cli)

	lines := []string{
		"a hero on a cliff",
		"the same hero, closer @s1",
	}
	if err := RunBatch(context.Background(), o, seq, store, lines, time.Millisecond); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	cli.mu.Lock()
	defer cli.mu.Unlock()
	if len(cli.requests) != 2 {
		t.Fatalf("expected 2 generation calls, got %d", len(cli.requests))
	}
	first := cli.requests[0]
	second := cli.requests[1]
	if len(first.Context) != 0 {
		t.Fatalf("first line should have no context, got %d images", len(first.Context))
	}
	if len(second.Context) != 1 {
		t.Fatalf("@s1 line must carry the earlier panel's image, got %d context images", len(second.Context))
	}
	if string(second.Context[0].Data) != "img-1" {
		t.Fatalf("context is not panel s1's generated image: %q", second.Context[0].Data)
	}
	if second.Prompt != "the same hero, closer" {
		t.Fatalf("token not stripped: %q", second.Prompt)
	}
}

func TestRunBatchEmptyScriptIsNoop(t *testing.T) {
	seq := workspace.NewSequence(1)
	store := workspace.NewStore()
	cli := &fakeClient{}
	o := New(seq, store, cli)

	if err := RunBatch(context.Background(), o, seq, store, []string{"", "  "}, time.Millisecond); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if cli.calls() != 0 {
		t.Fatalf("expected no calls, got %d", cli.calls())
	}
	if seq.Len() != 1 {
		t.Fatalf("panel count changed: %d", seq.Len())
	}
}
