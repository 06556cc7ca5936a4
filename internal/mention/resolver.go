/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package mention parses in-progress draft text for @name tokens and turns
// accepted suggestions into typed attachments.
package mention

import (
	"strings"

	"webtoonstudio/internal/domain"
	"webtoonstudio/internal/workspace"
)

// Token is the active mention token governing the caret.
type Token struct {
	Start int    // byte index of '@'
	End   int    // one past the token's last byte (next whitespace or end of text)
	Query string // text between '@' and the caret
}

// ActiveToken scans the draft for the token that should drive suggestions:
// the last '@' before the caret that sits at position 0 or immediately after
// whitespace, with no whitespace between it and the caret. An '@' inside a
// word never triggers. A bare '@' (empty query) yields no token.
func ActiveToken(text string, caret int) (Token, bool) {
	if caret > len(text) {
		caret = len(text)
	}
	at := -1
	for i := caret - 1; i >= 0; i-- {
		c := text[i]
		if isSpace(c) {
			break
		}
		if c == '@' && (i == 0 || isSpace(text[i-1])) {
			at = i
			break
		}
	}
	if at < 0 {
		return Token{}, false
	}
	query := text[at+1 : caret]
	if query == "" {
		return Token{}, false
	}
	end := at + 1
	for end < len(text) && !isSpace(text[end]) {
		end++
	}
	return Token{Start: at, End: end, Query: query}, true
}

// Resolver derives suggestions from the live sequence and store.
type Resolver struct {
	seq   *workspace.Sequence
	store *workspace.Store
}

func NewResolver(seq *workspace.Sequence, store *workspace.Store) *Resolver {
	return &Resolver{seq: seq, store: store}
}

// Suggest returns the ranked candidates for the draft's active token, or nil
// when no token is active. Panel matches come first in sequence order, then
// uploaded-asset matches in store order; there is no further scoring.
func (r *Resolver) Suggest(text string, caret int) []domain.Suggestion {
	tok, ok := ActiveToken(text, caret)
	if !ok {
		return nil
	}
	return r.rank(tok.Query)
}

func (r *Resolver) rank(query string) []domain.Suggestion {
	q := strings.ToLower(query)
	var out []domain.Suggestion
	for _, p := range r.seq.Panels() {
		if strings.Contains(strings.ToLower(p.Label), q) {
			out = append(out, domain.Suggestion{Kind: domain.AttachPanel, PanelID: p.ID, Label: p.Label})
		}
	}
	for _, a := range r.store.Uploaded() {
		if strings.Contains(strings.ToLower(a.ID), q) {
			out = append(out, domain.Suggestion{Kind: domain.AttachAsset, AssetID: a.ID, Label: a.ID})
		}
	}
	return out
}

// Accept removes the active token from the draft, normalizes the tail to a
// single trailing space, and returns the attachment the suggestion stands
// for. ok is false when no token is active (the draft is left alone).
func Accept(text string, caret int, s domain.Suggestion) (string, domain.Attachment, bool) {
	tok, found := ActiveToken(text, caret)
	if !found {
		return text, domain.Attachment{}, false
	}
	rest := text[:tok.Start] + text[tok.End:]
	rest = strings.TrimRight(rest, " ") + " "
	return rest, s.Attachment(), true
}

// ExtractAttachments resolves every @token in a headless script line the way
// interactive acceptance would, taking the top-ranked candidate per token.
// Tokens with no candidate are kept as literal text. Used by the batch
// renderer; the interactive path never calls this.
func (r *Resolver) ExtractAttachments(text string) (string, []domain.Attachment) {
	var atts []domain.Attachment
	var b strings.Builder
	prevSpace := true
	i := 0
	for i < len(text) {
		if text[i] == '@' && prevSpace {
			j := i + 1
			for j < len(text) && !isSpace(text[j]) {
				j++
			}
			if query := text[i+1 : j]; query != "" {
				if items := r.rank(query); len(items) > 0 {
					atts = append(atts, items[0].Attachment())
					i = j
					if i < len(text) && text[i] == ' ' {
						i++
					}
					prevSpace = true
					continue
				}
			}
		}
		b.WriteByte(text[i])
		prevSpace = isSpace(text[i])
		i++
	}
	return strings.TrimSpace(b.String()), atts
}

// State tracks the visible suggestion list and the highlighted entry.
// Navigation clamps at the bounds instead of wrapping.
type State struct {
	Items    []domain.Suggestion
	Selected int
}

// Update replaces the candidate list and resets the highlight.
func (st *State) Update(items []domain.Suggestion) {
	st.Items = items
	st.Selected = 0
}

// Hide clears the list without touching the draft.
func (st *State) Hide() {
	st.Items = nil
	st.Selected = 0
}

// Active reports whether any suggestions are showing.
func (st *State) Active() bool { return len(st.Items) > 0 }

// Next moves the highlight down; a no-op at the last entry.
func (st *State) Next() {
	if st.Selected < len(st.Items)-1 {
		st.Selected++
	}
}

// Prev moves the highlight up; a no-op at the first entry.
func (st *State) Prev() {
	if st.Selected > 0 {
		st.Selected--
	}
}

// Current returns the highlighted suggestion.
func (st *State) Current() (domain.Suggestion, bool) {
	if !st.Active() {
		return domain.Suggestion{}, false
	}
	if st.Selected >= len(st.Items) {
		st.Selected = len(st.Items) - 1
	}
	return st.Items[st.Selected], true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
