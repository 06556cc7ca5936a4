/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package workspace

import (
	"errors"
	"testing"

	"webtoonstudio/internal/domain"
)

func TestSequenceStartsNonEmpty(t *testing.T) {
	s := NewSequence(0)
	if s.Len() != 1 {
		t.Fatalf("sequence must hold at least one panel, got %d", s.Len())
	}
	s = NewSequence(3)
	got := s.Panels()
	if len(got) != 3 {
		t.Fatalf("want 3 panels, got %d", len(got))
	}
	for i, p := range got {
		if int(p.ID) != i+1 {
			t.Fatalf("panel %d has id %d", i, p.ID)
		}
	}
	if got[0].Label != "s1" || got[2].Label != "s3" {
		t.Fatalf("labels wrong: %v %v", got[0].Label, got[2].Label)
	}
}

func TestIDsAndLabelsNeverReused(t *testing.T) {
	s := NewSequence(3) // s1 s2 s3
	if err := s.Delete(2); err != nil {
		t.Fatalf("delete s2: %v", err)
	}
	p := s.Add()
	if p.Label != "s4" {
		t.Fatalf("label after deletion: got %q, want s4", p.Label)
	}
	if p.ID != 4 {
		t.Fatalf("id after deletion: got %d, want 4", p.ID)
	}

	// Deleting the current maximum must not roll the counters back either.
	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("delete s4: %v", err)
	}
	p = s.Add()
	if p.ID != 5 || p.Label != "s5" {
		t.Fatalf("counters rolled back: id=%d label=%q", p.ID, p.Label)
	}
}

func TestMonotonicAcrossMixedOperations(t *testing.T) {
	s := NewSequence(1)
	seenIDs := map[domain.PanelID]bool{1: true}
	lastID := domain.PanelID(1)
	for i := 0; i < 20; i++ {
		p := s.Add()
		if p.ID <= lastID {
			t.Fatalf("id %d not strictly increasing after %d", p.ID, lastID)
		}
		if seenIDs[p.ID] {
			t.Fatalf("id %d reused", p.ID)
		}
		seenIDs[p.ID] = true
		lastID = p.ID
		if i%3 == 0 {
			if err := s.Delete(p.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
		}
	}
}

func TestDeleteLastPanelFails(t *testing.T) {
	s := NewSequence(1)
	p := s.Panels()[0]
	err := s.Delete(p.ID)
	var lpe *domain.LastPanelError
	if !errors.As(err, &lpe) {
		t.Fatalf("want LastPanelError, got %v", err)
	}
	if s.Len() != 1 || s.Panels()[0].ID != p.ID {
		t.Fatalf("sequence changed by failed delete")
	}
}

func TestDeleteKeepsRemainingLabels(t *testing.T) {
	s := NewSequence(3)
	if err := s.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got := s.Panels()
	if got[0].Label != "s2" || got[1].Label != "s3" {
		t.Fatalf("remaining panels relabeled: %+v", got)
	}
}

func TestAttachGeneratedOverwrites(t *testing.T) {
	s := NewSequence(2)
	if err := s.AttachGenerated(1, "g1"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := s.AttachGenerated(1, "g2"); err != nil {
		t.Fatalf("re-attach: %v", err)
	}
	p, ok := s.Get(1)
	if !ok || p.GeneratedAssetID != "g2" {
		t.Fatalf("panel shows %q, want most recent g2", p.GeneratedAssetID)
	}
	if other, _ := s.Get(2); other.HasImage() {
		t.Fatalf("attach leaked to another panel")
	}
}

func TestAttachGeneratedUnknownPanel(t *testing.T) {
	s := NewSequence(1)
	if err := s.AttachGenerated(99, "g1"); err == nil {
		t.Fatalf("want error for unknown panel")
	}
}
