/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package workspace holds the in-memory session state of the editor: the
// ordered panel sequence and the asset library. Nothing here touches disk;
// a session's state lives and dies with the process.
package workspace

import (
	"fmt"
	"sync"

	"webtoonstudio/internal/domain"
)

// Sequence is the ordered collection of panels. It owns id and label
// allocation: both come from monotonic counters that survive deletions, so
// deleting panel s2 and adding a new one yields s4 when s3 was the prior
// maximum, never s2 again.
type Sequence struct {
	mu       sync.Mutex
	panels   []domain.Panel
	nextID   domain.PanelID
	nextSuff int
}

// NewSequence returns a sequence seeded with n initial panels (at least one;
// the sequence is never empty).
func NewSequence(n int) *Sequence {
	if n < 1 {
		n = 1
	}
	s := &Sequence{nextID: 1, nextSuff: 1}
	for i := 0; i < n; i++ {
		s.Add()
	}
	return s
}

// Add appends a new empty panel at the end and returns it. There is no
// reordering operation; sequence order is creation order minus deletions.
func (s *Sequence) Add() domain.Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.Panel{
		ID:    s.nextID,
		Label: fmt.Sprintf("s%d", s.nextSuff),
	}
	s.nextID++
	s.nextSuff++
	s.panels = append(s.panels, p)
	return p
}

// Delete removes the panel with the given id. Deleting the sole remaining
// panel fails with LastPanelError and leaves the sequence unchanged; no
// remaining panel is renumbered or relabeled.
func (s *Sequence) Delete(id domain.PanelID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.panels) == 1 {
		return &domain.LastPanelError{ID: id}
	}
	for i := range s.panels {
		if s.panels[i].ID == id {
			s.panels = append(s.panels[:i], s.panels[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("panel %d not found", id)
}

// AttachGenerated sets the panel's generated asset id, overwriting any prior
// value: a panel only ever shows its most recent generation.
func (s *Sequence) AttachGenerated(id domain.PanelID, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.panels {
		if s.panels[i].ID == id {
			s.panels[i].GeneratedAssetID = assetID
			return nil
		}
	}
	return fmt.Errorf("panel %d not found", id)
}

// Get returns the panel with the given id.
func (s *Sequence) Get(id domain.PanelID) (domain.Panel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.panels {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Panel{}, false
}

// Panels returns a copy of the sequence in order.
func (s *Sequence) Panels() []domain.Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Panel, len(s.panels))
	copy(out, s.panels)
	return out
}

// Len returns the number of panels.
func (s *Sequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.panels)
}
