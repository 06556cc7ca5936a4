/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package workspace

import (
	"fmt"
	"sync"

	"webtoonstudio/internal/domain"
)

// AllowedMimeTypes is the fixed whitelist for uploaded reference images.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Store holds uploaded and generated assets as immutable records, addressed
// by id. Uploaded ids are "c1", "c2", ... in upload order; generated ids use
// their own "g<N>" counter so neither namespace disturbs the other.
type Store struct {
	mu        sync.Mutex
	assets    []domain.Asset
	byID      map[string]int
	uploadSeq int
	genSeq    int
}

// NewStore returns an empty asset store.
func NewStore() *Store {
	return &Store{byID: map[string]int{}}
}

// AddUploaded records a user-supplied image. The mime type must be on the
// whitelist; anything else is rejected.
func (s *Store) AddUploaded(mimeType string, data []byte) (domain.Asset, error) {
	if !AllowedMimeTypes[mimeType] {
		return domain.Asset{}, fmt.Errorf("unsupported image type %q (JPG and PNG only)", mimeType)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadSeq++
	a := domain.Asset{
		ID:       fmt.Sprintf("c%d", s.uploadSeq),
		Origin:   domain.OriginUploaded,
		MimeType: mimeType,
		Data:     data,
	}
	s.byID[a.ID] = len(s.assets)
	s.assets = append(s.assets, a)
	return a, nil
}

// AddGenerated records a generation result (or its failure placeholder).
// Only the orchestrator creates generated assets.
func (s *Store) AddGenerated(mimeType string, data []byte) domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genSeq++
	a := domain.Asset{
		ID:       fmt.Sprintf("g%d", s.genSeq),
		Origin:   domain.OriginGenerated,
		MimeType: mimeType,
		Data:     data,
	}
	s.byID[a.ID] = len(s.assets)
	s.assets = append(s.assets, a)
	return a
}

// Get returns the asset with the given id.
func (s *Store) Get(id string) (domain.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.Asset{}, false
	}
	return s.assets[i], true
}

// Uploaded returns the uploaded assets in store order. Generated assets are
// excluded; they never appear in suggestion lists.
func (s *Store) Uploaded() []domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Asset
	for _, a := range s.assets {
		if a.Origin == domain.OriginUploaded {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the total number of assets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}
