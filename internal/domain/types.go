/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "time"

// This file defines the core data model for the webtoon editor: the panel
// sequence entries, the asset library records, and the ephemeral draft-level
// types (attachments, suggestions) that connect the two.

// PanelID identifies a panel. IDs are allocated monotonically and never
// reused, even after deletion.
type PanelID int

// Panel is one ordered cell of the narrative. Label carries the user-visible
// name ("s1", "s2", ...); its numeric suffix is allocated independently of
// the id. GeneratedAssetID is empty until the first generation completes and
// afterwards always points at the panel's most recent result.
type Panel struct {
	ID               PanelID
	Label            string
	GeneratedAssetID string
}

// HasImage reports whether the panel currently shows a generated asset.
func (p Panel) HasImage() bool { return p.GeneratedAssetID != "" }

// AssetOrigin distinguishes uploaded reference images from generated results.
type AssetOrigin int

const (
	OriginUploaded AssetOrigin = iota
	OriginGenerated
)

func (o AssetOrigin) String() string {
	if o == OriginGenerated {
		return "generated"
	}
	return "uploaded"
}

// Asset is an immutable image record. Data is the encoded payload; it is
// never mutated after creation, only referenced.
type Asset struct {
	ID       string
	Origin   AssetOrigin
	MimeType string
	Data     []byte
}

// AttachmentKind tags the two reference variants a draft may carry.
type AttachmentKind int

const (
	// AttachPanel references another panel's current generated image.
	AttachPanel AttachmentKind = iota
	// AttachAsset references an uploaded library image.
	AttachAsset
)

// Attachment is a typed reference embedded in a pending prompt. It exists
// only inside a draft and is consumed at submission time. Exactly one of
// PanelID / AssetID is meaningful, selected by Kind.
type Attachment struct {
	Kind    AttachmentKind
	PanelID PanelID
	AssetID string
	Label   string
}

// Suggestion is an autocomplete candidate derived per keystroke from the
// current sequence and store. It is never persisted.
type Suggestion struct {
	Kind    AttachmentKind
	PanelID PanelID
	AssetID string
	Label   string
}

// Attachment converts an accepted suggestion into the draft attachment it
// stands for.
func (s Suggestion) Attachment() Attachment {
	return Attachment{Kind: s.Kind, PanelID: s.PanelID, AssetID: s.AssetID, Label: s.Label}
}

// GenerationResult records the outcome of one submitted prompt. Immutable
// after creation; appended to the requesting panel's message log.
type GenerationResult struct {
	PanelID         PanelID
	Prompt          string
	ContextAssetIDs []string
	AssetID         string // the generated asset, or the placeholder on failure
	Failed          bool
	Reason          string // failure reason, empty on success
	Display         string
	At              time.Time
}
