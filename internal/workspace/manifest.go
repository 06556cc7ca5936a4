/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package workspace

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	applog "webtoonstudio/internal/log"
)

// An asset manifest is the CLI's upload collaborator: a JSON file listing the
// reference images to load into the session library. Entries outside the
// image whitelist are skipped with a warning, mirroring the interactive
// picker's filtering.

// manifestSchema validates the manifest document before any file I/O.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["images"],
  "properties": {
    "images": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["path"],
        "properties": {
          "path": {"type": "string", "minLength": 1},
          "mimeType": {"type": "string"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// AssetManifest mirrors the manifest JSON document.
type AssetManifest struct {
	Images []ManifestImage `json:"images"`
}

// ManifestImage is one manifest entry. MimeType is optional; when empty it is
// derived from the file extension.
type ManifestImage struct {
	Path     string `json:"path"`
	MimeType string `json:"mimeType,omitempty"`
}

// LoadManifest validates and reads an asset manifest and feeds every
// whitelisted image into the store. Relative image paths are resolved against
// the manifest's directory. It returns the assets actually added.
func LoadManifest(path string, store *Store) ([]string, error) {
	l := applog.WithOperation(applog.WithComponent("workspace"), "load_manifest").With(
		slog.String("path", path),
	)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(manifestSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate manifest: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("manifest does not conform to schema: %s", strings.Join(msgs, "; "))
	}

	var m AssetManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	base := filepath.Dir(path)
	var added []string
	for _, img := range m.Images {
		p := img.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		mime := img.MimeType
		if mime == "" {
			mime = mimeFromExt(p)
		}
		if !AllowedMimeTypes[mime] {
			l.Warn("skipping non-image entry", slog.String("file", img.Path), slog.String("mime", mime))
			continue
		}
		bytes, err := os.ReadFile(p)
		if err != nil {
			return added, fmt.Errorf("read image %s: %w", img.Path, err)
		}
		a, err := store.AddUploaded(mime, bytes)
		if err != nil {
			return added, err
		}
		l.Info("uploaded", slog.String("id", a.ID), slog.String("file", img.Path))
		added = append(added, a.ID)
	}
	return added, nil
}

func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return ""
	}
}
