/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package workspace

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "hero.png"))
	writeTestPNG(t, filepath.Join(dir, "villain.png"))
	manifest := `{"images":[{"path":"hero.png"},{"path":"villain.png"},{"path":"notes.txt"}]}`
	mpath := filepath.Join(dir, "assets.json")
	if err := os.WriteFile(mpath, []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	st := NewStore()
	added, err := LoadManifest(mpath, st)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	// notes.txt is off-whitelist and skipped, not an error
	if len(added) != 2 {
		t.Fatalf("added %v, want 2 image assets", added)
	}
	if added[0] != "c1" || added[1] != "c2" {
		t.Fatalf("ids %v", added)
	}
}

func TestLoadManifestSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	mpath := filepath.Join(dir, "assets.json")
	if err := os.WriteFile(mpath, []byte(`{"images":[{"mimeType":"image/png"}]}`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := LoadManifest(mpath, NewStore()); err == nil {
		t.Fatalf("schema violation must fail")
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	dir := t.TempDir()
	mpath := filepath.Join(dir, "assets.json")
	if err := os.WriteFile(mpath, []byte(`{"images":[{"path":"ghost.png"}]}`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := LoadManifest(mpath, NewStore()); err == nil {
		t.Fatalf("missing image file must fail")
	}
}

func TestMimeFromExt(t *testing.T) {
	if mimeFromExt("a/b.JPG") != "image/jpeg" || mimeFromExt("x.png") != "image/png" {
		t.Fatalf("extension mapping wrong")
	}
	if mimeFromExt("x.gif") != "" {
		t.Fatalf("gif must not map")
	}
}
