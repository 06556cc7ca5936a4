/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package placeholder

import (
	"bytes"
	"strings"
	"testing"
)

func TestWrapCaptionRespectsMaxWidth(t *testing.T) {
	caption := "Error: the generation service timed out while waiting for an upstream response"
	lines := WrapCaption(caption, 400-wrapInset)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %d line(s)", len(lines))
	}
	for i, line := range lines {
		// The first word of a line may exceed the limit on its own; committed
		// continuation lines never do.
		if i > 0 && len(strings.Fields(line)) > 1 && MeasureLine(line) > 400-wrapInset {
			t.Fatalf("line %d too wide: %q = %dpx", i, line, MeasureLine(line))
		}
	}
}

func TestWrapCaptionShortTextSingleLine(t *testing.T) {
	lines := WrapCaption("Error: timeout", 360)
	if len(lines) != 1 {
		t.Fatalf("short caption wrapped: %v", lines)
	}
	if MeasureLine(lines[0]) > 360 {
		t.Fatalf("line wider than limit: %d", MeasureLine(lines[0]))
	}
}

func TestWrapCaptionEmptyCommitsFinalLine(t *testing.T) {
	lines := WrapCaption("", 360)
	if len(lines) != 1 || lines[0] != "" {
		t.Fatalf("empty caption must still commit one line: %q", lines)
	}
}

func TestRenderDeterministic(t *testing.T) {
	a, err := RenderPNG("Error: timeout", 400, 300)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b, err := RenderPNG("Error: timeout", 400, 300)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("same inputs produced different bytes")
	}
	c, err := RenderPNG("Error: other", 400, 300)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatalf("different captions produced identical bytes")
	}
}

func TestRenderBorderAndGradient(t *testing.T) {
	img := Render(DefaultCaption, 200, 100)
	// border band is white on all edges
	for _, pt := range [][2]int{{0, 0}, {199, 0}, {0, 99}, {199, 99}, {3, 50}} {
		r, g, b, _ := img.At(pt[0], pt[1]).RGBA()
		if r != 0xffff || g != 0xffff || b != 0xffff {
			t.Fatalf("border pixel %v not white", pt)
		}
	}
	// inside the border the diagonal gradient varies from the warm stop to
	// the cool stop
	tl := img.RGBAAt(10, 10)
	br := img.RGBAAt(189, 89)
	if tl == br {
		t.Fatalf("gradient is flat: %v == %v", tl, br)
	}
	if tl.R < tl.B {
		t.Fatalf("top-left should lean red: %v", tl)
	}
	if br.B < br.R {
		t.Fatalf("bottom-right should lean blue: %v", br)
	}
}

func TestRenderBlockVerticallyCentered(t *testing.T) {
	// Single-line caption at 400x300: the block is 35px tall, so text pixels
	// must stay near the vertical middle (and the footer near the bottom).
	img := Render("Error: timeout", 400, 300)
	midRowHasText := false
	for x := 50; x < 350; x++ {
		c := img.RGBAAt(x, 150)
		if c == white {
			midRowHasText = true
			break
		}
	}
	if !midRowHasText {
		t.Fatalf("no caption pixels found around the vertical center")
	}
}
