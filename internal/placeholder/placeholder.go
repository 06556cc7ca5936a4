/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package placeholder synthesizes the deterministic fallback image shown when
// generation fails or no content exists yet. Given the same caption and
// dimensions the output bytes are identical, which both the orchestrator's
// failure path and the export path rely on.
package placeholder

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultCaption is the generic no-content caption.
const DefaultCaption = "Generated Image"

const (
	lineHeight   = 35 // fixed caption line height in px
	wrapInset    = 40 // caption lines must stay within width-40
	borderWidth  = 4
	borderInset  = 2
	footerLabel  = "AI Generated"
	footerOffset = 30 // label distance above the bottom edge
)

// Gradient stops of the diagonal background.
var (
	stopA = color.RGBA{R: 0xff, G: 0x9a, B: 0x9e, A: 0xff}
	stopB = color.RGBA{R: 0xfa, G: 0xd0, B: 0xc4, A: 0xff}
	stopC = color.RGBA{R: 0xa1, G: 0xc4, B: 0xfd, A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

var face = basicfont.Face7x13

// Render draws the placeholder: gradient background, white border stroke
// inset by 2px, the caption word-wrapped and vertically centered, and the
// fixed footer label near the bottom.
func Render(caption string, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillGradient(img)
	strokeBorder(img)

	lines := WrapCaption(caption, width-wrapInset)
	startY := (height - len(lines)*lineHeight) / 2
	for i, line := range lines {
		drawCentered(img, line, startY+i*lineHeight+lineHeight/2)
	}
	drawCentered(img, footerLabel, height-footerOffset)
	return img
}

// RenderPNG encodes the placeholder as PNG bytes.
func RenderPNG(caption string, width, height int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(caption, width, height)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WrapCaption breaks the caption greedily: words accumulate into a line while
// the measured width of line+word stays within maxWidth; on overflow the line
// is committed and the word starts the next one. The final partial line is
// always committed, even when it renders empty.
func WrapCaption(caption string, maxWidth int) []string {
	words := splitWords(caption)
	line := ""
	var lines []string
	for i, w := range words {
		test := line + w + " "
		if MeasureLine(test) > maxWidth && i > 0 {
			lines = append(lines, line)
			line = w + " "
		} else {
			line = test
		}
	}
	return append(lines, line)
}

// MeasureLine returns the rendered pixel width of s.
func MeasureLine(s string) int {
	return font.MeasureString(face, s).Ceil()
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	return words
}

// fillGradient paints the three-stop diagonal gradient.
func fillGradient(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	span := w + h - 2
	if span < 1 {
		span = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x+y) / float64(span)
			img.SetRGBA(x, y, gradientAt(t))
		}
	}
}

func gradientAt(t float64) color.RGBA {
	if t <= 0.5 {
		return lerp(stopA, stopB, t*2)
	}
	return lerp(stopB, stopC, (t-0.5)*2)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// strokeBorder draws the fixed white frame: a 4px stroke centered on the
// rectangle inset by 2px, which covers the outermost 4 pixels on every side.
func strokeBorder(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	band := borderInset + borderWidth/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < band || x >= w-band || y < band || y >= h-band {
				img.SetRGBA(x, y, white)
			}
		}
	}
}

// drawCentered draws one line horizontally centered with its vertical middle
// at centerY.
func drawCentered(img *image.RGBA, line string, centerY int) {
	b := img.Bounds()
	width := MeasureLine(line)
	x := (b.Dx() - width) / 2
	m := face.Metrics()
	baseline := centerY + (m.Ascent.Ceil()-m.Descent.Ceil())/2
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(white),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(line)
}
