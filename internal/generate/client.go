/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package generate runs the panel-attachment-generation pipeline: resolving
// draft attachments to image bytes, invoking the external image-generation
// call exactly once per accepted submit, and recording the outcome.
package generate

import "context"

// ContextImage is one reference image passed alongside the prompt.
type ContextImage struct {
	MimeType string
	Data     []byte
}

// Request is the shape of the external generation call.
type Request struct {
	Prompt  string
	Context []ContextImage // order preserved from the draft's attachment list
	Width   int
	Height  int
}

// Response carries the generated image payload.
type Response struct {
	MimeType string
	Data     []byte
}

// Client is the external generation collaborator. A single attempt is made
// per request; timeouts and retries are the caller's business, and any error
// is handled uniformly by the orchestrator's placeholder fallback.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Target dimensions for every generation request; they match the export
// compositor's cell size so generated content and placeholders never need
// rescaling against each other.
const (
	TargetWidth  = 1200
	TargetHeight = 3000
)
