/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "fmt"

// LastPanelError is returned when deleting the sole remaining panel. The
// sequence must never become empty, so the operation is aborted and state is
// left unchanged.
type LastPanelError struct {
	ID PanelID
}

func (e *LastPanelError) Error() string {
	return fmt.Sprintf("panel %d is the last panel and cannot be deleted", e.ID)
}

// ExportDecodeError aborts a composite export: a generated image failed to
// decode, and a corrupt composite is worse than no composite.
type ExportDecodeError struct {
	PanelID PanelID
	AssetID string
	Err     error
}

func (e *ExportDecodeError) Error() string {
	return fmt.Sprintf("decode asset %s for panel %d: %v", e.AssetID, e.PanelID, e.Err)
}

func (e *ExportDecodeError) Unwrap() error { return e.Err }
