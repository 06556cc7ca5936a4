/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title         lipgloss.Style
	panelRow      lipgloss.Style
	panelSelected lipgloss.Style
	message       lipgloss.Style
	errMessage    lipgloss.Style
	popup         lipgloss.Style
	popupItem     lipgloss.Style
	popupSelected lipgloss.Style
	textarea      lipgloss.Style
	generating    lipgloss.Style
	footer        lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AD8CFF")).
			Bold(true).
			Padding(0, 1),

		panelRow: lipgloss.NewStyle().
			Padding(0, 1),

		panelSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6B8")).
			Bold(true).
			Padding(0, 1),

		message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Padding(0, 1),

		errMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5C5C")).
			Padding(0, 1),

		popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#AD8CFF")),

		popupItem: lipgloss.NewStyle().
			Padding(0, 1),

		popupSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6B8")).
			Bold(true).
			Padding(0, 1),

		textarea: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#AD8CFF")),

		generating: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")),

		footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")).
			Faint(true),
	}
}
