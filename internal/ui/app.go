/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui is the interactive editor: a panel strip, a per-panel prompt
// box with @mention autocomplete, and one-key export.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"webtoonstudio/internal/domain"
	"webtoonstudio/internal/export"
	"webtoonstudio/internal/generate"
	"webtoonstudio/internal/mention"
	"webtoonstudio/internal/workspace"
)

type generateDoneMsg struct {
	panelID domain.PanelID
	result  *domain.GenerationResult
	ok      bool
	draft   *generate.Draft // the submitted snapshot, for restore on reject
}

type exportDoneMsg struct {
	path string
	err  error
}

// Model is the bubbletea model for the editor session. One draft lives per
// panel; switching panels switches drafts without losing text.
type Model struct {
	ctx      context.Context
	seq      *workspace.Sequence
	store    *workspace.Store
	orch     *generate.Orchestrator
	resolver *mention.Resolver
	exports  string // output directory for ctrl+e

	drafts   map[domain.PanelID]*generate.Draft
	selected int // index into seq.Panels()

	suggest  mention.State
	textarea textarea.Model
	spinner  spinner.Model
	status   string
	width    int
	height   int
	style    styles
}

// NewModel builds the editor over an existing session.
func NewModel(ctx context.Context, seq *workspace.Sequence, store *workspace.Store, orch *generate.Orchestrator, exportDir string) *Model {
	ta := textarea.New()
	ta.Placeholder = "Describe this panel... use @ to reference panels and uploads"
	ta.Focus()
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	st := newStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = st.generating

	return &Model{
		ctx:      ctx,
		seq:      seq,
		store:    store,
		orch:     orch,
		resolver: mention.NewResolver(seq, store),
		exports:  exportDir,
		drafts:   map[domain.PanelID]*generate.Draft{},
		textarea: ta,
		spinner:  sp,
		style:    st,
	}
}

func (m *Model) Init() tea.Cmd { return textarea.Blink }

// current returns the selected panel. The sequence is never empty, so the
// clamp always lands on a real panel.
func (m *Model) current() domain.Panel {
	panels := m.seq.Panels()
	if m.selected >= len(panels) {
		m.selected = len(panels) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	return panels[m.selected]
}

func (m *Model) draft(id domain.PanelID) *generate.Draft {
	d, ok := m.drafts[id]
	if !ok {
		d = &generate.Draft{}
		m.drafts[id] = d
	}
	return d
}

// caret returns the byte offset of the cursor within the textarea value.
// Line() indexes logical lines; the cursor's rune index within the line is
// the soft-wrapped row's start column plus the character offset. Counting in
// runes first keeps the offset off rune boundaries in non-ASCII drafts.
func (m *Model) caret() int {
	lines := strings.Split(m.textarea.Value(), "\n")
	row := m.textarea.Line()
	off := 0
	for i := 0; i < row && i < len(lines); i++ {
		off += len(lines[i]) + 1
	}
	if row >= len(lines) {
		return off
	}
	info := m.textarea.LineInfo()
	col := info.StartColumn + info.CharOffset
	runes := []rune(lines[row])
	if col > len(runes) {
		col = len(runes)
	}
	return off + len(string(runes[:col]))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textarea.SetWidth(m.width - 4)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.generatingAny() {
			return m, cmd
		}
		return m, nil

	case generateDoneMsg:
		if msg.ok && msg.result != nil {
			if msg.result.Failed {
				m.status = msg.result.Display
			} else {
				m.status = fmt.Sprintf("panel updated: %s", msg.result.AssetID)
			}
			return m, nil
		}
		// Rejected (panel busy or deleted): put the text back so it is not
		// lost, unless something new was typed for that panel meanwhile.
		if msg.draft != nil {
			if cur := m.draft(msg.panelID); cur.Blank() {
				*cur = *msg.draft
				if msg.panelID == m.current().ID && m.textarea.Value() == "" {
					m.textarea.SetValue(cur.Text)
					m.textarea.CursorEnd()
				}
			}
		}
		m.status = "submit dropped"
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+n":
		p := m.seq.Add()
		m.selected = m.seq.Len() - 1
		m.loadDraft(p.ID)
		m.status = "added panel " + p.Label
		return m, nil

	case "ctrl+d":
		p := m.current()
		m.saveDraft(p.ID)
		if err := m.seq.Delete(p.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		delete(m.drafts, p.ID)
		m.current() // reclamp
		m.loadDraft(m.current().ID)
		m.status = "deleted panel " + p.Label
		return m, nil

	case "ctrl+e":
		return m, m.exportCmd()

	case "ctrl+p":
		return m, m.exportPDFCmd()

	case "shift+tab":
		if m.suggest.Active() {
			m.suggest.Prev()
			return m, nil
		}
		m.selectPanel(m.selected - 1)
		return m, nil

	case "tab":
		if m.suggest.Active() {
			m.acceptCurrent()
			return m, nil
		}
		m.selectPanel(m.selected + 1)
		return m, nil

	case "up":
		if m.suggest.Active() {
			m.suggest.Prev()
			return m, nil
		}

	case "down":
		if m.suggest.Active() {
			m.suggest.Next()
			return m, nil
		}

	case "esc":
		if m.suggest.Active() {
			m.suggest.Hide()
			return m, nil
		}
		return m, nil

	case "enter":
		if m.suggest.Active() {
			m.acceptCurrent()
			return m, nil
		}
		return m, m.submitCmd()
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m *Model) selectPanel(i int) {
	panels := m.seq.Panels()
	if i < 0 || i >= len(panels) {
		return
	}
	m.saveDraft(m.current().ID)
	m.selected = i
	m.loadDraft(panels[i].ID)
	m.suggest.Hide()
}

func (m *Model) saveDraft(id domain.PanelID) {
	m.draft(id).Text = m.textarea.Value()
}

func (m *Model) loadDraft(id domain.PanelID) {
	m.textarea.SetValue(m.draft(id).Text)
	m.textarea.CursorEnd()
	m.suggest.Hide()
}

// refreshSuggestions recomputes the popup from the text around the caret.
// Called after every edit; the popup state is derived, never stored.
func (m *Model) refreshSuggestions() {
	items := m.resolver.Suggest(m.textarea.Value(), m.caret())
	m.suggest.Update(items)
}

// acceptCurrent splices the highlighted suggestion into the draft.
func (m *Model) acceptCurrent() {
	s, ok := m.suggest.Current()
	if !ok {
		return
	}
	text, att, ok := mention.Accept(m.textarea.Value(), m.caret(), s)
	if !ok {
		m.suggest.Hide()
		return
	}
	d := m.draft(m.current().ID)
	d.Attachments = append(d.Attachments, att)
	m.textarea.SetValue(text)
	m.textarea.CursorEnd()
	m.suggest.Hide()
}

func (m *Model) generatingAny() bool {
	for _, p := range m.seq.Panels() {
		if m.orch.InFlight(p.ID) {
			return true
		}
	}
	return false
}

// submitCmd hands the draft to the orchestrator off the UI goroutine. The
// command goroutine gets a snapshot copy: the live draft stays owned by the
// update goroutine, which clears it here before the command starts. The
// orchestrator rejects a second submit for a generating panel on its own;
// the UI just reflects whatever it decides.
func (m *Model) submitCmd() tea.Cmd {
	p := m.current()
	m.saveDraft(p.ID)
	d := m.draft(p.ID)
	if d.Blank() {
		return nil
	}
	snap := &generate.Draft{
		Text:        d.Text,
		Attachments: append([]domain.Attachment(nil), d.Attachments...),
	}
	d.Text = ""
	d.Attachments = nil
	m.textarea.Reset()
	m.suggest.Hide()
	m.status = "generating " + p.Label + "..."
	gen := func() tea.Msg {
		res, ok := m.orch.Submit(m.ctx, p.ID, snap)
		return generateDoneMsg{panelID: p.ID, result: res, ok: ok, draft: snap}
	}
	return tea.Batch(m.spinner.Tick, gen)
}

func (m *Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		path, err := export.ExportPNG(m.seq, m.store, m.exports)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *Model) exportPDFCmd() tea.Cmd {
	return func() tea.Msg {
		path, err := export.ExportPDF(m.seq, m.store, m.exports)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.style.title.Render("Webtoon Studio"))
	b.WriteString("\n")
	b.WriteString(m.viewStrip())
	b.WriteString("\n")
	b.WriteString(m.viewLog())
	if m.suggest.Active() {
		b.WriteString("\n")
		b.WriteString(m.viewPopup())
	}
	b.WriteString("\n")
	b.WriteString(m.style.textarea.Render(m.textarea.View()))
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m *Model) viewStrip() string {
	var rows []string
	cur := m.current()
	for _, p := range m.seq.Panels() {
		marker := "·"
		if p.HasImage() {
			marker = "■"
		}
		if m.orch.InFlight(p.ID) {
			marker = m.spinner.View()
		}
		row := fmt.Sprintf("%s %s", marker, p.Label)
		if p.ID == cur.ID {
			rows = append(rows, m.style.panelSelected.Render("> "+row))
		} else {
			rows = append(rows, m.style.panelRow.Render("  "+row))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) viewLog() string {
	results := m.orch.Results(m.current().ID)
	if len(results) == 0 {
		if m.status != "" {
			return m.style.message.Render(m.status)
		}
		return m.style.message.Render("no messages yet")
	}
	var rows []string
	start := 0
	if len(results) > 5 {
		start = len(results) - 5
	}
	for _, r := range results[start:] {
		if r.Failed {
			rows = append(rows, m.style.errMessage.Render(r.Display))
		} else {
			rows = append(rows, m.style.message.Render(r.Display))
		}
	}
	if m.status != "" {
		rows = append(rows, m.style.message.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) viewPopup() string {
	var rows []string
	for i, s := range m.suggest.Items {
		label := "@" + s.Label
		if i == m.suggest.Selected {
			rows = append(rows, m.style.popupSelected.Render(label))
		} else {
			rows = append(rows, m.style.popupItem.Render(label))
		}
	}
	return m.style.popup.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) viewFooter() string {
	help := "enter: generate | tab: accept/next panel | ctrl+n: add | ctrl+d: delete | ctrl+e: export png | ctrl+p: export pdf | ctrl+c: quit"
	return m.style.footer.Render(help)
}

// Run starts the editor and blocks until quit.
func Run(ctx context.Context, seq *workspace.Sequence, store *workspace.Store, orch *generate.Orchestrator, exportDir string) error {
	p := tea.NewProgram(NewModel(ctx, seq, store, orch, exportDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
