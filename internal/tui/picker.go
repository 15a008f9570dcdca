// Package tui provides the Bubble Tea picker panel for choosing a recent
// file, with an optional preview of the highlighted entry.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oxidrome/frecent/internal/window"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	symbolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	previewBorder = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// previewBytes bounds how much of a highlighted file is read for the
// preview pane.
const previewBytes = 16 * 1024

// Picker is the Bubble Tea model for the recent-files panel.
type Picker struct {
	entries []window.PanelEntry
	folders []string
	mgr     *window.Manager
	now     int64
	preview bool

	cursor  int
	width   int
	height  int
	ready   bool
	vp      viewport.Model
	choice  string
}

func newPicker(mgr *window.Manager, entries []window.PanelEntry, folders []string, preview bool, now int64) Picker {
	return Picker{
		entries: entries,
		folders: folders,
		mgr:     mgr,
		now:     now,
		preview: preview,
	}
}

// Choice returns the selected path, or "" when the picker was cancelled
// or the selection turned out to no longer exist.
func (p Picker) Choice() string { return p.choice }

// ── Bubble Tea interface ───────────────

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "ctrl+c":
			// Cancelled: leave history untouched and restore the host.
			p.choice = ""
			return p, tea.Quit

		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
				p.refreshPreview()
			}
			return p, nil

		case "down", "j":
			if p.cursor < len(p.entries)-1 {
				p.cursor++
				p.refreshPreview()
			}
			return p, nil

		case "enter":
			if len(p.entries) == 0 {
				return p, tea.Quit
			}
			path := p.entries[p.cursor].Path
			// The file may have vanished mid-session; a dead selection is
			// queued for removal and the open is skipped.
			if p.mgr.CheckPath(path) {
				p.choice = path
			}
			return p, tea.Quit
		}

	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.ready = true
		p.vp = viewport.New(p.width, p.previewHeight())
		p.refreshPreview()
		return p, nil
	}

	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return p, cmd
}

func (p Picker) View() string {
	if !p.ready {
		return "Loading…"
	}

	title := titleStyle.Width(p.width).Render("  frecent  recent files")

	var rows strings.Builder
	if len(p.entries) == 0 {
		rows.WriteString(dimStyle.Render("  (no history yet)") + "\n")
	}
	first, last := p.visibleRange()
	for i := first; i < last; i++ {
		pe := p.entries[i]
		line := fmt.Sprintf(" %s %s",
			symbolStyle.Render(Symbol(pe.IsOpen, pe.WithinFolders)),
			ShortenPath(pe.Path, p.folders),
		)
		sub := "   " + Subtitle(pe.Entry, pe.ScoreFrac, p.now)
		if i == p.cursor {
			rows.WriteString(selectedRowStyle.Width(p.width).Render(line) + "\n")
			rows.WriteString(selectedRowStyle.Width(p.width).Render(dimStyle.Render(sub)) + "\n")
		} else {
			rows.WriteString(line + "\n")
			rows.WriteString(dimStyle.Render(sub) + "\n")
		}
	}

	var previewPane string
	if p.preview {
		border := previewBorder.Render(strings.Repeat("─", max(p.width, 1)))
		previewPane = border + "\n" + p.vp.View()
	}

	hint := "  ↑/↓ move  enter open  esc cancel"
	statusBar := statusBarStyle.Width(p.width).Render(hint)

	if previewPane != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title, rows.String(), previewPane, statusBar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, rows.String(), statusBar)
}

// ── Layout helpers ───────────────

// listHeight is how many entry rows (two lines each) fit above the
// preview pane and the fixed chrome.
func (p Picker) listHeight() int {
	h := p.height - 2 // title + status bar
	if p.preview {
		h -= p.previewHeight() + 1 // pane + border
	}
	rows := h / 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (p Picker) previewHeight() int {
	h := p.height / 3
	if h < 3 {
		h = 3
	}
	return h
}

// visibleRange keeps the cursor inside the rendered window of entries.
func (p Picker) visibleRange() (int, int) {
	n := p.listHeight()
	first := 0
	if p.cursor >= n {
		first = p.cursor - n + 1
	}
	last := first + n
	if last > len(p.entries) {
		last = len(p.entries)
	}
	return first, last
}

// refreshPreview loads the head of the highlighted file into the preview
// pane. A missing file is queued for removal and previews as a notice.
func (p *Picker) refreshPreview() {
	if !p.preview || !p.ready || len(p.entries) == 0 {
		return
	}
	path := p.entries[p.cursor].Path
	if !p.mgr.CheckPath(path) {
		p.vp.SetContent(dimStyle.Render("  file no longer exists"))
		return
	}
	f, err := os.Open(path)
	if err != nil {
		p.vp.SetContent(dimStyle.Render("  cannot read file"))
		return
	}
	defer f.Close()

	buf := make([]byte, previewBytes)
	n, _ := f.Read(buf)
	p.vp.SetContent(string(buf[:n]))
	p.vp.GotoTop()
}

// Run shows the picker for the given listing and returns the chosen path,
// or "" on cancellation. Visit recording is suppressed for the panel's
// lifetime, and any dead paths discovered while previewing are flushed
// once the panel closes.
func Run(mgr *window.Manager, entries []window.PanelEntry, folders []string, preview bool, now int64) (string, error) {
	mgr.SetSelectorActive(true)
	defer mgr.SetSelectorActive(false)
	defer mgr.FlushRemovals()

	prog := tea.NewProgram(newPicker(mgr, entries, folders, preview, now), tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		return "", err
	}
	picker, ok := final.(Picker)
	if !ok {
		return "", nil
	}
	return picker.Choice(), nil
}
