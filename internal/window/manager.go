// Package window derives per-window views of the master history and
// funnels visit recording, panel listing, and periodic persistence
// through one state object.
package window

import (
	"os"
	"sort"
	"strings"

	"github.com/oxidrome/frecent/internal/config"
	"github.com/oxidrome/frecent/internal/frecency"
	"github.com/oxidrome/frecent/internal/history"
	"github.com/oxidrome/frecent/internal/logging"
)

// SaveEvery is how many recorded visits pass between history saves.
const SaveEvery = 50

// Host answers questions about the embedding application that the core
// cannot answer itself: which files a window has open, and which folders
// it is rooted in.
type Host interface {
	IsPathOpen(windowID, path string) bool
	WindowFolders(windowID string) []string
}

// Scope selects which history a panel listing draws from.
type Scope int

const (
	// ScopeWindow lists only entries relevant to one window.
	ScopeWindow Scope = iota
	// ScopeMaster lists the full cross-window history.
	ScopeMaster
)

// OpenFilter restricts a panel listing by whether the host currently has
// the path open.
type OpenFilter string

const (
	FilterOpened OpenFilter = "opened"
	FilterClosed OpenFilter = "closed"
	FilterBoth   OpenFilter = "both"
)

// ParseFilter maps host input to an OpenFilter, reporting whether the
// value was recognized. Unknown values fall back to FilterBoth.
func ParseFilter(s string) (OpenFilter, bool) {
	switch OpenFilter(s) {
	case FilterOpened, FilterClosed, FilterBoth:
		return OpenFilter(s), true
	}
	return FilterBoth, false
}

// PanelEntry is one ranked row handed to the presentation layer.
type PanelEntry struct {
	Path  string
	Entry *history.Entry
	Score float64
	// ScoreFrac is this entry's share of the total score of the listing.
	ScoreFrac float64
	// IsOpen reports whether the host currently has the path open.
	IsOpen bool
	// WithinFolders reports whether the path lies under one of the
	// window's root folders.
	WithinFolders bool
}

// Manager owns the master history, the per-window views over it, and the
// bookkeeping around them: the pending-removal set, the save countdown,
// and the reentrancy flag that blocks recording while the selector UI is
// up. All mutation must happen on one logical thread.
type Manager struct {
	master  *history.Store
	windows map[string]*history.Store
	host    Host
	cfg     config.Config
	lg      *logging.Logger

	// selectorActive blocks visit recording while the interactive panel
	// is iterating the history.
	selectorActive bool

	// pending holds paths discovered to no longer exist, removed in bulk
	// at the next flush rather than inline on hot paths.
	pending map[string]struct{}

	untilSave int

	// statPath is swappable in tests; defaults to an os.Stat probe.
	statPath func(string) bool
}

// NewManager wraps an already-loaded master history.
func NewManager(master *history.Store, host Host, cfg config.Config, lg *logging.Logger) *Manager {
	return &Manager{
		master:    master,
		windows:   make(map[string]*history.Store),
		host:      host,
		cfg:       cfg,
		lg:        lg,
		pending:   make(map[string]struct{}),
		untilSave: SaveEvery,
		statPath: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// Master exposes the global history.
func (m *Manager) Master() *history.Store {
	return m.master
}

// windowHistory returns the view for id, creating it lazily.
func (m *Manager) windowHistory(id string) *history.Store {
	wh, ok := m.windows[id]
	if !ok {
		wh = history.NewStore()
		m.windows[id] = wh
	}
	return wh
}

// OpenWindow populates the view for a newly opened window from two
// sources: master entries whose path lies under one of the window's
// folders, and the files the window already has open. The already-open
// files are recorded as visits, so they show up even when they live
// outside every configured folder.
func (m *Manager) OpenWindow(id string, folders, openPaths []string, now int64) {
	wh := m.windowHistory(id)

	m.master.Walk(func(path string, e *history.Entry) {
		for _, folder := range folders {
			if underFolder(path, folder) {
				wh.Put(path, e)
				return
			}
		}
	})
	m.lg.Debugf("populated window %q with %d master entries", id, wh.Len())

	for _, path := range openPaths {
		if _, ok := wh.Get(path); ok {
			continue
		}
		m.RecordVisit(id, path, now)
	}
}

// CloseWindow drops the view for id. The shared entries live on in the
// master history.
func (m *Manager) CloseWindow(id string) {
	delete(m.windows, id)
}

// RecordVisit records that path was viewed in the given window at time
// now. The recording is dropped silently while the selector UI is active,
// for empty paths, and for paths that no longer exist. Every SaveEvery
// recordings the master history is persisted.
func (m *Manager) RecordVisit(id, path string, now int64) {
	if m.selectorActive || path == "" || !m.statPath(path) {
		return
	}

	m.lg.Debugf("adding/updating %s", path)
	entry := m.master.RecordVisit(path, now)
	m.windowHistory(id).Put(path, entry)

	m.untilSave--
	if m.untilSave <= 0 {
		m.untilSave = SaveEvery
		m.lg.Debugf("saving...")
		m.SaveNow(now)
	}
}

// SaveNow flushes pending removals and persists the master history.
// Persistence failures are logged, never propagated: the worst outcome
// of a failed save is a stale recent-files list.
func (m *Manager) SaveNow(now int64) {
	m.FlushRemovals()
	if err := history.Save(m.cfg.HistoryPath, m.master, now, m.cfg.MaxEntries, m.lg); err != nil {
		m.lg.Debugf("save failed: %v", err)
	}
}

// CheckPath reports whether path still exists, queueing it for removal
// when it does not. Use at the moment a user is about to preview or open
// a file, where an existence check is unavoidable.
func (m *Manager) CheckPath(path string) bool {
	if m.statPath(path) {
		return true
	}
	m.lg.Debugf("could not find path %s, queueing removal", path)
	m.MarkMissing(path)
	return false
}

// MarkMissing queues path for deferred removal from all histories.
func (m *Manager) MarkMissing(path string) {
	m.pending[path] = struct{}{}
}

// FlushRemovals removes every queued path from the master history and
// all window views.
func (m *Manager) FlushRemovals() {
	for path := range m.pending {
		m.lg.Debugf("removing dead path %s", path)
		for _, wh := range m.windows {
			wh.Remove(path)
		}
		m.master.Remove(path)
	}
	m.pending = make(map[string]struct{})
}

// SetSelectorActive marks the interactive selector as shown or dismissed.
// Recording is suppressed while it is shown so the backing maps are not
// mutated under an in-progress host interaction.
func (m *Manager) SetSelectorActive(active bool) {
	m.selectorActive = active
}

// SelectorActive reports whether the selector UI is up.
func (m *Manager) SelectorActive() bool {
	return m.selectorActive
}

// ListForPanel assembles the ranked, annotated listing for the selector
// panel. An empty history, or one whose scores sum to zero, yields an
// empty listing.
func (m *Manager) ListForPanel(id string, scope Scope, filter OpenFilter, now int64) []PanelEntry {
	defer m.lg.Timed("get panel data")()

	h := m.master
	if scope == ScopeWindow {
		h = m.windowHistory(id)
	}
	folders := m.host.WindowFolders(id)

	var out []PanelEntry
	h.Walk(func(path string, e *history.Entry) {
		isOpen := m.host.IsPathOpen(id, path)
		if (isOpen && filter == FilterClosed) || (!isOpen && filter == FilterOpened) {
			return
		}
		out = append(out, PanelEntry{
			Path:          path,
			Entry:         e,
			Score:         frecency.Score(e.LastSeen, e.Inserts, now),
			IsOpen:        isOpen,
			WithinFolders: underAnyFolder(path, folders),
		})
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Path < out[j].Path
	})

	var total float64
	for _, pe := range out {
		total += pe.Score
	}
	if total <= 0 {
		return nil
	}
	for i := range out {
		out[i].ScoreFrac = out[i].Score / total
	}
	return out
}

// underFolder reports whether path lies under folder.
func underFolder(path, folder string) bool {
	if folder == "" {
		return false
	}
	if !strings.HasSuffix(folder, string(os.PathSeparator)) {
		folder += string(os.PathSeparator)
	}
	return strings.HasPrefix(path, folder)
}

func underAnyFolder(path string, folders []string) bool {
	for _, folder := range folders {
		if underFolder(path, folder) {
			return true
		}
	}
	return false
}
