package window

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/oxidrome/frecent/internal/config"
	"github.com/oxidrome/frecent/internal/history"
	"github.com/oxidrome/frecent/internal/logging"
)

type stubHost struct {
	open    map[string]bool
	folders map[string][]string
}

func (h *stubHost) IsPathOpen(_, path string) bool {
	return h.open[path]
}

func (h *stubHost) WindowFolders(id string) []string {
	return h.folders[id]
}

func newTestManager(t *testing.T) (*Manager, *stubHost) {
	t.Helper()
	host := &stubHost{open: map[string]bool{}, folders: map[string][]string{}}
	cfg := config.Defaults()
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.json")
	m := NewManager(history.NewStore(), host, cfg, logging.New(false))
	m.statPath = func(string) bool { return true }
	return m, host
}

func TestRecordVisitUpdatesMasterAndWindow(t *testing.T) {
	m, _ := newTestManager(t)

	m.RecordVisit("w1", "/proj/a.go", 1000)
	m.RecordVisit("w1", "/proj/a.go", 2000)

	me, ok := m.Master().Get("/proj/a.go")
	if !ok {
		t.Fatal("master missing entry")
	}
	we, ok := m.windowHistory("w1").Get("/proj/a.go")
	if !ok {
		t.Fatal("window view missing entry")
	}
	if me != we {
		t.Fatal("master and window view hold different entry objects")
	}
	if me.Inserts != 2 || me.LastSeen != 2000 || me.Added != 1000 {
		t.Fatalf("unexpected entry: %+v", *me)
	}
}

func TestRecordVisitGuards(t *testing.T) {
	m, _ := newTestManager(t)

	m.SetSelectorActive(true)
	m.RecordVisit("w1", "/proj/a.go", 1000)
	if m.Master().Len() != 0 {
		t.Fatal("recording while selector is active must be dropped")
	}
	m.SetSelectorActive(false)

	m.RecordVisit("w1", "", 1000)
	if m.Master().Len() != 0 {
		t.Fatal("empty path must be dropped")
	}

	m.statPath = func(string) bool { return false }
	m.RecordVisit("w1", "/gone.go", 1000)
	if m.Master().Len() != 0 {
		t.Fatal("missing path must be dropped")
	}
}

func TestOpenWindowPopulatesFromMasterAndOpenPaths(t *testing.T) {
	m, _ := newTestManager(t)

	m.Master().Put("/proj/in.go", &history.Entry{Added: 10, LastSeen: 20, Inserts: 2})
	m.Master().Put("/elsewhere/out.go", &history.Entry{Added: 10, LastSeen: 20, Inserts: 2})

	m.OpenWindow("w1", []string{"/proj"}, []string{"/stray/open.go"}, 1000)

	wh := m.windowHistory("w1")
	if _, ok := wh.Get("/proj/in.go"); !ok {
		t.Fatal("entry under window folder not copied into view")
	}
	if _, ok := wh.Get("/elsewhere/out.go"); ok {
		t.Fatal("entry outside window folders leaked into view")
	}
	e, ok := wh.Get("/stray/open.go")
	if !ok {
		t.Fatal("already-open path not recorded")
	}
	if e.Inserts != 1 {
		t.Fatalf("open path should have one recorded visit, got %d", e.Inserts)
	}
	if _, ok := m.Master().Get("/stray/open.go"); !ok {
		t.Fatal("open-path visit not reflected in master")
	}
}

func TestCloseWindowKeepsMaster(t *testing.T) {
	m, _ := newTestManager(t)
	m.RecordVisit("w1", "/proj/a.go", 1000)
	m.CloseWindow("w1")
	if _, ok := m.Master().Get("/proj/a.go"); !ok {
		t.Fatal("closing a window must not touch the master history")
	}
	if len(m.windows) != 0 {
		t.Fatal("window view not dropped")
	}
}

func TestListForPanelFiltersAndNormalizes(t *testing.T) {
	m, host := newTestManager(t)
	host.folders["w1"] = []string{"/proj"}
	host.open["/proj/open.go"] = true

	const now = 1_000_000
	m.Master().Put("/proj/open.go", &history.Entry{Added: 1, LastSeen: now - 200, Inserts: 10})
	m.Master().Put("/proj/closed.go", &history.Entry{Added: 1, LastSeen: now - 200, Inserts: 5})
	m.Master().Put("/away/far.go", &history.Entry{Added: 1, LastSeen: now - 200, Inserts: 1})

	both := m.ListForPanel("w1", ScopeMaster, FilterBoth, now)
	if len(both) != 3 {
		t.Fatalf("both: got %d entries", len(both))
	}
	// Highest score first.
	if both[0].Path != "/proj/open.go" {
		t.Fatalf("ranking: got %s first", both[0].Path)
	}
	var total float64
	for _, pe := range both {
		total += pe.ScoreFrac
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Fatalf("score fractions sum to %v", total)
	}
	if !both[0].IsOpen || !both[0].WithinFolders {
		t.Fatalf("annotation flags wrong: %+v", both[0])
	}
	if both[2].WithinFolders {
		t.Fatal("path outside window folders flagged as within")
	}

	opened := m.ListForPanel("w1", ScopeMaster, FilterOpened, now)
	if len(opened) != 1 || opened[0].Path != "/proj/open.go" {
		t.Fatalf("opened filter: %+v", opened)
	}
	closed := m.ListForPanel("w1", ScopeMaster, FilterClosed, now)
	if len(closed) != 2 {
		t.Fatalf("closed filter: got %d entries", len(closed))
	}
}

func TestListForPanelWindowScope(t *testing.T) {
	m, _ := newTestManager(t)
	const now = 1_000_000
	m.Master().Put("/other/far.go", &history.Entry{Added: 1, LastSeen: now - 100, Inserts: 3})
	m.RecordVisit("w1", "/proj/a.go", now-50)

	got := m.ListForPanel("w1", ScopeWindow, FilterBoth, now)
	if len(got) != 1 || got[0].Path != "/proj/a.go" {
		t.Fatalf("window scope leaked master entries: %+v", got)
	}
}

func TestListForPanelZeroTotalIsEmpty(t *testing.T) {
	m, _ := newTestManager(t)
	const now = 1_000_000
	// A zero visit count yields a zero score.
	m.Master().Put("/proj/a.go", &history.Entry{Added: 1, LastSeen: now, Inserts: 0})

	if got := m.ListForPanel("w1", ScopeMaster, FilterBoth, now); len(got) != 0 {
		t.Fatalf("expected empty listing, got %+v", got)
	}
}

func TestPendingRemovalFlush(t *testing.T) {
	m, _ := newTestManager(t)
	m.RecordVisit("w1", "/proj/a.go", 1000)
	m.RecordVisit("w2", "/proj/a.go", 1001)

	m.statPath = func(string) bool { return false }
	if m.CheckPath("/proj/a.go") {
		t.Fatal("CheckPath reported a missing path as present")
	}
	// Queued but not yet removed.
	if _, ok := m.Master().Get("/proj/a.go"); !ok {
		t.Fatal("path removed before flush")
	}

	m.FlushRemovals()
	if _, ok := m.Master().Get("/proj/a.go"); ok {
		t.Fatal("flush left the path in master")
	}
	for id, wh := range m.windows {
		if _, ok := wh.Get("/proj/a.go"); ok {
			t.Fatalf("flush left the path in window %s", id)
		}
	}

	const now = 2000
	if got := m.ListForPanel("w1", ScopeMaster, FilterBoth, now); len(got) != 0 {
		t.Fatalf("flushed path still listed: %+v", got)
	}
}

func TestSaveCadence(t *testing.T) {
	m, _ := newTestManager(t)

	for i := 0; i < SaveEvery-1; i++ {
		m.RecordVisit("w1", "/proj/a.go", int64(1000+i))
	}
	if _, err := os.Stat(m.cfg.HistoryPath); !os.IsNotExist(err) {
		t.Fatal("history saved before the countdown elapsed")
	}

	m.RecordVisit("w1", "/proj/a.go", 5000)
	if _, err := os.Stat(m.cfg.HistoryPath); err != nil {
		t.Fatalf("history not saved after %d recordings: %v", SaveEvery, err)
	}

	loaded := history.Load(m.cfg.HistoryPath, logging.New(false))
	e, ok := loaded.Get("/proj/a.go")
	if !ok {
		t.Fatal("saved history missing the recorded path")
	}
	if e.Inserts != SaveEvery {
		t.Fatalf("persisted inserts = %d, want %d", e.Inserts, SaveEvery)
	}
}

func TestParseFilter(t *testing.T) {
	cases := []struct {
		in   string
		want OpenFilter
		ok   bool
	}{
		{"opened", FilterOpened, true},
		{"closed", FilterClosed, true},
		{"both", FilterBoth, true},
		{"banana", FilterBoth, false},
		{"", FilterBoth, false},
	}
	for _, tc := range cases {
		got, ok := ParseFilter(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseFilter(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
