package history_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/oxidrome/frecent/internal/history"
	"github.com/oxidrome/frecent/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(false)
}

// Property: saving and reloading reproduces every field of every entry,
// as long as eviction and the shrink guard stay out of the way.
func TestSaveLoadRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	rapid.Check(t, func(t *rapid.T) {
		s := generateStore(t, "s")
		path := filepath.Join(tmp, "history", "case", "history.json")
		os.RemoveAll(filepath.Join(tmp, "history"))

		if err := history.Save(path, s, 2_000_000_000, s.Len()+10, testLogger()); err != nil {
			t.Fatalf("save: %v", err)
		}
		loaded := history.Load(path, testLogger())

		if loaded.Len() != s.Len() {
			t.Fatalf("round trip changed entry count: %d -> %d", s.Len(), loaded.Len())
		}
		s.Walk(func(p string, e *history.Entry) {
			got, ok := loaded.Get(p)
			if !ok {
				t.Fatalf("round trip lost %s", p)
			}
			if *got != *e {
				t.Fatalf("round trip changed %s: %+v -> %+v", p, *e, *got)
			}
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	s := history.Load(filepath.Join(t.TempDir(), "nope.json"), testLogger())
	if s.Len() != 0 {
		t.Fatalf("missing file should load as empty, got %d entries", s.Len())
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := history.Load(path, testLogger())
	if s.Len() != 0 {
		t.Fatalf("corrupt file should load as empty, got %d entries", s.Len())
	}
}

func TestLoadNormalizesInvalidFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	raw := `{
  "/a": {"added": 5000, "last_seen": 1000, "inserts": -3},
  "/b": {"added": 100, "last_seen": 200, "inserts": 2}
}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	s := history.Load(path, testLogger())
	a, ok := s.Get("/a")
	if !ok {
		t.Fatal("best-effort parse dropped /a")
	}
	if a.Inserts != 0 || a.Added > a.LastSeen {
		t.Fatalf("entry not normalized: %+v", *a)
	}
}

func TestSaveMergesWithDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	onDisk := history.NewStore()
	onDisk.Put("/a", &history.Entry{Added: 1000, LastSeen: 1000, Inserts: 1})
	onDisk.Put("/only-on-disk", &history.Entry{Added: 500, LastSeen: 900, Inserts: 4})
	if err := history.Save(path, onDisk, 2000, 100, testLogger()); err != nil {
		t.Fatal(err)
	}

	live := history.NewStore()
	live.Put("/a", &history.Entry{Added: 1000, LastSeen: 2000, Inserts: 3})
	if err := history.Save(path, live, 2000, 100, testLogger()); err != nil {
		t.Fatal(err)
	}

	loaded := history.Load(path, testLogger())
	a, ok := loaded.Get("/a")
	if !ok {
		t.Fatal("/a missing after merge-on-save")
	}
	want := history.Entry{Added: 1000, LastSeen: 2000, Inserts: 3}
	if *a != want {
		t.Fatalf("merged entry = %+v, want %+v", *a, want)
	}
	if _, ok := loaded.Get("/only-on-disk"); !ok {
		t.Fatal("save dropped an entry another writer had persisted")
	}
}

func TestSaveShrinkGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	big := history.NewStore()
	for i := 0; i < 100; i++ {
		p := filepath.Join("/proj", "file"+string(rune('a'+i%26)), "n"+string(rune('0'+i/26)))
		big.Put(p, &history.Entry{Added: 100, LastSeen: 200, Inserts: 1})
	}
	if big.Len() != 100 {
		t.Fatalf("setup: %d entries", big.Len())
	}
	if err := history.Save(path, big, 1000, 1000, testLogger()); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// A cap of 60 would write 60 entries: 60 < 70% of 100, so the write
	// must be skipped and the file left untouched.
	if err := history.Save(path, big, 1000, 60, testLogger()); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatal("shrink guard did not protect the on-disk history")
	}

	// 80 entries clears the guard.
	if err := history.Save(path, big, 1000, 80, testLogger()); err != nil {
		t.Fatal(err)
	}
	loaded := history.Load(path, testLogger())
	if loaded.Len() != 80 {
		t.Fatalf("expected 80 entries after guarded save, got %d", loaded.Len())
	}
}

func TestSaveWritesSortedIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s := history.NewStore()
	s.Put("/zz", &history.Entry{Added: 1, LastSeen: 2, Inserts: 1})
	s.Put("/aa", &history.Entry{Added: 1, LastSeen: 2, Inserts: 1})
	s.Put("/mm", &history.Entry{Added: 1, LastSeen: 2, Inserts: 1})
	if err := history.Save(path, s, 100, 100, testLogger()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if strings.Index(text, `"/aa"`) > strings.Index(text, `"/mm"`) ||
		strings.Index(text, `"/mm"`) > strings.Index(text, `"/zz"`) {
		t.Fatal("keys are not sorted lexicographically")
	}
	if !strings.Contains(text, "\n  ") {
		t.Fatal("output is not indented")
	}
	var parsed map[string]history.Entry
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}
