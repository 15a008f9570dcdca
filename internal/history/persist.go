package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oxidrome/frecent/internal/logging"
)

// shrinkGuard is the fraction of the currently persisted entry count that
// a save must still carry. Writing fewer entries than this suggests a bug
// or a race about to destroy history, so the write is skipped instead.
const shrinkGuard = 0.7

// Load reads the persisted history at path. A missing, unreadable, or
// corrupt file is not an error: the user just gets an empty (or
// best-effort) history, and the condition is logged.
func Load(path string, lg *logging.Logger) *Store {
	defer lg.Timed("load history")()

	data, err := os.ReadFile(path)
	if err != nil {
		lg.Debugf("could not load history at %s: %v", path, err)
		return NewStore()
	}
	s, err := decode(data)
	if err != nil {
		lg.Debugf("could not parse history at %s: %v", path, err)
		return NewStore()
	}
	lg.Debugf("loaded %d stored entries from %s", s.Len(), path)
	return s
}

// Save persists s to path, keeping at most maxEntries entries.
//
// Whatever is currently on disk is re-read and merged in first (another
// window may have written since our load; the on-disk side is the mergee,
// memory the merger), then the merged set is limited and written
// atomically as indented JSON with lexicographically sorted keys. If the
// result would hold less than 70% of the entries already on disk the
// write is skipped entirely — losing a few entries to file deletions is
// normal, losing a third of the history is a sign something went wrong.
func Save(path string, s *Store, now int64, maxEntries int, lg *logging.Logger) error {
	defer lg.Timed("save history")()

	onDisk := NewStore()
	if data, err := os.ReadFile(path); err == nil {
		if parsed, err := decode(data); err == nil {
			onDisk = parsed
		} else {
			lg.Debugf("ignoring corrupt history at %s: %v", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		lg.Debugf("could not re-read history at %s: %v", path, err)
	}

	merged := onDisk.cloneDeep()
	merged.Merge(s)
	limited := merged.Limit(maxEntries, now)

	if float64(limited.Len()) <= shrinkGuard*float64(onDisk.Len()) {
		lg.Debugf("refusing to shrink history from %d to %d entries, skipping save",
			onDisk.Len(), limited.Len())
		return nil
	}

	data, err := json.MarshalIndent(limited.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(path), "history-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist history: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}

	lg.Debugf("saved %d entries to %s", limited.Len(), path)
	return nil
}

// decode parses the wire format and normalizes entries so the store
// invariants hold even for hand-edited or partially damaged files.
func decode(data []byte) (*Store, error) {
	var raw map[string]*Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	s := NewStore()
	for path, e := range raw {
		if e == nil || path == "" {
			continue
		}
		if e.Inserts < 0 {
			e.Inserts = 0
		}
		if e.Added > e.LastSeen {
			e.Added = e.LastSeen
		}
		s.entries[path] = e
	}
	return s, nil
}
