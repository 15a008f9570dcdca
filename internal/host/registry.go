package host

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Registry maps workspace roots to stable window IDs so a workspace keeps
// the same window history across invocations.
type Registry struct {
	path    string
	windows map[string]string // workspace root → window id
}

// OpenRegistry loads the registry at path. A missing or unreadable file
// yields an empty registry; IDs will simply be minted fresh.
func OpenRegistry(path string) *Registry {
	r := &Registry{path: path, windows: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		return r
	}
	// Corrupt registry: start fresh rather than fail.
	_ = json.Unmarshal(data, &r.windows)
	if r.windows == nil {
		r.windows = make(map[string]string)
	}
	return r
}

// WindowID returns the window ID for a workspace root, minting and
// remembering a new one on first sight.
func (r *Registry) WindowID(root string) string {
	if id, ok := r.windows[root]; ok {
		return id
	}
	id := uuid.NewString()
	r.windows[root] = id
	return id
}

// Forget drops the mapping for a workspace root, if any.
func (r *Registry) Forget(root string) {
	delete(r.windows, root)
}

// Save writes the registry atomically via a temp file + os.Rename.
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to persist window registry: %w", err)
	}
	data, err := json.MarshalIndent(r.windows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist window registry: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "windows-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist window registry: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist window registry: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist window registry: %w", err)
	}
	if err = os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to persist window registry: %w", err)
	}
	return nil
}
