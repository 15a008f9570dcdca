// Package host adapts the embedding environment to the history core. For
// the CLI a "window" is a workspace directory: its identity is a stable
// UUID kept in a small registry, its folders are the workspace root, and
// its open files come from real editor state found on the machine.
package host

// Local answers the host queries for CLI-managed windows.
type Local struct {
	folders map[string][]string
	open    map[string]map[string]bool
}

// NewLocal returns a host with no windows.
func NewLocal() *Local {
	return &Local{
		folders: make(map[string][]string),
		open:    make(map[string]map[string]bool),
	}
}

// AddWindow registers a window with its root folders and open files.
func (l *Local) AddWindow(id string, folders, openPaths []string) {
	l.folders[id] = folders
	set := make(map[string]bool, len(openPaths))
	for _, p := range openPaths {
		set[p] = true
	}
	l.open[id] = set
}

// IsPathOpen reports whether the window currently has path open.
func (l *Local) IsPathOpen(windowID, path string) bool {
	return l.open[windowID][path]
}

// WindowFolders returns the root folders of the window.
func (l *Local) WindowFolders(windowID string) []string {
	return l.folders[windowID]
}
