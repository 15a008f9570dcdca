package host

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// OpenTabs returns the files currently (or most recently) open in
// supported editors, filtered to workDir. Supported: VS Code and its
// forks (Kiro, Cursor, Windsurf, VSCodium), Vim, and Neovim. Everything
// here is best-effort: an editor whose state cannot be read just
// contributes nothing.
func OpenTabs(workDir string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	readers := []func(home string) []string{
		collectVSCodeFamily,
		collectVim,
		collectNeovim,
	}

	seen := make(map[string]bool)
	var tabs []string
	for _, reader := range readers {
		for _, t := range reader(home) {
			if !seen[t] {
				seen[t] = true
				tabs = append(tabs, t)
			}
		}
	}
	return filterToWorkDir(tabs, workDir)
}

// filterToWorkDir returns only paths that are under workDir.
// If workDir is empty, all paths are returned unchanged.
func filterToWorkDir(paths []string, workDir string) []string {
	if workDir == "" {
		return paths
	}
	prefix := workDir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	var result []string
	for _, p := range paths {
		if p == workDir || strings.HasPrefix(p, prefix) {
			result = append(result, p)
		}
	}
	return result
}

// ── VS Code fork family (VS Code, Kiro, Cursor, Windsurf, …) ───

var vscodeAppDirs = []string{"Code", "Kiro", "Cursor", "Windsurf", "VSCodium"}

func collectVSCodeFamily(home string) []string {
	seen := make(map[string]bool)
	var tabs []string
	for _, appDir := range vscodeAppDirs {
		for _, t := range collectVSCodeApp(vscodeStorageDir(home, appDir)) {
			if !seen[t] {
				seen[t] = true
				tabs = append(tabs, t)
			}
		}
	}
	return tabs
}

func vscodeStorageDir(home, appDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appDir, "User", "workspaceStorage")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appDir, "User", "workspaceStorage")
	default:
		return filepath.Join(home, ".config", appDir, "User", "workspaceStorage")
	}
}

func collectVSCodeApp(storageDir string) []string {
	entries, err := os.ReadDir(storageDir)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var tabs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// history.entries in state.vscdb lists the actually-open files.
		dbPath := filepath.Join(storageDir, entry.Name(), "state.vscdb")
		if _, err := os.Stat(dbPath); err != nil {
			continue
		}
		files, err := readVSCodeDBTabs(dbPath)
		if err != nil {
			continue
		}
		for _, f := range files {
			if !seen[f] {
				seen[f] = true
				tabs = append(tabs, f)
			}
		}
	}
	return tabs
}

func readVSCodeDBTabs(dbPath string) ([]string, error) {
	out, err := exec.Command("sqlite3", dbPath,
		"SELECT value FROM ItemTable WHERE key='history.entries';").Output()
	if err != nil {
		return nil, fmt.Errorf("sqlite3: %w", err)
	}
	raw := strings.TrimSpace(string(out))
	if raw == "" {
		return nil, nil
	}

	var entries []struct {
		Editor struct {
			Resource string `json:"resource"`
		} `json:"editor"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("parse history.entries: %w", err)
	}

	seen := make(map[string]bool)
	var files []string
	for _, e := range entries {
		if e.Editor.Resource == "" {
			continue
		}
		path, err := uriToPath(e.Editor.Resource)
		if err != nil || path == "" {
			continue
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	return files, nil
}

// ── Vim / Neovim ──────

func collectVim(home string) []string {
	tabs, err := parseViminfo(filepath.Join(home, ".viminfo"), home)
	if err != nil {
		return nil
	}
	return tabs
}

func collectNeovim(home string) []string {
	// The shada file is binary, but file marks appear as viminfo-style
	// "> path" lines often enough for a best-effort scan.
	tabs, err := parseViminfo(
		filepath.Join(home, ".local", "share", "nvim", "shada", "main.shada"), home)
	if err != nil {
		return nil
	}
	return tabs
}

// parseViminfo extracts file mark entries ("> path" lines) from a
// viminfo-style file.
func parseViminfo(path, home string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]bool)
	var files []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "> ") {
			continue
		}
		filePath := strings.TrimSpace(strings.TrimPrefix(line, "> "))
		if strings.HasPrefix(filePath, "~/") {
			filePath = filepath.Join(home, filePath[2:])
		}
		if filePath != "" && !seen[filePath] {
			seen[filePath] = true
			files = append(files, filePath)
		}
	}
	return files, scanner.Err()
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", nil
	}
	return u.Path, nil
}
