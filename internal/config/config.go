// Package config loads the frecent settings from JSON config files.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the resolved settings used by every command.
type Config struct {
	// ShowFilePreview opens a transient preview of the highlighted entry
	// in the picker.
	ShowFilePreview bool
	// Debug enables verbose logging to stderr.
	Debug bool
	// MaxEntries caps how many entries the persisted history keeps.
	MaxEntries int
	// HistoryPath is where the master history lives on disk.
	HistoryPath string
}

// File is the on-disk shape of a config file. Pointer fields distinguish
// "not set" from an explicit false/zero so project settings can override
// global ones per field.
type File struct {
	ShowFilePreview *bool   `json:"show_file_preview"`
	Debug           *bool   `json:"debug"`
	MaxEntries      *int    `json:"max_entries"`
	HistoryPath     *string `json:"history_path"`
}

// Defaults returns sensible default configuration values. HistoryPath is
// left empty here; callers resolve it against the data directory so tests
// can construct configs without touching the user's home.
func Defaults() Config {
	return Config{
		ShowFilePreview: true,
		Debug:           false,
		MaxEntries:      500,
	}
}

// LoadGlobal reads ~/.config/frecent/config.json.
// Returns nil (no error) if the file is absent.
func LoadGlobal() (*File, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path)
}

// LoadProject reads .frecentrc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*File, error) {
	return loadFile(".frecentrc")
}

// loadFile reads and parses a JSON config file at path, returning nil
// when it does not exist.
func loadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &f, nil
}

// Merge combines global and project configs, with project taking
// precedence. Unset fields fall back to global, then defaults.
func Merge(global, project *File) Config {
	result := Defaults()
	for _, f := range []*File{global, project} {
		if f == nil {
			continue
		}
		if f.ShowFilePreview != nil {
			result.ShowFilePreview = *f.ShowFilePreview
		}
		if f.Debug != nil {
			result.Debug = *f.Debug
		}
		if f.MaxEntries != nil && *f.MaxEntries > 0 {
			result.MaxEntries = *f.MaxEntries
		}
		if f.HistoryPath != nil && *f.HistoryPath != "" {
			result.HistoryPath = ExpandUser(*f.HistoryPath)
		}
	}
	return result
}

// DataDir returns the frecent-specific XDG data directory.
// Path: $XDG_DATA_HOME/frecent or ~/.local/share/frecent
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "frecent"), nil
}

// GlobalPath returns the location of the global config file.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "frecent", "config.json"), nil
}

// ExpandUser replaces a leading ~ with the user's home directory.
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
