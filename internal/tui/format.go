package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oxidrome/frecent/internal/history"
)

// Symbol classifies an entry with a little glyph.
// Circle/diamond = within / outside the window folders.
// Filled/empty = open / not open.
func Symbol(isOpen, withinFolders bool) string {
	if isOpen {
		if withinFolders {
			return "•"
		}
		return "◆"
	}
	if withinFolders {
		return " "
	}
	return "◇"
}

// ShortenPath abbreviates a window folder prefix to "." and the home
// directory to "~" so rows stay readable.
func ShortenPath(path string, folders []string) string {
	type abbrev struct{ prefix, short string }
	var abbrevs []abbrev
	for _, f := range folders {
		abbrevs = append(abbrevs, abbrev{f, "."})
	}
	if home, err := os.UserHomeDir(); err == nil {
		abbrevs = append(abbrevs, abbrev{home, "~"})
	}
	for _, a := range abbrevs {
		if a.prefix == "" {
			continue
		}
		prefix := a.prefix
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		if strings.HasPrefix(path, prefix) {
			return a.short + string(filepath.Separator) + path[len(prefix):]
		}
	}
	return path
}

// Subtitle renders the annotation line under a row:
// "3 hours ago, seen twice, 12%".
func Subtitle(e *history.Entry, scoreFrac float64, now int64) string {
	return fmt.Sprintf("%s, %s, %.2g%%",
		humanDuration(now-e.LastSeen),
		humanCount(e.Inserts),
		100*scoreFrac,
	)
}

// humanDuration renders an age in seconds as a rough English phrase.
func humanDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	units := []struct {
		size     int64
		singular string
	}{
		{86400 * 365, "year"},
		{86400 * 7, "week"},
		{86400, "day"},
		{3600, "hour"},
		{60, "minute"},
	}
	for _, u := range units {
		if secs >= u.size {
			n := secs / u.size
			if n == 1 {
				article := "a"
				if u.singular == "hour" {
					article = "an"
				}
				return article + " " + u.singular + " ago"
			}
			return fmt.Sprintf("%d %ss ago", n, u.singular)
		}
	}
	if secs >= 10 {
		return fmt.Sprintf("%d seconds ago", secs)
	}
	return "just now"
}

// humanCount renders a visit count, wording small numbers and shortening
// large ones ("seen 1.2 thousand times").
func humanCount(n int) string {
	switch {
	case n == 0:
		return "not seen"
	case n == 1:
		return "seen once"
	case n == 2:
		return "seen twice"
	case n < 1000:
		return fmt.Sprintf("seen %d times", n)
	}
	value := float64(n)
	for _, suffix := range []string{"thousand", "million", "billion"} {
		value /= 1000
		if value < 1000 {
			return fmt.Sprintf("seen %s %s times", trimZero(value), suffix)
		}
	}
	return fmt.Sprintf("seen %s trillion times", trimZero(value/1000))
}

// trimZero formats with one decimal, dropping a trailing ".0".
func trimZero(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
