package module

import (
	"log/slog"
	"sort"
	"strings"
	"time"
)

// ChangedSince filters a full module listing down to modules whose backing
// file was modified within the given window. A package's mtime is the mtime
// of its marker file, recorded during discovery. Packages are also included
// when any of their direct children changed, since the package page
// aggregates its children.
func ChangedSince(all []Module, window time.Duration, now time.Time) []Module {
	threshold := now.Add(-window)

	changed := make([]Module, 0)
	included := make(map[string]bool)
	changedPkgs := make(map[string]bool)

	for _, m := range all {
		if !m.ModTime.After(threshold) {
			continue
		}
		changed = append(changed, m)
		included[m.Name] = true
		if idx := strings.LastIndexByte(m.Name, '.'); idx > 0 {
			changedPkgs[m.Name[:idx]] = true
		}
	}

	for _, m := range all {
		if m.Kind == KindPackage && changedPkgs[m.Name] && !included[m.Name] {
			changed = append(changed, m)
		}
	}

	slog.Debug("Change window applied",
		slog.Int("total", len(all)),
		slog.Int("changed", len(changed)),
		slog.Duration("window", window))
	return sortedByName(changed)
}

func sortedByName(mods []Module) []Module {
	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
	return mods
}
