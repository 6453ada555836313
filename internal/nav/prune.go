package nav

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// errorPathPatterns builds the patterns matching page file paths in the
// output of the site toolchain's dev check, for the configured extension.
func errorPathPatterns(pageExt string) []*regexp.Regexp {
	ext := regexp.QuoteMeta(pageExt)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)parsing error: \./([^:\s]+` + ext + `)`),
		regexp.MustCompile(`(?i)could not parse\D*?([^\s]+` + ext + `)`),
		regexp.MustCompile(`(?i)unexpected\D*?([^\s]+` + ext + `)`),
		regexp.MustCompile(`(?i)expected\D*?([^\s]+` + ext + `)`),
		regexp.MustCompile(`(?i)invalid import path.*? /([^\s]+` + ext + `)`),
	}
}

// ParseErrorLog extracts failing page paths from a toolchain error log.
// Returned paths have the file extension stripped and are sorted and
// deduplicated.
func ParseErrorLog(log string, pageExt string) []string {
	patterns := errorPathPatterns(pageExt)

	found := map[string]struct{}{}
	for _, line := range strings.Split(log, "\n") {
		for _, pattern := range patterns {
			for _, match := range pattern.FindAllStringSubmatch(line, -1) {
				path := strings.TrimPrefix(match[1], "./")
				path = strings.TrimPrefix(path, "/")
				if !strings.HasSuffix(path, pageExt) {
					continue
				}
				found[strings.TrimSuffix(path, pageExt)] = struct{}{}
			}
		}
	}

	paths := make([]string, 0, len(found))
	for p := range found {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Prune removes the given page paths from every tab of the manifest,
// dropping groups that end up empty. A backup of the manifest is written
// first. Returns the page paths actually removed.
func (m *Manifest) Prune(pagePaths []string) ([]string, error) {
	if _, err := m.Backup(); err != nil {
		return nil, err
	}

	doc, err := m.load()
	if err != nil {
		return nil, err
	}

	list, err := tabs(doc)
	if err != nil {
		return nil, err
	}

	drop := map[string]struct{}{}
	for _, p := range pagePaths {
		drop[p] = struct{}{}
	}

	var removed []string
	for _, item := range list {
		tab, ok := item.(map[string]any)
		if !ok {
			continue
		}
		groups, ok := tab["groups"].([]any)
		if !ok {
			continue
		}
		tab["groups"] = pruneEntries(groups, drop, &removed)
	}

	if err := m.save(doc); err != nil {
		return nil, err
	}

	for _, p := range removed {
		slog.Info("pruned page from manifest", logfields.Page(p))
	}
	return removed, nil
}

// pruneEntries filters a navigation entry list, recursing into groups.
func pruneEntries(entries []any, drop map[string]struct{}, removed *[]string) []any {
	kept := make([]any, 0, len(entries))
	for _, entry := range entries {
		switch v := entry.(type) {
		case string:
			if _, ok := drop[v]; ok {
				*removed = append(*removed, v)
				continue
			}
			kept = append(kept, v)
		case map[string]any:
			if pages, ok := v["pages"].([]any); ok {
				v["pages"] = pruneEntries(pages, drop, removed)
			}
			if groups, ok := v["groups"].([]any); ok {
				v["groups"] = pruneEntries(groups, drop, removed)
			}
			if emptyGroup(v) {
				continue
			}
			kept = append(kept, v)
		default:
			kept = append(kept, v)
		}
	}
	return kept
}

func emptyGroup(group map[string]any) bool {
	if pages, ok := group["pages"].([]any); ok && len(pages) > 0 {
		return false
	}
	if groups, ok := group["groups"].([]any); ok && len(groups) > 0 {
		return false
	}
	return true
}
