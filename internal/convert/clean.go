package convert

import "strings"

// boilerplateMarkers identifies lines carried over from site chrome that
// have no place in an extracted reference page.
var boilerplateMarkers = []string{
	"navigation",
	"breadcrumb",
	"sidebar",
	"footer",
	"edit on github",
	"view source",
	"download",
}

// CleanMarkdown strips boilerplate lines and leading/trailing blank runs
// from converter output.
func CleanMarkdown(content string) string {
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	startFound := false

	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimSpace(line)

		if !startFound && trimmed == "" {
			continue
		}

		if isBoilerplate(trimmed) {
			continue
		}

		if trimmed != "" {
			startFound = true
		}
		if startFound {
			cleaned = append(cleaned, line)
		}
	}

	for len(cleaned) > 0 && strings.TrimSpace(cleaned[len(cleaned)-1]) == "" {
		cleaned = cleaned[:len(cleaned)-1]
	}

	return strings.Join(cleaned, "\n")
}

func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
