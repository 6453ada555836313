package page

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
)

const delimiter = "---\n"

// splitFrontmatter separates YAML frontmatter from the page body. Pages
// without frontmatter return an empty field map and the full input as body.
func splitFrontmatter(content []byte) (fields map[string]any, body []byte, err error) {
	if !bytes.HasPrefix(content, []byte(delimiter)) {
		return map[string]any{}, content, nil
	}

	rest := content[len(delimiter):]
	idx := bytes.Index(rest, []byte("\n"+delimiter))
	if idx < 0 {
		return nil, nil, derrors.NewValidationError("page frontmatter missing closing delimiter")
	}

	raw := rest[:idx+1]
	body = rest[idx+1+len(delimiter):]

	fields = map[string]any{}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, nil, derrors.WrapFileSystemError(err, "failed to parse page frontmatter")
	}
	return fields, body, nil
}

// serializeFrontmatter renders the page frontmatter with a stable key order
// (title, uid, fingerprint) so regenerated pages diff cleanly.
func serializeFrontmatter(title, uid, fingerprint string) string {
	var sb strings.Builder
	sb.WriteString(delimiter)
	fmt.Fprintf(&sb, "title: %s\n", yamlScalar(title))
	if uid != "" {
		fmt.Fprintf(&sb, "uid: %s\n", yamlScalar(uid))
	}
	if fingerprint != "" {
		fmt.Fprintf(&sb, "fingerprint: %s\n", yamlScalar(fingerprint))
	}
	sb.WriteString(delimiter)
	return sb.String()
}

// yamlScalar quotes a scalar only when YAML requires it.
func yamlScalar(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, ":#{}[]&*!|>'\"%@`,") || strings.HasPrefix(s, " ") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// NormalizeHeadings tidies ATX headings in converter output: a heading
// gets exactly one space between the marker run and its title,
// marker-only lines are dropped, and runs of blank lines collapse to one.
func NormalizeHeadings(body string) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))

	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if !inFence && trimmed == "" {
			if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		if inFence || !strings.HasPrefix(trimmed, "#") {
			out = append(out, line)
			continue
		}

		level := 0
		for level < len(trimmed) && trimmed[level] == '#' {
			level++
		}
		title := strings.TrimSpace(trimmed[level:])
		if title == "" {
			continue
		}
		out = append(out, strings.Repeat("#", level)+" "+title)
	}

	return strings.Join(out, "\n")
}
