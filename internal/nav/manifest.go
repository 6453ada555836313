package nav

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
)

// Manifest is the site manifest JSON file holding the navigation tabs.
// Only the configured tab's groups are rewritten; every other field in
// the document is preserved as-is.
type Manifest struct {
	path string
	tab  string
}

// NewManifest returns a manifest bound to path, targeting the named tab.
func NewManifest(path, tab string) *Manifest {
	return &Manifest{path: path, tab: tab}
}

// Path returns the manifest file location.
func (m *Manifest) Path() string { return m.path }

func (m *Manifest) load() (map[string]any, error) {
	content, err := os.ReadFile(m.path)
	if err != nil {
		return nil, derrors.WrapManifestError(err, "failed to read manifest")
	}

	var doc map[string]any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, derrors.WrapManifestError(err, "failed to parse manifest")
	}
	return doc, nil
}

func (m *Manifest) save(doc map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return derrors.WrapManifestError(err, "failed to encode manifest")
	}
	if err := os.WriteFile(m.path, buf.Bytes(), 0o644); err != nil {
		return derrors.WrapManifestError(err, "failed to write manifest")
	}
	return nil
}

// tabs returns the navigation.tabs slice of the manifest document.
func tabs(doc map[string]any) ([]any, error) {
	navigation, ok := doc["navigation"].(map[string]any)
	if !ok {
		return nil, derrors.NewValidationError("manifest has no navigation object")
	}
	list, ok := navigation["tabs"].([]any)
	if !ok {
		return nil, derrors.NewValidationError("manifest navigation has no tabs")
	}
	return list, nil
}

// Update replaces the groups of the configured tab with the given
// navigation entries.
func (m *Manifest) Update(navigation []any) error {
	doc, err := m.load()
	if err != nil {
		return err
	}

	list, err := tabs(doc)
	if err != nil {
		return err
	}

	found := false
	for _, item := range list {
		tab, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if tab["tab"] == m.tab {
			tab["groups"] = toJSONValue(navigation)
			found = true
			break
		}
	}
	if !found {
		return derrors.NewValidationError(fmt.Sprintf("manifest has no tab %q", m.tab))
	}

	return m.save(doc)
}

// Backup copies the manifest next to itself with a .backup suffix and
// returns the backup path.
func (m *Manifest) Backup() (string, error) {
	content, err := os.ReadFile(m.path)
	if err != nil {
		return "", derrors.WrapManifestError(err, "failed to read manifest for backup")
	}
	backupPath := m.path + ".backup"
	if err := os.WriteFile(backupPath, content, 0o644); err != nil {
		return "", derrors.WrapManifestError(err, "failed to write manifest backup")
	}
	return backupPath, nil
}

// toJSONValue converts navigation entries into plain JSON values so the
// whole document round-trips through encoding/json uniformly.
func toJSONValue(navigation []any) []any {
	out := make([]any, 0, len(navigation))
	for _, entry := range navigation {
		switch v := entry.(type) {
		case Group:
			pages := make([]any, len(v.Pages))
			for i, p := range v.Pages {
				pages[i] = p
			}
			out = append(out, map[string]any{"group": v.Name, "pages": pages})
		default:
			out = append(out, v)
		}
	}
	return out
}
