// Package page assembles and writes documentation pages. Every page
// carries frontmatter with a stable uid and a content fingerprint so
// regeneration only touches files whose content actually changed.
package page

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/inful/mdfp"

	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
)

// Page is a single documentation page ready to be written.
type Page struct {
	// Module is the dotted module name the page documents.
	Module string
	// Title shown in the page frontmatter.
	Title string
	// UID identifies the page across regenerations.
	UID string
	// Fingerprint of the page content, computed over title and body.
	Fingerprint string
	// Body is the markdown content below the frontmatter.
	Body string
}

// New builds a page for a module. The body is heading-normalized and the
// fingerprint is computed from the title and normalized body.
func New(moduleName, title, body string) Page {
	normalized := strings.TrimSpace(NormalizeHeadings(body)) + "\n"
	p := Page{
		Module: moduleName,
		Title:  title,
		Body:   normalized,
	}
	p.Fingerprint = p.computeFingerprint()
	return p
}

// computeFingerprint hashes the identity-relevant parts of the page.
// uid and fingerprint itself are excluded so rewrites stay stable.
func (p Page) computeFingerprint() string {
	fm := "title: " + yamlScalar(p.Title)
	return mdfp.CalculateFingerprintFromParts(fm, p.Body)
}

// Render produces the full file content including frontmatter.
func (p Page) Render() string {
	return serializeFrontmatter(p.Title, p.UID, p.Fingerprint) + "\n" + p.Body
}

// existing holds the fields recovered from a page already on disk.
type existing struct {
	uid         string
	fingerprint string
}

// readExisting loads the uid and fingerprint from a page file, if any.
func readExisting(path string) (existing, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return existing{}, false, nil
		}
		return existing{}, false, derrors.WrapFileSystemError(err, "failed to read existing page")
	}

	fields, _, err := splitFrontmatter(content)
	if err != nil {
		// A malformed page is regenerated from scratch.
		return existing{}, false, nil
	}

	var e existing
	if v, ok := fields["uid"].(string); ok {
		e.uid = v
	}
	if v, ok := fields[mdfp.FingerprintField].(string); ok {
		e.fingerprint = v
	}
	return e, true, nil
}

// ensureUID keeps the uid from an earlier generation of the page when one
// exists, otherwise mints a new one.
func ensureUID(p *Page, prior existing, found bool) {
	if found && prior.uid != "" {
		p.UID = prior.uid
		return
	}
	p.UID = uuid.NewString()
}
