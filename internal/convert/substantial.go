package convert

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// IsSubstantial reports whether a markdown body carries enough real content
// to publish as a reference page. Headings and anchor shims don't count;
// the body needs at least minBlocks paragraphs, code blocks, lists, or
// other content blocks. This keeps empty modules (bare packages with no
// docstrings) out of the content directory.
func IsSubstantial(markdown string, minBlocks int) bool {
	if minBlocks <= 0 {
		minBlocks = 1
	}

	source := []byte(markdown)
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	blocks := 0
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *gmast.Heading:
			continue
		case *gmast.ThematicBreak:
			continue
		case *gmast.Paragraph:
			if isAnchorShim(node, source) {
				continue
			}
			blocks++
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			if emptyCodeBlock(child, source) {
				continue
			}
			blocks++
		default:
			blocks++
		}
		if blocks >= minBlocks {
			return true
		}
	}
	return false
}

// isAnchorShim detects paragraphs consisting solely of an inline HTML
// anchor (`<a id="..."></a>`), which engines emit for cross-references.
func isAnchorShim(p *gmast.Paragraph, source []byte) bool {
	for child := p.FirstChild(); child != nil; child = child.NextSibling() {
		if _, ok := child.(*gmast.RawHTML); !ok {
			return false
		}
	}
	return p.FirstChild() != nil
}

func emptyCodeBlock(n gmast.Node, source []byte) bool {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if len(seg.Value(source)) > 0 {
			for _, b := range seg.Value(source) {
				if b != ' ' && b != '\t' && b != '\n' {
					return false
				}
			}
		}
	}
	return true
}
