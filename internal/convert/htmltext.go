package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/apidocgen/internal/engine"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// HTMLTextConverter builds the module with the engine's HTML builder and
// extracts markdown structure from the HTML without external tools. It is
// the fallback when pandoc is unavailable or fails.
type HTMLTextConverter struct {
	Builder string // engine HTML builder name
}

func (c *HTMLTextConverter) Name() string { return ConverterHTMLText }

func (c *HTMLTextConverter) Convert(ctx context.Context, eng engine.Engine, ws *engine.Workspace, mod module.Module) (string, error) {
	htmlPath, err := eng.Build(ctx, ws, c.Builder, mod)
	if err != nil {
		return "", err
	}

	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return "", derrors.WrapConvertError(err, "failed to open engine HTML output").
			WithContext("module", mod.Name)
	}
	defer func() {
		_ = file.Close()
	}()

	doc, err := html.Parse(file)
	if err != nil {
		return "", derrors.WrapConvertError(err, "failed to parse engine HTML output").
			WithContext("module", mod.Name)
	}

	content := findContentNode(doc)
	if content == nil {
		return "", derrors.New(derrors.CategoryConvert, derrors.SeverityWarning,
			"no content region in engine HTML output").WithContext("module", mod.Name)
	}

	pruneChrome(content)

	var out markdownBuilder
	renderNode(&out, content)
	return CleanMarkdown(out.String()), nil
}

// findContentNode locates the main documentation region of an engine HTML
// page, preferring the engine's known content wrappers over the full body.
func findContentNode(doc *html.Node) *html.Node {
	for _, class := range []string{"body", "document", "documentwrapper"} {
		if n := findNode(doc, func(n *html.Node) bool {
			return n.Data == "div" && hasClass(n, class)
		}); n != nil {
			return n
		}
	}
	if n := findNode(doc, func(n *html.Node) bool { return n.Data == "main" }); n != nil {
		return n
	}
	return findNode(doc, func(n *html.Node) bool { return n.Data == "body" })
}

// pruneChrome removes navigation and other site chrome from the content tree.
func pruneChrome(root *html.Node) {
	var prune func(*html.Node)
	prune = func(n *html.Node) {
		child := n.FirstChild
		for child != nil {
			next := child.NextSibling
			if child.Type == html.ElementNode {
				switch child.Data {
				case "nav", "aside", "footer", "header", "script", "style":
					n.RemoveChild(child)
				default:
					prune(child)
				}
			} else {
				prune(child)
			}
			child = next
		}
	}
	prune(root)
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// markdownBuilder accumulates block-level markdown output.
type markdownBuilder struct {
	blocks []string
}

func (b *markdownBuilder) add(block string) {
	block = strings.TrimSpace(block)
	if block != "" {
		b.blocks = append(b.blocks, block)
	}
}

func (b *markdownBuilder) String() string {
	return strings.Join(b.blocks, "\n\n")
}

// renderNode walks an HTML content tree and emits minimal markdown blocks.
func renderNode(out *markdownBuilder, n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch child.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(child.Data[1] - '0')
			out.add(strings.Repeat("#", level) + " " + inlineText(child))
		case "pre":
			code := rawText(child)
			if strings.TrimSpace(code) != "" {
				out.add("```\n" + strings.TrimRight(code, "\n") + "\n```")
			}
		case "p", "dt", "dd", "blockquote":
			out.add(inlineText(child))
		case "ul", "ol":
			renderList(out, child)
		case "table":
			// Tables degrade to their text content; structure is secondary
			// in a fallback converter.
			out.add(inlineText(child))
		default:
			renderNode(out, child)
		}
	}
}

func renderList(out *markdownBuilder, list *html.Node) {
	var items []string
	for child := list.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "li" {
			if text := inlineText(child); text != "" {
				items = append(items, "- "+text)
			}
		}
	}
	if len(items) > 0 {
		out.add(strings.Join(items, "\n"))
	}
}

// inlineText flattens an element's text content, collapsing whitespace and
// wrapping inline code spans in backticks.
func inlineText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "code" {
				sb.WriteString("`")
				sb.WriteString(strings.TrimSpace(rawText(n)))
				sb.WriteString("`")
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// rawText returns the concatenated text nodes without whitespace collapsing.
func rawText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
