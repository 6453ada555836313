// Package nav builds the navigation structure for generated pages and
// maintains it inside the site manifest JSON.
package nav

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// Group is one navigation group inside a manifest tab.
type Group struct {
	Name  string   `json:"group"`
	Pages []string `json:"pages"`
}

// treeNode collects the page paths belonging to one top-level module and
// the pages of everything nested below it.
type treeNode struct {
	direct []string
	nested map[string][]string
}

// BuildNavigation turns a flat list of page module names into manifest
// navigation entries. The root package page comes first as a bare path,
// followed by one group per top-level module. Entries are either strings
// (bare page paths) or Group values.
func BuildNavigation(moduleNames []string, rootPackage string, cfg config.ManifestConfig, pathPrefix string) []any {
	tree := map[string]*treeNode{}
	rootPage := ""

	for _, name := range moduleNames {
		pagePath := pathPrefix + "/" + name
		if name == rootPackage {
			rootPage = pagePath
			continue
		}
		if !strings.HasPrefix(name, rootPackage+".") {
			continue
		}

		parts := strings.Split(name, ".")
		top := parts[1]
		node, ok := tree[top]
		if !ok {
			node = &treeNode{nested: map[string][]string{}}
			tree[top] = node
		}
		if len(parts) <= 3 {
			node.direct = append(node.direct, pagePath)
		} else {
			sub := parts[2]
			node.nested[sub] = append(node.nested[sub], pagePath)
		}
	}

	var navigation []any
	if rootPage != "" {
		navigation = append(navigation, rootPage)
	}

	for _, top := range orderedTopModules(tree, rootPackage, cfg.ModuleOrder) {
		node := tree[top]
		group := Group{
			Name:  module.DisplayName(top, cfg.DisplayNames),
			Pages: append([]string(nil), node.direct...),
		}
		sort.Strings(group.Pages)

		subNames := make([]string, 0, len(node.nested))
		for sub := range node.nested {
			subNames = append(subNames, sub)
		}
		sort.Strings(subNames)
		for _, sub := range subNames {
			pages := append([]string(nil), node.nested[sub]...)
			sort.Strings(pages)
			group.Pages = append(group.Pages, pages...)
		}

		if len(group.Pages) > 0 {
			navigation = append(navigation, group)
		}
	}

	return navigation
}

// orderedTopModules sequences top-level module names by the configured
// order; names not listed follow afterwards in sorted order.
func orderedTopModules(tree map[string]*treeNode, rootPackage string, order []string) []string {
	seen := map[string]bool{}
	var result []string
	for _, name := range order {
		if name == rootPackage {
			continue
		}
		if _, ok := tree[name]; ok && !seen[name] {
			result = append(result, name)
			seen[name] = true
		}
	}

	var rest []string
	for name := range tree {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(result, rest...)
}
