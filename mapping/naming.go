package mapping

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Strategy selects how property local names are derived from tag paths.
type Strategy string

const (
	// StrategyPath qualifies the property with every tag on its path, so
	// a citation's Dataset_Creator differs from any other Creator.
	StrategyPath Strategy = "path"

	// StrategyFlat uses the leaf tag alone. Leaves sharing a tag name
	// (e.g., Short_Name) share a property.
	StrategyFlat Strategy = "flat"
)

// ParseStrategy resolves a strategy name. The empty string selects the
// path strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case "", StrategyPath:
		return StrategyPath, nil
	case StrategyFlat:
		return StrategyFlat, nil
	}
	return "", fmt.Errorf("unknown naming strategy %q (want %q or %q)", s, StrategyPath, StrategyFlat)
}

// Naming derives property local names from mapping table nodes.
type Naming struct {
	Strategy Strategy
	// Prefix starts every derived name (e.g., "has")
	Prefix string
	// Segments renames individual path tags before they are joined
	Segments map[string]string
	// Overrides maps a full tag path to a fixed local name
	Overrides map[string]string
}

// Property returns the property local name for a leaf node.
func (nm Naming) Property(n *Node) string {
	if name, ok := nm.Overrides[n.PathString()]; ok {
		return name
	}

	path := n.Path
	if nm.Strategy == StrategyFlat {
		path = path[len(path)-1:]
	}

	var sb strings.Builder
	sb.WriteString(nm.Prefix)
	for _, tag := range path {
		if renamed, ok := nm.Segments[tag]; ok {
			tag = renamed
		}
		sb.WriteString(camel(tag))
	}
	return sb.String()
}

// camel joins the underscore-separated words of a tag, capitalizing the
// first letter of each and keeping the rest as written.
func camel(tag string) string {
	var sb strings.Builder
	for _, word := range strings.Split(tag, "_") {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(word[size:])
	}
	return sb.String()
}
