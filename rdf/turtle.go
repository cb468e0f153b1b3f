package rdf

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

var localNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)

// turtleWriter compacts IRIs against a prefix table and remembers which
// prefixes were used so only those are declared.
type turtleWriter struct {
	prefixes map[string]string
	used     map[string]bool
}

// WriteTurtle writes the graph as Turtle. Statements are grouped by
// subject in first-seen order; rdf:type is written as "a".
func WriteTurtle(w io.Writer, g *Graph, prefixes map[string]string) error {
	tw := &turtleWriter{prefixes: prefixes, used: make(map[string]bool)}

	var body strings.Builder
	for _, s := range g.Subjects() {
		triples := g.Match(s, "", nil)
		body.WriteString(tw.term(s))
		body.WriteString("\n")
		for i, t := range triples {
			pred := "a"
			if t.Predicate != Type {
				pred = tw.term(t.Predicate)
			}
			fmt.Fprintf(&body, "    %s %s", pred, tw.term(t.Object))
			if i < len(triples)-1 {
				body.WriteString(" ;\n")
			} else {
				body.WriteString(" .\n")
			}
		}
		body.WriteString("\n")
	}

	bw := bufio.NewWriter(w)
	// Sort prefixes for consistent output
	keys := make([]string, 0, len(tw.used))
	for k := range tw.used {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		fmt.Fprintf(bw, "@prefix %s: <%s> .\n", prefix, tw.prefixes[prefix])
	}
	if len(keys) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString(body.String())
	return bw.Flush()
}

func (tw *turtleWriter) term(t Term) string {
	switch v := t.(type) {
	case IRI:
		if c, ok := tw.compact(v); ok {
			return c
		}
		return v.String()
	case Literal:
		s := `"` + escapeLiteral(v.Lexical) + `"`
		switch {
		case v.Lang != "":
			return s + "@" + v.Lang
		case v.Datatype != "":
			return s + "^^" + tw.term(v.Datatype)
		}
		return s
	default:
		return t.String()
	}
}

func (tw *turtleWriter) compact(iri IRI) (string, bool) {
	best, bestNS := "", ""
	for prefix, ns := range tw.prefixes {
		if len(ns) > len(bestNS) && strings.HasPrefix(string(iri), ns) {
			local := string(iri)[len(ns):]
			if localNamePattern.MatchString(local) {
				best, bestNS = prefix, ns
			}
		}
	}
	if bestNS == "" {
		return "", false
	}
	tw.used[best] = true
	return best + ":" + string(iri)[len(bestNS):], true
}
