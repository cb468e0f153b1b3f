package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// WriteNTriples writes one statement per line in insertion order.
func WriteNTriples(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	for _, t := range g.Triples() {
		bw.WriteString(t.String())
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// ReadNTriples parses an N-Triples document.
func ReadNTriples(r io.Reader) (*Graph, error) {
	g := NewGraph()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		t, err := parseNTriple(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		g.Add(t)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

type ntScanner struct {
	s   string
	pos int
}

func parseNTriple(line string) (Triple, error) {
	sc := &ntScanner{s: line}
	subj, err := sc.subject()
	if err != nil {
		return Triple{}, err
	}
	sc.skipSpace()
	pred, err := sc.iri()
	if err != nil {
		return Triple{}, err
	}
	sc.skipSpace()
	obj, err := sc.object()
	if err != nil {
		return Triple{}, err
	}
	sc.skipSpace()
	if sc.pos >= len(sc.s) || sc.s[sc.pos] != '.' {
		return Triple{}, fmt.Errorf("expected '.' at column %d", sc.pos+1)
	}
	rest := strings.TrimSpace(sc.s[sc.pos+1:])
	if rest != "" && !strings.HasPrefix(rest, "#") {
		return Triple{}, fmt.Errorf("unexpected content after '.': %q", rest)
	}
	return Triple{Subject: subj, Predicate: pred, Object: obj}, nil
}

func (sc *ntScanner) skipSpace() {
	for sc.pos < len(sc.s) && (sc.s[sc.pos] == ' ' || sc.s[sc.pos] == '\t') {
		sc.pos++
	}
}

func (sc *ntScanner) subject() (Term, error) {
	if strings.HasPrefix(sc.s[sc.pos:], "_:") {
		return sc.blank(), nil
	}
	return sc.iri()
}

func (sc *ntScanner) object() (Term, error) {
	if sc.pos >= len(sc.s) {
		return nil, fmt.Errorf("missing object")
	}
	switch {
	case sc.s[sc.pos] == '"':
		return sc.literal()
	case strings.HasPrefix(sc.s[sc.pos:], "_:"):
		return sc.blank(), nil
	default:
		return sc.iri()
	}
}

func (sc *ntScanner) blank() Blank {
	start := sc.pos + 2
	end := start
	for end < len(sc.s) && sc.s[end] != ' ' && sc.s[end] != '\t' && sc.s[end] != '.' {
		end++
	}
	sc.pos = end
	return Blank(sc.s[start:end])
}

func (sc *ntScanner) iri() (IRI, error) {
	if sc.pos >= len(sc.s) || sc.s[sc.pos] != '<' {
		return "", fmt.Errorf("expected IRI at column %d", sc.pos+1)
	}
	end := strings.IndexByte(sc.s[sc.pos:], '>')
	if end < 0 {
		return "", fmt.Errorf("unterminated IRI at column %d", sc.pos+1)
	}
	raw := sc.s[sc.pos+1 : sc.pos+end]
	sc.pos += end + 1
	value, err := unescapeNT(raw)
	if err != nil {
		return "", err
	}
	return IRI(value), nil
}

func (sc *ntScanner) literal() (Literal, error) {
	i := sc.pos + 1
	for i < len(sc.s) {
		if sc.s[i] == '\\' {
			i += 2
			continue
		}
		if sc.s[i] == '"' {
			break
		}
		i++
	}
	if i >= len(sc.s) {
		return Literal{}, fmt.Errorf("unterminated literal at column %d", sc.pos+1)
	}
	lexical, err := unescapeNT(sc.s[sc.pos+1 : i])
	if err != nil {
		return Literal{}, err
	}
	sc.pos = i + 1

	switch {
	case strings.HasPrefix(sc.s[sc.pos:], "@"):
		end := sc.pos + 1
		for end < len(sc.s) && sc.s[end] != ' ' && sc.s[end] != '\t' && sc.s[end] != '.' {
			end++
		}
		lang := sc.s[sc.pos+1 : end]
		sc.pos = end
		return NewLangLiteral(lexical, lang), nil
	case strings.HasPrefix(sc.s[sc.pos:], "^^"):
		sc.pos += 2
		dt, err := sc.iri()
		if err != nil {
			return Literal{}, err
		}
		return NewTypedLiteral(lexical, dt), nil
	}
	return NewLiteral(lexical), nil
}

func unescapeNT(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("dangling escape in %q", s)
		}
		i++
		switch s[i] {
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case '"':
			sb.WriteByte('"')
		case '\'':
			sb.WriteByte('\'')
		case '\\':
			sb.WriteByte('\\')
		case 'u', 'U':
			n := 4
			if s[i] == 'U' {
				n = 8
			}
			if i+1+n > len(s) {
				return "", fmt.Errorf("short unicode escape in %q", s)
			}
			code, err := strconv.ParseUint(s[i+1:i+1+n], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad unicode escape in %q: %w", s, err)
			}
			if !utf8.ValidRune(rune(code)) {
				return "", fmt.Errorf("invalid code point %X in %q", code, s)
			}
			sb.WriteRune(rune(code))
			i += n
		default:
			return "", fmt.Errorf("unknown escape \\%c in %q", s[i], s)
		}
	}
	return sb.String(), nil
}
