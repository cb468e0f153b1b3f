package rdf

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// WriteRDFXML writes the graph as RDF/XML, one rdf:Description per
// subject. Predicate namespaces without a prefix in prefixes get
// generated ns1, ns2, ... prefixes.
func WriteRDFXML(w io.Writer, g *Graph, prefixes map[string]string) error {
	byNS := make(map[string]string)
	for p, ns := range prefixes {
		if prev, ok := byNS[ns]; !ok || p < prev {
			byNS[ns] = p
		}
	}
	byNS[RDFNamespace] = "rdf"

	qname := func(iri IRI) (string, error) {
		ns, local := splitForXML(string(iri))
		if ns == "" || local == "" {
			return "", fmt.Errorf("predicate %s cannot be written as an XML element", iri)
		}
		p, ok := byNS[ns]
		if !ok {
			p = "ns" + strconv.Itoa(len(byNS))
			for prefixTaken(byNS, p) {
				p += "_"
			}
			byNS[ns] = p
		}
		return p + ":" + local, nil
	}

	var body strings.Builder
	for _, s := range g.Subjects() {
		body.WriteString("  <rdf:Description")
		writeNodeRef(&body, "about", s)
		body.WriteString(">\n")
		for _, t := range g.Match(s, "", nil) {
			name, err := qname(t.Predicate)
			if err != nil {
				return err
			}
			body.WriteString("    <" + name)
			switch o := t.Object.(type) {
			case IRI:
				writeAttr(&body, "rdf:resource", string(o))
				body.WriteString("/>\n")
				continue
			case Blank:
				writeAttr(&body, "rdf:nodeID", string(o))
				body.WriteString("/>\n")
				continue
			case Literal:
				if o.Lang != "" {
					writeAttr(&body, "xml:lang", o.Lang)
				} else if o.Datatype != "" {
					writeAttr(&body, "rdf:datatype", string(o.Datatype))
				}
				body.WriteString(">")
				if err := xml.EscapeText(&body, []byte(o.Lexical)); err != nil {
					return err
				}
				body.WriteString("</" + name + ">\n")
			}
		}
		body.WriteString("  </rdf:Description>\n")
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(xml.Header)
	bw.WriteString("<rdf:RDF")
	nsList := make([]string, 0, len(byNS))
	for ns := range byNS {
		nsList = append(nsList, ns)
	}
	sort.Slice(nsList, func(i, j int) bool { return byNS[nsList[i]] < byNS[nsList[j]] })
	for _, ns := range nsList {
		bw.WriteString("\n    xmlns:" + byNS[ns] + "=")
		bw.WriteString(strconv.Quote(ns))
	}
	bw.WriteString(">\n")
	bw.WriteString(body.String())
	bw.WriteString("</rdf:RDF>\n")
	return bw.Flush()
}

func prefixTaken(byNS map[string]string, p string) bool {
	for _, v := range byNS {
		if v == p {
			return true
		}
	}
	return false
}

// splitForXML splits iri before the longest suffix that is an NCName.
// The local name may end in digits as long as it starts with a letter or
// underscore.
func splitForXML(iri string) (ns, local string) {
	start := -1
	for i := len(iri) - 1; i >= 0; i-- {
		c := iri[i]
		if !isNameChar(c) {
			break
		}
		if isNameStart(c) {
			start = i
		}
	}
	if start < 0 {
		return iri, ""
	}
	return iri[:start], iri[start:]
}

func isNameStart(c byte) bool {
	return c == '_' || ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c == '-' || c == '.' || ('0' <= c && c <= '9')
}

func writeNodeRef(sb *strings.Builder, attr string, t Term) {
	switch v := t.(type) {
	case IRI:
		writeAttr(sb, "rdf:"+attr, string(v))
	case Blank:
		writeAttr(sb, "rdf:nodeID", string(v))
	}
}

func writeAttr(sb *strings.Builder, name, value string) {
	sb.WriteString(" " + name + `="`)
	xml.EscapeText(sb, []byte(value))
	sb.WriteString(`"`)
}

var entityDecl = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_][\w.\-]*)\s+["']([^"']*)["']\s*>`)

// ReadRDFXML parses an RDF/XML document. It covers the forms used by
// published OWL vocabularies: typed node elements, rdf:about, rdf:ID and
// rdf:nodeID, rdf:resource, nested node elements, rdf:parseType="Resource",
// rdf:datatype, xml:lang, xml:base, property attributes and internal
// DOCTYPE entity declarations. rdf:parseType="Literal" and "Collection"
// content is skipped.
func ReadRDFXML(r io.Reader, base string) (*Graph, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = make(map[string]string)
	p := &rdfxmlParser{dec: dec, g: NewGraph()}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errors.New("no root element")
		}
		if err != nil {
			return nil, err
		}
		switch el := tok.(type) {
		case xml.Directive:
			for _, m := range entityDecl.FindAllStringSubmatch(string(el), -1) {
				dec.Entity[m[1]] = m[2]
			}
		case xml.StartElement:
			ctx := p.scope(el, xmlScope{base: base})
			if el.Name.Space == RDFNamespace && el.Name.Local == "RDF" {
				if err := p.nodeElements(ctx); err != nil {
					return nil, err
				}
			} else if _, err := p.nodeElement(el, ctx); err != nil {
				return nil, err
			}
			return p.g, nil
		}
	}
}

type xmlScope struct {
	base string
	lang string
}

type rdfxmlParser struct {
	dec    *xml.Decoder
	g      *Graph
	blanks int
}

func (p *rdfxmlParser) scope(el xml.StartElement, ctx xmlScope) xmlScope {
	for _, a := range el.Attr {
		if a.Name.Space != XMLNamespace {
			continue
		}
		switch a.Name.Local {
		case "base":
			ctx.base = resolveIRI(ctx.base, a.Value)
		case "lang":
			ctx.lang = strings.ToLower(a.Value)
		}
	}
	return ctx
}

func (p *rdfxmlParser) newBlank() Blank {
	p.blanks++
	return Blank("b" + strconv.Itoa(p.blanks))
}

// nodeElements reads node elements until the enclosing end element.
func (p *rdfxmlParser) nodeElements(ctx xmlScope) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if _, err := p.nodeElement(el, p.scope(el, ctx)); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (p *rdfxmlParser) nodeElement(el xml.StartElement, ctx xmlScope) (Term, error) {
	var subject Term
	for _, a := range el.Attr {
		if a.Name.Space != RDFNamespace {
			continue
		}
		switch a.Name.Local {
		case "about":
			subject = IRI(resolveIRI(ctx.base, a.Value))
		case "ID":
			subject = IRI(stripFragment(ctx.base) + "#" + a.Value)
		case "nodeID":
			subject = Blank(a.Value)
		}
	}
	if subject == nil {
		subject = p.newBlank()
	}

	if !(el.Name.Space == RDFNamespace && el.Name.Local == "Description") {
		p.g.Add(Triple{Subject: subject, Predicate: Type, Object: IRI(el.Name.Space + el.Name.Local)})
	}
	p.propertyAttrs(subject, el, ctx)

	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, err
		}
		switch child := tok.(type) {
		case xml.StartElement:
			if err := p.propertyElement(subject, child, p.scope(child, ctx)); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return subject, nil
		}
	}
}

// propertyAttrs turns non-syntax attributes into literal statements.
func (p *rdfxmlParser) propertyAttrs(subject Term, el xml.StartElement, ctx xmlScope) int {
	n := 0
	for _, a := range el.Attr {
		if isSyntaxAttr(a.Name) {
			continue
		}
		pred := IRI(a.Name.Space + a.Name.Local)
		if a.Name.Space == RDFNamespace && a.Name.Local == "type" {
			p.g.Add(Triple{Subject: subject, Predicate: Type, Object: IRI(resolveIRI(ctx.base, a.Value))})
		} else {
			p.g.Add(Triple{Subject: subject, Predicate: pred, Object: langLiteral(a.Value, ctx.lang)})
		}
		n++
	}
	return n
}

func isSyntaxAttr(n xml.Name) bool {
	switch {
	case n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns"):
		return true
	case n.Space == XMLNamespace:
		return true
	case n.Space == "":
		return true
	case n.Space == RDFNamespace:
		switch n.Local {
		case "about", "ID", "nodeID", "resource", "datatype", "parseType", "bagID", "aboutEach", "aboutEachPrefix":
			return true
		}
	}
	return false
}

func (p *rdfxmlParser) propertyElement(subject Term, el xml.StartElement, ctx xmlScope) error {
	pred := IRI(el.Name.Space + el.Name.Local)
	var (
		datatype  IRI
		parseType string
		object    Term
	)
	for _, a := range el.Attr {
		if a.Name.Space != RDFNamespace {
			continue
		}
		switch a.Name.Local {
		case "resource":
			object = IRI(resolveIRI(ctx.base, a.Value))
		case "nodeID":
			object = Blank(a.Value)
		case "datatype":
			datatype = IRI(resolveIRI(ctx.base, a.Value))
		case "parseType":
			parseType = a.Value
		}
	}

	switch parseType {
	case "":
	case "Resource":
		b := p.newBlank()
		p.g.Add(Triple{Subject: subject, Predicate: pred, Object: b})
		for {
			tok, err := p.dec.Token()
			if err != nil {
				return err
			}
			switch child := tok.(type) {
			case xml.StartElement:
				if err := p.propertyElement(b, child, p.scope(child, ctx)); err != nil {
					return err
				}
			case xml.EndElement:
				return nil
			}
		}
	default:
		return p.dec.Skip()
	}

	if object != nil {
		p.propertyAttrs(object, el, ctx)
		p.g.Add(Triple{Subject: subject, Predicate: pred, Object: object})
		return p.dec.Skip()
	}

	var text strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch child := tok.(type) {
		case xml.CharData:
			text.Write(child)
		case xml.StartElement:
			obj, err := p.nodeElement(child, p.scope(child, ctx))
			if err != nil {
				return err
			}
			p.g.Add(Triple{Subject: subject, Predicate: pred, Object: obj})
			return p.dec.Skip()
		case xml.EndElement:
			if hasPropertyAttrs(el) {
				b := p.newBlank()
				p.propertyAttrs(b, el, ctx)
				p.g.Add(Triple{Subject: subject, Predicate: pred, Object: b})
				return nil
			}
			var lit Literal
			if datatype != "" {
				lit = NewTypedLiteral(text.String(), datatype)
			} else {
				lit = langLiteral(text.String(), ctx.lang)
			}
			p.g.Add(Triple{Subject: subject, Predicate: pred, Object: lit})
			return nil
		}
	}
}

func hasPropertyAttrs(el xml.StartElement) bool {
	for _, a := range el.Attr {
		if !isSyntaxAttr(a.Name) {
			return true
		}
	}
	return false
}

func langLiteral(text, lang string) Literal {
	if lang != "" {
		return NewLangLiteral(text, lang)
	}
	return NewLiteral(text)
}

func resolveIRI(base, ref string) string {
	if base == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func stripFragment(iri string) string {
	if i := strings.IndexByte(iri, '#'); i >= 0 {
		return iri[:i]
	}
	return iri
}
