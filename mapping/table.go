package mapping

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/ESIPFed/eskg/hub"
)

// Kind is the literal kind a leaf field is projected as.
type Kind int

const (
	// KindGroup marks a compound element; it has children and no value.
	KindGroup Kind = iota
	// KindPlain is an untyped literal.
	KindPlain
	// KindText is a language-tagged literal.
	KindText
	// KindNumeric is coerced to a typed number, falling back to plain.
	KindNumeric
	// KindDate is a date-typed literal.
	KindDate
)

var kindNames = map[Kind]string{
	KindGroup:   "group",
	KindPlain:   "plain",
	KindText:    "text",
	KindNumeric: "numeric",
	KindDate:    "date",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a kind name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindGroup, fmt.Errorf("unknown field kind %q", s)
}

// Node is one entry of the field-mapping table: a dialect element, the
// record field it fills and how its values become literals.
type Node struct {
	// Tag is the dialect element name (e.g., "Dataset_Creator")
	Tag string
	// Path is the tag path from the record root
	Path []string
	// Field is the Go field name in the record model
	Field    string
	Kind     Kind
	Required bool
	// Repeated is set for elements that may occur more than once
	Repeated bool
	// AnyOf groups need at least one populated leaf per instance
	AnyOf    bool
	Children []*Node

	index int
	ptr   bool
}

// IsGroup reports whether the node is a compound element.
func (n *Node) IsGroup() bool {
	return n.Kind == KindGroup
}

// PathString joins the tag path with "/".
func (n *Node) PathString() string {
	return strings.Join(n.Path, "/")
}

var (
	tableOnce sync.Once
	table     []*Node
	leaves    []*Node
	byPath    map[string]*Node
)

func loadTable() {
	tableOnce.Do(func() {
		table = buildNodes(reflect.TypeOf(hub.Record{}), nil)
		byPath = make(map[string]*Node)
		var collect func(nodes []*Node)
		collect = func(nodes []*Node) {
			for _, n := range nodes {
				byPath[n.PathString()] = n
				if n.IsGroup() {
					collect(n.Children)
				} else {
					leaves = append(leaves, n)
				}
			}
		}
		collect(table)
	})
}

// Table returns the top-level nodes of the mapping table in record order.
func Table() []*Node {
	loadTable()
	return table
}

// Fields returns every leaf of the mapping table, depth first, in record
// order.
func Fields() []*Node {
	loadTable()
	return leaves
}

// Lookup finds a node by its tag path (e.g., "Data_Set_Citation/Version").
func Lookup(path string) (*Node, bool) {
	loadTable()
	n, ok := byPath[path]
	return n, ok
}

var stringType = reflect.TypeOf("")

func buildNodes(t reflect.Type, prefix []string) []*Node {
	var nodes []*Node
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("xml"), ",")[0]
		dif := f.Tag.Get("dif")
		if tag == "" || tag == "-" || dif == "-" {
			continue
		}

		path := make([]string, len(prefix)+1)
		copy(path, prefix)
		path[len(prefix)] = tag
		n := &Node{Tag: tag, Path: path, Field: f.Name, index: i}

		opts := strings.Split(dif, ",")
		for _, opt := range opts[1:] {
			switch opt {
			case "required":
				n.Required = true
			case "anyof":
				n.AnyOf = true
			default:
				panic(fmt.Sprintf("mapping: field %s: unknown dif option %q", f.Name, opt))
			}
		}

		ft := f.Type
		switch ft.Kind() {
		case reflect.Slice:
			n.Repeated = true
			ft = ft.Elem()
		case reflect.Pointer:
			n.ptr = true
			ft = ft.Elem()
		}

		switch {
		case ft.Kind() == reflect.Struct:
			n.Kind = KindGroup
			n.Children = buildNodes(ft, path)
		case ft == stringType:
			kind, err := ParseKind(opts[0])
			if err != nil || kind == KindGroup {
				panic(fmt.Sprintf("mapping: field %s: bad kind %q", f.Name, opts[0]))
			}
			n.Kind = kind
		default:
			panic(fmt.Sprintf("mapping: field %s: unsupported type %s", f.Name, f.Type))
		}
		nodes = append(nodes, n)
	}
	return nodes
}
