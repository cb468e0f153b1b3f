package mapping

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ESIPFed/eskg/hub"
)

// Validate checks the record against the required fields of the mapping
// table. Every field is checked before reporting, and the first missing
// field in table order is returned as a *hub.MissingFieldError.
func Validate(rec *hub.Record) error {
	missing := Missing(rec)
	if len(missing) == 0 {
		return nil
	}
	return &hub.MissingFieldError{Field: missing[0], EntryID: rec.EntryID}
}

// Missing returns the path of every missing required field.
func Missing(rec *hub.Record) []string {
	var missing []string
	validateNodes(reflect.ValueOf(rec).Elem(), Table(), "", &missing)
	return missing
}

func validateNodes(v reflect.Value, nodes []*Node, prefix string, missing *[]string) {
	for _, n := range nodes {
		fv := v.Field(n.index)
		path := prefix + n.Tag

		switch {
		case n.IsGroup() && n.Repeated:
			for i := 0; i < fv.Len(); i++ {
				validateGroup(fv.Index(i), n, fmt.Sprintf("%s[%d]", path, i), missing)
			}
		case n.IsGroup() && n.ptr:
			if !fv.IsNil() {
				validateGroup(fv.Elem(), n, path, missing)
			}
		case n.IsGroup():
			validateGroup(fv, n, path, missing)
		case n.Required && n.Repeated:
			if fv.Len() == 0 {
				*missing = append(*missing, path)
			}
		case n.Required:
			if fv.String() == "" {
				*missing = append(*missing, path)
			}
		}
	}
}

func validateGroup(v reflect.Value, n *Node, path string, missing *[]string) {
	if n.AnyOf && !populated(v, n.Children) {
		tags := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			tags = append(tags, c.Tag)
		}
		*missing = append(*missing, path+"/"+strings.Join(tags, "|"))
		return
	}
	validateNodes(v, n.Children, path+"/", missing)
}

func populated(v reflect.Value, nodes []*Node) bool {
	present := false
	walkNodes(v, nodes, func(*Node, string) { present = true })
	return present
}
