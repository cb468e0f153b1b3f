package mapping

import (
	"reflect"

	"github.com/ESIPFed/eskg/hub"
	"github.com/ESIPFed/eskg/value"
)

// Walk calls fn for every present leaf value of the record, in table
// order. Group instances are visited in document order, and absent
// (empty) values are skipped.
func Walk(rec *hub.Record, fn func(n *Node, value string)) {
	walkNodes(reflect.ValueOf(rec).Elem(), Table(), fn)
}

func walkNodes(v reflect.Value, nodes []*Node, fn func(*Node, string)) {
	for _, n := range nodes {
		fv := v.Field(n.index)
		switch {
		case n.Repeated:
			for i := 0; i < fv.Len(); i++ {
				walkValue(fv.Index(i), n, fn)
			}
		case n.ptr:
			if !fv.IsNil() {
				walkValue(fv.Elem(), n, fn)
			}
		default:
			walkValue(fv, n, fn)
		}
	}
}

func walkValue(v reflect.Value, n *Node, fn func(*Node, string)) {
	if n.IsGroup() {
		walkNodes(v, n.Children, fn)
		return
	}
	if s := v.String(); s != "" {
		fn(n, s)
	}
}

// Normalize trims every value of the record in place and drops entries of
// repeated values that are empty after trimming. Options apply to
// language-tagged text fields only.
func Normalize(rec *hub.Record, textOpts ...value.TextOption) {
	normalizeNodes(reflect.ValueOf(rec).Elem(), Table(), textOpts)
}

func normalizeNodes(v reflect.Value, nodes []*Node, textOpts []value.TextOption) {
	for _, n := range nodes {
		fv := v.Field(n.index)
		var opts []value.TextOption
		if n.Kind == KindText {
			opts = textOpts
		}

		switch {
		case n.IsGroup() && n.Repeated:
			for i := 0; i < fv.Len(); i++ {
				normalizeNodes(fv.Index(i), n.Children, textOpts)
			}
		case n.IsGroup() && n.ptr:
			if !fv.IsNil() {
				normalizeNodes(fv.Elem(), n.Children, textOpts)
			}
		case n.IsGroup():
			normalizeNodes(fv, n.Children, textOpts)
		case n.Repeated:
			cleaned := value.CleanSlice(fv.Interface().([]string), opts...)
			fv.Set(reflect.ValueOf(cleaned))
		default:
			fv.SetString(value.Clean(fv.String(), opts...))
		}
	}
}
