package gomap

import (
	"github.com/kdl-format/go-kdl/ir"
)

// Generic converts a document to untyped Go values for inspection and
// querying, without a target struct. Top level nodes become map keys;
// a name appearing more than once collects into a []any.
//
// Each node converts by a simple rule: a node carrying only arguments
// becomes the argument value (or a []any of them); otherwise it
// becomes a map[string]any of its properties and children, with any
// arguments under the "args" key.
func Generic(doc *ir.Document) map[string]any {
	return genericChildren(doc.Nodes)
}

func genericChildren(nodes []*ir.Node) map[string]any {
	res := map[string]any{}
	for _, n := range nodes {
		v := genericNode(n)
		prev, seen := res[n.Name]
		if !seen {
			res[n.Name] = v
			continue
		}
		if list, ok := prev.([]any); ok {
			res[n.Name] = append(list, v)
		} else {
			res[n.Name] = []any{prev, v}
		}
	}
	return res
}

func genericNode(n *ir.Node) any {
	var args []any
	props := false
	for _, e := range n.Entries {
		if e.IsArg() {
			args = append(args, genericValue(e.Value))
		} else {
			props = true
		}
	}
	if !props && len(n.Children) == 0 {
		switch len(args) {
		case 0:
			return nil
		case 1:
			return args[0]
		}
		return args
	}
	res := genericChildren(n.Children)
	for _, e := range n.Entries {
		if !e.IsArg() {
			res[e.Name] = genericValue(e.Value)
		}
	}
	if len(args) > 0 {
		res["args"] = args
	}
	return res
}

func genericValue(v *ir.Value) any {
	switch v.Kind {
	case ir.BoolKind:
		return v.Bool
	case ir.StringKind:
		return v.String
	case ir.FloatKind:
		return v.Float64
	case ir.IntegerKind:
		if v.Int.IsInt64() {
			return v.Int.Int64()
		}
		return v.Int
	}
	return nil
}
