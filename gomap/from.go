package gomap

import (
	"errors"
	"fmt"

	"github.com/kdl-format/go-kdl/debug"
	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/parse"
	"github.com/kdl-format/go-kdl/shape"
)

// Unmarshal parses KDL text and decodes it into the struct pointed to
// by v. Decoding is all-or-nothing: on error v holds no usable result.
func Unmarshal(data []byte, v any, opts ...UnmapOption) error {
	doc, err := parse.Parse(data, ToParseOptions(opts...)...)
	if err != nil {
		return err
	}
	return FromIR(doc, v)
}

// FromIR decodes a document tree into the struct pointed to by v. The
// struct's mapped fields must all be child-role; each top level node
// binds to the child field matching its name.
func FromIR(doc *ir.Document, v any) error {
	p, err := shape.NewPartial(v)
	if err != nil {
		return &UnmarshalError{Message: err.Error(), Err: err}
	}
	if !p.Root().OnlyChildren() {
		return &UnmarshalError{
			Message: fmt.Sprintf("root type %s must have only child-role fields", p.Root().Type),
		}
	}
	for _, node := range doc.Nodes {
		if err := decodeNode(p, node, ""); err != nil {
			return err
		}
	}
	if err := p.Finalize(); err != nil {
		var missing *shape.MissingFieldsError
		if errors.As(err, &missing) {
			return &UnmarshalError{Message: err.Error(), Err: err}
		}
		return err
	}
	return nil
}

// decodeNode binds one document node inside the current compound
// frame: a struct's child field by name, a property or argument field
// of that name written in block form, or a map entry keyed by the
// node name.
func decodeNode(p *shape.Partial, node *ir.Node, path string) error {
	nodePath := joinPath(path, node.Name)
	if debug.Map() {
		debug.Logf("bind node %q at %q\n", node.Name, path)
	}
	if s := p.Shape(); s != nil {
		f := s.Child(node.Name)
		if f == nil {
			// block form: a property or argument field written as a
			// child node
			f = s.Named(node.Name)
		}
		if f == nil {
			return &UnmarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("unknown node %q for %s", node.Name, s.Type),
			}
		}
		if f.Kind != shape.NoKind {
			return decodeValueNode(p, f, node, path)
		}
		if err := begin(p, f, path, "node", node.Name); err != nil {
			return err
		}
		if err := decodeInto(p, node, nodePath); err != nil {
			return err
		}
		return p.End()
	}
	if p.IsMap() {
		if shape.KindOf(derefType(p.MapElem())) != shape.NoKind {
			return decodeValueEntry(p, node, path)
		}
		if err := p.BeginMapEntry(node.Name); err != nil {
			return err
		}
		if err := decodeInto(p, node, nodePath); err != nil {
			return err
		}
		return p.End()
	}
	return &UnmarshalError{
		FieldPath: path,
		Message:   fmt.Sprintf("node %q against a non-compound target", node.Name),
	}
}

// decodeInto consumes a node's entries and children with the node's
// frame already open. Positional arguments bind strictly left to
// right to argument-role fields.
func decodeInto(p *shape.Partial, node *ir.Node, path string) error {
	argIdx := 0
	for _, e := range node.Entries {
		if e.IsArg() {
			s := p.Shape()
			if s == nil {
				return &UnmarshalError{
					FieldPath: path,
					Message:   "map node does not take arguments",
				}
			}
			f := s.Arg(argIdx)
			if f == nil {
				return &UnmarshalError{
					FieldPath: path,
					Message:   fmt.Sprintf("no argument field for position %d (%s has %d)", argIdx, s.Type, s.NumArgs()),
				}
			}
			argIdx++
			if err := begin(p, f, path, "argument", f.Name); err != nil {
				return err
			}
			if err := writeScalar(p, e.Value, joinPath(path, f.Name)); err != nil {
				return err
			}
			if err := p.End(); err != nil {
				return err
			}
			continue
		}
		if s := p.Shape(); s != nil {
			f := s.Prop(e.Name)
			if f == nil {
				return &UnmarshalError{
					FieldPath: path,
					Message:   fmt.Sprintf("unknown property %q for %s", e.Name, s.Type),
				}
			}
			if err := begin(p, f, path, "property", e.Name); err != nil {
				return err
			}
			if err := writeScalar(p, e.Value, joinPath(path, e.Name)); err != nil {
				return err
			}
			if err := p.End(); err != nil {
				return err
			}
			continue
		}
		// property on a map node: the entry becomes a map element
		if err := p.BeginMapEntry(e.Name); err != nil {
			return err
		}
		if err := writeScalar(p, e.Value, joinPath(path, e.Name)); err != nil {
			return err
		}
		if err := p.End(); err != nil {
			return err
		}
	}
	for _, c := range node.Children {
		if err := decodeNode(p, c, path); err != nil {
			return err
		}
	}
	return nil
}

// decodeValueNode handles the node-value form: a node whose single
// argument (or argument list, for sequences) carries a scalar child
// field's value.
func decodeValueNode(p *shape.Partial, f *shape.Field, node *ir.Node, path string) error {
	nodePath := joinPath(path, node.Name)
	if err := checkValueNode(node, f.Sequence, nodePath); err != nil {
		return err
	}
	for _, e := range node.Entries {
		if err := begin(p, f, path, "node", node.Name); err != nil {
			return err
		}
		if err := writeScalar(p, e.Value, nodePath); err != nil {
			return err
		}
		if err := p.End(); err != nil {
			return err
		}
	}
	return nil
}

// decodeValueEntry is decodeValueNode for scalar-valued map elements.
func decodeValueEntry(p *shape.Partial, node *ir.Node, path string) error {
	nodePath := joinPath(path, node.Name)
	if err := checkValueNode(node, false, nodePath); err != nil {
		return err
	}
	for _, e := range node.Entries {
		if err := p.BeginMapEntry(node.Name); err != nil {
			return err
		}
		if err := writeScalar(p, e.Value, nodePath); err != nil {
			return err
		}
		if err := p.End(); err != nil {
			return err
		}
	}
	return nil
}

func checkValueNode(node *ir.Node, sequence bool, nodePath string) error {
	if len(node.Children) > 0 {
		return &UnmarshalError{
			FieldPath: nodePath,
			Message:   "scalar field cannot have child nodes",
		}
	}
	args := 0
	for _, e := range node.Entries {
		if !e.IsArg() {
			return &UnmarshalError{
				FieldPath: nodePath,
				Message:   fmt.Sprintf("scalar field cannot have property %q", e.Name),
			}
		}
		args++
	}
	if !sequence && args != 1 {
		return &UnmarshalError{
			FieldPath: nodePath,
			Message:   fmt.Sprintf("expected exactly one argument, got %d", args),
		}
	}
	return nil
}

// begin wraps Partial.Begin, turning a duplicate entry into a content
// error naming the offending document element.
func begin(p *shape.Partial, f *shape.Field, path, what, name string) error {
	err := p.Begin(f)
	if err == nil {
		return nil
	}
	if errors.Is(err, shape.ErrDuplicate) {
		return &UnmarshalError{
			FieldPath: path,
			Message:   fmt.Sprintf("duplicate %s %q for single-valued field", what, name),
			Err:       err,
		}
	}
	return err
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
