package gomap

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"

	"github.com/kdl-format/go-kdl/encode"
	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/shape"
)

// Marshal encodes a Go value as KDL text.
func Marshal(v any, opts ...MapOption) ([]byte, error) {
	doc, err := ToIR(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encode.Encode(doc, &buf, ToEncodeOptions(opts...)...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToIR converts a Go value to a document tree. v must be a struct (or
// pointer to one) whose mapped fields are all child-role; each becomes
// a top level node. Absent optional fields are skipped entirely, with
// no Null emitted; a non-pointer field tagged optional is absent when
// it holds its zero value.
func ToIR(v any) (*ir.Document, error) {
	if v == nil {
		return nil, &MarshalError{Message: "source value cannot be nil"}
	}
	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, &MarshalError{Message: "source pointer cannot be nil"}
		}
		val = val.Elem()
	}
	s, err := shape.Of(val.Type())
	if err != nil {
		return nil, &MarshalError{Message: err.Error(), Err: err}
	}
	if !s.OnlyChildren() {
		return nil, &MarshalError{
			Message: fmt.Sprintf("root type %s must have only child-role fields", s.Type),
		}
	}
	doc := &ir.Document{}
	for _, f := range s.Fields {
		if err := emitChild(func(n *ir.Node) { doc.AddNode(n) }, f, val.Field(f.Index), ""); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// emitChild emits the nodes for one child-role field: nothing for an
// absent optional, one node per element for sequences, one node
// otherwise.
func emitChild(add func(*ir.Node), f *shape.Field, fv reflect.Value, path string) error {
	fv, present := deref(fv)
	if !present || skipZero(f, fv) {
		return nil
	}
	fieldPath := joinPath(path, f.Name)
	if f.Sequence {
		for i := 0; i < fv.Len(); i++ {
			ev, present := deref(fv.Index(i))
			if !present {
				if f.Kind != shape.NoKind {
					add(ir.NewNode(f.Name).AddArg(ir.Null()))
				} else {
					add(ir.NewNode(f.Name))
				}
				continue
			}
			node, err := buildNode(f, ev, fmt.Sprintf("%s[%d]", fieldPath, i))
			if err != nil {
				return err
			}
			add(node)
		}
		return nil
	}
	node, err := buildNode(f, fv, fieldPath)
	if err != nil {
		return err
	}
	add(node)
	return nil
}

// buildNode renders one value of a child field as a node.
func buildNode(f *shape.Field, val reflect.Value, path string) (*ir.Node, error) {
	node := ir.NewNode(f.Name)
	if f.Kind != shape.NoKind {
		v, err := scalarValue(f.Kind, val, path)
		if err != nil {
			return nil, err
		}
		node.AddArg(v)
		return node, nil
	}
	if val.Kind() == reflect.Map {
		if err := fillMapNode(node, val, path); err != nil {
			return nil, err
		}
		return node, nil
	}
	if err := fillStructNode(node, val, path); err != nil {
		return nil, err
	}
	return node, nil
}

// fillStructNode emits a struct's fields onto node in declaration
// order: arguments first as they appear, then properties, with child
// fields becoming nested nodes.
func fillStructNode(node *ir.Node, val reflect.Value, path string) error {
	s, err := shape.Of(val.Type())
	if err != nil {
		return &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
	}
	for _, f := range s.Fields {
		fv := val.Field(f.Index)
		fieldPath := joinPath(path, f.Name)
		switch f.Role {
		case shape.ArgRole:
			if err := emitScalars(f, fv, fieldPath, func(v *ir.Value) {
				node.AddArg(v)
			}); err != nil {
				return err
			}
		case shape.PropRole:
			if err := emitScalars(f, fv, fieldPath, func(v *ir.Value) {
				node.AddProp(f.Name, v)
			}); err != nil {
				return err
			}
		case shape.ChildRole:
			if err := emitChild(func(n *ir.Node) { node.AddChild(n) }, f, fv, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// emitScalars renders a scalar field's value(s): absent optionals emit
// nothing, sequences emit one entry per element.
func emitScalars(f *shape.Field, fv reflect.Value, path string, add func(*ir.Value)) error {
	fv, present := deref(fv)
	if !present || skipZero(f, fv) {
		return nil
	}
	if f.Sequence {
		for i := 0; i < fv.Len(); i++ {
			ev, present := deref(fv.Index(i))
			if !present {
				add(ir.Null())
				continue
			}
			v, err := scalarValue(f.Kind, ev, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return err
			}
			add(v)
		}
		return nil
	}
	v, err := scalarValue(f.Kind, fv, path)
	if err != nil {
		return err
	}
	add(v)
	return nil
}

// fillMapNode emits a string-keyed map in sorted key order: scalar
// elements as properties, compound elements as child nodes.
func fillMapNode(node *ir.Node, m reflect.Value, path string) error {
	keys := make([]string, 0, m.Len())
	for _, k := range m.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	elemKind := shape.KindOf(derefType(m.Type().Elem()))
	for _, key := range keys {
		ev, present := deref(m.MapIndex(reflect.ValueOf(key)))
		keyPath := joinPath(path, key)
		if elemKind != shape.NoKind {
			if !present {
				node.AddProp(key, ir.Null())
				continue
			}
			v, err := scalarValue(elemKind, ev, keyPath)
			if err != nil {
				return err
			}
			node.AddProp(key, v)
			continue
		}
		child := ir.NewNode(key)
		if !present {
			node.AddChild(child)
			continue
		}
		if ev.Kind() == reflect.Map {
			if err := fillMapNode(child, ev, keyPath); err != nil {
				return err
			}
		} else {
			if err := fillStructNode(child, ev, keyPath); err != nil {
				return err
			}
		}
		node.AddChild(child)
	}
	return nil
}

// skipZero reports whether a zero value of a non-pointer field tagged
// optional counts as absent. Pointer optionals signal absence with
// nil instead, so a pointed-to zero still emits.
func skipZero(f *shape.Field, fv reflect.Value) bool {
	return f.Optional && f.Type.Kind() != reflect.Ptr && fv.IsZero()
}

// deref unwraps one pointer level; present is false for a nil pointer.
func deref(v reflect.Value) (_ reflect.Value, present bool) {
	if v.Kind() != reflect.Ptr {
		return v, true
	}
	if v.IsNil() {
		return v, false
	}
	return v.Elem(), true
}

func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}
