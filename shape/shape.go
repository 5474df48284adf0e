package shape

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"
)

// Role classifies how a field is populated from document structure.
type Role int

const (
	ArgRole Role = iota
	PropRole
	ChildRole
)

func (r Role) String() string {
	switch r {
	case ArgRole:
		return "argument"
	case PropRole:
		return "property"
	case ChildRole:
		return "child"
	}
	return "<unknown role>"
}

// ScalarKind classifies a field's value category. NoKind marks
// compound fields, populated only via nested traversal.
type ScalarKind int

const (
	NoKind ScalarKind = iota
	StringKind
	BoolKind
	IntKind
	Int8Kind
	Int16Kind
	Int32Kind
	Int64Kind
	UintKind
	Uint8Kind
	Uint16Kind
	Uint32Kind
	Uint64Kind
	Float32Kind
	Float64Kind
	RuneKind
	TextKind // scalar only through encoding.TextMarshaler/TextUnmarshaler
)

func (k ScalarKind) String() string {
	s, ok := map[ScalarKind]string{
		NoKind:      "compound",
		StringKind:  "string",
		BoolKind:    "bool",
		IntKind:     "int",
		Int8Kind:    "int8",
		Int16Kind:   "int16",
		Int32Kind:   "int32",
		Int64Kind:   "int64",
		UintKind:    "uint",
		Uint8Kind:   "uint8",
		Uint16Kind:  "uint16",
		Uint32Kind:  "uint32",
		Uint64Kind:  "uint64",
		Float32Kind: "float32",
		Float64Kind: "float64",
		RuneKind:    "rune",
		TextKind:    "text",
	}[k]
	if ok {
		return s
	}
	return "<unknown scalar kind>"
}

// Field describes one mapped struct field.
type Field struct {
	// Name is the document-facing name: the Go field name unless
	// renamed with a field= tag.
	Name   string
	GoName string

	// Index is the field's index in the struct.
	Index int
	// RoleIndex is the field's position within its role group.
	RoleIndex int

	Role Role
	Kind ScalarKind

	// Optional fields (pointer typed or tagged optional) may be
	// absent from the document.
	Optional bool
	// Sequence fields (slice typed) accumulate one element per
	// matching entry or node.
	Sequence bool

	// Type is the declared field type; Elem is the value type after
	// unwrapping one pointer and, for sequences, the slice element.
	Type reflect.Type
	Elem reflect.Type
}

// Required reports whether finalize must see this field entered.
func (f *Field) Required() bool {
	return !f.Optional && !f.Sequence && !isMap(f.Elem)
}

// Shape is the ordered field list of a struct type.
type Shape struct {
	Type   Type
	Fields []*Field

	args     []*Field
	props    map[string]*Field
	children map[string]*Field
}

// Type aliases reflect.Type for readability in the public surface.
type Type = reflect.Type

// ShapeError reports a type that cannot be mapped.
type ShapeError struct {
	Type    reflect.Type
	GoName  string
	Message string
}

func (e *ShapeError) Error() string {
	if e.GoName != "" {
		return fmt.Sprintf("shape error in %s, field %s: %s", e.Type, e.GoName, e.Message)
	}
	return fmt.Sprintf("shape error in %s: %s", e.Type, e.Message)
}

var shapeCache sync.Map // reflect.Type -> *Shape

// Of returns the Shape of a struct type, building and caching it on
// first use.
func Of(t reflect.Type) (*Shape, error) {
	if s, ok := shapeCache.Load(t); ok {
		return s.(*Shape), nil
	}
	if t.Kind() != reflect.Struct {
		return nil, &ShapeError{Type: t, Message: "not a struct type"}
	}
	s := &Shape{
		Type:     t,
		props:    map[string]*Field{},
		children: map[string]*Field{},
	}
	propIdx, childIdx := 0, 0
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		f, err := buildField(t, sf)
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue
		}
		switch f.Role {
		case ArgRole:
			f.RoleIndex = len(s.args)
			s.args = append(s.args, f)
		case PropRole:
			if _, dup := s.props[f.Name]; dup {
				return nil, &ShapeError{Type: t, GoName: f.GoName, Message: fmt.Sprintf("duplicate property name %q", f.Name)}
			}
			f.RoleIndex = propIdx
			propIdx++
			s.props[f.Name] = f
		case ChildRole:
			if _, dup := s.children[f.Name]; dup {
				return nil, &ShapeError{Type: t, GoName: f.GoName, Message: fmt.Sprintf("duplicate child name %q", f.Name)}
			}
			f.RoleIndex = childIdx
			childIdx++
			s.children[f.Name] = f
		}
		s.Fields = append(s.Fields, f)
	}
	for i, f := range s.args {
		if f.Sequence && i != len(s.args)-1 {
			return nil, &ShapeError{Type: t, GoName: f.GoName, Message: "only the last argument field may be a sequence"}
		}
	}
	if actual, loaded := shapeCache.LoadOrStore(t, s); loaded {
		return actual.(*Shape), nil
	}
	return s, nil
}

func buildField(t reflect.Type, sf reflect.StructField) (*Field, error) {
	parsed, err := ParseStructTag(sf.Tag.Get("kdl"))
	if err != nil {
		return nil, &ShapeError{Type: t, GoName: sf.Name, Message: err.Error()}
	}
	if err := validateTag(parsed); err != nil {
		return nil, &ShapeError{Type: t, GoName: sf.Name, Message: err.Error()}
	}
	if _, ok := parsed["omit"]; ok {
		return nil, nil
	}
	if _, ok := parsed["-"]; ok {
		return nil, nil
	}

	f := &Field{
		Name:   sf.Name,
		GoName: sf.Name,
		Index:  sf.Index[0],
		Type:   sf.Type,
	}
	if renamed, ok := parsed["field"]; ok && renamed != "" {
		f.Name = renamed
	}

	elem := sf.Type
	if elem.Kind() == reflect.Ptr {
		f.Optional = true
		elem = elem.Elem()
	}
	if _, ok := parsed["optional"]; ok {
		f.Optional = true
	}
	if elem.Kind() == reflect.Slice && elem.Elem().Kind() != reflect.Uint8 {
		f.Sequence = true
		elem = elem.Elem()
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
	}
	f.Elem = elem

	f.Kind = KindOf(elem)
	if _, ok := parsed["rune"]; ok {
		if f.Kind != Int32Kind {
			return nil, &ShapeError{Type: t, GoName: sf.Name, Message: "rune flag requires an int32 field"}
		}
		f.Kind = RuneKind
	}

	_, isArg := parsed["arg"]
	_, isProp := parsed["prop"]
	_, isChild := parsed["child"]
	switch {
	case isArg:
		f.Role = ArgRole
	case isProp:
		f.Role = PropRole
	case isChild:
		f.Role = ChildRole
	default:
		if f.Kind != NoKind {
			f.Role = PropRole
		} else {
			f.Role = ChildRole
		}
	}

	if f.Role != ChildRole && f.Kind == NoKind {
		return nil, &ShapeError{
			Type: t, GoName: sf.Name,
			Message: fmt.Sprintf("%s role requires a scalar type, %s is compound", f.Role, elem),
		}
	}
	if f.Kind == NoKind && !isSupportedCompound(elem) {
		return nil, &ShapeError{
			Type: t, GoName: sf.Name,
			Message: fmt.Sprintf("unsupported field type %s", sf.Type),
		}
	}
	return f, nil
}

// KindOf classifies a type. Named non-builtin types implementing the
// text marshaling interfaces classify as TextKind even when their
// underlying kind is basic.
func KindOf(t reflect.Type) ScalarKind {
	if t.PkgPath() != "" && isTextType(t) {
		return TextKind
	}
	switch t.Kind() {
	case reflect.String:
		return StringKind
	case reflect.Bool:
		return BoolKind
	case reflect.Int:
		return IntKind
	case reflect.Int8:
		return Int8Kind
	case reflect.Int16:
		return Int16Kind
	case reflect.Int32:
		return Int32Kind
	case reflect.Int64:
		return Int64Kind
	case reflect.Uint:
		return UintKind
	case reflect.Uint8:
		return Uint8Kind
	case reflect.Uint16:
		return Uint16Kind
	case reflect.Uint32:
		return Uint32Kind
	case reflect.Uint64:
		return Uint64Kind
	case reflect.Float32:
		return Float32Kind
	case reflect.Float64:
		return Float64Kind
	}
	if isTextType(t) {
		return TextKind
	}
	return NoKind
}

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

func isTextType(t reflect.Type) bool {
	if t.Implements(textMarshalerType) {
		return true
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(textMarshalerType) && pt.Implements(textUnmarshalerType)
}

func isMap(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Map
}

func isSupportedCompound(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		return true
	case reflect.Map:
		return t.Key().Kind() == reflect.String
	}
	return false
}

// Arg resolves the nth positional argument of a node. A trailing
// sequence argument field absorbs any further positions.
func (s *Shape) Arg(n int) *Field {
	if n < len(s.args) {
		return s.args[n]
	}
	if len(s.args) > 0 {
		if last := s.args[len(s.args)-1]; last.Sequence {
			return last
		}
	}
	return nil
}

// NumArgs returns the number of declared argument fields.
func (s *Shape) NumArgs() int {
	return len(s.args)
}

// Prop resolves a named property, or nil if the shape has none by
// that name.
func (s *Shape) Prop(name string) *Field {
	return s.props[name]
}

// Child resolves a child node name, or nil.
func (s *Shape) Child(name string) *Field {
	return s.children[name]
}

// Named resolves a property or argument field by its document name,
// or nil. These roles may also be written as a child node carrying
// the value as its argument.
func (s *Shape) Named(name string) *Field {
	if f := s.props[name]; f != nil {
		return f
	}
	for _, f := range s.args {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// OnlyChildren reports whether every mapped field is child-role. The
// document root requires this.
func (s *Shape) OnlyChildren() bool {
	for _, f := range s.Fields {
		if f.Role != ChildRole {
			return false
		}
	}
	return true
}
