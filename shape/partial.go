package shape

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strings"
)

// ErrContract marks misuse of the cursor by the calling engine (End
// without Begin, Finalize mid-tree, a scalar write on a compound
// frame). These are programming errors, not document content errors.
var ErrContract = errors.New("builder cursor contract violation")

// ErrDuplicate is returned by Begin when a single-valued field is
// entered a second time.
var ErrDuplicate = errors.New("field already set")

// MissingFieldsError reports every required field that was never
// entered, not just the first.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Partial is the staged builder cursor over an in-progress value.
// Begin/End calls must nest exactly like the document being walked;
// Finalize consumes the cursor.
type Partial struct {
	stack     []*frame
	missing   []string
	finalized bool
}

type frame struct {
	// target is the storage being filled, pointers already unwrapped.
	target reflect.Value
	shape  *Shape     // non-nil for struct frames
	field  *Field     // field this frame fills; nil at the root
	kind   ScalarKind // scalar kind of target; NoKind for compounds
	path   string

	filled map[string]bool
	commit func() // stores the finished value into the parent; may be nil
}

// NewPartial starts building the struct pointed to by v.
func NewPartial(v any) (*Partial, error) {
	if v == nil {
		return nil, fmt.Errorf("destination value cannot be nil")
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return nil, fmt.Errorf("destination must be a non-nil pointer, got %T", v)
	}
	elem := val.Elem()
	s, err := Of(elem.Type())
	if err != nil {
		return nil, err
	}
	return &Partial{
		stack: []*frame{{
			target: elem,
			shape:  s,
			filled: map[string]bool{},
		}},
	}, nil
}

// Root returns the shape of the value under construction.
func (p *Partial) Root() *Shape {
	return p.stack[0].shape
}

func (p *Partial) top() *frame {
	return p.stack[len(p.stack)-1]
}

// Shape returns the current frame's shape, or nil when the frame is
// not a struct.
func (p *Partial) Shape() *Shape {
	return p.top().shape
}

// Field returns the field the current frame is filling, nil at the
// root.
func (p *Partial) Field() *Field {
	return p.top().field
}

// Kind returns the scalar kind of the current frame's target, NoKind
// for compound frames.
func (p *Partial) Kind() ScalarKind {
	return p.top().kind
}

// IsMap reports whether the current frame fills a string-keyed map.
func (p *Partial) IsMap() bool {
	return p.top().target.Kind() == reflect.Map
}

// MapElem returns the element type of the current map frame.
func (p *Partial) MapElem() reflect.Type {
	return p.top().target.Type().Elem()
}

// Begin enters f, staging storage for its value. For sequence fields
// each Begin stages a fresh element, committed by the matching End.
// Entering a filled single-valued field returns ErrDuplicate.
func (p *Partial) Begin(f *Field) error {
	parent := p.top()
	if parent.shape == nil {
		return fmt.Errorf("%w: Begin inside a non-struct frame", ErrContract)
	}
	if parent.filled[f.GoName] && !f.Sequence {
		return fmt.Errorf("%w: %s", ErrDuplicate, f.Name)
	}
	parent.filled[f.GoName] = true

	storage := parent.target.Field(f.Index)
	path := childPath(parent.path, f.Name)
	fr := &frame{field: f, kind: f.Kind, path: path}

	if f.Sequence {
		elemType := storage.Type().Elem()
		elem := reflect.New(elemType).Elem()
		fr.target = unwrapPtr(elem)
		fr.commit = func() {
			storage.Set(reflect.Append(storage, elem))
		}
	} else {
		fr.target = unwrapPtr(storage)
	}
	if err := p.openCompound(fr); err != nil {
		return err
	}
	p.stack = append(p.stack, fr)
	return nil
}

// BeginMapEntry enters the entry at key of the current map frame.
func (p *Partial) BeginMapEntry(key string) error {
	parent := p.top()
	m := parent.target
	if m.Kind() != reflect.Map {
		return fmt.Errorf("%w: BeginMapEntry outside a map frame", ErrContract)
	}
	if m.IsNil() {
		m.Set(reflect.MakeMap(m.Type()))
	}
	elem := reflect.New(m.Type().Elem()).Elem()
	fr := &frame{
		field:  parent.field,
		path:   childPath(parent.path, key),
		target: unwrapPtr(elem),
		commit: func() {
			m.SetMapIndex(reflect.ValueOf(key), elem)
		},
	}
	fr.kind = KindOf(fr.target.Type())
	if err := p.openCompound(fr); err != nil {
		return err
	}
	p.stack = append(p.stack, fr)
	return nil
}

// openCompound attaches a shape to frames over compound struct
// targets so nested Begin calls can resolve fields.
func (p *Partial) openCompound(fr *frame) error {
	if fr.kind != NoKind {
		return nil
	}
	if fr.target.Kind() == reflect.Map {
		if fr.target.IsNil() && fr.target.CanSet() {
			fr.target.Set(reflect.MakeMap(fr.target.Type()))
		}
		return nil
	}
	if fr.target.Kind() != reflect.Struct {
		return nil
	}
	s, err := Of(fr.target.Type())
	if err != nil {
		return err
	}
	fr.shape = s
	fr.filled = map[string]bool{}
	return nil
}

// End commits the current frame and pops the cursor. Ending a struct
// frame records its unentered required fields for Finalize.
func (p *Partial) End() error {
	if len(p.stack) <= 1 {
		return fmt.Errorf("%w: End without matching Begin", ErrContract)
	}
	fr := p.top()
	p.recordMissing(fr)
	if fr.commit != nil {
		fr.commit()
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

func (p *Partial) recordMissing(fr *frame) {
	if fr.shape == nil {
		return
	}
	for _, f := range fr.shape.Fields {
		if f.Required() && !fr.filled[f.GoName] {
			p.missing = append(p.missing, childPath(fr.path, f.Name))
		}
	}
}

// Finalize consumes the cursor. It fails with ErrContract if frames
// remain open, and with a MissingFieldsError naming every required
// field that was never entered.
func (p *Partial) Finalize() error {
	if p.finalized {
		return fmt.Errorf("%w: Finalize called twice", ErrContract)
	}
	if len(p.stack) != 1 {
		return fmt.Errorf("%w: Finalize with %d open frames", ErrContract, len(p.stack)-1)
	}
	p.finalized = true
	p.recordMissing(p.stack[0])
	if len(p.missing) > 0 {
		sort.Strings(p.missing)
		return &MissingFieldsError{Fields: p.missing}
	}
	return nil
}

func (p *Partial) scalarTarget() (reflect.Value, error) {
	fr := p.top()
	if fr.kind == NoKind {
		return reflect.Value{}, fmt.Errorf("%w: scalar write on a compound frame", ErrContract)
	}
	return fr.target, nil
}

func (p *Partial) SetString(s string) error {
	t, err := p.scalarTarget()
	if err != nil {
		return err
	}
	t.SetString(s)
	return nil
}

func (p *Partial) SetBool(b bool) error {
	t, err := p.scalarTarget()
	if err != nil {
		return err
	}
	t.SetBool(b)
	return nil
}

// SetInt writes an integer already validated against the target
// width by the caller.
func (p *Partial) SetInt(i *big.Int) error {
	t, err := p.scalarTarget()
	if err != nil {
		return err
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		t.SetInt(i.Int64())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		t.SetUint(i.Uint64())
	default:
		return fmt.Errorf("%w: integer write on %s target", ErrContract, t.Kind())
	}
	return nil
}

func (p *Partial) SetFloat(f float64) error {
	t, err := p.scalarTarget()
	if err != nil {
		return err
	}
	t.SetFloat(f)
	return nil
}

func (p *Partial) SetRune(r rune) error {
	t, err := p.scalarTarget()
	if err != nil {
		return err
	}
	t.SetInt(int64(r))
	return nil
}

// SetDefault writes the type's default (zero) value.
func (p *Partial) SetDefault() error {
	t, err := p.scalarTarget()
	if err != nil {
		return err
	}
	t.Set(reflect.Zero(t.Type()))
	return nil
}

// CanText reports whether the current target supports the text-parse
// fallback.
func (p *Partial) CanText() bool {
	fr := p.top()
	if fr.kind == NoKind {
		return false
	}
	return fr.target.CanAddr() &&
		reflect.PointerTo(fr.target.Type()).Implements(textUnmarshalerType)
}

// SetText parses the value from its text form via
// encoding.TextUnmarshaler.
func (p *Partial) SetText(d []byte) error {
	t, err := p.scalarTarget()
	if err != nil {
		return err
	}
	um, ok := t.Addr().Interface().(interface{ UnmarshalText([]byte) error })
	if !ok {
		return fmt.Errorf("%w: text write on non-text target %s", ErrContract, t.Type())
	}
	return um.UnmarshalText(d)
}

// unwrapPtr allocates through one level of pointer so writes land in
// the pointee.
func unwrapPtr(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Ptr {
		return v
	}
	if v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}
	return v.Elem()
}

func childPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
