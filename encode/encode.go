package encode

import (
	"io"
	"strings"

	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/token"
)

type EncState struct {
	depth, indent int
	compact       bool

	Color func(ir.Kind, ColorAttr, string) string
}

// Encode writes the document as KDL text. Output ends with a newline
// unless Compact is set and the document is empty.
func Encode(doc *ir.Document, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: 4}
	for _, opt := range opts {
		opt(es)
	}
	for i, node := range doc.Nodes {
		if es.compact && i > 0 {
			if err := writeString(w, "; "); err != nil {
				return err
			}
		}
		if err := encodeNode(node, w, es); err != nil {
			return err
		}
		if !es.compact {
			if err := writeString(w, "\n"); err != nil {
				return err
			}
		}
	}
	if es.compact && len(doc.Nodes) > 0 {
		return writeString(w, "\n")
	}
	return nil
}

// EncodeNode writes a single node without a trailing newline.
func EncodeNode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: 4}
	for _, opt := range opts {
		opt(es)
	}
	return encodeNode(node, w, es)
}

func encodeNode(node *ir.Node, w io.Writer, es *EncState) error {
	if !es.compact {
		if err := writeString(w, strings.Repeat(" ", es.indent*es.depth)); err != nil {
			return err
		}
	}
	if err := writeString(w, es.color(ir.StringKind, NameColor, encodeString(node.Name))); err != nil {
		return err
	}
	for _, e := range node.Entries {
		if err := writeString(w, " "); err != nil {
			return err
		}
		if err := encodeEntry(e, w, es); err != nil {
			return err
		}
	}
	if len(node.Children) == 0 {
		return nil
	}
	if err := writeString(w, " {"); err != nil {
		return err
	}
	es.depth++
	for i, c := range node.Children {
		if es.compact {
			if i > 0 {
				if err := writeString(w, ";"); err != nil {
					return err
				}
			}
			if err := writeString(w, " "); err != nil {
				return err
			}
		} else {
			if err := writeString(w, "\n"); err != nil {
				return err
			}
		}
		if err := encodeNode(c, w, es); err != nil {
			return err
		}
	}
	es.depth--
	if es.compact {
		return writeString(w, " }")
	}
	if err := writeString(w, "\n"+strings.Repeat(" ", es.indent*es.depth)); err != nil {
		return err
	}
	return writeString(w, "}")
}

func encodeEntry(e *ir.Entry, w io.Writer, es *EncState) error {
	if !e.IsArg() {
		if err := writeString(w, es.color(e.Value.Kind, PropColor, encodeString(e.Name))); err != nil {
			return err
		}
		if err := writeString(w, es.color(e.Value.Kind, SepColor, "=")); err != nil {
			return err
		}
	}
	return writeString(w, es.color(e.Value.Kind, ValueColor, encodeValue(e.Value)))
}

func encodeValue(v *ir.Value) string {
	if v.Kind == ir.StringKind {
		return encodeString(v.String)
	}
	return v.Text()
}

// encodeString renders s bare when possible, quoted otherwise.
func encodeString(s string) string {
	if token.IsBareString(s) && !looksNumeric(s) {
		return s
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// looksNumeric guards against emitting strings like "+5" bare, which
// would read back as numbers.
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if c == '+' || c == '-' || c == '.' {
		if len(s) > 1 {
			d := s[1]
			return d >= '0' && d <= '9' || d == '.'
		}
		return false
	}
	return false
}

func (es *EncState) color(k ir.Kind, attr ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(k, attr, s)
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
