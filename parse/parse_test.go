package parse

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kdl-format/go-kdl/ir"
)

func TestParseOK(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *ir.Document
	}{
		{
			name: "empty",
			in:   "",
			want: &ir.Document{},
		},
		{
			name: "blank lines and comments",
			in:   "\n// nothing here\n/* or here */\n",
			want: &ir.Document{},
		},
		{
			name: "bare node",
			in:   "node",
			want: (&ir.Document{}).AddNode(ir.NewNode("node")),
		},
		{
			name: "quoted node name",
			in:   `"node name"`,
			want: (&ir.Document{}).AddNode(ir.NewNode("node name")),
		},
		{
			name: "args",
			in:   `node 1 "two" three #true #null`,
			want: (&ir.Document{}).AddNode(ir.NewNode("node").
				AddArg(ir.FromInt(1)).
				AddArg(ir.FromString("two")).
				AddArg(ir.FromString("three")).
				AddArg(ir.FromBool(true)).
				AddArg(ir.Null())),
		},
		{
			name: "props",
			in:   `node port=8080 host="local" "quoted key"=1`,
			want: (&ir.Document{}).AddNode(ir.NewNode("node").
				AddProp("port", ir.FromInt(8080)).
				AddProp("host", ir.FromString("local")).
				AddProp("quoted key", ir.FromInt(1))),
		},
		{
			name: "entry order preserved",
			in:   `node 1 k=2 3`,
			want: (&ir.Document{}).AddNode(ir.NewNode("node").
				AddArg(ir.FromInt(1)).
				AddProp("k", ir.FromInt(2)).
				AddArg(ir.FromInt(3))),
		},
		{
			name: "children",
			in:   "a {\n  b 1\n  c 2\n}",
			want: (&ir.Document{}).AddNode(ir.NewNode("a").
				AddChild(ir.NewNode("b").AddArg(ir.FromInt(1))).
				AddChild(ir.NewNode("c").AddArg(ir.FromInt(2)))),
		},
		{
			name: "semicolon separated",
			in:   "a; b; c",
			want: (&ir.Document{}).
				AddNode(ir.NewNode("a")).
				AddNode(ir.NewNode("b")).
				AddNode(ir.NewNode("c")),
		},
		{
			name: "compact children",
			in:   "a { b; c }",
			want: (&ir.Document{}).AddNode(ir.NewNode("a").
				AddChild(ir.NewNode("b")).
				AddChild(ir.NewNode("c"))),
		},
		{
			name: "nested children",
			in:   "a { b { c 1 } }",
			want: (&ir.Document{}).AddNode(ir.NewNode("a").
				AddChild(ir.NewNode("b").
					AddChild(ir.NewNode("c").AddArg(ir.FromInt(1))))),
		},
		{
			name: "node after child block",
			in:   "a { b }\nc",
			want: (&ir.Document{}).
				AddNode(ir.NewNode("a").AddChild(ir.NewNode("b"))).
				AddNode(ir.NewNode("c")),
		},
		{
			name: "number bases",
			in:   "n 0x1F 0o17 0b101 1_000_000 -12 +12",
			want: (&ir.Document{}).AddNode(ir.NewNode("n").
				AddArg(ir.FromInt(31)).
				AddArg(ir.FromInt(15)).
				AddArg(ir.FromInt(5)).
				AddArg(ir.FromInt(1000000)).
				AddArg(ir.FromInt(-12)).
				AddArg(ir.FromInt(12))),
		},
		{
			name: "floats",
			in:   "n 1.5 -2.25 1e3 2E-2 #inf #-inf",
			want: (&ir.Document{}).AddNode(ir.NewNode("n").
				AddArg(ir.FromFloat(1.5)).
				AddArg(ir.FromFloat(-2.25)).
				AddArg(ir.FromFloat(1000)).
				AddArg(ir.FromFloat(0.02)).
				AddArg(ir.FromFloat(math.Inf(1))).
				AddArg(ir.FromFloat(math.Inf(-1)))),
		},
		{
			name: "line continuation",
			in:   "node 1 \\\n  2",
			want: (&ir.Document{}).AddNode(ir.NewNode("node").
				AddArg(ir.FromInt(1)).
				AddArg(ir.FromInt(2))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.in))
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNaN(t *testing.T) {
	doc, err := Parse([]byte("n #nan"))
	if err != nil {
		t.Fatal(err)
	}
	args := doc.Nodes[0].Args()
	if len(args) != 1 || !math.IsNaN(args[0].Float64) {
		t.Errorf("args = %v, want one NaN", args)
	}
}

func TestParseBigIntegers(t *testing.T) {
	doc, err := Parse([]byte("n 170141183460469231731687303715884105727"))
	if err != nil {
		t.Fatalf("max 128-bit integer: %v", err)
	}
	if doc.Nodes[0].Args()[0].Int.Cmp(ir.MaxInteger) != 0 {
		t.Error("value mismatch")
	}
	_, err = Parse([]byte("n 170141183460469231731687303715884105728"))
	if err == nil {
		t.Error("expected range error for 2^127")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "value as node", in: "42"},
		{name: "keyword as node", in: "#true"},
		{name: "unbalanced open", in: "a {"},
		{name: "unbalanced close", in: "a }"},
		{name: "eq without value", in: "a k="},
		{name: "eq without key", in: "a =1"},
		{name: "child value", in: "a { 42 }"},
		{name: "bad number", in: "a 0x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got nil", tt.in)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v is not ErrParse", err)
			}
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	in := strings.Repeat("a { ", 40) + "b" + strings.Repeat(" }", 40)
	if _, err := Parse([]byte(in)); err != nil {
		t.Fatalf("within default depth: %v", err)
	}
	if _, err := Parse([]byte(in), MaxDepth(10)); err == nil {
		t.Error("expected depth error with MaxDepth(10)")
	}
}
