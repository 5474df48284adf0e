package parse

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/kdl-format/go-kdl/debug"
	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/token"
)

var ErrParse = errors.New("parse error")

// Parse reads KDL source and returns its document tree. An empty
// document yields a Document with no nodes.
func Parse(d []byte, opts ...ParseOption) (*ir.Document, error) {
	pOpts := &parseOpts{maxDepth: 1024}
	for _, f := range opts {
		f(pOpts)
	}
	toks, err := token.Tokenize(nil, d)
	if err != nil {
		return nil, err
	}
	if debug.Tokens() {
		for i := range toks {
			debug.Logf("token %d %s %s %q\n", i, toks[i].Pos, toks[i].Type, toks[i].Bytes)
		}
	}
	p := &parser{toks: toks, opts: pOpts}
	nodes, err := p.nodes(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type != token.TEOF {
		return nil, p.errf(t, "unexpected %s", t.Type)
	}
	if debug.Parse() {
		debug.Logf("parsed %d top level nodes\n", len(nodes))
	}
	return &ir.Document{Nodes: nodes}, nil
}

type parser struct {
	toks []token.Token
	i    int
	opts *parseOpts
}

func (p *parser) peek() *token.Token {
	return &p.toks[p.i]
}

func (p *parser) advance() *token.Token {
	t := &p.toks[p.i]
	if t.Type != token.TEOF {
		p.i++
	}
	return t
}

func (p *parser) errf(t *token.Token, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrParse, t.Pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipTerminators() {
	for {
		switch p.peek().Type {
		case token.TNewline, token.TSemi:
			p.advance()
		default:
			return
		}
	}
}

// nodes parses a sequence of nodes until EOF or a closing brace.
func (p *parser) nodes(depth int) ([]*ir.Node, error) {
	if depth > p.opts.maxDepth {
		return nil, p.errf(p.peek(), "nesting deeper than %d levels", p.opts.maxDepth)
	}
	var res []*ir.Node
	for {
		p.skipTerminators()
		t := p.peek()
		switch t.Type {
		case token.TEOF, token.TRCurl:
			return res, nil
		case token.TBare, token.TString:
			node, err := p.node(depth)
			if err != nil {
				return nil, err
			}
			res = append(res, node)
		default:
			return nil, p.errf(t, "expected node name, got %s", t.Type)
		}
	}
}

func (p *parser) node(depth int) (*ir.Node, error) {
	nameTok := p.advance()
	node := ir.NewNode(p.stringOf(nameTok))
	for {
		t := p.peek()
		switch t.Type {
		case token.TNewline, token.TSemi:
			p.advance()
			return node, nil
		case token.TEOF, token.TRCurl:
			return node, nil
		case token.TLCurl:
			p.advance()
			children, err := p.nodes(depth + 1)
			if err != nil {
				return nil, err
			}
			if p.peek().Type != token.TRCurl {
				return nil, p.errf(p.peek(), "unbalanced '{'")
			}
			p.advance()
			node.Children = children
			// a child block ends the node
			p.endOfNode()
			return node, nil
		case token.TBare, token.TString:
			// property if followed by '=', otherwise a bare string argument
			if p.toks[p.i+1].Type == token.TEq {
				name := p.stringOf(p.advance())
				p.advance() // '='
				val, err := p.value()
				if err != nil {
					return nil, err
				}
				node.AddProp(name, val)
				continue
			}
			val, err := p.value()
			if err != nil {
				return nil, err
			}
			node.AddArg(val)
		case token.TNumber, token.TKeyword:
			val, err := p.value()
			if err != nil {
				return nil, err
			}
			node.AddArg(val)
		default:
			return nil, p.errf(t, "unexpected %s in node %q", t.Type, node.Name)
		}
	}
}

// endOfNode consumes an optional terminator after a child block.
func (p *parser) endOfNode() {
	switch p.peek().Type {
	case token.TNewline, token.TSemi:
		p.advance()
	}
}

func (p *parser) stringOf(t *token.Token) string {
	if t.Type == token.TString {
		return t.Value
	}
	return string(t.Bytes)
}

func (p *parser) value() (*ir.Value, error) {
	t := p.advance()
	switch t.Type {
	case token.TString:
		return ir.FromString(t.Value), nil
	case token.TBare:
		return ir.FromString(string(t.Bytes)), nil
	case token.TKeyword:
		switch string(t.Bytes) {
		case "#true":
			return ir.FromBool(true), nil
		case "#false":
			return ir.FromBool(false), nil
		case "#null":
			return ir.Null(), nil
		case "#inf":
			return ir.FromFloat(math.Inf(1)), nil
		case "#-inf":
			return ir.FromFloat(math.Inf(-1)), nil
		case "#nan":
			return ir.FromFloat(math.NaN()), nil
		}
		return nil, p.errf(t, "unrecognized keyword %q", t.Bytes)
	case token.TNumber:
		return p.number(t)
	}
	return nil, p.errf(t, "expected value, got %s", t.Type)
}

func (p *parser) number(t *token.Token) (*ir.Value, error) {
	raw := strings.ReplaceAll(string(t.Bytes), "_", "")
	neg := false
	body := raw
	if strings.HasPrefix(body, "+") {
		body = body[1:]
	} else if strings.HasPrefix(body, "-") {
		neg = true
		body = body[1:]
	}
	base := 0
	switch {
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		base = 16
		body = body[2:]
	case strings.HasPrefix(body, "0o") || strings.HasPrefix(body, "0O"):
		base = 8
		body = body[2:]
	case strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B"):
		base = 2
		body = body[2:]
	}
	if base == 0 && (strings.ContainsAny(body, ".eE")) {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, p.errf(t, "invalid number %q", t.Bytes)
		}
		return ir.FromFloat(f), nil
	}
	if base == 0 {
		base = 10
	}
	i, ok := new(big.Int).SetString(body, base)
	if !ok {
		return nil, p.errf(t, "invalid number %q", t.Bytes)
	}
	if neg {
		i.Neg(i)
	}
	v, err := ir.FromBigInt(i)
	if err != nil {
		return nil, p.errf(t, "%v", err)
	}
	return v, nil
}
