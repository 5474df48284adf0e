// Package kdl maps between KDL documents and Go values.
//
// Unmarshal and Marshal are the main entry points:
//
//	type Settings struct {
//	    Enabled bool `kdl:"field=enabled,prop"`
//	}
//	type Config struct {
//	    Settings Settings `kdl:"field=settings,child"`
//	}
//
//	var cfg Config
//	err := kdl.Unmarshal([]byte("settings enabled=#true"), &cfg)
//	out, err := kdl.Marshal(cfg)
//
// The heavy lifting lives in the subpackages: parse and encode handle
// the text form, ir holds the document tree, shape describes Go types
// and gomap runs the mapping engines.
package kdl

import (
	"io"

	"github.com/kdl-format/go-kdl/encode"
	"github.com/kdl-format/go-kdl/gomap"
	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/parse"
)

// Unmarshal parses KDL text and decodes it into the struct pointed to
// by v.
func Unmarshal(data []byte, v any, opts ...gomap.UnmapOption) error {
	return gomap.Unmarshal(data, v, opts...)
}

// Marshal encodes a Go value as KDL text.
func Marshal(v any, opts ...gomap.MapOption) ([]byte, error) {
	return gomap.Marshal(v, opts...)
}

// Parse reads KDL text into a document tree.
func Parse(data []byte, opts ...parse.ParseOption) (*ir.Document, error) {
	return parse.Parse(data, opts...)
}

// Encode writes a document tree as KDL text.
func Encode(doc *ir.Document, w io.Writer, opts ...encode.EncodeOption) error {
	return encode.Encode(doc, w, opts...)
}
