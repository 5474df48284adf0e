// Package gomap maps between KDL document trees and Go values.
//
// # Usage
//
//	// Decode KDL text into a Go struct
//	type Config struct {
//	    Settings Settings `kdl:"field=settings,child"`
//	}
//	var cfg Config
//	err := gomap.Unmarshal(data, &cfg)
//
//	// Encode a Go value to KDL text
//	data, err := gomap.Marshal(cfg)
//
// Decoding walks the document tree in pre-order, binding each node,
// argument and property to a struct field by its role (see the shape
// package), coercing document scalars into the field's scalar kind.
// Encoding is the mirror image: fields are visited in declaration
// order and emitted as entries and child nodes.
//
// The document root binds to a struct whose mapped fields are all
// child-role; each top level node fills the child field matching its
// name.
//
// # Related Packages
//
//   - github.com/kdl-format/go-kdl/ir - document tree
//   - github.com/kdl-format/go-kdl/shape - type shapes and the builder
package gomap
