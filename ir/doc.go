// Package ir holds the parsed representation of a KDL document: a list
// of named nodes, each carrying an ordered sequence of entries
// (positional arguments and named properties) and an optional block of
// child nodes.
//
// The tree is produced by the parse package and consumed by the encode
// and gomap packages. Nodes are plain data; nothing in this package
// knows about Go types or the text syntax.
package ir
