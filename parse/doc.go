// Package parse turns KDL source text into an ir.Document.
package parse
