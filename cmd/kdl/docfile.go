package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/parse"

	"github.com/scott-cotton/cli"
)

// readDocFile parses the KDL document at path, reading cc.In when path
// is "-".
func readDocFile(cc *cli.Context, path string) (*ir.Document, []byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open %q: %w", path, err)
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	doc, err := parse.Parse(d)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	return doc, d, nil
}
