package main

import (
	"fmt"
	"io"

	"github.com/kdl-format/go-kdl/encode"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for i, file := range args {
		if err := viewFile(cfg, cc, file); err != nil {
			return err
		}
		if i < len(args)-1 {
			if _, err := io.WriteString(cc.Out, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func viewFile(cfg *ViewConfig, cc *cli.Context, file string) error {
	doc, _, err := readDocFile(cc, file)
	if err != nil {
		return err
	}
	opts := cfg.MainConfig.encodeOpts(true)
	if err := encode.Encode(doc, cc.Out, opts...); err != nil {
		return fmt.Errorf("error encoding %q: %w", file, err)
	}
	return nil
}
