package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/kdl-format/go-kdl/encode"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/scott-cotton/cli"
)

func kdlFmt(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Write && cfg.Diff {
		return fmt.Errorf("%w: -w and -d are mutually exclusive", cli.ErrUsage)
	}
	if len(args) == 0 {
		if cfg.Write {
			return fmt.Errorf("%w: -w requires file arguments", cli.ErrUsage)
		}
		args = []string{"-"}
	}
	for _, file := range args {
		if err := fmtFile(cfg, cc, file); err != nil {
			return err
		}
	}
	return nil
}

func fmtFile(cfg *FmtConfig, cc *cli.Context, file string) error {
	doc, orig, err := readDocFile(cc, file)
	if err != nil {
		return err
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(doc, buf, cfg.MainConfig.encodeOpts(false)...); err != nil {
		return fmt.Errorf("error encoding %q: %w", file, err)
	}
	switch {
	case cfg.Write:
		if file == "-" {
			return fmt.Errorf("%w: cannot write stdin in place", cli.ErrUsage)
		}
		if bytes.Equal(orig, buf.Bytes()) {
			return nil
		}
		if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("error writing %q: %w", file, err)
		}
		return nil
	case cfg.Diff:
		return fmtDiff(cc.Out, file, string(orig), buf.String())
	}
	_, err = io.Copy(cc.Out, buf)
	return err
}

func fmtDiff(w io.Writer, file, from, to string) error {
	if from == to {
		return nil
	}
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(from, to, true)
	if _, err := fmt.Fprintf(w, "--- %s\n+++ %s (formatted)\n", file, file); err != nil {
		return err
	}
	_, err := io.WriteString(w, diffCfg.DiffPrettyText(diffs))
	return err
}
