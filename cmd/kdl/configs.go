package main

import (
	"os"

	"github.com/kdl-format/go-kdl/encode"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='force colored output'"`
	Compact bool `cli:"name=c aliases=compact desc='single-line output'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// encodeOpts derives encode options from the global flags, enabling
// colors on terminals or when forced.
func (cfg *MainConfig) encodeOpts(colorable bool) []encode.EncodeOption {
	var res []encode.EncodeOption
	if cfg.Compact {
		res = append(res, encode.Compact(true))
	}
	if colorable && (cfg.Color || (cfg.Out == "" && isatty.IsTerminal(os.Stdout.Fd()))) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type FmtConfig struct {
	*MainConfig
	Write bool `cli:"name=w desc='rewrite files in place'"`
	Diff  bool `cli:"name=d desc='print a diff instead of the formatted output'"`

	Fmt *cli.Command
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}
