package main

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/kdl-format/go-kdl/gomap"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, an expression", cli.ErrUsage)
	}
	query := args[0]
	if query == "" {
		return fmt.Errorf("%w: invalid query \"\"", cli.ErrUsage)
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	program, err := expr.Compile(query)
	if err != nil {
		return fmt.Errorf("error compiling %q: %w", query, err)
	}
	for _, file := range files {
		doc, _, err := readDocFile(cc, file)
		if err != nil {
			return err
		}
		val, err := expr.Run(program, gomap.Generic(doc))
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", file, query, err)
		}
		if _, err := fmt.Fprintf(cc.Out, "%s\n", resultText(val)); err != nil {
			return err
		}
	}
	return nil
}

func resultText(v any) string {
	switch x := v.(type) {
	case nil:
		return "#null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case *big.Int:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
