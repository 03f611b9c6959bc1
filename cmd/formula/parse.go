package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"formula/internal/ast"
	"formula/internal/engine"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file",
	Short: "Parse a formula and dump its tree",
	Long:  `Parse builds the expression tree; malformed regions show up as Bad nodes`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	res := engine.LexAndParse(src)
	printDiagnostics(cmd, src, res.Diags)

	if err := ast.Fprint(os.Stdout, res.Expr); err != nil {
		return err
	}
	if n := countErrors(res.Diags); n > 0 {
		return fmt.Errorf("%d error(s)", n)
	}
	return nil
}
