package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"formula/internal/types"
)

var functionsCmd = &cobra.Command{
	Use:   "functions [query]",
	Short: "List builtin functions",
	Long:  `Functions lists the builtin registry, optionally fuzzy-filtered by a query`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFunctions,
}

var functionNameColor = color.New(color.FgCyan, color.Bold)

func runFunctions(cmd *cobra.Command, args []string) error {
	builtins := types.Builtins()
	colorize := useColor(cmd, os.Stdout)

	order := make([]int, 0, len(builtins))
	if len(args) == 1 {
		names := make([]string, len(builtins))
		for i := range builtins {
			names[i] = builtins[i].Name
		}
		for _, m := range fuzzy.Find(args[0], names) {
			order = append(order, m.Index)
		}
		if len(order) == 0 {
			return fmt.Errorf("no builtin matches %q", args[0])
		}
	} else {
		for i := range builtins {
			order = append(order, i)
		}
	}

	for _, idx := range order {
		sig := builtins[idx]
		name := sig.Name
		if colorize {
			name = functionNameColor.Sprint(name)
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\n", name, sig.Detail)
	}
	return nil
}
