package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"formula/internal/engine"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] file",
	Short: "Format a formula",
	Long:  `Fmt prints the canonical form of a formula; sources with diagnostics are refused`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().BoolP("write", "w", false, "rewrite the file instead of printing")
}

func runFmt(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	text, err := engine.Format(src)
	if err != nil {
		if errors.Is(err, engine.ErrSourceHasDiagnostics) {
			res := engine.LexAndParse(src)
			printDiagnostics(cmd, src, res.Diags)
		}
		return err
	}

	write, _ := cmd.Flags().GetBool("write")
	if write && args[0] != "-" {
		if err := os.WriteFile(args[0], []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}
		return nil
	}
	fmt.Fprint(os.Stdout, text)
	return nil
}
