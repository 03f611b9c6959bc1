package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"formula/internal/engine"
	"formula/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] file",
	Short: "Apply fix-its suggested by diagnostics",
	Long:  `Fix applies the repairs diagnostics suggest, e.g. inserting a missing ')'`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-conflicting fix instead of the first one")
	fixCmd.Flags().BoolP("write", "w", false, "rewrite the file instead of printing")
}

func runFix(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")
	mode := fix.ModeOnce
	if all {
		mode = fix.ModeAll
	}

	res := engine.LexAndParse(src)
	result, err := fix.Apply(src, res.Diags, fix.Options{Mode: mode})
	if err != nil {
		if errors.Is(err, fix.ErrNoFixes) {
			fmt.Fprintln(os.Stderr, "nothing to fix")
			return nil
		}
		return err
	}

	for _, a := range result.Applied {
		fmt.Fprintf(os.Stderr, "fixed: %s (%s)\n", a.Title, a.Message)
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(os.Stderr, "skipped: %s (%s)\n", s.Title, s.Reason)
	}

	write, _ := cmd.Flags().GetBool("write")
	if write && args[0] != "-" {
		if err := os.WriteFile(args[0], []byte(result.Text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}
		return nil
	}
	fmt.Fprint(os.Stdout, result.Text)
	return nil
}
