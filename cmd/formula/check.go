package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"formula/internal/engine"
	"formula/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file",
	Short: "Type-check a formula",
	Long:  `Check runs the full pipeline against the property context and prints the result type`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}
	timer := observ.NewTimer()

	phase := timer.Begin("load context")
	ctx, err := loadContext(cmd)
	timer.End(phase, "")
	if err != nil {
		return err
	}

	phase = timer.Begin("analyze")
	res := engine.Analyze(src, ctx)
	timer.End(phase, fmt.Sprintf("%d diagnostic(s)", len(res.Diags)))

	printDiagnostics(cmd, src, res.Diags)
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if n := countErrors(res.Diags); n > 0 {
		return fmt.Errorf("%d error(s)", n)
	}
	fmt.Fprintf(os.Stdout, "ok: %s\n", res.Ty.Display())
	return nil
}
