package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"formula/internal/diag"
	"formula/internal/diagfmt"
	"formula/internal/project"
	"formula/internal/types"
)

// readSource loads formula text from a file argument, "-" meaning
// stdin.
func readSource(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", arg, err)
	}
	return string(data), nil
}

// loadContext resolves the semantic context: --context path first, then
// the nearest formula.toml, then the bare builtin registry.
func loadContext(cmd *cobra.Command) (*types.Context, error) {
	path, err := cmd.Root().PersistentFlags().GetString("context")
	if err != nil {
		return nil, fmt.Errorf("failed to get context flag: %w", err)
	}
	if path != "" {
		return project.LoadContext(path)
	}
	manifest, ok, err := project.LoadManifest(".")
	if err != nil {
		return nil, err
	}
	if ok {
		return manifest.Context, nil
	}
	return types.NewContext(nil), nil
}

// printDiagnostics pretty-prints up to max-diagnostics entries to
// stderr and reports whether any were shown.
func printDiagnostics(cmd *cobra.Command, src string, diags []diag.Diagnostic) bool {
	if len(diags) == 0 {
		return false
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil || maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	shown := diags
	if len(shown) > maxDiagnostics {
		shown = shown[:maxDiagnostics]
	}
	opts := diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		ShowFixes: true,
	}
	diagfmt.Pretty(os.Stderr, src, shown, opts)
	if hidden := len(diags) - len(shown); hidden > 0 {
		fmt.Fprintf(os.Stderr, "... and %d more\n", hidden)
	}
	return true
}

func countErrors(diags []diag.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}
