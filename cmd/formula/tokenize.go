package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"formula/internal/engine"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Tokenize a formula",
	Long:  `Tokenize breaks a formula down into its constituent tokens; "-" reads stdin`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("trivia", false, "include newline and comment tokens")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withTrivia, _ := cmd.Flags().GetBool("trivia")

	res := engine.LexAndParse(src)
	printDiagnostics(cmd, src, res.Diags)

	tokens := res.Tokens
	if !withTrivia {
		kept := tokens[:0:0]
		for _, t := range tokens {
			if !t.IsTrivia() {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}

	switch format {
	case "pretty":
		for _, t := range tokens {
			fmt.Fprintf(os.Stdout, "%-14s %q [%d..%d]\n", t.Kind, t.Text, t.Span.Start, t.Span.End)
		}
	case "json":
		type tokenJSON struct {
			Kind  string `json:"kind"`
			Text  string `json:"text"`
			Start uint32 `json:"start"`
			End   uint32 `json:"end"`
		}
		out := make([]tokenJSON, 0, len(tokens))
		for _, t := range tokens {
			out = append(out, tokenJSON{Kind: t.Kind.String(), Text: t.Text, Start: t.Span.Start, End: t.Span.End})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if n := countErrors(res.Diags); n > 0 {
		return fmt.Errorf("%d error(s)", n)
	}
	return nil
}
