package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"formula/internal/engine"
	"formula/internal/ide"
	"formula/internal/ui"
)

var completeCmd = &cobra.Command{
	Use:   "complete [flags] file",
	Short: "Completion and signature help at a cursor",
	Long:  `Complete prints the completion items and signature help the editor would show at --at`,
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

func init() {
	completeCmd.Flags().Int("at", 0, "byte offset of the cursor")
	completeCmd.Flags().Int("limit", ide.DefaultPreferredLimit, "how many preferred entries to mark")
}

func runComplete(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}
	at, err := cmd.Flags().GetInt("at")
	if err != nil {
		return fmt.Errorf("failed to get at flag: %w", err)
	}
	limit, _ := cmd.Flags().GetInt("limit")

	ctx, err := loadContext(cmd)
	if err != nil {
		return err
	}

	out, err := engine.Help(src, at, ctx, ide.Config{PreferredLimit: limit})
	if err != nil {
		return err
	}

	view := ui.View{Color: useColor(cmd, os.Stdout)}
	if out.Signature != nil {
		view.RenderSignature(os.Stdout, out.Signature)
	}
	if len(out.Items) > 0 {
		view.RenderItems(os.Stdout, out)
	}
	if out.Signature == nil && len(out.Items) == 0 {
		fmt.Fprintln(os.Stdout, "nothing to suggest here")
	}
	return nil
}
