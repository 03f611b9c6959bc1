// Package ui renders engine output for terminals: completion lists and
// signature help with lipgloss styling. Hosts embedding the engine
// render ide.Output themselves; this package serves the CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"formula/internal/ide"
)

// View configures terminal rendering of completion output.
type View struct {
	Color bool
	Width int
}

func (v View) width() int {
	if v.Width > 0 {
		return v.Width
	}
	return 80
}

func (v View) style(s lipgloss.Style) lipgloss.Style {
	if v.Color {
		return s
	}
	return lipgloss.NewStyle()
}

func (v View) kindStyle(kind ide.ItemKind) lipgloss.Style {
	switch kind {
	case ide.KindFunction:
		return v.style(lipgloss.NewStyle().Foreground(lipgloss.Color("6")))
	case ide.KindBuiltin:
		return v.style(lipgloss.NewStyle().Foreground(lipgloss.Color("5")))
	case ide.KindProperty:
		return v.style(lipgloss.NewStyle().Foreground(lipgloss.Color("2")))
	default:
		return v.style(lipgloss.NewStyle().Foreground(lipgloss.Color("7")))
	}
}

func kindLabel(kind ide.ItemKind) string {
	switch kind {
	case ide.KindFunction:
		return "function"
	case ide.KindBuiltin:
		return "builtin"
	case ide.KindProperty:
		return "property"
	default:
		return "operator"
	}
}

// RenderItems prints the completion list, preferred entries first
// marked with '*'. Disabled entries keep their place but show the
// reason instead of a detail.
func (v View) RenderItems(w io.Writer, out ide.Output) {
	preferred := make(map[int]bool, len(out.PreferredIndices))
	for _, idx := range out.PreferredIndices {
		preferred[idx] = true
	}

	dim := v.style(lipgloss.NewStyle().Faint(true))
	kindWidth := 8

	for i, item := range out.Items {
		marker := " "
		if preferred[i] {
			marker = "*"
		}
		label := v.kindStyle(item.Kind).Render(item.Label)
		if item.Disabled {
			label = dim.Render(item.Label)
		}

		line := fmt.Sprintf("%s %-*s %s", marker, kindWidth, kindLabel(item.Kind), label)
		switch {
		case item.Disabled && item.DisabledReason != "":
			line += dim.Render(" (" + item.DisabledReason + ")")
		case item.Detail != "":
			line += dim.Render("  " + truncate(item.Detail, v.width()/2))
		}
		fmt.Fprintln(w, line)
	}
}

// RenderSignature prints one signature per line with the active
// parameter highlighted; without color the active slot is bracketed.
func (v View) RenderSignature(w io.Writer, sig *ide.SignatureHelp) {
	if sig == nil {
		return
	}
	active := v.style(lipgloss.NewStyle().Bold(true).Underline(true))

	for _, item := range sig.Signatures {
		var b strings.Builder
		for _, seg := range item.Segments {
			if seg.Kind != ide.SegParam {
				b.WriteString(seg.Text)
				continue
			}
			text := seg.Name + ": " + seg.Ty
			if seg.ParamIndex >= 0 && seg.ParamIndex == sig.ActiveParameter {
				if v.Color {
					text = active.Render(text)
				} else {
					text = "[" + text + "]"
				}
			}
			b.WriteString(text)
		}
		fmt.Fprintln(w, b.String())
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
