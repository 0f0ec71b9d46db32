package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/khoahotran/career-compass/pkg/markdown"
)

const (
	formatHTML     = "html"
	formatTerminal = "terminal"
)

var (
	renderFormat string
	renderWidth  int
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render markdown-lite text as HTML or for the terminal",
	Long: `Reads advisor-style markdown from a file, or stdin when no file is given.

The html format uses the same renderer as the API. The terminal format
previews the text with glamour.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	switch renderFormat {
	case formatHTML:
		_, err = io.WriteString(cmd.OutOrStdout(), markdown.ToHTML(string(text)))
		return err
	case formatTerminal:
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(renderWidth),
		)
		if err != nil {
			return fmt.Errorf("init terminal renderer: %w", err)
		}
		out, err := renderer.Render(string(text))
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", renderFormat, formatHTML, formatTerminal)
}
