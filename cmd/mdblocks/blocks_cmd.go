package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kk-code-lab/mdblocks/internal/markdown"
	textutil "github.com/kk-code-lab/mdblocks/internal/textutil"
	"github.com/spf13/cobra"
)

const sourcePreviewRunes = 40

func newBlocksCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "blocks",
		Short: "Print the block table of a markdown document",
		Long:  "Parse --text, or standard input when --text is not set, and print each block with its kind, byte span and source position.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := flags.text
			if !cmd.Flags().Changed("text") {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				if text, err = textutil.DecodeInput(data); err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
			}
			return writeBlockTable(cmd.OutOrStdout(), markdown.Parse(textutil.NormalizeInput(text)))
		},
	}
}

func writeBlockTable(w io.Writer, doc markdown.Document) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tSPAN\tSOURCEPOS\tSOURCE")
	for _, b := range doc.Blocks {
		kind := b.Kind.String()
		if b.Kind == markdown.KindHeading {
			kind = fmt.Sprintf("h%d", b.Level)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d-%d\t%s\t%s\n",
			b.Index, kind, b.Span.StartOffset, b.Span.EndOffset, b.Span.SourcePos(), sourcePreview(b.Source))
	}
	return tw.Flush()
}

// sourcePreview returns the first line of src, shortened and with hidden
// formatting runes spelled out.
func sourcePreview(src string) string {
	line, _, more := strings.Cut(src, "\n")
	line = strings.TrimRight(line, "\r")
	if runes := []rune(line); len(runes) > sourcePreviewRunes {
		line = string(runes[:sourcePreviewRunes-1]) + "…"
	} else if more {
		line += " …"
	}
	line, _ = textutil.ReplaceFormattingRunes(line)
	return textutil.SanitizeTerminalText(line)
}
