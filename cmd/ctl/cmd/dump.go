package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/dicomview.go/pkg/dicomview"
)

// NewDumpCmd prints every entry of a DICOM file
func NewDumpCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump URI",
		Short: "print the parsed tags of a DICOM file",
		Long:  "Parses a DICOM file (path, - for stdin, or http url) without pixel data and prints its tags sorted by tag id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			insecure, _ := cmd.Flags().GetBool("insecure")
			verbose, _ := cmd.Flags().GetBool("verbose")
			src, err := readURI(ctx, args[0], insecure, verbose)
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}
			entries := dicomview.SortEntries(src.Entries)
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "text":
				writeEntries(cmd.OutOrStdout(), entries, 0)
				return nil
			default:
				return json.NewEncoder(cmd.OutOrStdout()).Encode(entries)
			}
		},
	}
	addInputFlags(cmd)
	return cmd
}

func addInputFlags(cmd *cobra.Command) {
	pf := cmd.Flags()
	pf.StringP("format", "f", "text", "output format (text|json)")
	pf.Bool("insecure", false, "skip tls verification for http sources")
	pf.BoolP("verbose", "v", false, "dump http request and response headers")
}

// writeEntries prints one entry per line, nested items indented
func writeEntries(w io.Writer, entries []dicomview.Entry, depth int) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), e)
		if len(e.Sequence) > 0 {
			writeEntries(w, e.Sequence, depth+1)
		}
	}
}
