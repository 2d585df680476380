package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jpfielding/dicomview.go/pkg/dicomview"
)

// NewCompareCmd compares two or more files tag by tag
func NewCompareCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare URI URI...",
		Short: "compare the tags of DICOM files side by side",
		Long:  "Aligns the tags of several DICOM files and prints the differences, or every tag with --all.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg)
			if err != nil {
				return err
			}
			insecure, _ := cmd.Flags().GetBool("insecure")
			verbose, _ := cmd.Flags().GetBool("verbose")
			srcs, err := readURIs(ctx, args, insecure, verbose)
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}

			opts := dicomview.ViewOptions{
				OnlyDiffs:    cfg.Viewer.OnlyDiffs,
				Hierarchical: cfg.Viewer.Hierarchical,
			}
			if cmd.Flags().Changed("all") {
				all, _ := cmd.Flags().GetBool("all")
				opts.OnlyDiffs = !all
			}
			if cmd.Flags().Changed("hierarchical") {
				opts.Hierarchical, _ = cmd.Flags().GetBool("hierarchical")
			}
			opts.Search, _ = cmd.Flags().GetString("search")
			opts.SOPClass, _ = cmd.Flags().GetString("sop")

			sets := make([][]dicomview.Entry, len(srcs))
			names := make([]string, len(srcs))
			for i, src := range srcs {
				sets[i], names[i] = src.Entries, src.Name
			}
			view := engine.ComparisonView(sets, opts)

			switch format, _ := cmd.Flags().GetString("format"); format {
			case "json":
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{"files": names, "view": view})
			default:
				sop := opts.SOPClass
				if sop == "" {
					sop = dicomview.ExtractSOPClass(sets[0])
				}
				writeComparison(cmd.OutOrStdout(), engine, names, view, sop)
				return nil
			}
		},
	}
	addInputFlags(cmd)
	pf := cmd.Flags()
	pf.StringP("search", "s", "", "case-insensitive filter on tag, name, value, VR or VM")
	pf.BoolP("all", "a", false, "show every tag, not only differences")
	pf.Bool("hierarchical", false, "group the comparison by module")
	pf.String("sop", "", "SOP class to filter modules by")
	return cmd
}

func writeComparison(w io.Writer, engine *dicomview.Engine, names []string, view dicomview.ComparisonView, sop string) {
	for i, n := range names {
		fmt.Fprintf(w, "[%d] %s\n", i, n)
	}
	if view.ExactlySame {
		fmt.Fprintln(w, "Files are exactly the same")
	}
	if view.NoDifferences {
		fmt.Fprintln(w, "No differences found")
		return
	}
	if view.Modules == nil {
		writeGroups(w, names, view.Groups)
		return
	}
	for _, m := range orderedModules(engine, sop, view.Modules) {
		fmt.Fprintf(w, "\n== %s ==\n", m)
		writeGroups(w, names, view.Modules[m])
	}
}

// writeGroups prints one header per tag, starred when the files differ, then each file's value
func writeGroups(w io.Writer, names []string, groups dicomview.Result) {
	for _, g := range groups {
		marker := " "
		if g.IsDifference() {
			marker = "*"
		}
		name := ""
		for _, m := range g.Members {
			if m.Present() && m.Entry.Name != "" {
				name = m.Entry.Name
				break
			}
		}
		fmt.Fprintf(w, "%s %s %s\n", marker, g.Tag.Display(), name)
		for _, m := range g.Members {
			label := fmt.Sprintf("[%d]", m.File)
			if m.File < len(names) {
				label = names[m.File]
			}
			if !m.Present() {
				fmt.Fprintf(w, "\t%-24s <absent>\n", label)
				continue
			}
			fmt.Fprintf(w, "\t%-24s %s\n", label, m.Entry.Value)
		}
	}
}
