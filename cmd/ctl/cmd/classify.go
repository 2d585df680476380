package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jpfielding/dicomview.go/pkg/dicomview"
)

// NewClassifyCmd shows a file grouped by module
func NewClassifyCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify URI",
		Short: "group the tags of a DICOM file by module",
		Long:  "Groups the tags of a DICOM file by information module and keeps the modules of its SOP class.",
		Args:  cobra.ExactArgs(1),
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
			src, err := readURI(ctx, args[0], insecure, verbose)
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}

			flat, _ := cmd.Flags().GetBool("flat")
			opts := dicomview.ViewOptions{Hierarchical: !flat}
			opts.Search, _ = cmd.Flags().GetString("search")
			opts.SOPClass, _ = cmd.Flags().GetString("sop")
			view := engine.FileView(src.Entries, opts)

			switch format, _ := cmd.Flags().GetString("format"); format {
			case "json":
				return json.NewEncoder(cmd.OutOrStdout()).Encode(view)
			default:
				writeFileView(cmd.OutOrStdout(), engine, view, flat)
				return nil
			}
		},
	}
	addInputFlags(cmd)
	pf := cmd.Flags()
	pf.StringP("search", "s", "", "case-insensitive filter on tag, name, value, VR or VM")
	pf.Bool("flat", false, "list tags sorted by id instead of by module")
	pf.String("sop", "", "SOP class to filter modules by (default: the file's own)")
	return cmd
}

func writeFileView(w io.Writer, engine *dicomview.Engine, view dicomview.FileView, flat bool) {
	if flat {
		writeEntries(w, view.Entries, 0)
		return
	}
	if view.NoModules {
		fmt.Fprintf(w, "no modules found for SOP class %q\n", view.SOPClass)
		return
	}
	fmt.Fprintf(w, "SOP class %s %s\n", view.SOPClass, view.SOPClassName)
	// modules print in IOD order
	for _, m := range orderedModules(engine, view.SOPClass, view.Modules) {
		fmt.Fprintf(w, "\n== %s ==\n", m)
		writeEntries(w, view.Modules[m], 1)
	}
}

// orderedModules lists the keys of grouped in the IOD order of uid
func orderedModules[V any](engine *dicomview.Engine, uid string, grouped map[string]V) []string {
	var out []string
	for _, m := range engine.ModulesForSOPClass(uid) {
		if _, ok := grouped[m]; ok {
			out = append(out, m)
		}
	}
	// modules outside the IOD, e.g. when no SOP class filter applied
	var rest []string
	for m := range grouped {
		if !slices.Contains(out, m) {
			rest = append(rest, m)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}
