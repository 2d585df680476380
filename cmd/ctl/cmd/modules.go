package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/dicomview.go/pkg/dicomview/module"
	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
)

// NewModulesCmd queries the module table
func NewModulesCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "look up module membership",
		Long:  "Prints the modules of a tag (--tag), the IOD modules of a SOP class (--sop), or lists the known SOP classes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			tb, err := cfg.Viewer.Table()
			if err != nil {
				return err
			}
			tagText, _ := cmd.Flags().GetString("tag")
			sop, _ := cmd.Flags().GetString("sop")
			asJSON, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()

			var v any
			switch {
			case tagText != "":
				t, err := tag.Parse(tagText)
				if err != nil {
					return err
				}
				v = map[string]any{"tagId": t, "modules": tb.ModulesOf(t)}
				if asJSON != "json" {
					fmt.Fprintf(out, "%s: %s\n", t.Display(), strings.Join(tb.ModulesOf(t), ", "))
					return nil
				}
			case sop != "":
				rec, err := tb.SOPClass(sop)
				if err != nil {
					return fmt.Errorf("%s: %w", sop, err)
				}
				v = rec
				if asJSON != "json" {
					fmt.Fprintf(out, "%s %s\n", rec.SOPClassUID, rec.Name)
					for i, m := range rec.Modules {
						fmt.Fprintf(out, "%3d %s\n", i+1, m)
					}
					return nil
				}
			default:
				recs := make([]module.SOPClassRecord, 0, len(tb.SOPClasses()))
				for _, uid := range tb.SOPClasses() {
					rec, _ := tb.SOPClass(uid)
					recs = append(recs, rec)
				}
				v = recs
				if asJSON != "json" {
					fmt.Fprintf(out, "%d tags, %d SOP classes\n", tb.Len(), len(recs))
					for _, rec := range recs {
						fmt.Fprintf(out, "%-32s %s (%d modules)\n", rec.SOPClassUID, rec.Name, len(rec.Modules))
					}
					return nil
				}
			}
			return json.NewEncoder(out).Encode(v)
		},
	}
	pf := cmd.Flags()
	pf.String("tag", "", "tag id, 8 hex digits (e.g. 00080016)")
	pf.String("sop", "", "SOP class uid")
	pf.StringP("format", "f", "text", "output format (text|json)")
	return cmd
}
