package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigCmd prints the effective configuration or writes it to a file
func NewConfigCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		Long:  "Prints the configuration after defaults are applied, or saves it with --write as a starting point.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if path, _ := cmd.Flags().GetString("write"); path != "" {
				if err := cfg.Save(path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
				return nil
			}
			_, err = cfg.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().String("write", "", "save the configuration to this path")
	return cmd
}
