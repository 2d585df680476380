package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/dicomview.go/pkg/config"
	"github.com/jpfielding/dicomview.go/pkg/dicomview"
	"github.com/jpfielding/dicomview.go/pkg/logging"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	var closeLog func() error
	cmd := &cobra.Command{
		Use:           "dicomview",
		Short:         "inspect, classify and compare DICOM metadata",
		Long:          "groups DICOM tags by information module, filters them by SOP class and compares files side by side",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logLevel := cfg.Log.Level
			if cmd.Flags().Changed("log-level") {
				logLevel, _ = cmd.Flags().GetString("log-level")
			}
			level, lerr := logging.ParseLevel(logLevel)

			w, closer := logging.Output(os.Stdout, cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups)
			closeLog = closer
			slog.SetDefault(logging.Logger(w, cfg.Log.Format == "json", level))

			if lerr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", lerr)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewModulesCmd(ctx),
		NewDumpCmd(ctx),
		NewClassifyCmd(ctx),
		NewCompareCmd(ctx),
		NewServeCmd(ctx),
		NewConfigCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("config", "", "ini configuration file")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

// loadConfig reads the file named by --config, defaults when unset or missing
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newEngine binds the module table named in the configuration
func newEngine(cfg *config.Config) (*dicomview.Engine, error) {
	tb, err := cfg.Viewer.Table()
	if err != nil {
		return nil, err
	}
	return dicomview.NewEngine(tb), nil
}
