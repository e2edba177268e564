// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/coil/internal/pipeline"
	"github.com/pdiddy/coil/pkg/types"
)

var errDiagnostics = errors.New("extraction finished with diagnostics")

var extractCmd = &cobra.Command{
	Use:   "extract [document.md]",
	Short: "Write the document's bound code blocks to files",
	Long: `Extract parses a coil document, resolves each tagged code block against
coil.files, and writes the results under the output directory. Paths that
leave the output directory are refused. Problems with individual blocks or
files are reported as warnings and do not stop the others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := runConfig(args)
		if cfg.InputFile == "" {
			return fmt.Errorf("no input file: pass a path or --input")
		}

		data, err := os.ReadFile(cfg.InputFile)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		slog.Debug("run config", "input", cfg.InputFile, "output_dir", cfg.OutputDir, "dry_run", cfg.DryRun, "strict", cfg.Strict, "verbose", cfg.Verbose)
		result, err := pipeline.Run(string(data), pipeline.Options{
			OutputRoot: cfg.OutputDir,
			DryRun:     cfg.DryRun,
			Out:        cmd.ErrOrStderr(),
			Logger:     slog.Default(),
		})
		if err != nil {
			return err
		}
		if cfg.Strict && result.HasDiagnostics() {
			return fmt.Errorf("%w: %d", errDiagnostics, len(result.Diagnostics))
		}
		return nil
	},
}

// runConfig merges flags, COIL_* environment variables, and coil.yaml.
func runConfig(args []string) types.RunConfig {
	cfg := types.RunConfig{
		InputFile: viper.GetString("input"),
		OutputDir: viper.GetString("output_dir"),
		DryRun:    viper.GetBool("dry_run"),
		Strict:    viper.GetBool("strict"),
		Verbose:   viper.GetBool("verbose"),
	}
	if len(args) == 1 {
		cfg.InputFile = args[0]
	}
	return cfg
}

func init() {
	extractCmd.Flags().StringP("input", "i", "", "Markdown document to extract from")
	extractCmd.Flags().StringP("output-dir", "o", "", "root directory for emitted files (default: current directory)")
	extractCmd.Flags().Bool("dry-run", false, "resolve and check targets without writing files")
	extractCmd.Flags().Bool("strict", false, "exit non-zero when any warning is reported")

	_ = viper.BindPFlag("input", extractCmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("output_dir", extractCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("dry_run", extractCmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("strict", extractCmd.Flags().Lookup("strict"))

	rootCmd.AddCommand(extractCmd)
}
