// Package main provides the relscore CLI binary.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relscore/relscore/internal/config"
	"github.com/relscore/relscore/internal/evaluation"
	"github.com/relscore/relscore/internal/pkg/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relscore",
		Short: "Relscore - relevance-judgment submission scorer",
		Long: `Relscore scores a participant submission against ground-truth relevance
annotations and reports global and per-query-averaged classification metrics.

Run 'relscore score' to score a submission.
Run 'relscore --help' for available commands.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		scoreCmd(),
		phasesCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a submission against ground-truth annotations",
		Long: `Score a submission file against a ground-truth annotation file for a
challenge phase. Both files are tab-separated; gzip-compressed submissions
are detected and decompressed automatically.

The JSON report is written to stdout, or to a file with --output.`,
		RunE: runScore,
	}

	cmd.Flags().StringP("annotations", "a", "", "ground-truth annotation file (required)")
	cmd.Flags().StringP("submission", "s", "", "submission file to score (required)")
	cmd.Flags().StringP("phase", "p", "", "challenge phase (required)")
	cmd.Flags().StringP("output", "o", "", "write the report to this file instead of stdout")
	_ = cmd.MarkFlagRequired("annotations")
	_ = cmd.MarkFlagRequired("submission")
	_ = cmd.MarkFlagRequired("phase")

	return cmd
}

func runScore(cmd *cobra.Command, _ []string) error {
	annotations, _ := cmd.Flags().GetString("annotations")
	submission, _ := cmd.Flags().GetString("submission")
	phase, _ := cmd.Flags().GetString("phase")
	output, _ := cmd.Flags().GetString("output")
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	evaluator := evaluation.NewEvaluator(log)
	outcome, err := evaluator.Evaluate(cmd.Context(), annotations, submission, phase, nil)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	raw, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	raw = append(raw, '\n')

	if output != "" {
		if err := os.WriteFile(output, raw, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		log.Info("report written", "path", output)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(raw)
	return err
}

func phasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phases",
		Short: "List recognized challenge phases",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range evaluation.Phases() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("relscore %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}
