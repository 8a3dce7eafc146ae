package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/storm-spi-service/internal/model"
	"github.com/couchcryptid/storm-spi-service/internal/observability"
	"github.com/couchcryptid/storm-spi-service/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	modelDir     string
	manifestPath string
	verbose      bool
)

var scoreCmd = &cobra.Command{
	Use:   "score KEY=VALUE...",
	Short: "Score one sounding with local model artifacts",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&modelDir, "model-dir", "model", "directory holding the model artifacts")
	scoreCmd.Flags().StringVar(&manifestPath, "manifest", "", "model manifest (default <model-dir>/manifest.yaml)")
	scoreCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log artifact loading")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	values, err := parseAssignments(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	path := manifestPath
	if path == "" {
		path = filepath.Join(modelDir, "manifest.yaml")
	}
	manifest, _, err := model.ReadManifest(path)
	if err != nil {
		return err
	}
	ensemble, err := model.Load(modelDir, manifest, model.LoadOptions{Logger: logger})
	if err != nil {
		return err
	}

	svc := scoring.New(ensemble, logger, observability.NewMetricsForTesting())
	out, err := svc.Score(cmd.Context(), values)
	if err != nil {
		return fmt.Errorf("%s: %w", out.State, err)
	}

	return printReport(cmd.OutOrStdout(), report{
		Score:         out.Result.Score,
		Inputs:        out.Result.Inputs,
		Contributions: out.Result.Contributions,
	}, jsonOutput)
}
