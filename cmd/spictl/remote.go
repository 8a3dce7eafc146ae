package main

import (
	"time"

	"github.com/couchcryptid/storm-spi-service/internal/client"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
)

var remoteCmd = &cobra.Command{
	Use:   "remote KEY=VALUE...",
	Short: "Score one sounding with a running service",
	RunE:  runRemote,
}

func init() {
	remoteCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "scoring service base URL")
	remoteCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	rootCmd.AddCommand(remoteCmd)
}

func runRemote(cmd *cobra.Command, args []string) error {
	values, err := parseAssignments(args)
	if err != nil {
		return err
	}

	p, err := client.New(serverURL, timeout).Predict(cmd.Context(), values)
	if err != nil {
		return err
	}

	return printReport(cmd.OutOrStdout(), report{
		Score:         p.Score,
		Inputs:        p.Inputs,
		Contributions: p.Contributions,
	}, jsonOutput)
}
