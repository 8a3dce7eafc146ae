// Command spictl scores soundings from the command line, either against local
// model artifacts or a running service.
//
// Usage:
//
//	spictl fields
//	spictl score --model-dir model MUCAPE=1500 MUCIN=-20 ...
//	spictl remote --server http://localhost:8080 MUCAPE=1500 MUCIN=-20 ...
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "spictl",
	Short:        "Score significant severe probability from sounding parameters",
	SilenceUsage: true,
}

var jsonOutput bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
