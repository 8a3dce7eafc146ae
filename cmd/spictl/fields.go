package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the nine input parameters in scoring order",
	Args:  cobra.NoArgs,
	RunE:  runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, _ []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, f := range domain.Features {
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.Label)
	}
	return tw.Flush()
}
