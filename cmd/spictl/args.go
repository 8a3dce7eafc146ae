package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
)

// parseAssignments turns KEY=VALUE arguments into submission values. Keys may
// be column names or display labels.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q: want KEY=VALUE", arg)
		}
		if _, dup := values[key]; dup {
			return nil, fmt.Errorf("argument %q: %s given twice", arg, key)
		}
		values[key] = value
	}
	return values, nil
}

// report is what both score and remote print.
type report struct {
	Score         float64               `json:"score"`
	Inputs        []domain.EchoField    `json:"inputs"`
	Contributions []domain.Contribution `json:"contributions"`
}

func printReport(w io.Writer, r report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, in := range r.Inputs {
		fmt.Fprintf(tw, "%s\t%s\n", in.Label, in.Value)
	}
	fmt.Fprintln(tw)
	for _, c := range r.Contributions {
		fmt.Fprintf(tw, "%s\t%.1f%%\n", c.Model, c.Percent)
	}
	fmt.Fprintf(tw, "score\t%.1f%%\n", r.Score)
	return tw.Flush()
}
