package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show search statistics reported by the service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := newClient().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			output, _ := json.MarshalIndent(data, "", "  ")
			fmt.Fprintln(out, string(output))
			return nil
		}
		fmt.Fprintf(out, "Domains indexed: %d\n", data.TotalDomains)
		fmt.Fprintf(out, "Searches:        %d\n", data.TotalSearches)
		fmt.Fprintf(out, "Hits:            %d\n", data.Hits)
		fmt.Fprintf(out, "Misses:          %d\n", data.Misses)
		fmt.Fprintf(out, "Hit ratio:       %s\n", data.HitRatio)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print raw JSON")
}
