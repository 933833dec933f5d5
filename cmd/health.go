package cmd

import (
	"errors"
	"fmt"
	"time"

	"breachcheck-cli/internal/api"

	"github.com/spf13/cobra"
)

var (
	healthWait     bool
	healthInterval time.Duration
	healthMaxWait  time.Duration
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report whether the search service is healthy",
	Long: `Queries the service health endpoint. With --wait, polls until the service reports
healthy or --max-wait elapses.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := cmd.Context()
		deadline := time.Now().Add(healthMaxWait)

		for {
			data, err := client.Health(ctx)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Status: %s (Domains: %d, Log files: %d)\n",
					data.Status, data.DomainsCount, len(data.Logs))
				return nil
			}
			if !healthWait || time.Now().After(deadline) {
				return err
			}

			if errors.Is(err, api.ErrUnhealthy) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Service unhealthy: %v. Retrying in %s...\n", err, healthInterval)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error checking health: %v. Retrying in %s...\n", err, healthInterval)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(healthInterval):
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().BoolVar(&healthWait, "wait", false, "Poll until the service is healthy")
	healthCmd.Flags().DurationVar(&healthInterval, "interval", 2*time.Second, "Delay between polls with --wait")
	healthCmd.Flags().DurationVar(&healthMaxWait, "max-wait", time.Minute, "Give up polling after this long")
}
