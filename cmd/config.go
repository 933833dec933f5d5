package cmd

import (
	"fmt"

	"breachcheck-cli/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure breachcheck settings",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var setURLCmd = &cobra.Command{
	Use:   "set-url [url]",
	Short: "Set the search service base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetBaseURL(args[0]); err != nil {
			return fmt.Errorf("setting base URL: %w", err)
		}
		fmt.Println("Base URL set successfully.")
		return nil
	},
}

var getURLCmd = &cobra.Command{
	Use:   "get-url",
	Short: "Get the current search service base URL",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Current base URL: %s\n", config.GetBaseURL())
	},
}

var setTimeoutCmd = &cobra.Command{
	Use:   "set-timeout [duration]",
	Short: "Set the per-request timeout, e.g. 5s",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetTimeout(args[0]); err != nil {
			return fmt.Errorf("setting timeout: %w", err)
		}
		fmt.Println("Timeout set successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(setURLCmd)
	configCmd.AddCommand(getURLCmd)
	configCmd.AddCommand(setTimeoutCmd)
}
