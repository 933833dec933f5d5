package cmd

import (
	"fmt"
	"os"

	"breachcheck-cli/internal/api"
	"breachcheck-cli/internal/config"
	"breachcheck-cli/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// appLogger is replaced once configuration has been read.
var appLogger = logger.NewNop()

var rootCmd = &cobra.Command{
	Use:   "breachcheck",
	Short: "breachcheck - check domains against a breach list search service",
	Long: `breachcheck submits domain names to a breach list search service and reports
whether each domain appears in the list, together with similar domains the service knows about.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = appLogger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(config.InitConfig, initLogger)

	rootCmd.PersistentFlags().String("url", "", "Search service base URL (overrides config)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-request timeout (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	_ = viper.BindPFlag(config.BaseURL, rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag(config.Timeout, rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag(config.LogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

func initLogger() {
	l, err := logger.New(logger.Config{Level: config.GetLogLevel()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return
	}
	appLogger = l
}

func newClient() *api.Client {
	return api.NewClient(config.GetBaseURL(), api.WithTimeout(config.GetTimeout()))
}
