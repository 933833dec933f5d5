package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"breachcheck-cli/internal/batch"
	"breachcheck-cli/internal/config"
	"breachcheck-cli/internal/logger"
	"breachcheck-cli/internal/metrics"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	batchFile    string
	batchOutput  string
	batchOutFile string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Check every domain listed in a file, one per line",
	Long: `Check every domain in a file (one per line, blank lines ignored) and write the results.
Examples:
  breachcheck batch -f domains.txt
  cat domains.txt | breachcheck batch -f - -o csv --out result.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if batchFile != "-" {
			f, err := os.Open(batchFile)
			if err != nil {
				return fmt.Errorf("opening domains file: %w", err)
			}
			defer f.Close()
			in = f
		}

		domains, err := batch.ReadDomains(in)
		if err != nil {
			return err
		}
		appLogger.Info("Checking domains",
			logger.Int("count", len(domains)),
			logger.Int("concurrency", config.GetConcurrency()),
		)

		checker := batch.NewChecker(newClient(), config.GetConcurrency(), config.GetTimeout(), appLogger)
		checker.OnResult(metrics.RecordCheck)
		results, err := checker.Run(cmd.Context(), domains)
		if err != nil {
			return fmt.Errorf("checking domains: %w", err)
		}

		if batchOutFile == "" {
			return batch.Write(cmd.OutOrStdout(), results, batchOutput)
		}

		if err := os.MkdirAll(filepath.Dir(batchOutFile), 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		file, err := os.Create(batchOutFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()

		if err := batch.Write(file, results, batchOutput); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
		absPath, _ := filepath.Abs(batchOutFile)
		fmt.Fprintf(os.Stderr, "Saved %d results to %s\n", len(results), absPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "-", "File with one domain per line ('-' reads stdin)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "text", "Output format: json, csv, text")
	batchCmd.Flags().StringVar(&batchOutFile, "out", "", "Write results to this file instead of stdout")
	batchCmd.Flags().Int("concurrency", 0, "Number of concurrent checks (overrides config)")
	_ = viper.BindPFlag(config.Concurrency, batchCmd.Flags().Lookup("concurrency"))
}
