package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"breachcheck-cli/internal/config"
	"breachcheck-cli/internal/logger"
	"breachcheck-cli/internal/metrics"
	"breachcheck-cli/internal/render"
	"breachcheck-cli/internal/widget"

	"github.com/spf13/cobra"
)

var shellMetricsPort int

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Check domains interactively, one per line",
	Long: `Reads a domain per line from standard input. Pressing Enter submits the line,
and the result replaces the previous one. End input with Ctrl-D.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if shellMetricsPort > 0 {
			srv := metrics.Start(shellMetricsPort)
			appLogger.Info("Metrics listener started", logger.Int("port", shellMetricsPort))
			defer func() {
				_ = srv.Stop(context.Background())
			}()
		}

		input := render.NewLineInput("")
		region := render.NewTerminalRegion(cmd.OutOrStdout())
		w := widget.Initialize(input, region, newClient(),
			widget.WithLogger(appLogger),
			widget.WithTimeout(config.GetTimeout()),
			widget.WithObserver(func(o widget.Outcome, elapsed time.Duration) {
				metrics.RecordCheck(string(o), elapsed)
			}),
		)

		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}()

		fmt.Fprint(os.Stderr, "domain> ")
		for {
			select {
			case <-ctx.Done():
				fmt.Fprintln(os.Stderr)
				return nil
			case line, ok := <-lines:
				if !ok {
					return region.Err()
				}
				input.Set(line)
				w.OnKey(ctx, widget.KeyEnter)
				fmt.Fprint(os.Stderr, "domain> ")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().IntVar(&shellMetricsPort, "metrics-port", 0, "Expose Prometheus metrics on this port (0 disables)")
}
