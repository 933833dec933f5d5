package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"breachcheck-cli/internal/config"
	"breachcheck-cli/internal/metrics"
	"breachcheck-cli/internal/render"
	"breachcheck-cli/internal/widget"

	"github.com/spf13/cobra"
)

var (
	checkHTML         bool
	checkFailOnBreach bool
)

var errBreachFound = errors.New("at least one domain appears in the breach list")

var checkCmd = &cobra.Command{
	Use:   "check [domain...]",
	Short: "Check one or more domains against the breach list",
	Long: `Check each domain against the breach list and print the result.
Examples:
  breachcheck check example.com
  breachcheck check --html oracle.com cloudspm.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := render.NewLineInput("")
		var region widget.Region
		var memory *render.Region
		if checkHTML {
			memory = &render.Region{}
			region = memory
		} else {
			region = render.NewTerminalRegion(cmd.OutOrStdout())
		}

		breached := false
		w := widget.Initialize(input, region, newClient(),
			widget.WithLogger(appLogger),
			widget.WithTimeout(config.GetTimeout()),
			widget.WithObserver(func(o widget.Outcome, elapsed time.Duration) {
				metrics.RecordCheck(string(o), elapsed)
				if o == widget.OutcomeFound {
					breached = true
				}
			}),
		)

		for _, domain := range args {
			input.Set(domain)
			w.CheckDomain(cmd.Context())
			if memory != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "<div id=\"result\" class=\"%s\">%s</div>\n", memory.Class(), memory.HTML())
			}
		}

		if t, ok := region.(*render.TerminalRegion); ok && t.Err() != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", t.Err())
		}
		if breached && checkFailOnBreach {
			return errBreachFound
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkHTML, "html", false, "Print the result region markup instead of plain text")
	checkCmd.Flags().BoolVar(&checkFailOnBreach, "fail-on-breach", false, "Exit non-zero when any domain appears in the breach list")
}
