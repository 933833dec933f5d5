// Package batch checks a list of domains against the search service.
package batch

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"breachcheck-cli/internal/api"
	"breachcheck-cli/internal/logger"
)

// ErrNoDomains is returned when the input holds no domain names.
var ErrNoDomains = errors.New("no domains to check")

// Searcher submits a domain to the breach search service.
type Searcher interface {
	Search(ctx context.Context, domain string) (*api.SearchResult, error)
}

// Result is the outcome of checking one domain.
type Result struct {
	Domain         string   `json:"domain"`
	Found          bool     `json:"found"`
	PartialMatches []string `json:"partial_matches,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// ReadDomains reads one domain per line, trimming whitespace and skipping blank lines.
func ReadDomains(r io.Reader) ([]string, error) {
	var domains []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			domains = append(domains, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read domains: %w", err)
	}
	if len(domains) == 0 {
		return nil, ErrNoDomains
	}
	return domains, nil
}

type Checker struct {
	searcher    Searcher
	concurrency int
	timeout     time.Duration
	logger      logger.Logger
	observe     func(outcome string, elapsed time.Duration)
}

// NewChecker returns a Checker running at most concurrency searches at once,
// each bounded by timeout.
func NewChecker(s Searcher, concurrency int, timeout time.Duration, log logger.Logger) *Checker {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Checker{
		searcher:    s,
		concurrency: concurrency,
		timeout:     timeout,
		logger:      log,
		observe:     func(string, time.Duration) {},
	}
}

// OnResult registers a callback invoked once per checked domain.
func (c *Checker) OnResult(fn func(outcome string, elapsed time.Duration)) {
	c.observe = fn
}

// Run checks every domain and returns results in input order. A failed lookup is
// recorded on its Result; only cancellation of ctx aborts the run.
func (c *Checker) Run(ctx context.Context, domains []string) ([]Result, error) {
	if len(domains) == 0 {
		return nil, ErrNoDomains
	}

	results := make([]Result, len(domains))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, domain := range domains {
		i, domain := i, domain
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.check(ctx, domain)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Checker) check(ctx context.Context, domain string) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := c.searcher.Search(ctx, domain)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		c.logger.Error("Domain check failed", logger.String("domain", domain), logger.Error(err))
		c.observe("failed", elapsed)
		return Result{Domain: domain, Error: "An error occurred while checking the domain"}
	case res.Error != "":
		c.observe("error", elapsed)
		return Result{Domain: domain, Error: res.Error}
	case res.Found:
		c.observe("found", elapsed)
	default:
		c.observe("safe", elapsed)
	}
	c.logger.Debug("Domain checked",
		logger.String("domain", domain),
		logger.Bool("found", res.Found),
		logger.Int("partial_matches", len(res.PartialMatches)),
	)
	return Result{Domain: domain, Found: res.Found, PartialMatches: res.PartialMatches}
}

// Write renders results as json, csv or text.
func Write(w io.Writer, results []Result, format string) error {
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "csv":
		writer := csv.NewWriter(w)
		if err := writer.Write([]string{"Domain", "Found", "PartialMatches", "Error"}); err != nil {
			return err
		}
		for _, r := range results {
			row := []string{r.Domain, strconv.FormatBool(r.Found), strings.Join(r.PartialMatches, ";"), r.Error}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	case "text":
		writer := bufio.NewWriter(w)
		for _, r := range results {
			status := "safe"
			switch {
			case r.Error != "":
				status = "error: " + r.Error
			case r.Found:
				status = "BREACHED"
			}
			fmt.Fprintf(writer, "%s\t%s\t%s\n", r.Domain, status, strings.Join(r.PartialMatches, ","))
		}
		return writer.Flush()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
