// Package widget binds a domain input and a result region to the breach search
// service. It mirrors the lookup form: Enter submits, the answer replaces whatever
// the region showed before.
package widget

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"breachcheck-cli/internal/api"
	"breachcheck-cli/internal/logger"
)

const (
	// KeyEnter is the only key that triggers a check.
	KeyEnter = "Enter"

	ClassBreach = "breach"
	ClassSafe   = "safe"
	// ClassError marks error messages; they share the breach styling.
	ClassError = ClassBreach

	MsgEmptyInput  = "Please enter a domain name"
	MsgCheckFailed = "An error occurred while checking the domain"

	DefaultTimeout = 10 * time.Second
)

// Input is the text field a query is read from.
type Input interface {
	Value() string
}

// Region is where results are displayed. It starts hidden; Show makes it visible.
type Region interface {
	SetHTML(markup string)
	SetClass(class string)
	Show()
}

// Searcher submits a domain to the breach search service.
type Searcher interface {
	Search(ctx context.Context, domain string) (*api.SearchResult, error)
}

// Outcome classifies how a single trigger ended.
type Outcome string

const (
	OutcomeFound       Outcome = "found"
	OutcomeSafe        Outcome = "safe"
	OutcomeServerError Outcome = "error"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeFailed      Outcome = "failed"
	OutcomeStale       Outcome = "stale"
)

// Observer is notified once per trigger. elapsed is zero when no request was sent.
type Observer func(outcome Outcome, elapsed time.Duration)

type Widget struct {
	input    Input
	region   Region
	searcher Searcher
	logger   logger.Logger
	timeout  time.Duration
	observe  Observer

	// seq identifies the latest trigger; renders from older triggers are dropped.
	seq atomic.Uint64
	mu  sync.Mutex
}

// Option configures a Widget.
type Option func(*Widget)

// WithLogger sets the diagnostic logger. Failures are logged here, never shown.
func WithLogger(l logger.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// WithTimeout bounds each search request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(w *Widget) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithObserver registers a callback for trigger outcomes.
func WithObserver(o Observer) Option {
	return func(w *Widget) { w.observe = o }
}

// Initialize binds the widget to its input, result region and search service.
func Initialize(input Input, region Region, searcher Searcher, opts ...Option) *Widget {
	w := &Widget{
		input:    input,
		region:   region,
		searcher: searcher,
		logger:   logger.NewNop(),
		timeout:  DefaultTimeout,
		observe:  func(Outcome, time.Duration) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnKey runs a check when key is Enter and ignores every other key.
func (w *Widget) OnKey(ctx context.Context, key string) {
	if key == KeyEnter {
		w.CheckDomain(ctx)
	}
}

// CheckDomain reads the input, queries the search service and renders the outcome.
// It never fails: every error ends up as a message in the region.
func (w *Widget) CheckDomain(ctx context.Context) {
	seq := w.seq.Add(1)
	domain := strings.TrimSpace(w.input.Value())

	if domain == "" {
		w.commit(seq, OutcomeInvalid, 0, func() { w.ShowResult(MsgEmptyInput, true) })
		return
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	res, err := w.searcher.Search(ctx, domain)
	elapsed := time.Since(start)
	if err != nil {
		w.logger.Error("Domain check failed",
			logger.String("domain", domain),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
		w.commit(seq, OutcomeFailed, elapsed, func() { w.ShowResult(MsgCheckFailed, true) })
		return
	}

	if res.Error != "" {
		w.commit(seq, OutcomeServerError, elapsed, func() { w.ShowResult(ServerErrorMessage(res.Error), true) })
		return
	}

	markup, err := RenderResult(domain, res)
	if err != nil {
		w.logger.Error("Rendering result failed", logger.String("domain", domain), logger.Error(err))
		w.commit(seq, OutcomeFailed, elapsed, func() { w.ShowResult(MsgCheckFailed, true) })
		return
	}

	outcome, class := OutcomeSafe, ClassSafe
	if res.Found {
		outcome, class = OutcomeFound, ClassBreach
	}
	w.commit(seq, outcome, elapsed, func() {
		w.region.SetClass(class)
		w.region.SetHTML(markup)
		w.region.Show()
	})
}

// ShowResult replaces the region's content with message, which is trusted markup.
func (w *Widget) ShowResult(message string, isError bool) {
	w.region.SetHTML(message)
	if isError {
		w.region.SetClass(ClassError)
	} else {
		w.region.SetClass(ClassSafe)
	}
	w.region.Show()
}

// commit runs render only if seq is still the latest trigger.
func (w *Widget) commit(seq uint64, outcome Outcome, elapsed time.Duration, render func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if latest := w.seq.Load(); seq != latest {
		w.logger.Debug("Dropping stale response",
			logger.Uint64("seq", seq),
			logger.Uint64("latest", latest),
			logger.String("outcome", string(outcome)),
		)
		w.observe(OutcomeStale, elapsed)
		return
	}
	render()
	w.observe(outcome, elapsed)
}
