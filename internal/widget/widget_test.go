package widget_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breachcheck-cli/internal/api"
	"breachcheck-cli/internal/render"
	"breachcheck-cli/internal/widget"
)

type fakeSearcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string]*api.SearchResult
	err     error
	// gates holds per-domain channels that block Search until closed.
	gates map[string]chan struct{}
}

func (f *fakeSearcher) Search(ctx context.Context, domain string) (*api.SearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, domain)
	gate := f.gates[domain]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if res, ok := f.results[domain]; ok {
		return res, nil
	}
	return &api.SearchResult{}, nil
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recorded struct {
	mu       sync.Mutex
	outcomes []widget.Outcome
}

func (r *recorded) observe(o widget.Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recorded) Outcomes() []widget.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]widget.Outcome(nil), r.outcomes...)
}

func setup(value string, s widget.Searcher) (*widget.Widget, *render.LineInput, *render.Region, *recorded) {
	in := render.NewLineInput(value)
	region := &render.Region{}
	rec := &recorded{}
	w := widget.Initialize(in, region, s, widget.WithObserver(rec.observe))
	return w, in, region, rec
}

func TestCheckDomain_EmptyInputSendsNothing(t *testing.T) {
	for _, value := range []string{"", "   ", "\t\n"} {
		s := &fakeSearcher{}
		w, _, region, rec := setup(value, s)

		w.CheckDomain(context.Background())

		assert.Empty(t, s.Calls())
		assert.Equal(t, widget.MsgEmptyInput, region.HTML())
		assert.Equal(t, widget.ClassError, region.Class())
		assert.True(t, region.Visible())
		assert.Equal(t, []widget.Outcome{widget.OutcomeInvalid}, rec.Outcomes())
	}
}

func TestCheckDomain_TrimsInput(t *testing.T) {
	s := &fakeSearcher{}
	w, _, _, _ := setup("  example.com \n", s)

	w.CheckDomain(context.Background())

	assert.Equal(t, []string{"example.com"}, s.Calls())
}

func TestCheckDomain_Found(t *testing.T) {
	s := &fakeSearcher{results: map[string]*api.SearchResult{
		"oracle.com": {Found: true},
	}}
	w, _, region, rec := setup("oracle.com", s)

	w.CheckDomain(context.Background())

	assert.Contains(t, region.HTML(), "<strong>oracle.com</strong>")
	assert.Contains(t, region.HTML(), "appears in the breach list")
	assert.Contains(t, region.HTML(), "Please follow the recommendations given below.")
	assert.NotContains(t, region.HTML(), "partial-matches")
	assert.Equal(t, widget.ClassBreach, region.Class())
	assert.True(t, region.Visible())
	assert.Equal(t, []widget.Outcome{widget.OutcomeFound}, rec.Outcomes())
}

func TestCheckDomain_NotFound(t *testing.T) {
	s := &fakeSearcher{}
	w, _, region, rec := setup("example.org", s)

	w.CheckDomain(context.Background())

	assert.Contains(t, region.HTML(), "does not appear in the breach list")
	assert.Equal(t, widget.ClassSafe, region.Class())
	assert.Equal(t, []widget.Outcome{widget.OutcomeSafe}, rec.Outcomes())
}

func TestCheckDomain_PartialMatchesKeepOrder(t *testing.T) {
	s := &fakeSearcher{results: map[string]*api.SearchResult{
		"a.com": {PartialMatches: []string{"b.com", "a.com", "b.com"}},
	}}
	w, _, region, _ := setup("a.com", s)

	w.CheckDomain(context.Background())

	html := region.HTML()
	assert.Contains(t, html, `<div class="partial-matches">`)
	assert.Contains(t, html, "Similar domains found in the database:")
	assert.Contains(t, html, "<pre>b.com\na.com\nb.com</pre>")
}

func TestCheckDomain_ServerError(t *testing.T) {
	s := &fakeSearcher{results: map[string]*api.SearchResult{
		"a.com": {Error: "rate limited", Found: true},
	}}
	w, _, region, rec := setup("a.com", s)

	w.CheckDomain(context.Background())

	assert.Equal(t, "Error: rate limited", region.HTML())
	assert.Equal(t, widget.ClassError, region.Class())
	assert.Equal(t, []widget.Outcome{widget.OutcomeServerError}, rec.Outcomes())
}

func TestCheckDomain_TransportFailure(t *testing.T) {
	s := &fakeSearcher{err: errors.New("connection refused")}
	w, _, region, rec := setup("a.com", s)

	w.CheckDomain(context.Background())

	assert.Equal(t, widget.MsgCheckFailed, region.HTML())
	assert.NotContains(t, region.HTML(), "connection refused")
	assert.Equal(t, widget.ClassError, region.Class())
	assert.Equal(t, []widget.Outcome{widget.OutcomeFailed}, rec.Outcomes())
}

func TestCheckDomain_EscapesInterpolatedText(t *testing.T) {
	s := &fakeSearcher{results: map[string]*api.SearchResult{
		"<img src=x>.com": {PartialMatches: []string{"<script>alert(1)</script>"}},
		"bad.com":         {Error: "<b>boom</b>"},
	}}
	w, in, region, _ := setup("<img src=x>.com", s)

	w.CheckDomain(context.Background())
	assert.NotContains(t, region.HTML(), "<img")
	assert.NotContains(t, region.HTML(), "<script>")
	assert.Contains(t, region.HTML(), "&lt;img src=x&gt;.com")

	in.Set("bad.com")
	w.CheckDomain(context.Background())
	assert.Equal(t, "Error: &lt;b&gt;boom&lt;/b&gt;", region.HTML())
}

func TestCheckDomain_ReplacesPreviousMessage(t *testing.T) {
	s := &fakeSearcher{results: map[string]*api.SearchResult{
		"hit.com": {Found: true, PartialMatches: []string{"x.hit.com"}},
	}}
	w, in, region, _ := setup("hit.com", s)

	w.CheckDomain(context.Background())
	require.Equal(t, widget.ClassBreach, region.Class())

	in.Set("")
	w.CheckDomain(context.Background())

	assert.Equal(t, widget.MsgEmptyInput, region.HTML())
	assert.Equal(t, 2, region.Shows())
}

func TestOnKey_OnlyEnterTriggers(t *testing.T) {
	s := &fakeSearcher{}
	w, _, region, _ := setup("a.com", s)

	for _, key := range []string{"a", "Tab", "enter", "Escape", " "} {
		w.OnKey(context.Background(), key)
	}
	assert.Empty(t, s.Calls())
	assert.False(t, region.Visible())

	w.OnKey(context.Background(), widget.KeyEnter)
	assert.Equal(t, []string{"a.com"}, s.Calls())
	assert.True(t, region.Visible())
}

func TestCheckDomain_StaleResponseIsDropped(t *testing.T) {
	slow := make(chan struct{})
	s := &fakeSearcher{
		results: map[string]*api.SearchResult{
			"slow.com": {Found: true},
			"fast.com": {Found: false},
		},
		gates: map[string]chan struct{}{"slow.com": slow},
	}
	w, in, region, rec := setup("slow.com", s)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.CheckDomain(context.Background())
	}()
	require.Eventually(t, func() bool { return len(s.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	in.Set("fast.com")
	w.CheckDomain(context.Background())
	require.Contains(t, region.HTML(), "fast.com")

	close(slow)
	<-done

	assert.Contains(t, region.HTML(), "fast.com")
	assert.Equal(t, widget.ClassSafe, region.Class())
	assert.Equal(t, 1, region.Shows())
	assert.Equal(t, []widget.Outcome{widget.OutcomeSafe, widget.OutcomeStale}, rec.Outcomes())
}

func TestCheckDomain_Timeout(t *testing.T) {
	s := &fakeSearcher{gates: map[string]chan struct{}{"hang.com": make(chan struct{})}}
	in := render.NewLineInput("hang.com")
	region := &render.Region{}
	w := widget.Initialize(in, region, s, widget.WithTimeout(20*time.Millisecond))

	w.CheckDomain(context.Background())

	assert.Equal(t, widget.MsgCheckFailed, region.HTML())
	assert.Equal(t, widget.ClassError, region.Class())
}

func TestShowResult(t *testing.T) {
	region := &render.Region{}
	w := widget.Initialize(render.NewLineInput(""), region, &fakeSearcher{})

	w.ShowResult("<em>all good</em>", false)
	assert.Equal(t, "<em>all good</em>", region.HTML())
	assert.Equal(t, widget.ClassSafe, region.Class())
	assert.True(t, region.Visible())

	w.ShowResult("nope", true)
	assert.Equal(t, widget.ClassError, region.Class())
}

func TestCheckDomain_AgainstSearchService(t *testing.T) {
	var bodies []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
		if strings.Contains(string(b), "broken") {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "<html>Bad Gateway</html>")
			return
		}
		_, _ = io.WriteString(w, `{"found": false, "partial_matches": ["a.com", "b.com"]}`)
	}))
	defer srv.Close()

	in := render.NewLineInput("my site.com")
	region := &render.Region{}
	w := widget.Initialize(in, region, api.NewClient(srv.URL))

	w.OnKey(context.Background(), widget.KeyEnter)
	assert.Contains(t, region.HTML(), "<pre>a.com\nb.com</pre>")
	assert.Equal(t, widget.ClassSafe, region.Class())

	in.Set("broken.com")
	w.OnKey(context.Background(), widget.KeyEnter)
	assert.Equal(t, widget.MsgCheckFailed, region.HTML())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"domain=my%20site.com", "domain=broken.com"}, bodies)
}
