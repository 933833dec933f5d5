// Package render provides the input and result-region bindings used outside a browser.
package render

import "sync"

// Region records the latest markup, class and visibility set by the widget.
type Region struct {
	mu      sync.Mutex
	html    string
	class   string
	visible bool
	shows   int
}

func (r *Region) SetHTML(markup string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.html = markup
}

func (r *Region) SetClass(class string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.class = class
}

func (r *Region) Show() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = true
	r.shows++
}

func (r *Region) HTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.html
}

func (r *Region) Class() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.class
}

// Visible reports whether Show has been called at least once.
func (r *Region) Visible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible
}

// Shows counts the renders so far.
func (r *Region) Shows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shows
}

// LineInput is an Input whose value is replaced line by line.
type LineInput struct {
	mu    sync.Mutex
	value string
}

// NewLineInput returns an input holding value.
func NewLineInput(value string) *LineInput {
	return &LineInput{value: value}
}

func (in *LineInput) Set(value string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.value = value
}

func (in *LineInput) Value() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.value
}
