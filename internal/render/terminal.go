package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// badges prefix the rendered text by region class.
var badges = map[string]string{
	"breach": "[!]",
	"safe":   "[ok]",
}

var blockElements = map[string]bool{
	"p":   true,
	"div": true,
	"pre": true,
	"br":  true,
	"li":  true,
	"ul":  true,
}

// TerminalRegion writes the region as plain text each time it is shown.
type TerminalRegion struct {
	Region

	mu  sync.Mutex
	out io.Writer
	err error
}

func NewTerminalRegion(out io.Writer) *TerminalRegion {
	return &TerminalRegion{out: out}
}

func (t *TerminalRegion) Show() {
	t.Region.Show()

	text, err := PlainText(t.HTML())
	if err != nil {
		text = t.HTML()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	badge, ok := badges[t.Class()]
	if !ok {
		badge = "[-]"
	}
	if _, werr := fmt.Fprintf(t.out, "%s %s\n", badge, text); werr != nil && t.err == nil {
		t.err = werr
	}
}

// Err returns the first write error, if any.
func (t *TerminalRegion) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// PlainText flattens markup into text, one line per block element, with entities decoded.
func PlainText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	var b strings.Builder
	writeText(&b, doc.Find("body"))

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func writeText(b *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		if name == "#text" {
			b.WriteString(c.Text())
			return
		}
		block := blockElements[name]
		if block {
			b.WriteByte('\n')
		}
		writeText(b, c)
		if block {
			b.WriteByte('\n')
		}
	})
}
