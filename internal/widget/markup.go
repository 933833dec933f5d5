package widget

import (
	"html/template"
	"strings"

	"breachcheck-cli/internal/api"
)

const (
	foundPhrase    = "appears in the breach list"
	notFoundPhrase = "does not appear in the breach list"
	followUp       = "Please follow the recommendations given below."
	partialCaption = "Similar domains found in the database:"
)

// resultTemplate escapes the domain and every partial match; only the literal
// scaffolding is trusted markup.
var resultTemplate = template.Must(template.New("result").
	Funcs(template.FuncMap{"lines": func(s []string) string { return strings.Join(s, "\n") }}).
	Parse(`{{if .Found}}<strong>{{.Domain}}</strong> ` + foundPhrase + `.<p>` + followUp + `</p>` +
		`{{else}}<strong>{{.Domain}}</strong> ` + notFoundPhrase + `.{{end}}` +
		`{{with .PartialMatches}}
<div class="partial-matches">
<p>` + partialCaption + `</p>
<pre>{{lines .}}</pre>
</div>{{end}}`))

type resultView struct {
	Domain         string
	Found          bool
	PartialMatches []string
}

// RenderResult composes the markup for a successful lookup of domain.
func RenderResult(domain string, res *api.SearchResult) (string, error) {
	var b strings.Builder
	err := resultTemplate.Execute(&b, resultView{
		Domain:         domain,
		Found:          res.Found,
		PartialMatches: res.PartialMatches,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// ServerErrorMessage is the markup shown for an error reported by the search service.
func ServerErrorMessage(msg string) string {
	return "Error: " + template.HTMLEscapeString(msg)
}
