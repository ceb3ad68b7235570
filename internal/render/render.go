// Package render produces the published output formats of a generated
// article: Substack Markdown, a social thread, hero-image alt text and SEO
// front matter.
package render

import (
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/wslanalytics/pressbox/internal/model"
)

const substackRecapTmpl = `# {{.Headline}}

*WSL Round {{.Round}} recap*

{{.Body}}

---

## Facts panel

| Stat | Value | Source |
|---|---|---|
{{range .Facts}}| {{.Label}} | {{.Value}} | {{.Source}} |
{{end}}`

const substackPreviewTmpl = `# {{.Headline}}

*WSL Round {{.Round}} preview*

{{.Body}}

---

## Facts panel

| Stat | Value | Source |
|---|---|---|
{{range .Facts}}| {{.Label}} | {{.Value}} | {{.Source}} |
{{end}}`

const threadTmpl = `{{.Headline}}

{{range .Bullets}}• {{.}}
{{end}}
Full breakdown on the Substack.`

const altTextTmpl = `WSLAnalytics graphic for Round {{.Round}}, featuring {{.Teams}}.`

var (
	recapTemplate   = template.Must(template.New("substack_recap").Option("missingkey=error").Parse(substackRecapTmpl))
	previewTemplate = template.Must(template.New("substack_preview").Option("missingkey=error").Parse(substackPreviewTmpl))
	threadTemplate  = template.Must(template.New("thread").Option("missingkey=error").Parse(threadTmpl))
	altTemplate     = template.Must(template.New("alt_text").Option("missingkey=error").Parse(altTextTmpl))
)

// Article carries everything the templates need.
type Article struct {
	Round    string
	Headline string
	Body     string
	Bullets  []string
	Facts    []model.Fact
	Teams    []string
}

// Substack renders the Markdown body for publication.
func Substack(a Article, preview bool) (string, error) {
	tpl := recapTemplate
	if preview {
		tpl = previewTemplate
	}
	var sb strings.Builder
	if err := tpl.Execute(&sb, struct {
		Round, Headline, Body string
		Facts                 []model.Fact
	}{a.Round, a.Headline, a.Body, a.Facts}); err != nil {
		return "", fmt.Errorf("render substack: %w", err)
	}
	return sb.String(), nil
}

// Thread renders the social thread text.
func Thread(a Article) (string, error) {
	var sb strings.Builder
	if err := threadTemplate.Execute(&sb, struct {
		Headline string
		Bullets  []string
	}{a.Headline, a.Bullets}); err != nil {
		return "", fmt.Errorf("render thread: %w", err)
	}
	return sb.String(), nil
}

// AltText renders the hero-image alt text.
func AltText(a Article) (string, error) {
	var sb strings.Builder
	if err := altTemplate.Execute(&sb, struct {
		Round, Teams string
	}{a.Round, strings.Join(a.Teams, ", ")}); err != nil {
		return "", fmt.Errorf("render alt text: %w", err)
	}
	return sb.String(), nil
}

// seoFrontMatter is marshalled rather than templated so titles containing
// quotes or colons stay valid YAML.
type seoFrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Round       string   `yaml:"round"`
	Tags        []string `yaml:"tags"`
}

// SEOYAML renders the SEO front matter.
func SEOYAML(a Article) (string, error) {
	fm := seoFrontMatter{
		Title:       a.Headline,
		Description: fmt.Sprintf("Data-led analysis of WSL Round %s: xG, form and the numbers behind the results.", a.Round),
		Round:       a.Round,
		Tags:        []string{"WSL", "football analytics", "xG"},
	}
	out, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("render seo yaml: %w", err)
	}
	return string(out), nil
}
