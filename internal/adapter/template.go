package adapter

import (
	"bytes"
	"text/template"

	m "embryo.dev/pkg/embryo/internal/model"
	"embryo.dev/pkg/embryo/pkg/textcase"
)

// TemplateEngine is the embedded templating service: given a template source
// and a context mapping, produce rendered text synchronously, reporting
// syntax errors. Both template bodies and path strings go through it.
type TemplateEngine interface {
	Render(name, src string, ctx m.Context) (string, error)
}

// TextTemplateEngine renders through text/template with the case-transform
// functions scaffolds lean on for dynamic file naming. Missing context keys
// are a render error, not an empty substitution.
type TextTemplateEngine struct {
	funcs template.FuncMap
}

// NewTextTemplateEngine constructs a TextTemplateEngine.
func NewTextTemplateEngine() *TextTemplateEngine {
	return &TextTemplateEngine{
		funcs: template.FuncMap{
			"snake": textcase.Snake,
			"dash":  textcase.Dash,
			"title": textcase.Title,
			"camel": textcase.Camel,
		},
	}
}

// Render parses and executes src against ctx. The name only serves error
// messages.
func (e *TextTemplateEngine) Render(name, src string, ctx m.Context) (string, error) {
	tpl, err := template.New(name).Funcs(e.funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, map[string]any(ctx)); err != nil {
		return "", err
	}

	return buf.String(), nil
}
