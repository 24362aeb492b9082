package domain

import (
	"log/slog"
	"path/filepath"
	"strings"

	"embryo.dev/pkg/embryo/internal/adapter"
	"embryo.dev/pkg/embryo/internal/controller"
	m "embryo.dev/pkg/embryo/internal/model"
)

// Renderer materializes a parsed tree at a destination in two phases:
// touch, the idempotent creation of every directory and file that does not
// yet exist, then render, which resolves each templated file's context
// scope, renders it, and writes it through the matching codec. Nested
// embryo directives are not built here; they are returned for the
// incubator to recurse into.
type Renderer struct {
	fs     adapter.ProjectFS
	codecs *adapter.CodecRegistry
	engine adapter.TemplateEngine
	ui     controller.UI
}

// NewRenderer constructs a Renderer.
func NewRenderer(fs adapter.ProjectFS, codecs *adapter.CodecRegistry, engine adapter.TemplateEngine, ui controller.UI) *Renderer {
	return &Renderer{fs: fs, codecs: codecs, engine: engine, ui: ui}
}

// Build runs touch then render and returns the nested-embryo references in
// declaration order.
func (r *Renderer) Build(dest m.Path, parsed *ParsedTree, bundle m.TemplateBundle, ctx m.Context) ([]m.NestedEmbryoRef, error) {
	if err := r.touch(dest, parsed); err != nil {
		return nil, err
	}

	if err := r.render(dest, parsed, bundle, ctx); err != nil {
		return nil, err
	}

	return parsed.Nested, nil
}

// touch creates every directory and file path in the tree. It never
// overwrites and never deletes, so re-running a build only fills gaps.
func (r *Renderer) touch(dest m.Path, parsed *ParsedTree) error {
	if err := r.fs.MkdirAll(dest); err != nil {
		return err
	}

	for _, dir := range parsed.Dirs {
		path := m.Path(filepath.Join(string(dest), string(dir)))

		slog.Debug("creating directory", "path", path)

		if err := r.fs.MkdirAll(path); err != nil {
			return err
		}
	}

	for _, file := range parsed.Files {
		path := m.Path(filepath.Join(string(dest), string(file)))

		slog.Debug("touching file", "path", path)

		if err := r.fs.Touch(path); err != nil {
			return err
		}
	}

	return nil
}

// render writes every templated file. The directive's context path scopes
// the render context; the invocation metadata block is injected into that
// scope so every template can reach it.
func (r *Renderer) render(dest m.Path, parsed *ParsedTree, bundle m.TemplateBundle, ctx m.Context) error {
	for _, file := range parsed.Files {
		directive, ok := parsed.TemplateMeta[file]
		if !ok {
			continue
		}

		abs := m.Path(filepath.Join(string(dest), string(file)))

		scoped, err := ctx.Resolve(directive.ContextPath)
		if err != nil {
			return &m.RenderError{Dest: abs, Err: err}
		}

		scoped = scoped.Clone()
		scoped[m.ReservedKey] = ctx.Metadata()

		src, ok := bundle[directive.Name]
		if !ok {
			return &m.RenderError{Dest: abs, Err: &m.TemplateNotFoundError{Name: directive.Name}}
		}

		r.ui.Say("rendering %s", abs)

		text, err := r.engine.Render(directive.Name, src, scoped)
		if err != nil {
			return &m.RenderError{Dest: abs, Err: err}
		}

		if err := r.write(abs, text); err != nil {
			return err
		}
	}

	return nil
}

// write trims the rendered text and pushes it through the extension's
// codec; files with no codec are written raw.
func (r *Renderer) write(abs m.Path, text string) error {
	text = strings.TrimSpace(text)
	if text != "" {
		text += "\n"
	}

	if codec, ok := r.codecs.Lookup(string(abs)); ok {
		formatted, err := codec.Format(text)
		if err != nil {
			return &m.CodecError{Path: abs, Op: "write", Err: err}
		}

		text = formatted
	}

	return r.fs.WriteFile(abs, []byte(text))
}
