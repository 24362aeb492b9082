package model

import (
	"fmt"
	"strings"
)

// EmbryoNotFoundError reports that no candidate bundle directory exists for
// a name anywhere on the search path.
type EmbryoNotFoundError struct {
	Name       string
	SearchPath []string
}

func (e *EmbryoNotFoundError) Error() string {
	return fmt.Sprintf("embryo %q not found in search path [%s]", e.Name, strings.Join(e.SearchPath, ", "))
}

// TemplateNotFoundError reports a templated file naming a template that the
// bundle does not contain.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found in bundle", e.Name)
}

// TemplateLoadError reports a template file that could not be read. A single
// unreadable template fails the whole bundle load.
type TemplateLoadError struct {
	Path Path
	Err  error
}

func (e *TemplateLoadError) Error() string {
	return fmt.Sprintf("loading template %s: %v", e.Path, e.Err)
}

func (e *TemplateLoadError) Unwrap() error { return e.Err }

// RenderError reports a template rendering failure, identifying the absolute
// destination path being rendered.
type RenderError struct {
	Dest Path
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Dest, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// TreeGrammarError reports a directive string that fails the fixed grammar.
// Node, when set, identifies the offending tree entry.
type TreeGrammarError struct {
	Node string
	Raw  string
}

func (e *TreeGrammarError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("malformed directive %q at tree node %q", e.Raw, e.Node)
	}

	return fmt.Sprintf("malformed directive %q", e.Raw)
}

// ContextPathError reports a dotted context path that cannot be resolved
// against a context mapping.
type ContextPathError struct {
	// Path is the full dotted path being resolved.
	Path string
	// Missing is the prefix up to and including the failing segment.
	Missing string
	// NotMapping is true when the segment exists but is not a mapping.
	NotMapping bool
}

func (e *ContextPathError) Error() string {
	if e.NotMapping {
		return fmt.Sprintf("context path %q: %q is not a mapping", e.Path, e.Missing)
	}

	return fmt.Sprintf("context path %q: missing key %q", e.Path, e.Missing)
}

// CodecError reports a failure in a file codec's formatted read or write,
// identifying the absolute path being processed.
type CodecError struct {
	Path Path
	Op   string
	Err  error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("codec %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// FieldError is one field-level schema violation.
type FieldError struct {
	// Field is the dotted path of the offending field; may be empty for
	// document-level errors.
	Field string
	// Message is the violation detail.
	Message string
}

// SchemaError reports that a bundle's schema rejected the merged context,
// with per-field detail rather than a bare boolean.
type SchemaError struct {
	Bundle string
	Fields []FieldError
}

func (e *SchemaError) Error() string {
	lines := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			lines = append(lines, f.Message)
			continue
		}

		lines = append(lines, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}

	return fmt.Sprintf("context rejected by %s schema:\n  %s", e.Bundle, strings.Join(lines, "\n  "))
}
