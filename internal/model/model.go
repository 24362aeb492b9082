// Package model defines the data structures for embryo generation.
package model

import "fmt"

// Path represents a file system path.
type Path string

// Well-known file names inside an embryo bundle directory. A bundle is any
// directory carrying at least a tree file; everything else is optional.
const (
	// TreeFileName is the templated YAML tree spec.
	TreeFileName = "tree.yml"
	// TemplatesDirName holds the template files, arbitrarily nested.
	TemplatesDirName = "templates"
	// ContextFileName is the static seed context (YAML). ContextFileNameAlt
	// and ContextFileNameJSON are accepted spellings checked in that order.
	ContextFileName     = "context.yml"
	ContextFileNameAlt  = "context.yaml"
	ContextFileNameJSON = "context.json"
	// SchemaFileName is an optional CUE schema the merged context must satisfy.
	SchemaFileName = "schema.cue"
	// PromptsFileName lists context values that may be collected interactively.
	PromptsFileName = "prompts.yml"
)

// Metadata directory conventions at a build destination.
const (
	// MetadataDirName is the hidden per-directory metadata location.
	MetadataDirName = ".embryo"
	// MetadataFileName is the history record inside a metadata directory.
	MetadataFileName = "context.json"
)

// SearchPathEnvVar names additional bundle directories, colon-separated,
// searched after the current working directory.
const SearchPathEnvVar = "EMBRYO_PATH"

// ReservedKey is the context key holding invocation metadata. It is set by
// the engine after every merge and can never be shadowed by user data. The
// same word doubles as the tree key introducing a nested-embryo directive;
// a literal file named "embryo" therefore cannot be expressed in a tree.
const ReservedKey = "embryo"

// Metadata is the invocation metadata stored under ReservedKey.
type Metadata struct {
	Name        string
	Path        Path
	Destination Path
	Timestamp   string
	Action      string
}

// ToContext returns the metadata as the mapping templates and history
// records see.
func (md Metadata) ToContext() Context {
	return Context{
		"name":        md.Name,
		"path":        string(md.Path),
		"destination": string(md.Destination),
		"timestamp":   md.Timestamp,
		"action":      md.Action,
	}
}

// EmbryoDescriptor identifies a resolved template bundle. Immutable once
// created by the path resolver.
type EmbryoDescriptor struct {
	// Name is the bundle name as requested by the caller.
	Name string
	// Path is the absolute bundle directory.
	Path Path
}

// TreePath returns the absolute path of the bundle's tree spec.
func (d EmbryoDescriptor) TreePath() Path {
	return d.join(TreeFileName)
}

// TemplatesPath returns the absolute path of the bundle's template directory.
func (d EmbryoDescriptor) TemplatesPath() Path {
	return d.join(TemplatesDirName)
}

// SchemaPath returns the absolute path of the bundle's optional CUE schema.
func (d EmbryoDescriptor) SchemaPath() Path {
	return d.join(SchemaFileName)
}

// PromptsPath returns the absolute path of the bundle's optional prompt list.
func (d EmbryoDescriptor) PromptsPath() Path {
	return d.join(PromptsFileName)
}

func (d EmbryoDescriptor) join(name string) Path {
	return Path(fmt.Sprintf("%s/%s", d.Path, name))
}

// TemplateBundle maps a logical template name to raw template source. The
// names are the template files' relative paths, themselves rendered against
// the context, so one static file can map to a dynamically named output.
type TemplateBundle map[string]string

// NestedEmbryoRef is a nested-embryo directive collected during a build,
// to be hatched by the incubator after the parent's own files are rendered
// and persisted.
type NestedEmbryoRef struct {
	// Name is the child embryo to hatch.
	Name string
	// ContextPath scopes the child context to a dotted sub-path of the
	// parent context; empty means the full parent context.
	ContextPath string
	// Dir is the tree directory the directive appeared under, relative to
	// the parent destination.
	Dir Path
}

// RecordedContext is one persisted history entry: the cleaned context of a
// prior embryo invocation found under some metadata directory.
type RecordedContext struct {
	// Embryo is the recorded embryo name.
	Embryo string
	// Dir is the directory path the record was found under, relative to the
	// history root, always starting with "/".
	Dir string
	// Context is the cleaned context as persisted.
	Context Context
}

// Relationship declares a binding to a prior build's recorded context,
// resolved against the history store before the pre-create hook fires.
type Relationship struct {
	// Name filters records by embryo name; optional.
	Name string
	// Dir filters records by metadata directory path; optional.
	Dir string
	// Index selects one record from the matches. Negative means all
	// matches, bound as a list.
	Index int
}

// Prompt describes one interactively collectable context value.
type Prompt struct {
	Name    string `yaml:"name"`
	Label   string `yaml:"label"`
	Default string `yaml:"default"`
}

// Action values recorded in invocation metadata.
const (
	ActionHatch = "hatch"
)
