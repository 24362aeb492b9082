package domain

import (
	m "embryo.dev/pkg/embryo/internal/model"
)

// BuildResult is the outcome of one embryo build: the resolved bundle, the
// destination, the final context, and the scanned destination files. The
// incubator returns the parent result first, nested results after it in
// depth-first order.
type BuildResult struct {
	Descriptor  m.EmbryoDescriptor
	Destination m.Path
	Context     m.Context
	Files       *FileSet
	Nested      []m.NestedEmbryoRef
}

// Hooks is the lifecycle contract an embryo may register. Absence of hooks
// is not an error; hook errors are fatal and propagate uncaught. Hooks run
// synchronously and cannot be cancelled once started.
//
// PreCreate receives the merged context by value and returns the context
// the build proceeds with, so mutations are explicit. The engine re-stamps
// the reserved metadata block and re-validates the schema on whatever comes
// back.
type Hooks interface {
	// Relationships declares bindings to prior builds' recorded contexts,
	// resolved against the history store before PreCreate fires. The map
	// key names the context slot the resolved records land under.
	Relationships() map[string]m.Relationship

	// PreCreate may inject computed defaults before anything is parsed or
	// rendered.
	PreCreate(ctx m.Context) (m.Context, error)

	// PostCreate runs after the build, its persistence, and every nested
	// build have completed. Mutations made through result.Files are
	// written back when it returns.
	PostCreate(result *BuildResult, ctx m.Context) error
}

// BaseHooks is a no-op Hooks implementation to embed.
type BaseHooks struct{}

// Relationships declares no bindings.
func (BaseHooks) Relationships() map[string]m.Relationship { return nil }

// PreCreate returns the context unchanged.
func (BaseHooks) PreCreate(ctx m.Context) (m.Context, error) { return ctx, nil }

// PostCreate does nothing.
func (BaseHooks) PostCreate(*BuildResult, m.Context) error { return nil }

// HookRegistry maps embryo names to their registered lifecycle hooks. This
// is the explicit registration contract replacing any notion of loading
// hook code from the bundle directory at run time.
type HookRegistry struct {
	byName map[string]Hooks
}

// NewHookRegistry constructs an empty registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{byName: make(map[string]Hooks)}
}

// Register installs hooks for an embryo name, replacing any previous
// registration.
func (r *HookRegistry) Register(name string, hooks Hooks) {
	r.byName[name] = hooks
}

// Lookup returns the hooks registered under name.
func (r *HookRegistry) Lookup(name string) (Hooks, bool) {
	hooks, ok := r.byName[name]
	return hooks, ok
}
