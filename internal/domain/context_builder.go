package domain

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"embryo.dev/pkg/embryo/internal/adapter"
	m "embryo.dev/pkg/embryo/internal/model"
)

// ContextBuilder merges the context sources of one invocation in increasing
// precedence: the bundle's static context file, an externally referenced
// context file, and direct caller overrides. The reserved metadata block is
// stamped separately, always last, so user data can never shadow it.
type ContextBuilder struct {
	fs adapter.ProjectFS
}

// NewContextBuilder constructs a ContextBuilder.
func NewContextBuilder(fs adapter.ProjectFS) *ContextBuilder {
	return &ContextBuilder{fs: fs}
}

// Build returns the merged context. contextFile is optional; when set it
// must exist and parse.
func (b *ContextBuilder) Build(desc m.EmbryoDescriptor, overrides m.Context, contextFile m.Path) (m.Context, error) {
	merged := m.Context{}

	static, err := b.loadStatic(desc)
	if err != nil {
		return nil, err
	}

	merged.Merge(static)

	if contextFile != "" {
		external, err := b.loadFile(contextFile)
		if err != nil {
			return nil, fmt.Errorf("loading context file %s: %w", contextFile, err)
		}

		merged.Merge(external)
	}

	merged.Merge(overrides.Clone())

	return merged, nil
}

// loadStatic loads the first static context file the bundle declares, in
// the order context.yml, context.yaml, context.json. YAML is a superset of
// JSON here, so one decoder serves all three.
func (b *ContextBuilder) loadStatic(desc m.EmbryoDescriptor) (m.Context, error) {
	for _, name := range []string{m.ContextFileName, m.ContextFileNameAlt, m.ContextFileNameJSON} {
		path := m.Path(filepath.Join(string(desc.Path), name))

		exists, err := b.fs.FileExists(path)
		if err != nil {
			return nil, err
		}

		if exists {
			return b.loadFile(path)
		}
	}

	return m.Context{}, nil
}

func (b *ContextBuilder) loadFile(path m.Path) (m.Context, error) {
	data, err := b.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := m.Context{}
	if err := yaml.Unmarshal(data, &ctx); err != nil {
		return nil, err
	}

	return ctx, nil
}

// StampMetadata installs the invocation metadata under the reserved key,
// overwriting whatever a merge or hook may have put there.
func StampMetadata(ctx m.Context, md m.Metadata) {
	ctx[m.ReservedKey] = md.ToContext()
}
