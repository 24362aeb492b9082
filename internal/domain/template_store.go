package domain

import (
	"os"
	"path/filepath"
	"strings"

	"embryo.dev/pkg/embryo/internal/adapter"
	m "embryo.dev/pkg/embryo/internal/model"
)

// TemplateStore loads a bundle's raw template sources, keyed by relative
// path. The relative path itself is rendered against the context before
// use, so one static template file can map to a dynamically named output.
type TemplateStore struct {
	fs     adapter.ProjectFS
	engine adapter.TemplateEngine
}

// NewTemplateStore constructs a TemplateStore.
func NewTemplateStore(fs adapter.ProjectFS, engine adapter.TemplateEngine) *TemplateStore {
	return &TemplateStore{fs: fs, engine: engine}
}

// Load walks the bundle's template directory. A bundle without one yields
// an empty bundle; a read failure on any individual template fails the
// whole load.
func (s *TemplateStore) Load(desc m.EmbryoDescriptor, ctx m.Context) (m.TemplateBundle, error) {
	root := desc.TemplatesPath()

	exists, err := s.fs.DirExists(root)
	if err != nil {
		return nil, err
	}

	bundle := m.TemplateBundle{}
	if !exists {
		return bundle, nil
	}

	err = s.fs.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		// editor swap files are never templates
		if info.IsDir() || strings.HasSuffix(info.Name(), ".swp") {
			return nil
		}

		rel, err := filepath.Rel(string(root), path)
		if err != nil {
			return &m.TemplateLoadError{Path: m.Path(path), Err: err}
		}

		name, err := s.engine.Render(rel, rel, ctx)
		if err != nil {
			return &m.TemplateLoadError{Path: m.Path(path), Err: err}
		}

		data, err := s.fs.ReadFile(m.Path(path))
		if err != nil {
			return &m.TemplateLoadError{Path: m.Path(path), Err: err}
		}

		bundle[name] = string(data)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return bundle, nil
}
