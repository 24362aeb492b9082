// Package domain implements the embryo engine: path resolution, context
// building, tree parsing, template loading, rendering, history, and the
// incubator that orchestrates one hatch.
package domain

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"embryo.dev/pkg/embryo/internal/adapter"
	m "embryo.dev/pkg/embryo/internal/model"
	"embryo.dev/pkg/embryo/pkg/textcase"
)

// PathResolver locates an embryo bundle directory by name across an ordered
// search path. First match wins; there is no ambiguity resolution.
type PathResolver struct {
	fs         adapter.ProjectFS
	searchPath []string
}

// NewPathResolver constructs a resolver over the given search path, in
// priority order.
func NewPathResolver(fs adapter.ProjectFS, searchPath []string) *PathResolver {
	return &PathResolver{fs: fs, searchPath: searchPath}
}

// SearchPathFromEnv builds the default search path: the working directory
// first, then every entry of the EMBRYO_PATH environment variable, then any
// extra directories (the built-in bundles).
func SearchPathFromEnv(extra ...string) []string {
	searchPath := make([]string, 0, 4)

	if cwd, err := os.Getwd(); err == nil {
		searchPath = append(searchPath, cwd)
	}

	if raw := os.Getenv(m.SearchPathEnvVar); raw != "" {
		for _, dir := range strings.Split(raw, ":") {
			if dir != "" {
				searchPath = append(searchPath, dir)
			}
		}
	}

	return append(searchPath, extra...)
}

// Resolve returns the descriptor for the bundle with the given name. An
// absolute path passes through unchanged when it exists. Otherwise each
// search directory is tried in order, first with the literal name, then
// with the name case-folded to the snake_case form the filesystem
// convention expects, and finally by scanning for any directory whose
// folded name matches and which carries a tree spec.
func (r *PathResolver) Resolve(name string) (m.EmbryoDescriptor, error) {
	name = strings.TrimSuffix(name, "/")

	if filepath.IsAbs(name) {
		exists, err := r.fs.DirExists(m.Path(name))
		if err != nil {
			return m.EmbryoDescriptor{}, err
		}

		if exists {
			return m.EmbryoDescriptor{Name: filepath.Base(name), Path: m.Path(name)}, nil
		}

		return m.EmbryoDescriptor{}, &m.EmbryoNotFoundError{Name: name, SearchPath: r.searchPath}
	}

	candidates := []string{name}
	if folded := textcase.Snake(name); folded != name {
		candidates = append(candidates, folded)
	}

	for _, candidate := range candidates {
		for _, dir := range r.searchPath {
			path := filepath.Join(dir, candidate)

			exists, err := r.fs.DirExists(m.Path(path))
			if err != nil {
				return m.EmbryoDescriptor{}, err
			}

			if exists {
				return m.EmbryoDescriptor{Name: name, Path: m.Path(path)}, nil
			}
		}
	}

	if desc, ok := r.scan(name); ok {
		return desc, nil
	}

	return m.EmbryoDescriptor{}, &m.EmbryoNotFoundError{Name: name, SearchPath: r.searchPath}
}

// List enumerates every bundle reachable from the search path: each
// directory one level below a search directory that carries a tree spec.
// Earlier search directories shadow later ones on name collisions.
func (r *PathResolver) List() []m.EmbryoDescriptor {
	seen := make(map[string]struct{})
	found := make([]m.EmbryoDescriptor, 0, 8)

	for _, dir := range r.searchPath {
		entries, err := r.fs.ReadDir(m.Path(dir))
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			if _, dup := seen[entry.Name()]; dup {
				continue
			}

			path := filepath.Join(dir, entry.Name())

			hasTree, err := r.fs.FileExists(m.Path(filepath.Join(path, m.TreeFileName)))
			if err != nil || !hasTree {
				continue
			}

			seen[entry.Name()] = struct{}{}
			found = append(found, m.EmbryoDescriptor{Name: entry.Name(), Path: m.Path(path)})
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })

	return found
}

// scan is the last resort: look one level below every search directory for
// a bundle directory whose folded name matches.
func (r *PathResolver) scan(name string) (m.EmbryoDescriptor, bool) {
	folded := textcase.Snake(name)

	for _, dir := range r.searchPath {
		entries, err := r.fs.ReadDir(m.Path(dir))
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() || textcase.Snake(entry.Name()) != folded {
				continue
			}

			path := filepath.Join(dir, entry.Name())

			hasTree, err := r.fs.FileExists(m.Path(filepath.Join(path, m.TreeFileName)))
			if err != nil || !hasTree {
				continue
			}

			return m.EmbryoDescriptor{Name: name, Path: m.Path(path)}, true
		}
	}

	return m.EmbryoDescriptor{}, false
}
