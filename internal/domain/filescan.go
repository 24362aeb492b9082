package domain

import (
	"path/filepath"
	"sort"
	"strings"

	"embryo.dev/pkg/embryo/internal/adapter"
	m "embryo.dev/pkg/embryo/internal/model"
)

// FileEntry is one destination file loaded through its codec so hooks can
// inspect or replace its structured value.
type FileEntry struct {
	Path  m.Path
	Value any

	codec adapter.FileCodec
	dirty bool
}

// FileSet holds the destination files the scanner could decode, keyed by
// their tree-relative path. Hooks mutate entries through Put; Flush writes
// the dirty ones back through their codecs after the post-create hook.
type FileSet struct {
	fs      adapter.ProjectFS
	root    m.Path
	entries map[string]*FileEntry
}

// Get returns the decoded value of a tree-relative path, when loaded.
func (s *FileSet) Get(rel string) (any, bool) {
	entry, ok := s.entries[cleanRel(rel)]
	if !ok {
		return nil, false
	}

	return entry.Value, true
}

// Put replaces the value of a loaded entry and marks it for write-back.
// Unknown paths are ignored; the scanner decides what is writable.
func (s *FileSet) Put(rel string, v any) bool {
	entry, ok := s.entries[cleanRel(rel)]
	if !ok {
		return false
	}

	entry.Value = v
	entry.dirty = true

	return true
}

// Paths lists the loaded tree-relative paths, sorted.
func (s *FileSet) Paths() []string {
	paths := make([]string, 0, len(s.entries))
	for rel := range s.entries {
		paths = append(paths, rel)
	}

	sort.Strings(paths)

	return paths
}

// Flush writes every mutated entry back through its codec.
func (s *FileSet) Flush() error {
	for _, rel := range s.Paths() {
		entry := s.entries[rel]
		if !entry.dirty {
			continue
		}

		data, err := entry.codec.Encode(entry.Value)
		if err != nil {
			return &m.CodecError{Path: entry.Path, Op: "write", Err: err}
		}

		if err := s.fs.WriteFile(entry.Path, data); err != nil {
			return err
		}

		entry.dirty = false
	}

	return nil
}

func cleanRel(rel string) string {
	return strings.TrimPrefix(filepath.Clean(rel), "/")
}

// FileScanner opportunistically loads already-materialized files in the
// destination tree so hooks can work with project state mid-build. Files
// without a registered codec are skipped as opaque.
type FileScanner struct {
	fs     adapter.ProjectFS
	codecs *adapter.CodecRegistry
}

// NewFileScanner constructs a FileScanner.
func NewFileScanner(fs adapter.ProjectFS, codecs *adapter.CodecRegistry) *FileScanner {
	return &FileScanner{fs: fs, codecs: codecs}
}

// Scan loads every tree file under root that exists and has a codec. A file
// its own codec cannot parse is a fatal codec error.
func (s *FileScanner) Scan(root m.Path, files []m.Path) (*FileSet, error) {
	set := &FileSet{fs: s.fs, root: root, entries: make(map[string]*FileEntry)}

	for _, file := range files {
		abs := m.Path(filepath.Join(string(root), string(file)))

		codec, ok := s.codecs.Lookup(string(abs))
		if !ok {
			continue
		}

		exists, err := s.fs.FileExists(abs)
		if err != nil {
			return nil, err
		}

		if !exists {
			continue
		}

		data, err := s.fs.ReadFile(abs)
		if err != nil {
			return nil, err
		}

		value, err := codec.Decode(data)
		if err != nil {
			return nil, &m.CodecError{Path: abs, Op: "read", Err: err}
		}

		set.entries[cleanRel(string(file))] = &FileEntry{Path: abs, Value: value, codec: codec}
	}

	return set, nil
}
