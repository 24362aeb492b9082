package adapter

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	m "embryo.dev/pkg/embryo/internal/model"
)

// HistoryStore manages the hidden per-directory metadata files recording
// every embryo invocation's final context under a destination tree.
type HistoryStore interface {
	// Load walks root and indexes every record found in metadata files.
	// Unreadable or corrupt metadata degrades to an empty record with a
	// warning; history is advisory, not load-bearing.
	Load(root m.Path) error

	// Find returns records filtered by embryo name, by directory path
	// (relative to the loaded root, "/"-prefixed), or by both. With neither
	// supplied it returns nothing.
	Find(name, dir string) []m.RecordedContext

	// All returns every loaded record.
	All() []m.RecordedContext

	// Persist appends ctx, cleaned of destination-specific fields, under
	// name in the metadata file inside dotDir, creating the directory and
	// file as needed. Read-modify-write without locking: one writer per
	// destination at a time is assumed.
	Persist(dotDir m.Path, name string, ctx m.Context) error
}

// LocalHistoryStore is the concrete HistoryStore over a ProjectFS.
type LocalHistoryStore struct {
	fs ProjectFS

	byName    map[string][]m.RecordedContext
	byDir     map[string][]m.RecordedContext
	byNameDir map[string][]m.RecordedContext
}

// NewLocalHistoryStore constructs an empty LocalHistoryStore.
func NewLocalHistoryStore(fs ProjectFS) *LocalHistoryStore {
	return &LocalHistoryStore{
		fs:        fs,
		byName:    make(map[string][]m.RecordedContext),
		byDir:     make(map[string][]m.RecordedContext),
		byNameDir: make(map[string][]m.RecordedContext),
	}
}

// Load walks root and indexes every recorded context three ways: by embryo
// name, by relative directory path, and by the pair.
func (s *LocalHistoryStore) Load(root m.Path) error {
	rootStr := strings.TrimSuffix(string(root), "/")

	exists, err := s.fs.DirExists(root)
	if err != nil || !exists {
		return err
	}

	return s.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() || info.Name() == m.MetadataDirName {
			return nil
		}

		metaPath := filepath.Join(path, m.MetadataDirName, m.MetadataFileName)

		records, err := s.readMetadata(m.Path(metaPath))
		if err != nil {
			slog.Warn("skipping unreadable history metadata", "path", metaPath, "error", err)
			return nil
		}

		dirKey := "/" + strings.TrimPrefix(strings.TrimPrefix(path, rootStr), "/")
		if path == rootStr {
			dirKey = "/"
		}

		for name, contexts := range records {
			for _, ctx := range contexts {
				rec := m.RecordedContext{Embryo: name, Dir: dirKey, Context: ctx}
				s.byName[name] = append(s.byName[name], rec)
				s.byDir[dirKey] = append(s.byDir[dirKey], rec)
				s.byNameDir[name+"\x00"+dirKey] = append(s.byNameDir[name+"\x00"+dirKey], rec)
			}
		}

		return nil
	})
}

// Find returns matches for whichever of name and dir are supplied.
func (s *LocalHistoryStore) Find(name, dir string) []m.RecordedContext {
	switch {
	case name != "" && dir != "":
		return s.byNameDir[name+"\x00"+dir]
	case name != "":
		return s.byName[name]
	case dir != "":
		return s.byDir[dir]
	default:
		return nil
	}
}

// All returns every loaded record, grouped by directory in walk order.
func (s *LocalHistoryStore) All() []m.RecordedContext {
	dirs := make([]string, 0, len(s.byDir))
	for dir := range s.byDir {
		dirs = append(dirs, dir)
	}

	sort.Strings(dirs)

	all := make([]m.RecordedContext, 0, len(dirs))
	for _, dir := range dirs {
		all = append(all, s.byDir[dir]...)
	}

	return all
}

// Persist appends the cleaned context under name and rewrites the metadata
// file as pretty JSON with sorted keys.
func (s *LocalHistoryStore) Persist(dotDir m.Path, name string, ctx m.Context) error {
	if err := s.fs.MkdirAll(dotDir); err != nil {
		return err
	}

	metaPath := m.Path(filepath.Join(string(dotDir), m.MetadataFileName))

	records, err := s.readMetadata(metaPath)
	if err != nil {
		slog.Warn("history metadata unreadable, starting a fresh record", "path", metaPath, "error", err)
		records = map[string][]m.Context{}
	}

	records[name] = append(records[name], CleanContext(ctx))

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	slog.Debug("appending history record", "path", metaPath, "embryo", name)

	return s.fs.WriteFile(metaPath, append(data, '\n'))
}

// readMetadata loads one metadata file. A missing file is an empty record;
// a present but corrupt file is an error the callers degrade on.
func (s *LocalHistoryStore) readMetadata(path m.Path) (map[string][]m.Context, error) {
	exists, err := s.fs.FileExists(path)
	if err != nil {
		return nil, err
	}

	if !exists {
		return map[string][]m.Context{}, nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	records := map[string][]m.Context{}
	if len(data) == 0 {
		return records, nil
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// CleanContext strips destination-specific metadata fields so the record
// stays portable across checkouts. The embryo name, action and timestamp
// survive; the absolute source and destination paths do not.
func CleanContext(ctx m.Context) m.Context {
	cleaned := ctx.Clone()

	meta, ok := cleaned[m.ReservedKey].(m.Context)
	if !ok {
		if raw, isMap := cleaned[m.ReservedKey].(map[string]any); isMap {
			meta = m.Context(raw)
		} else {
			return cleaned
		}
	}

	delete(meta, "destination")
	delete(meta, "path")
	cleaned[m.ReservedKey] = meta

	return cleaned
}
