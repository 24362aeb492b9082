// Package adapter contains infrastructure adapters for the embryo engine:
// filesystem access, file codecs, the template engine, and the history
// store. Domain logic depends on the interfaces here, never on os directly.
package adapter

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	m "embryo.dev/pkg/embryo/internal/model"
)

// ProjectFS abstracts the filesystem operations the engine performs on
// bundle directories and build destinations. Backed by the OS in the CLI
// and by an in-memory filesystem in tests, which is what makes the renderer
// and incubator testable without touching disk.
type ProjectFS interface {
	// DirExists reports whether path exists and is a directory.
	DirExists(path m.Path) (bool, error)

	// FileExists reports whether path exists and is a regular file.
	FileExists(path m.Path) (bool, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path m.Path) error

	// Touch creates an empty file when none exists. An existing file is
	// left untouched, content included.
	Touch(path m.Path) error

	// ReadFile loads a file's contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content, replacing any previous content.
	WriteFile(path m.Path, data []byte) error

	// ReadDir lists the entries of a directory.
	ReadDir(path m.Path) ([]os.FileInfo, error)

	// Walk traverses the tree rooted at path in lexical order.
	Walk(path m.Path, fn filepath.WalkFunc) error
}

// AferoFS is the concrete ProjectFS over an afero filesystem.
type AferoFS struct {
	fs afero.Fs
}

// NewOsFS returns a ProjectFS backed by the real filesystem.
func NewOsFS() *AferoFS {
	return &AferoFS{fs: afero.NewOsFs()}
}

// NewMemFS returns a ProjectFS backed by an in-memory filesystem.
func NewMemFS() *AferoFS {
	return &AferoFS{fs: afero.NewMemMapFs()}
}

// NewAferoFS wraps an arbitrary afero filesystem.
func NewAferoFS(fs afero.Fs) *AferoFS {
	return &AferoFS{fs: fs}
}

// DirExists reports whether path is an existing directory.
func (a *AferoFS) DirExists(path m.Path) (bool, error) {
	return afero.DirExists(a.fs, string(path))
}

// FileExists reports whether path is an existing regular file.
func (a *AferoFS) FileExists(path m.Path) (bool, error) {
	info, err := a.fs.Stat(string(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	return !info.IsDir(), nil
}

// MkdirAll creates a directory and any missing parents.
func (a *AferoFS) MkdirAll(path m.Path) error {
	return a.fs.MkdirAll(string(path), 0o755)
}

// Touch creates an empty file if none exists; it never truncates.
func (a *AferoFS) Touch(path m.Path) error {
	exists, err := a.FileExists(path)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	f, err := a.fs.OpenFile(string(path), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	return f.Close()
}

// ReadFile loads a file's contents.
func (a *AferoFS) ReadFile(path m.Path) ([]byte, error) {
	return afero.ReadFile(a.fs, string(path))
}

// WriteFile writes content, replacing any previous content.
func (a *AferoFS) WriteFile(path m.Path, data []byte) error {
	return afero.WriteFile(a.fs, string(path), data, 0o644)
}

// ReadDir lists the entries of a directory.
func (a *AferoFS) ReadDir(path m.Path) ([]os.FileInfo, error) {
	return afero.ReadDir(a.fs, string(path))
}

// Walk traverses the tree rooted at path in lexical order.
func (a *AferoFS) Walk(path m.Path, fn filepath.WalkFunc) error {
	return afero.Walk(a.fs, string(path), fn)
}
