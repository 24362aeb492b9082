package adapter

import (
	"path/filepath"
	"strings"
)

// FileCodec is a per-extension read/write/format adapter. Decode and Encode
// move between raw bytes and structured values for the file scanner; Format
// normalizes freshly rendered template output before it is written (pretty
// JSON, canonical YAML, gofumpt'ed Go source, and so on).
type FileCodec interface {
	// Extensions lists the extensions this codec serves, lowercase,
	// without the leading dot.
	Extensions() []string

	// Decode parses file contents into a structured value.
	Decode(data []byte) (any, error)

	// Encode serializes a structured value back to file contents.
	Encode(v any) ([]byte, error)

	// Format normalizes rendered text. Malformed input is an error, not a
	// pass-through: generated output that its own codec cannot parse means
	// the template is broken.
	Format(text string) (string, error)
}

// CodecRegistry maps file extensions to codecs. Matching is case-insensitive
// and an unmapped extension is not an error; such files are treated as
// opaque. The registry is read-only after construction and safe to share
// across invocations.
type CodecRegistry struct {
	byExt map[string]FileCodec
}

// NewCodecRegistry builds a registry from the given codecs. Later codecs win
// extension collisions.
func NewCodecRegistry(codecs ...FileCodec) *CodecRegistry {
	r := &CodecRegistry{byExt: make(map[string]FileCodec)}
	for _, c := range codecs {
		for _, ext := range c.Extensions() {
			r.byExt[strings.ToLower(ext)] = c
		}
	}

	return r
}

// DefaultCodecRegistry returns the built-in codec set: text, JSON, YAML,
// INI, TOML and Go source.
func DefaultCodecRegistry() *CodecRegistry {
	return NewCodecRegistry(
		NewTextCodec(),
		NewJSONCodec(),
		NewYAMLCodec(),
		NewINICodec(),
		NewTOMLCodec(),
		NewGoSourceCodec(),
	)
}

// Lookup returns the codec for a path's extension, if one is registered.
func (r *CodecRegistry) Lookup(path string) (FileCodec, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return nil, false
	}

	codec, ok := r.byExt[ext]

	return codec, ok
}
