package adapter

import (
	"fmt"

	"mvdan.cc/gofumpt/format"
)

// GoSourceCodec writes Go source through the canonical formatter, so
// generated code comes out the way gofmt would have written it. Comments
// survive formatting since gofumpt operates on the full syntax tree.
type GoSourceCodec struct {
	opts format.Options
}

// NewGoSourceCodec constructs a GoSourceCodec.
func NewGoSourceCodec() *GoSourceCodec {
	return &GoSourceCodec{opts: format.Options{}}
}

// Extensions lists the extensions served by GoSourceCodec.
func (c *GoSourceCodec) Extensions() []string {
	return []string{"go"}
}

// Decode returns the source as a string; Go files have no structured
// representation the engine edits in place.
func (c *GoSourceCodec) Decode(data []byte) (any, error) {
	return string(data), nil
}

// Encode formats a source string.
func (c *GoSourceCodec) Encode(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("go codec expects a source string, got %T", v)
	}

	return format.Source([]byte(s), c.opts)
}

// Format runs rendered source through gofumpt. Source that does not parse
// is an error: the template produced broken code.
func (c *GoSourceCodec) Format(text string) (string, error) {
	out, err := format.Source([]byte(text), c.opts)
	if err != nil {
		return "", err
	}

	return string(out), nil
}
