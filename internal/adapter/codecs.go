package adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// TextCodec treats file contents as opaque text. It also covers markup
// formats the engine has no structured representation for.
type TextCodec struct{}

// NewTextCodec constructs a TextCodec.
func NewTextCodec() *TextCodec {
	return &TextCodec{}
}

// Extensions lists the extensions served by TextCodec.
func (c *TextCodec) Extensions() []string {
	return []string{"txt", "md", "html", "htm", "css"}
}

// Decode returns the contents as a string.
func (c *TextCodec) Decode(data []byte) (any, error) {
	return string(data), nil
}

// Encode serializes a string value back to bytes.
func (c *TextCodec) Encode(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("text codec expects a string, got %T", v)
	}

	return []byte(s), nil
}

// Format returns rendered text unchanged.
func (c *TextCodec) Format(text string) (string, error) {
	return text, nil
}

// JSONCodec reads and writes JSON, pretty-printed with 2-space indent and
// sorted keys on the way out.
type JSONCodec struct {
	indent string
}

// NewJSONCodec constructs a JSONCodec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{indent: "  "}
}

// Extensions lists the extensions served by JSONCodec.
func (c *JSONCodec) Extensions() []string {
	return []string{"json"}
}

// Decode parses JSON contents.
func (c *JSONCodec) Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return v, nil
}

// Encode pretty-prints a value. Map keys come out sorted.
func (c *JSONCodec) Encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", c.indent)
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

// Format re-serializes rendered JSON canonically.
func (c *JSONCodec) Format(text string) (string, error) {
	v, err := c.Decode([]byte(text))
	if err != nil {
		return "", err
	}

	out, err := c.Encode(v)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// MultiDoc marks a YAML value decoded from a multi-document stream, so the
// encoder knows to emit separate documents again.
type MultiDoc []any

// YAMLCodec reads and writes YAML, single- or multi-document.
type YAMLCodec struct{}

// NewYAMLCodec constructs a YAMLCodec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Extensions lists the extensions served by YAMLCodec.
func (c *YAMLCodec) Extensions() []string {
	return []string{"yml", "yaml"}
}

// Decode parses YAML contents. A single document is returned directly;
// multiple documents come back as a MultiDoc.
func (c *YAMLCodec) Decode(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []any

	for {
		var doc any

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	switch len(docs) {
	case 0:
		return nil, nil
	case 1:
		return docs[0], nil
	default:
		return MultiDoc(docs), nil
	}
}

// Encode serializes a value, emitting document separators for a MultiDoc.
func (c *YAMLCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if docs, ok := v.(MultiDoc); ok {
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return nil, err
			}
		}
	} else if err := enc.Encode(v); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Format re-serializes rendered YAML canonically.
func (c *YAMLCodec) Format(text string) (string, error) {
	if len(bytes.TrimSpace([]byte(text))) == 0 {
		return text, nil
	}

	v, err := c.Decode([]byte(text))
	if err != nil {
		return "", err
	}

	out, err := c.Encode(v)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// INICodec reads and writes INI files as section -> key -> value mappings.
type INICodec struct{}

// NewINICodec constructs an INICodec.
func NewINICodec() *INICodec {
	return &INICodec{}
}

// Extensions lists the extensions served by INICodec.
func (c *INICodec) Extensions() []string {
	return []string{"ini", "cfg"}
}

// Decode parses INI contents into a nested string map. Keys outside any
// section land under the default section name.
func (c *INICodec) Decode(data []byte) (any, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]string)

	for _, sec := range f.Sections() {
		keys := sec.KeysHash()
		if len(keys) == 0 && sec.Name() == ini.DefaultSection {
			continue
		}

		out[sec.Name()] = keys
	}

	return out, nil
}

// Encode serializes a nested string map, sections and keys in sorted order.
func (c *INICodec) Encode(v any) ([]byte, error) {
	sections, err := toSectionMap(v)
	if err != nil {
		return nil, err
	}

	f := ini.Empty()

	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		sec, err := f.NewSection(name)
		if err != nil {
			return nil, err
		}

		keys := make([]string, 0, len(sections[name]))
		for k := range sections[name] {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			if _, err := sec.NewKey(k, sections[name][k]); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Format re-serializes rendered INI text canonically.
func (c *INICodec) Format(text string) (string, error) {
	v, err := c.Decode([]byte(text))
	if err != nil {
		return "", err
	}

	out, err := c.Encode(v)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

func toSectionMap(v any) (map[string]map[string]string, error) {
	switch val := v.(type) {
	case map[string]map[string]string:
		return val, nil
	case map[string]any:
		out := make(map[string]map[string]string, len(val))
		for name, raw := range val {
			keys, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("ini codec: section %q is not a mapping", name)
			}

			out[name] = make(map[string]string, len(keys))
			for k, kv := range keys {
				out[name][k] = fmt.Sprint(kv)
			}
		}

		return out, nil
	default:
		return nil, fmt.Errorf("ini codec expects a section mapping, got %T", v)
	}
}

// TOMLCodec reads and writes TOML documents.
type TOMLCodec struct{}

// NewTOMLCodec constructs a TOMLCodec.
func NewTOMLCodec() *TOMLCodec {
	return &TOMLCodec{}
}

// Extensions lists the extensions served by TOMLCodec.
func (c *TOMLCodec) Extensions() []string {
	return []string{"toml"}
}

// Decode parses TOML contents.
func (c *TOMLCodec) Decode(data []byte) (any, error) {
	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return v, nil
}

// Encode serializes a value to TOML.
func (c *TOMLCodec) Encode(v any) ([]byte, error) {
	return toml.Marshal(v)
}

// Format re-serializes rendered TOML canonically.
func (c *TOMLCodec) Format(text string) (string, error) {
	v, err := c.Decode([]byte(text))
	if err != nil {
		return "", err
	}

	out, err := c.Encode(v)
	if err != nil {
		return "", err
	}

	return string(out), nil
}
