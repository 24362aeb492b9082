package adapter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRegistry_Lookup(t *testing.T) {
	registry := DefaultCodecRegistry()

	tests := []struct {
		path  string
		found bool
	}{
		{path: "config.json", found: true},
		{path: "deep/dir/values.YAML", found: true},
		{path: "setup.cfg", found: true},
		{path: "pyproject.toml", found: true},
		{path: "main.go", found: true},
		{path: "README.md", found: true},
		{path: "binary.bin", found: false},
		{path: "no-extension", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, found := registry.Lookup(tt.path)
			assert.Equal(t, tt.found, found)
		})
	}
}

func TestJSONCodec_FormatSortsAndIndents(t *testing.T) {
	codec := NewJSONCodec()

	formatted, err := codec.Format(`{"b":1,"a":{"z":true,"y":false}}`)
	require.NoError(t, err)

	want := `{
  "a": {
    "y": false,
    "z": true
  },
  "b": 1
}
`
	assert.Equal(t, want, formatted)
}

func TestJSONCodec_DecodeEmpty(t *testing.T) {
	codec := NewJSONCodec()

	v, err := codec.Decode([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, v)
}

func TestYAMLCodec_FormatNormalizes(t *testing.T) {
	codec := NewYAMLCodec()

	formatted, err := codec.Format("b:    1\na:\n    nested:   x\n")
	require.NoError(t, err)
	assert.Equal(t, "a:\n  nested: x\nb: 1\n", formatted)
}

func TestYAMLCodec_MultiDocumentRoundTrip(t *testing.T) {
	codec := NewYAMLCodec()

	v, err := codec.Decode([]byte("a: 1\n---\nb: 2\n"))
	require.NoError(t, err)

	docs, ok := v.(MultiDoc)
	require.True(t, ok)
	require.Len(t, docs, 2)

	out, err := codec.Encode(docs)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n---\nb: 2\n", string(out))
}

func TestYAMLCodec_FormatEmptyPassthrough(t *testing.T) {
	codec := NewYAMLCodec()

	formatted, err := codec.Format("")
	require.NoError(t, err)
	assert.Equal(t, "", formatted)
}

func TestINICodec_FormatSortsSectionsAndKeys(t *testing.T) {
	codec := NewINICodec()

	formatted, err := codec.Format("[zeta]\nb = 2\na = 1\n[alpha]\nk = v\n")
	require.NoError(t, err)

	require.Contains(t, formatted, "[alpha]")
	require.Contains(t, formatted, "[zeta]")

	assert.Less(t, strings.Index(formatted, "[alpha]"), strings.Index(formatted, "[zeta]"))
	assert.Less(t, strings.Index(formatted, "a = 1"), strings.Index(formatted, "b = 2"))
}

func TestINICodec_EncodeRejectsNonMapping(t *testing.T) {
	codec := NewINICodec()

	_, err := codec.Encode("not a mapping")
	require.Error(t, err)
}

func TestTOMLCodec_RoundTrip(t *testing.T) {
	codec := NewTOMLCodec()

	v, err := codec.Decode([]byte("[project]\nname = \"my-tool\"\nversion = \"0.1.0\"\n"))
	require.NoError(t, err)

	out, err := codec.Encode(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[project]")
	assert.Contains(t, string(out), "my-tool")
}

func TestTextCodec_Passthrough(t *testing.T) {
	codec := NewTextCodec()

	formatted, err := codec.Format("# Heading\n\nbody\n")
	require.NoError(t, err)
	assert.Equal(t, "# Heading\n\nbody\n", formatted)

	v, err := codec.Decode([]byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, "plain", v)

	_, err = codec.Encode(42)
	require.Error(t, err)
}
