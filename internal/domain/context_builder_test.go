package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embryo.dev/pkg/embryo/internal/adapter"
	m "embryo.dev/pkg/embryo/internal/model"
)

func TestContextBuilder_Precedence(t *testing.T) {
	fs := adapter.NewMemFS()
	require.NoError(t, fs.MkdirAll("/bundles/app"))
	require.NoError(t, fs.WriteFile("/bundles/app/context.yml", []byte("name: static\nfrom_static: yes\n")))
	require.NoError(t, fs.WriteFile("/extra.yml", []byte("name: external\nfrom_file: yes\n")))

	builder := NewContextBuilder(fs)
	desc := m.EmbryoDescriptor{Name: "app", Path: "/bundles/app"}

	merged, err := builder.Build(desc, m.Context{"name": "override"}, "/extra.yml")
	require.NoError(t, err)

	assert.Equal(t, "override", merged["name"])
	assert.Equal(t, "yes", merged["from_static"])
	assert.Equal(t, "yes", merged["from_file"])
}

func TestContextBuilder_StaticFileOrder(t *testing.T) {
	fs := adapter.NewMemFS()
	require.NoError(t, fs.MkdirAll("/bundles/app"))
	require.NoError(t, fs.WriteFile("/bundles/app/context.yml", []byte("source: yml\n")))
	require.NoError(t, fs.WriteFile("/bundles/app/context.json", []byte(`{"source": "json"}`)))

	builder := NewContextBuilder(fs)

	merged, err := builder.Build(m.EmbryoDescriptor{Name: "app", Path: "/bundles/app"}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "yml", merged["source"])
}

func TestContextBuilder_JSONStaticContext(t *testing.T) {
	fs := adapter.NewMemFS()
	require.NoError(t, fs.MkdirAll("/bundles/app"))
	require.NoError(t, fs.WriteFile("/bundles/app/context.json", []byte(`{"name": "from-json"}`)))

	builder := NewContextBuilder(fs)

	merged, err := builder.Build(m.EmbryoDescriptor{Name: "app", Path: "/bundles/app"}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "from-json", merged["name"])
}

func TestContextBuilder_NoSourcesYieldsEmpty(t *testing.T) {
	fs := adapter.NewMemFS()
	require.NoError(t, fs.MkdirAll("/bundles/bare"))

	builder := NewContextBuilder(fs)

	merged, err := builder.Build(m.EmbryoDescriptor{Name: "bare", Path: "/bundles/bare"}, nil, "")
	require.NoError(t, err)
	assert.Empty(t, merged)
}

func TestContextBuilder_MissingContextFileFails(t *testing.T) {
	fs := adapter.NewMemFS()
	require.NoError(t, fs.MkdirAll("/bundles/app"))

	builder := NewContextBuilder(fs)

	_, err := builder.Build(m.EmbryoDescriptor{Name: "app", Path: "/bundles/app"}, nil, "/missing.yml")
	require.Error(t, err)
}

func TestContextBuilder_OverridesAreCloned(t *testing.T) {
	fs := adapter.NewMemFS()
	require.NoError(t, fs.MkdirAll("/bundles/app"))

	overrides := m.Context{"db": m.Context{"host": "localhost"}}

	builder := NewContextBuilder(fs)

	merged, err := builder.Build(m.EmbryoDescriptor{Name: "app", Path: "/bundles/app"}, overrides, "")
	require.NoError(t, err)

	merged["db"].(m.Context)["host"] = "changed"
	assert.Equal(t, "localhost", overrides["db"].(m.Context)["host"])
}

func TestStampMetadata_OverwritesReservedKey(t *testing.T) {
	ctx := m.Context{m.ReservedKey: "user junk"}

	StampMetadata(ctx, m.Metadata{
		Name:        "go_cli",
		Path:        "/bundles/go_cli",
		Destination: "/dest",
		Timestamp:   "2026-08-29T10:00:00Z",
		Action:      m.ActionHatch,
	})

	meta := ctx.Metadata()
	assert.Equal(t, "go_cli", meta["name"])
	assert.Equal(t, "/dest", meta["destination"])
	assert.Equal(t, m.ActionHatch, meta["action"])
}
