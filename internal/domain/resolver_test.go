package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embryo.dev/pkg/embryo/internal/adapter"
	m "embryo.dev/pkg/embryo/internal/model"
)

func bundleFS(t *testing.T, dirs ...string) adapter.ProjectFS {
	t.Helper()

	fs := adapter.NewMemFS()
	for _, dir := range dirs {
		require.NoError(t, fs.MkdirAll(m.Path(dir)))
		require.NoError(t, fs.WriteFile(m.Path(dir+"/"+m.TreeFileName), []byte("- README.md\n")))
	}

	return fs
}

func TestPathResolver_LiteralName(t *testing.T) {
	fs := bundleFS(t, "/bundles/go_cli")
	resolver := NewPathResolver(fs, []string{"/bundles"})

	desc, err := resolver.Resolve("go_cli")
	require.NoError(t, err)
	assert.Equal(t, "go_cli", desc.Name)
	assert.Equal(t, m.Path("/bundles/go_cli"), desc.Path)
}

func TestPathResolver_FoldedName(t *testing.T) {
	fs := bundleFS(t, "/bundles/go_cli")
	resolver := NewPathResolver(fs, []string{"/bundles"})

	desc, err := resolver.Resolve("GoCli")
	require.NoError(t, err)
	assert.Equal(t, m.Path("/bundles/go_cli"), desc.Path)
}

func TestPathResolver_ScanFallback(t *testing.T) {
	// the directory name folds to the requested name but is not a literal
	// or folded candidate itself
	fs := bundleFS(t, "/bundles/My-Service")
	resolver := NewPathResolver(fs, []string{"/bundles"})

	desc, err := resolver.Resolve("my_service")
	require.NoError(t, err)
	assert.Equal(t, m.Path("/bundles/My-Service"), desc.Path)
}

func TestPathResolver_AbsolutePathPassthrough(t *testing.T) {
	fs := bundleFS(t, "/elsewhere/thing")
	resolver := NewPathResolver(fs, []string{"/bundles"})

	desc, err := resolver.Resolve("/elsewhere/thing")
	require.NoError(t, err)
	assert.Equal(t, "thing", desc.Name)
	assert.Equal(t, m.Path("/elsewhere/thing"), desc.Path)
}

func TestPathResolver_SearchOrder(t *testing.T) {
	fs := bundleFS(t, "/first/app", "/second/app")
	resolver := NewPathResolver(fs, []string{"/first", "/second"})

	desc, err := resolver.Resolve("app")
	require.NoError(t, err)
	assert.Equal(t, m.Path("/first/app"), desc.Path)
}

func TestPathResolver_NotFound(t *testing.T) {
	fs := bundleFS(t, "/bundles/go_cli")
	resolver := NewPathResolver(fs, []string{"/bundles"})

	_, err := resolver.Resolve("missing")
	require.Error(t, err)

	var notFound *m.EmbryoNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)
}

func TestPathResolver_List(t *testing.T) {
	fs := bundleFS(t, "/first/zeta", "/first/alpha", "/second/alpha", "/second/beta")

	// a directory without a tree spec is not a bundle
	require.NoError(t, fs.MkdirAll("/first/not_a_bundle"))

	resolver := NewPathResolver(fs, []string{"/first", "/second"})

	found := resolver.List()
	require.Len(t, found, 3)
	assert.Equal(t, "alpha", found[0].Name)
	assert.Equal(t, m.Path("/first/alpha"), found[0].Path)
	assert.Equal(t, "beta", found[1].Name)
	assert.Equal(t, "zeta", found[2].Name)
}
