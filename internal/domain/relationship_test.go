package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embryo.dev/pkg/embryo/internal/adapter"
	m "embryo.dev/pkg/embryo/internal/model"
)

func loadedHistory(t *testing.T) adapter.HistoryStore {
	t.Helper()

	fs := adapter.NewMemFS()
	writer := adapter.NewLocalHistoryStore(fs)

	require.NoError(t, writer.Persist("/dest/services/api/.embryo", "service", m.Context{"port": "8080"}))
	require.NoError(t, writer.Persist("/dest/services/api/.embryo", "service", m.Context{"port": "9090"}))
	require.NoError(t, writer.Persist("/dest/.embryo", "workspace", m.Context{"name": "top"}))

	store := adapter.NewLocalHistoryStore(fs)
	require.NoError(t, store.Load("/dest"))

	return store
}

func TestRelationshipResolver_BindSingle(t *testing.T) {
	resolver := NewRelationshipResolver(loadedHistory(t))

	ctx := m.Context{}
	err := resolver.Bind(ctx, map[string]m.Relationship{
		"api": {Name: "service", Dir: "/services/api", Index: 1},
	})
	require.NoError(t, err)

	bound, ok := ctx["api"].(m.Context)
	require.True(t, ok)
	assert.Equal(t, "9090", bound["port"])
}

func TestRelationshipResolver_BindList(t *testing.T) {
	resolver := NewRelationshipResolver(loadedHistory(t))

	ctx := m.Context{}
	err := resolver.Bind(ctx, map[string]m.Relationship{
		"all_services": {Name: "service", Index: -1},
	})
	require.NoError(t, err)

	bound, ok := ctx["all_services"].([]any)
	require.True(t, ok)
	assert.Len(t, bound, 2)
}

func TestRelationshipResolver_OutOfRangeIndexBindsList(t *testing.T) {
	resolver := NewRelationshipResolver(loadedHistory(t))

	ctx := m.Context{}
	err := resolver.Bind(ctx, map[string]m.Relationship{
		"api": {Name: "service", Index: 7},
	})
	require.NoError(t, err)

	_, isList := ctx["api"].([]any)
	assert.True(t, isList)
}

func TestRelationshipResolver_NoMatchesBindsEmptyList(t *testing.T) {
	resolver := NewRelationshipResolver(loadedHistory(t))

	ctx := m.Context{}
	err := resolver.Bind(ctx, map[string]m.Relationship{
		"ghost": {Name: "never_hatched", Index: -1},
	})
	require.NoError(t, err)

	bound, ok := ctx["ghost"].([]any)
	require.True(t, ok)
	assert.Empty(t, bound)
}

func TestRelationshipResolver_ReservedSlotRejected(t *testing.T) {
	resolver := NewRelationshipResolver(loadedHistory(t))

	err := resolver.Bind(m.Context{}, map[string]m.Relationship{
		m.ReservedKey: {Name: "service"},
	})
	require.Error(t, err)
}
