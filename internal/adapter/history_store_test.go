package adapter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "embryo.dev/pkg/embryo/internal/model"
)

func stampedContext(name string, extra m.Context) m.Context {
	ctx := m.Context{
		m.ReservedKey: m.Context{
			"name":        name,
			"path":        "/bundles/" + name,
			"destination": "/dest",
			"timestamp":   "2026-08-29T10:00:00Z",
			"action":      m.ActionHatch,
		},
	}
	ctx.Merge(extra)

	return ctx
}

func TestLocalHistoryStore_PersistAppends(t *testing.T) {
	fs := NewMemFS()
	store := NewLocalHistoryStore(fs)

	ctx := stampedContext("go_cli", m.Context{"app": "one"})
	require.NoError(t, store.Persist("/dest/.embryo", "go_cli", ctx))
	require.NoError(t, store.Persist("/dest/.embryo", "go_cli", stampedContext("go_cli", m.Context{"app": "two"})))

	data, err := fs.ReadFile("/dest/.embryo/context.json")
	require.NoError(t, err)

	var records map[string][]m.Context
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records["go_cli"], 2)

	assert.Equal(t, "one", records["go_cli"][0]["app"])
	assert.Equal(t, "two", records["go_cli"][1]["app"])
}

func TestLocalHistoryStore_PersistCleansDestinationFields(t *testing.T) {
	fs := NewMemFS()
	store := NewLocalHistoryStore(fs)

	require.NoError(t, store.Persist("/dest/.embryo", "go_cli", stampedContext("go_cli", nil)))

	data, err := fs.ReadFile("/dest/.embryo/context.json")
	require.NoError(t, err)

	var records map[string][]m.Context
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records["go_cli"], 1)

	meta := m.Context(records["go_cli"][0]).Metadata()
	assert.Equal(t, "go_cli", meta["name"])
	assert.Equal(t, m.ActionHatch, meta["action"])
	assert.NotContains(t, meta, "destination")
	assert.NotContains(t, meta, "path")
}

func TestLocalHistoryStore_LoadAndFind(t *testing.T) {
	fs := NewMemFS()

	writer := NewLocalHistoryStore(fs)
	require.NoError(t, writer.Persist("/dest/.embryo", "workspace", stampedContext("workspace", nil)))
	require.NoError(t, writer.Persist("/dest/services/api/.embryo", "go_cli", stampedContext("go_cli", m.Context{"port": "8080"})))
	require.NoError(t, writer.Persist("/dest/services/api/.embryo", "go_cli", stampedContext("go_cli", m.Context{"port": "9090"})))

	store := NewLocalHistoryStore(fs)
	require.NoError(t, store.Load("/dest"))

	byName := store.Find("go_cli", "")
	require.Len(t, byName, 2)
	assert.Equal(t, "/services/api", byName[0].Dir)

	byDir := store.Find("", "/services/api")
	require.Len(t, byDir, 2)

	both := store.Find("go_cli", "/services/api")
	require.Len(t, both, 2)
	assert.Equal(t, "8080", both[0].Context["port"])
	assert.Equal(t, "9090", both[1].Context["port"])

	assert.Empty(t, store.Find("", ""))
	assert.Empty(t, store.Find("missing", ""))

	all := store.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "/", all[0].Dir)
}

func TestLocalHistoryStore_LoadSkipsCorruptMetadata(t *testing.T) {
	fs := NewMemFS()
	require.NoError(t, fs.MkdirAll("/dest/.embryo"))
	require.NoError(t, fs.WriteFile("/dest/.embryo/context.json", []byte("{not json")))

	store := NewLocalHistoryStore(fs)
	require.NoError(t, store.Load("/dest"))
	assert.Empty(t, store.All())
}

func TestLocalHistoryStore_LoadMissingRootIsEmpty(t *testing.T) {
	store := NewLocalHistoryStore(NewMemFS())

	require.NoError(t, store.Load("/nowhere"))
	assert.Empty(t, store.All())
}

func TestCleanContext_PreservesUserData(t *testing.T) {
	ctx := stampedContext("go_cli", m.Context{"app": m.Context{"name": "x"}})

	cleaned := CleanContext(ctx)

	assert.Equal(t, "x", cleaned["app"].(m.Context)["name"])
	assert.NotContains(t, cleaned.Metadata(), "destination")

	// the original context is untouched
	assert.Contains(t, ctx.Metadata(), "destination")
}
