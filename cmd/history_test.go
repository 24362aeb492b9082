package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "embryo.dev/pkg/embryo/internal/model"
)

func recorded(embryo, dir, timestamp string, ctx m.Context) m.RecordedContext {
	full := m.Context{
		m.ReservedKey: m.Context{"name": embryo, "timestamp": timestamp, "action": m.ActionHatch},
	}
	full.Merge(ctx)

	return m.RecordedContext{Embryo: embryo, Dir: dir, Context: full}
}

func TestReplayCommands_OrderedByTimestamp(t *testing.T) {
	records := []m.RecordedContext{
		recorded("second", "/", "2026-08-29T11:00:00Z", m.Context{"name": "b"}),
		recorded("first", "/", "2026-08-29T10:00:00Z", m.Context{"name": "a"}),
	}

	commands := replayCommands(records)
	require.Len(t, commands, 2)
	assert.Equal(t, "embryo hatch first --set name=a", commands[0])
	assert.Equal(t, "embryo hatch second --set name=b", commands[1])
}

func TestReplayCommands_CollapsesDuplicates(t *testing.T) {
	records := []m.RecordedContext{
		recorded("app", "/", "2026-08-29T10:00:00Z", m.Context{"name": "x"}),
		recorded("app", "/", "2026-08-29T11:00:00Z", m.Context{"name": "x"}),
	}

	commands := replayCommands(records)
	assert.Len(t, commands, 1)
}

func TestReplayCommand_IncludesDirAndSortedKeys(t *testing.T) {
	rec := recorded("svc", "/services/api", "2026-08-29T10:00:00Z", m.Context{
		"zeta":  "1",
		"alpha": "2",
	})

	command := replayCommand(rec)
	assert.Equal(t, "embryo hatch svc ./services/api --set alpha=2 --set zeta=1", command)
}

func TestReplayCommand_SkipsReservedKey(t *testing.T) {
	rec := recorded("svc", "/", "2026-08-29T10:00:00Z", m.Context{"k": "v"})

	command := replayCommand(rec)
	assert.Equal(t, "embryo hatch svc --set k=v", command)
	assert.NotContains(t, command, "timestamp")
}

func TestRecordTimestamp(t *testing.T) {
	rec := recorded("svc", "/", "2026-08-29T10:00:00Z", nil)
	assert.Equal(t, "2026-08-29T10:00:00Z", recordTimestamp(rec))
}
