package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"embryo.dev/pkg/embryo/internal/adapter"
	m "embryo.dev/pkg/embryo/internal/model"
)

var historyCommandsFlag bool

// historyCmd represents the history command.
var historyCmd = newHistoryCmd()

const historyLongDescription = `Show every recorded embryo invocation under a destination tree (default:
current directory), read from the hidden metadata files.

With --commands, print a replay script instead: one hatch command per
distinct invocation, ordered by timestamp.`

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [destination]",
		Short: "Show recorded embryo invocations",
		Long:  historyLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := m.Path(".")
			if len(args) > 0 {
				root = m.Path(args[0])
			}

			store := adapter.NewLocalHistoryStore(fs)
			if err := store.Load(root); err != nil {
				return err
			}

			records := store.All()
			if len(records) == 0 {
				ui.Warn("no embryo history under %s", root)
				return nil
			}

			if historyCommandsFlag {
				for _, command := range replayCommands(records) {
					cmd.Println(command)
				}

				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{rec.Dir, rec.Embryo, recordTimestamp(rec)})
			}

			ui.Table([]string{"Directory", "Embryo", "Hatched"}, rows)

			return nil
		},
	}

	cmd.Flags().BoolVar(&historyCommandsFlag, commandsFlagName, false, "print replay commands instead of a table")

	return cmd
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func recordTimestamp(rec m.RecordedContext) string {
	value, ok := rec.Context.Metadata()["timestamp"]
	if !ok {
		return ""
	}

	return fmt.Sprintf("%v", value)
}

// replayCommands reconstructs one hatch command per record, ordered by
// timestamp, with repeated identical invocations collapsed.
func replayCommands(records []m.RecordedContext) []string {
	type replay struct {
		timestamp string
		command   string
	}

	replays := make([]replay, 0, len(records))
	seen := make(map[string]struct{})

	for _, rec := range records {
		command := replayCommand(rec)
		if _, dup := seen[command]; dup {
			continue
		}

		seen[command] = struct{}{}
		replays = append(replays, replay{timestamp: recordTimestamp(rec), command: command})
	}

	sort.SliceStable(replays, func(i, j int) bool { return replays[i].timestamp < replays[j].timestamp })

	commands := make([]string, 0, len(replays))
	for _, r := range replays {
		commands = append(commands, r.command)
	}

	return commands
}

func replayCommand(rec m.RecordedContext) string {
	var b strings.Builder

	b.WriteString("embryo hatch ")
	b.WriteString(rec.Embryo)

	if rec.Dir != "" && rec.Dir != "/" {
		b.WriteString(" ")
		b.WriteString("." + rec.Dir)
	}

	keys := make([]string, 0, len(rec.Context))

	for key := range rec.Context {
		if key == m.ReservedKey {
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(&b, " --%s %s=%v", setFlagName, key, rec.Context[key])
	}

	return b.String()
}
