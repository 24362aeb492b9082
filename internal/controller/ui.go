// Package controller provides the output and input surfaces of the embryo
// CLI: styled console messages, tabular listings, and the interactive
// context prompt.
package controller

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// UI is the engine's view of the console. Implementations decide styling;
// the engine only reports progress and problems through it.
type UI interface {
	// Say prints a progress message.
	Say(format string, args ...any)

	// Warn prints a problem that did not stop the build.
	Warn(format string, args ...any)

	// Table prints rows under headers.
	Table(headers []string, rows [][]string)
}

// ConsoleUI implements UI over a cobra command's output streams.
type ConsoleUI struct {
	cmd    *cobra.Command
	prefix string
	warn   string
}

// NewConsoleUI creates a ConsoleUI. Styling is applied only when attached to
// a terminal.
func NewConsoleUI(cmd *cobra.Command, tty bool) *ConsoleUI {
	prefix := ">>>"
	warn := "!!!"

	if tty {
		prefix = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true).Render(prefix)
		warn = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true).Render(warn)
	}

	return &ConsoleUI{cmd: cmd, prefix: prefix, warn: warn}
}

// Say prints a progress message.
func (u *ConsoleUI) Say(format string, args ...any) {
	u.cmd.Printf(u.prefix+" "+format+"\n", args...)
}

// Warn prints a problem to the error stream.
func (u *ConsoleUI) Warn(format string, args ...any) {
	u.cmd.PrintErrf(u.warn+" "+format+"\n", args...)
}

// Table prints rows under headers.
func (u *ConsoleUI) Table(headers []string, rows [][]string) {
	table := tablewriter.NewWriter(u.cmd.OutOrStdout())
	table.SetHeader(headers)
	table.AppendBulk(rows)
	table.Render()
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
