package controller

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "embryo.dev/pkg/embryo/internal/model"
)

var (
	promptLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true)
	promptHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ErrPromptAborted is returned when the user cancels the prompt sequence.
var ErrPromptAborted = fmt.Errorf("prompt aborted")

// RunPrompts walks the prompt list and collects one value per entry,
// falling back to each prompt's default on empty input.
func RunPrompts(prompts []m.Prompt, in io.Reader, out io.Writer) (map[string]string, error) {
	if len(prompts) == 0 {
		return map[string]string{}, nil
	}

	input := textinput.New()
	input.Placeholder = prompts[0].Default
	input.Focus()

	initial := promptModel{
		prompts: prompts,
		input:   input,
		values:  make(map[string]string, len(prompts)),
	}

	program := tea.NewProgram(initial, tea.WithInput(in), tea.WithOutput(out))

	final, err := program.Run()
	if err != nil {
		return nil, err
	}

	result, ok := final.(promptModel)
	if !ok || result.aborted {
		return nil, ErrPromptAborted
	}

	return result.values, nil
}

// promptModel steps one text input through the prompt sequence.
type promptModel struct {
	prompts []m.Prompt
	input   textinput.Model
	idx     int
	values  map[string]string
	aborted bool
}

func (p promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (p promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			p.aborted = true
			return p, tea.Quit

		case tea.KeyEnter:
			value := p.input.Value()
			if value == "" {
				value = p.prompts[p.idx].Default
			}

			p.values[p.prompts[p.idx].Name] = value
			p.idx++

			if p.idx >= len(p.prompts) {
				return p, tea.Quit
			}

			p.input.Reset()
			p.input.Placeholder = p.prompts[p.idx].Default

			return p, nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)

	return p, cmd
}

func (p promptModel) View() string {
	if p.idx >= len(p.prompts) {
		return ""
	}

	prompt := p.prompts[p.idx]

	label := prompt.Label
	if label == "" {
		label = prompt.Name
	}

	view := promptLabelStyle.Render(label) + "\n" + p.input.View() + "\n"
	view += promptHintStyle.Render(fmt.Sprintf("(%d of %d, enter accepts, esc aborts)", p.idx+1, len(p.prompts)))

	return view + "\n"
}
