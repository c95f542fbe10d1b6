package controller

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true)
	tuiIndexStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Width(4).Align(lipgloss.Right)
	tuiPathStyle   = lipgloss.NewStyle().PaddingLeft(1)
	tuiHelpStyle   = lipgloss.NewStyle().Faint(true)
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	tuiPromptStyle = lipgloss.NewStyle().PaddingTop(1)
)

// TUIPicker implements Picker with a Bubble Tea prompt. It is selected
// when the output stream is a terminal.
type TUIPicker struct {
	input  io.Reader
	output io.Writer
}

// NewTUIPicker creates a TUIPicker on the given streams.
func NewTUIPicker(input io.Reader, output io.Writer) *TUIPicker {
	return &TUIPicker{input: input, output: output}
}

// PickOriginal runs one interactive prompt for the group and blocks
// until the operator decides.
func (p *TUIPicker) PickOriginal(paths []string) (Pick, error) {
	program := tea.NewProgram(
		newPickerModel(paths),
		tea.WithInput(p.input),
		tea.WithOutput(p.output),
	)

	final, err := program.Run()
	if err != nil {
		return Pick{}, fmt.Errorf("run picker: %w", err)
	}

	picker, ok := final.(pickerModel)
	if !ok {
		return Pick{}, fmt.Errorf("unexpected picker model %T", final)
	}

	return picker.pick, nil
}

// pickerModel is the Bubble Tea model behind TUIPicker.
type pickerModel struct {
	paths  []string
	input  textinput.Model
	pick   Pick
	errMsg string
	done   bool
}

func newPickerModel(paths []string) pickerModel {
	input := textinput.New()
	input.Placeholder = "file number, s to skip, e to exit"
	input.CharLimit = 8
	input.Focus()

	return pickerModel{
		paths: paths,
		input: input,
		pick:  Pick{Outcome: PickSkip},
	}
}

func (pm pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (pm pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		pm.input, cmd = pm.input.Update(msg)

		return pm, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		pm.pick = Pick{Outcome: PickQuit}
		pm.done = true

		return pm, tea.Quit
	case tea.KeyEnter:
		return pm.submit()
	default:
	}

	var cmd tea.Cmd
	pm.input, cmd = pm.input.Update(msg)

	return pm, cmd
}

func (pm pickerModel) submit() (tea.Model, tea.Cmd) {
	choice := strings.ToLower(strings.TrimSpace(pm.input.Value()))

	switch choice {
	case "e":
		pm.pick = Pick{Outcome: PickQuit}
	case "s":
		pm.pick = Pick{Outcome: PickSkip}
	default:
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(pm.paths) {
			pm.errMsg = fmt.Sprintf("invalid choice %q", choice)
			pm.input.SetValue("")

			return pm, nil
		}

		pm.pick = Pick{Outcome: PickKeep, KeepIndex: n - 1}
	}

	pm.done = true

	return pm, tea.Quit
}

func (pm pickerModel) View() string {
	if pm.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(tuiTitleStyle.Render(fmt.Sprintf("Duplicate group (%d files)", len(pm.paths))))
	b.WriteString("\n")

	for i, path := range pm.paths {
		b.WriteString(tuiIndexStyle.Render(strconv.Itoa(i + 1)))
		b.WriteString(tuiPathStyle.Render(path))
		b.WriteString("\n")
	}

	if pm.errMsg != "" {
		b.WriteString(tuiErrorStyle.Render(pm.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(tuiPromptStyle.Render(pm.input.View()))
	b.WriteString("\n")
	b.WriteString(tuiHelpStyle.Render("enter to confirm · esc to exit"))
	b.WriteString("\n")

	return b.String()
}
