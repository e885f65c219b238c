package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/packlens/apkg/writer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type policyChoice struct {
	policy writer.Policy
	name   string
	desc   string
}

var policyChoices = []policyChoice{
	{writer.Keep, "keep", "fail if the output directory already exists"},
	{writer.ClearThenWrite, "clear", "remove the output directory before writing"},
	{writer.OverwriteMerge, "overwrite", "merge into the existing directory"},
}

type promptModel struct {
	err      error
	output   textinput.Model
	selected int
	state    promptState
	done     bool
	aborted  bool
}

type promptState int

const (
	stateOutputPath promptState = iota
	stateSelectPolicy
)

func newPromptModel(defaultOutput string, defaultPolicy writer.Policy) *promptModel {
	ti := textinput.New()
	ti.Prompt = "output: "
	ti.SetValue(defaultOutput)
	ti.Width = 60
	ti.Focus()

	selected := 0
	for i, c := range policyChoices {
		if c.policy == defaultPolicy {
			selected = i
		}
	}
	return &promptModel{output: ti, selected: selected}
}

func (m *promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectPolicy && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down", "j":
			if m.state == stateSelectPolicy && m.selected < len(policyChoices)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateOutputPath:
				if strings.TrimSpace(m.output.Value()) == "" {
					m.err = fmt.Errorf("output path must not be empty")
					return m, nil
				}
				m.err = nil
				m.output.Blur()
				m.state = stateSelectPolicy
			case stateSelectPolicy:
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.state == stateOutputPath {
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *promptModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("apkg"))
	b.WriteString("\n\n")

	switch m.state {
	case stateOutputPath:
		b.WriteString("Where should the project tree be written?\n\n")
		b.WriteString(m.output.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(m.err.Error()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter confirm • esc cancel"))

	case stateSelectPolicy:
		b.WriteString("Output: ")
		b.WriteString(pathStyle.Render(m.output.Value()))
		b.WriteString("\n\nIf the directory already has files:\n\n")
		for i, c := range policyChoices {
			line := fmt.Sprintf("%-10s %s", c.name, c.desc)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter extract • esc cancel"))
	}

	return b.String()
}

func promptChoices(defaultOutput string, defaultPolicy writer.Policy) (string, writer.Policy, error) {
	m := newPromptModel(defaultOutput, defaultPolicy)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return "", 0, err
	}
	pm := final.(*promptModel)
	if pm.aborted || !pm.done {
		return "", 0, fmt.Errorf("cancelled")
	}
	return pm.output.Value(), policyChoices[pm.selected].policy, nil
}

func printBanner(input, output string, policy writer.Policy) {
	if !isTerminal() {
		return
	}
	fmt.Println(titleStyle.Render("apkg " + apkgVersion()))
	fmt.Printf("%s -> %s (policy: %s)\n", pathStyle.Render(input), pathStyle.Render(output), policy)
}
