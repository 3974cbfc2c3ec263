package main

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/modelgate/pkg/gatedir"
)

// discoveryDoneMsg carries the result of a background discovery.
type discoveryDoneMsg struct {
	snapshot gatedir.Snapshot
}

// discoveryModel shows a spinner on stderr while discovery runs.
type discoveryModel struct {
	spinner  spinner.Model
	label    string
	run      func() gatedir.Snapshot
	cancel   context.CancelFunc
	result   gatedir.Snapshot
	done     bool
	canceled bool
}

func newDiscoveryModel(label string, run func() gatedir.Snapshot, cancel context.CancelFunc) discoveryModel {
	return discoveryModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(spinnerStyle)),
		label:   label,
		run:     run,
		cancel:  cancel,
	}
}

func (m discoveryModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return discoveryDoneMsg{snapshot: m.run()}
	})
}

func (m discoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case discoveryDoneMsg:
		m.result = msg.snapshot
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.canceled = true
			m.cancel()
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m discoveryModel) View() string {
	if m.done || m.canceled {
		return ""
	}
	return m.spinner.View() + " " + dimStyle.Render(m.label)
}

// withSpinner runs discover, showing a spinner when stderr is a terminal.
// The program is bound to parent, not to the discovery deadline, so a
// timeout yields whatever discover returns. Cancelling from the keyboard
// calls cancel.
func withSpinner(parent context.Context, cancel context.CancelFunc, label string, discover func() gatedir.Snapshot) (gatedir.Snapshot, error) {
	if !isTerminal(os.Stderr) {
		return discover(), nil
	}

	p := tea.NewProgram(
		newDiscoveryModel(label, discover, cancel),
		tea.WithOutput(os.Stderr),
		tea.WithContext(parent),
	)

	return spinnerResult(p.Run())
}

// spinnerResult interprets the final state of a discovery program. A finished
// discovery wins over a program error.
func spinnerResult(final tea.Model, err error) (gatedir.Snapshot, error) {
	m, _ := final.(discoveryModel)
	switch {
	case m.done:
		return m.result, nil
	case m.canceled:
		return nil, context.Canceled
	case err != nil:
		return nil, err
	}
	return nil, context.Canceled
}
