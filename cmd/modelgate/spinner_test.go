package main

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/modelgate/pkg/gatedir"
	"github.com/germanamz/modelgate/pkg/providers/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoveryModel_Done(t *testing.T) {
	m := newDiscoveryModel("Discovering...", func() gatedir.Snapshot { return nil }, func() {})
	assert.Contains(t, m.View(), "Discovering...")

	snap := gatedir.Snapshot{"Ollama": {{Name: "llama3"}}}
	next, cmd := m.Update(discoveryDoneMsg{snapshot: snap})
	require.NotNil(t, cmd)

	dm, ok := next.(discoveryModel)
	require.True(t, ok)
	assert.True(t, dm.done)
	assert.Equal(t, []model.Descriptor{{Name: "llama3"}}, dm.result["Ollama"])
	assert.Empty(t, dm.View())
}

func TestDiscoveryModel_CtrlCCancels(t *testing.T) {
	canceled := false
	m := newDiscoveryModel("x", func() gatedir.Snapshot { return nil }, func() { canceled = true })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	assert.True(t, canceled)
	assert.True(t, next.(discoveryModel).canceled)
}

func TestSpinnerResult(t *testing.T) {
	snap := gatedir.Snapshot{"Ollama": {}}

	got, err := spinnerResult(discoveryModel{done: true, result: snap}, tea.ErrProgramKilled)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	_, err = spinnerResult(discoveryModel{canceled: true}, tea.ErrProgramKilled)
	assert.ErrorIs(t, err, context.Canceled)

	boom := errors.New("boom")
	_, err = spinnerResult(discoveryModel{}, boom)
	assert.ErrorIs(t, err, boom)
}

func TestWithSpinner_ExpiredContextKeepsResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap := gatedir.Snapshot{"Ollama": {}}
	got, err := withSpinner(ctx, cancel, "x", func() gatedir.Snapshot { return snap })
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}
