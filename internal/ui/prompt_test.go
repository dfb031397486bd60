package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestEnterModel(t *testing.T) {
	tests := []struct {
		name        string
		key         tea.KeyMsg
		wantDone    bool
		wantAborted bool
		wantQuit    bool
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, true, false, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, false, true, true},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, false, true, true},
		{"other key", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := enterModel{prompt: "Press <Enter>"}
			next, cmd := m.Update(tt.key)
			em := next.(enterModel)

			assert.Equal(t, tt.wantDone, em.done)
			assert.Equal(t, tt.wantAborted, em.aborted)
			assert.Equal(t, tt.wantQuit, cmd != nil)
		})
	}
}

func TestEnterModel_View(t *testing.T) {
	DisableColors()
	m := enterModel{prompt: "Press <Enter> to re-edit"}
	assert.Equal(t, "Press <Enter> to re-edit", m.View())

	m.done = true
	assert.Empty(t, m.View())
}
