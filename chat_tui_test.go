package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestChatModelInit(t *testing.T) {
	m := initialChatModel(nil)
	if m.Init() == nil {
		t.Error("Expected Init to return the blink command")
	}
	if !m.input.Focused() {
		t.Error("Expected input to start focused")
	}
}

func TestChatModelWindowSize(t *testing.T) {
	m := initialChatModel(nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	cm := updated.(chatModel)
	if !cm.viewportReady {
		t.Error("Expected viewport to be ready after window size message")
	}
	if cm.viewport.Width != 100 {
		t.Errorf("Expected viewport width 100, got %d", cm.viewport.Width)
	}
}

func TestChatModelView(t *testing.T) {
	m := initialChatModel(nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	cm := updated.(chatModel)

	view := cm.View()
	if !strings.Contains(view, "Cargo Query") {
		t.Error("Expected header in view")
	}
	if !strings.Contains(view, "Ctrl+Y") {
		t.Error("Expected help text in view")
	}
}

func TestChatModelEnterWithEmptyInput(t *testing.T) {
	m := initialChatModel(nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	cm := updated.(chatModel)
	if cm.waiting {
		t.Error("Expected no pending question for empty input")
	}
	if cmd != nil {
		t.Error("Expected no command for empty input")
	}
}
