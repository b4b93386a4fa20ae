package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// renderMarkdown renders markdown content with glamour for terminal display
func renderMarkdown(content string, width int) (string, error) {
	// Account for glamour's internal gutter
	const glamourGutter = 2

	renderWidth := width - glamourGutter
	if renderWidth < 40 {
		renderWidth = 40 // Minimum width for readable content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(renderWidth),
	)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return "", err
	}

	return rendered, nil
}

type chatMessage struct {
	question string
	answer   string
	outcome  string
}

type answerMsg struct {
	question string
	result   QueryResult
}

func askQuestion(service *QueryService, question string) tea.Cmd {
	return func() tea.Msg {
		result := service.Answer(context.Background(), question)
		return answerMsg{question: question, result: result}
	}
}

type chatModel struct {
	service       *QueryService
	input         textinput.Model
	viewport      viewport.Model
	history       []chatMessage
	width         int
	height        int
	waiting       bool
	viewportReady bool
}

func initialChatModel(service *QueryService) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about company finance or cargo operations..."
	ti.Focus()
	ti.CharLimit = 300
	ti.Width = 60

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	return chatModel{
		service:  service,
		input:    ti,
		viewport: vp,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve 5 lines: input box, status line, help text
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 5
		m.viewportReady = true
		m.updateChatViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.waiting = true
			m.input.SetValue("")
			return m, askQuestion(m.service, question)

		case tea.KeyCtrlY:
			if n := len(m.history); n > 0 {
				_ = clipboard.WriteAll(m.history[n-1].answer)
			}
			return m, nil

		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case answerMsg:
		m.waiting = false
		m.history = append(m.history, chatMessage{
			question: msg.question,
			answer:   msg.result.Text,
			outcome:  msg.result.Outcome,
		})
		m.updateChatViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatModel) updateChatViewport() {
	if !m.viewportReady {
		return
	}

	questionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("33"))

	outcomeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	var b strings.Builder
	for _, msg := range m.history {
		b.WriteString(questionStyle.Render("You: " + msg.question))
		b.WriteString("\n")

		rendered, err := renderMarkdown(msg.answer, m.width)
		if err != nil {
			rendered = msg.answer + "\n"
		}
		b.WriteString(rendered)

		if msg.outcome != OutcomeAnswered {
			b.WriteString(outcomeStyle.Render(fmt.Sprintf("(%s)", msg.outcome)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

func (m chatModel) View() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62"))

	b.WriteString(headerStyle.Render("⚓ Cargo Query"))
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")

	if m.waiting {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)
		b.WriteString(statusStyle.Render("⏳ Thinking..."))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render("Enter: Ask | ↑/↓/PgUp/PgDn: Scroll | Ctrl+Y: Copy last answer | Esc/Ctrl+C: Quit"))

	return b.String()
}

// launchChat starts the interactive chat TUI
func launchChat(dataDir string) {
	service, cleanup, err := buildQueryService(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	p := tea.NewProgram(
		initialChatModel(service),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
