package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/bot"
	"docchat/internal/extractor"
)

// ChatPort is the TUI-facing subset of the orchestrator.
type ChatPort interface {
	Reply(ctx context.Context, userID, text string, att *bot.Attachment) string
}

// Model is the Bubble Tea model for the terminal chat client.
type Model struct {
	port     ChatPort
	userID   string
	input    textinput.Model
	viewport viewport.Model
	lines    []string
	pending  *bot.Attachment
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(port ChatPort, userID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /attach <file> to upload a document"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		port:     port,
		userID:   userID,
		input:    ti,
		viewport: vp,
		lines:    []string{botStyle.Render("BookWorm: ") + bot.WelcomeText},
		status:   "Ready.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := chatBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input frame + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.SetValue("")
			if strings.HasPrefix(line, "/attach ") {
				m.stageAttachment(strings.TrimSpace(strings.TrimPrefix(line, "/attach ")))
				return m, nil
			}
			m.send(line)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stageAttachment(path string) {
	format, err := extractor.FormatFromFilename(path)
	if err != nil {
		m.status = "Unsupported file type: " + path
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		m.status = "Cannot read " + path
		return
	}
	m.pending = &bot.Attachment{
		Name:   info.Name(),
		Format: string(format),
		Size:   info.Size(),
		URL:    path,
	}
	m.status = fmt.Sprintf("Attached %s; it will be uploaded with your next question.", info.Name())
}

func (m *Model) send(question string) {
	att := m.pending
	m.pending = nil
	label := question
	if att != nil {
		label += fmt.Sprintf("  [%s]", att.Name)
	}
	m.lines = append(m.lines, userStyle.Render("You: ")+label)
	m.status = "Thinking..."
	reply := m.port.Reply(context.Background(), m.userID, question, att)
	m.lines = append(m.lines, botStyle.Render("BookWorm: ")+reply)
	m.status = "Ready."
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("BookWorm")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
