package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"omnitutor/internal/llm"
)

// QAPort is the TUI-facing subset of the course session.
type QAPort interface {
	Answer(ctx context.Context, question string, onFragment llm.FragmentFunc) (string, error)
}

type turn struct {
	question string
	answer   string
}

// fragmentMsg carries one streamed answer fragment.
type fragmentMsg string

// doneMsg signals the end of a streamed answer.
type doneMsg struct {
	err error
}

// Model is the Bubble Tea model for the QA chat.
type Model struct {
	assistant QAPort
	input     textinput.Model
	viewport  viewport.Model
	turns     []turn
	events    chan tea.Msg
	streaming bool
	status    string
	ready     bool
}

// New creates a new chat model over the QA assistant.
func New(assistant QAPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the course material"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		assistant: assistant,
		input:     ti,
		viewport:  vp,
		status:    "Course ready. Ask away.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and stream events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, qh := inputBoxStyle.GetFrameSize()
		_, ch := chatBoxStyle.GetFrameSize()
		reserved := 2 + qh + ch // header, status and frames
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTurns())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.streaming {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.input.SetValue("")
				m.turns = append(m.turns, turn{question: q})
				m.streaming = true
				m.status = "Thinking..."
				m.events = make(chan tea.Msg, 16)
				m.viewport.SetContent(m.renderTurns())
				m.viewport.GotoBottom()
				return m, tea.Batch(m.ask(q), m.nextEvent())
			}
		}
	case fragmentMsg:
		if len(m.turns) > 0 {
			m.turns[len(m.turns)-1].answer += string(msg)
			m.viewport.SetContent(m.renderTurns())
			m.viewport.GotoBottom()
		}
		return m, m.nextEvent()
	case doneMsg:
		m.streaming = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Answered. Ask another question."
		}
		m.viewport.SetContent(m.renderTurns())
		m.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs one QA turn in the background, feeding fragments into the
// event channel as the producer emits them.
func (m Model) ask(question string) tea.Cmd {
	events := m.events
	assistant := m.assistant
	return func() tea.Msg {
		go func() {
			_, err := assistant.Answer(context.Background(), question, func(fragment string) error {
				events <- fragmentMsg(fragment)
				return nil
			})
			events <- doneMsg{err: err}
			close(events)
		}()
		return nil
	}
}

// nextEvent waits for the next stream event.
func (m Model) nextEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("OmniTutor Assistant")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) renderTurns() string {
	if len(m.turns) == 0 {
		return "Hello, how can I help you today?"
	}
	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + t.question))
		b.WriteString("\n")
		if t.answer == "" {
			b.WriteString(answerStyle.Render("..."))
		} else {
			b.WriteString(t.answer)
		}
	}
	return b.String()
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
