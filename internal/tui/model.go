package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/diogo/chatview/internal/chat"
	"github.com/diogo/chatview/internal/logging"
	"github.com/diogo/chatview/internal/models"
	"github.com/diogo/chatview/internal/render"
	"github.com/diogo/chatview/internal/transcript"
)

// Animation tick message
type animationTickMsg time.Time

// replyMsg carries the outcome of the outstanding request back to Update.
type replyMsg struct {
	text string
	err  error
}

// ChatOptions configures the chat screen.
type ChatOptions struct {
	Endpoint   string
	TimeFormat string
	Render     render.Options
	Logger     *slog.Logger

	// Clipboard replaces the system clipboard for /copy
	Clipboard func(string) error
}

// Model is the bubbletea model of the chat screen. Conversation state lives
// in the embedded chat.View; Model only renders it and feeds it input.
type Model struct {
	view       *chat.View
	sender     chat.Sender
	endpoint   string
	timeFormat string
	renderOpts render.Options
	logger     *slog.Logger
	clipboard  func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready          bool
	animationFrame int
	feedback       string
	feedbackIsErr  bool

	// rendered agent replies, keyed by conversation index
	replyCache map[int]string
	cacheWidth int

	width  int
	height int
}

// NewChatModel creates the chat screen for sender.
func NewChatModel(sender chat.Sender, opts ChatOptions) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Endpoint == "" {
		opts.Endpoint = models.DefaultEndpoint
	}
	if opts.Render.Width == 0 {
		opts.Render = render.DefaultOptions()
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	// Enter sends; a newline needs Alt+Enter.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		view:       chat.New(chat.WithLogger(opts.Logger)),
		sender:     sender,
		endpoint:   opts.Endpoint,
		timeFormat: opts.TimeFormat,
		renderOpts: opts.Render,
		logger:     opts.Logger,
		clipboard:  opts.Clipboard,
		textarea:   ta,
		spinner:    s,
		replyCache: map[int]string{},
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// scrollKeys limits viewport scrolling to keys the textarea does not use
// for typing.
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 2
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.viewport.KeyMap = scrollKeys()
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			// A pending request is not cancelled; quitting drops it.
			return m, tea.Quit

		case "enter":
			if m.view.Pending() {
				return m, nil
			}
			return m.submit()
		}

	case replyMsg:
		if _, ok := m.view.Settle(msg.text, msg.err); ok {
			m.updateViewport()
			m.viewport.GotoBottom()
			cmds = append(cmds, m.textarea.Focus())
		}

	case spinner.TickMsg:
		if m.view.Pending() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.view.Pending() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only keystrokes reach the textarea, and none while a request is pending.
	if !m.view.Pending() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit handles Enter while idle.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if isCommand(input) {
		return m.runCommand(input)
	}

	m.view.SetDraft(m.textarea.Value())
	payload, ok := m.view.Submit()
	if !ok {
		return m, nil
	}

	m.logger.Info("message submitted", "length", len(payload))
	m.textarea.Reset()
	m.textarea.Blur()
	m.feedback = ""
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.sendMessage(payload),
		m.spinner.Tick,
		animationTick(),
	)
}

// sendMessage issues the request for payload off the UI goroutine.
func (m Model) sendMessage(payload string) tea.Cmd {
	sender := m.sender
	return func() tea.Msg {
		if sender == nil {
			return replyMsg{err: fmt.Errorf("no chat endpoint configured")}
		}
		reply, err := sender.Send(context.Background(), payload)
		return replyMsg{text: reply, err: err}
	}
}

// slashCommands are handled locally. Any other input, including text that
// starts with "/", is sent as a message.
var slashCommands = map[string]bool{
	"/exit":   true,
	"/quit":   true,
	"/copy":   true,
	"/export": true,
	"/help":   true,
}

func isCommand(input string) bool {
	name, _, _ := strings.Cut(input, " ")
	return slashCommands[name]
}

// runCommand executes a slash command. Commands never reach the endpoint
// and never enter the conversation.
func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	m.logger.Info("slash command", "command", name)
	m.textarea.Reset()

	switch name {
	case "/exit", "/quit":
		return m, tea.Quit

	case "/copy":
		last, ok := m.view.LastFrom(models.SenderAgent)
		if !ok {
			m.setFeedback("Nothing to copy yet", true)
			break
		}
		if err := m.clipboard(last.Text); err != nil {
			m.logger.Warn("clipboard write failed", "error", err)
			m.setFeedback(fmt.Sprintf("Copy failed: %v", err), true)
			break
		}
		m.setFeedback("Copied last reply to clipboard", false)

	case "/export":
		if arg == "" {
			m.setFeedback("Usage: /export <path>", true)
			break
		}
		opts := transcript.DefaultOptions()
		opts.Endpoint = m.endpoint
		if m.timeFormat != "" {
			opts.TimeFormat = m.timeFormat
		}
		if err := transcript.WriteFile(arg, m.view.Messages(), opts); err != nil {
			m.logger.Warn("export failed", "path", arg, "error", err)
			m.setFeedback(fmt.Sprintf("Export failed: %v", err), true)
			break
		}
		m.setFeedback(fmt.Sprintf("Transcript saved to %s", arg), false)

	case "/help":
		m.setFeedback("Commands: /copy  /export <path>  /exit", false)
	}

	return m, nil
}

func (m *Model) setFeedback(text string, isErr bool) {
	m.feedback = text
	m.feedbackIsErr = isErr
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	title := titleStyle.Render("✦ ChatView")
	sep := hintStyle.Render("  •  ")
	room := contentWidth - 6 - lipgloss.Width(title) - lipgloss.Width(sep)
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		title,
		sep,
		subtitleStyle.Render(truncateEndpoint(m.endpoint, room)),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	var messagesContent string
	if m.view.IsEmpty() {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.view.Pending() {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.feedback != "" {
		if m.feedbackIsErr {
			sections = append(sections, errorStyle.Render("✗ "+m.feedback))
		} else {
			sections = append(sections, feedbackStyle.Render("✓ "+m.feedback))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// truncateEndpoint shortens s to fit width terminal cells.
func truncateEndpoint(s string, width int) string {
	if width < 8 {
		width = 8
	}
	return runewidth.Truncate(s, width, "…")
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Welcome to ChatView"),
		"",
		welcomeStyle.Width(width).Render("Start a conversation by typing a message below"),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderLoadingAnimation() string {
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}
	frame := m.animationFrame

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Waiting for the agent ")
	return fmt.Sprintf("%s %s %s %s", m.spinner.View(), bar.String(), text, dots.String())
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
		{"/help", "Commands"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth != m.cacheWidth {
		m.replyCache = map[int]string{}
		m.cacheWidth = bubbleWidth
	}

	var content strings.Builder
	for i, msg := range m.view.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		stamp := ""
		if ts := msg.TimeOfDay(m.timeFormat); ts != "" {
			stamp = timestampStyle.Render("  " + ts)
		}

		if msg.IsUser() {
			label := userLabelStyle.Render("● "+msg.Sender.Label()) + stamp
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := agentLabelStyle.Render("✦ "+msg.Sender.Label()) + stamp
			bubble := agentBubbleStyle.Width(bubbleWidth).Render(m.renderReply(i, msg.Text, bubbleWidth-4))
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	if m.view.Pending() {
		content.WriteString("\n")
		content.WriteString(agentLabelStyle.Render("✦ " + models.SenderAgent.Label()))
		content.WriteString("\n")
		content.WriteString(typingStyle.Render("  typing…"))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m *Model) renderReply(index int, text string, width int) string {
	if out, ok := m.replyCache[index]; ok {
		return out
	}
	out := render.Reply(text, m.renderOpts.WithWidth(width))
	m.replyCache[index] = out
	return out
}

// Messages returns the conversation shown on screen.
func (m Model) Messages() []models.Message {
	return m.view.Messages()
}

// Pending reports whether a request is outstanding.
func (m Model) Pending() bool {
	return m.view.Pending()
}

// RunChat starts the chat TUI
func RunChat(sender chat.Sender, opts ChatOptions) error {
	p := tea.NewProgram(
		NewChatModel(sender, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
