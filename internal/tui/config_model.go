package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatview/internal/config"
	"github.com/diogo/chatview/internal/render"
)

type configView int

const (
	viewMain configView = iota
	viewThemeSelect
	viewTUIThemeSelect
)

// Main menu entries
const (
	menuTheme = iota
	menuTUITheme
	menuClock24h
	menuCopyToClipboard
	menuVerbose
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the interactive settings menu.
type ConfigModel struct {
	config     config.Config
	configPath string
	logPath    string
	save       func(config.Config) error

	view           configView
	cursor         int
	themeCursor    int
	tuiThemeCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates the settings menu for cfg. Changes are written
// with config.SaveConfig as soon as they are made.
func NewConfigModel(cfg config.Config) ConfigModel {
	configPath, _ := config.GetConfigPath()
	logPath, _ := config.GetLogPath()

	ApplyTheme(cfg.TUITheme)

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		logPath:         logPath,
		save:            config.SaveConfig,
		themeCursor:     indexOf(render.StyleNames(), render.ResolveStyle(cfg.Markdown.Style)),
		tuiThemeCursor:  indexOf(render.TUIThemeNames(), render.GetTUITheme().Name),
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(items []string, want string) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return 0
}

// Config returns the settings as currently edited.
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// wrap moves a cursor by delta within [0, n).
func wrap(cursor, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((cursor+delta)%n + n) % n
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *ConfigModel) move(delta int) {
	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor, delta, menuItemCount)
	case viewThemeSelect:
		m.themeCursor = wrap(m.themeCursor, delta, len(render.StyleNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor, delta, len(render.TUIThemeNames()))
	}
}

// persist saves the config and reports the outcome as feedback.
func (m ConfigModel) persist(done string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = done
	}
	m.view = viewMain
	return m, clearFeedback(m.feedbackTimeout)
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewThemeSelect:
		m.config.Markdown.Style = render.StyleNames()[m.themeCursor]
		return m.persist(fmt.Sprintf("Markdown theme set to %s", m.config.Markdown.Style))

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected
		ApplyTheme(selected)
		return m.persist(fmt.Sprintf("TUI theme set to %s", selected))
	}

	switch m.cursor {
	case menuTheme:
		m.view = viewThemeSelect
		return m, nil

	case menuTUITheme:
		m.view = viewTUIThemeSelect
		return m, nil

	case menuClock24h:
		if m.config.TimeFormat == config.TimeFormat24h {
			m.config.TimeFormat = config.TimeFormat12h
		} else {
			m.config.TimeFormat = config.TimeFormat24h
		}
		return m.persist(fmt.Sprintf("24-hour clock %s", onOff(m.config.TimeFormat == config.TimeFormat24h)))

	case menuCopyToClipboard:
		m.config.CopyToClipboard = !m.config.CopyToClipboard
		return m.persist(fmt.Sprintf("Copy to clipboard %s", onOff(m.config.CopyToClipboard)))

	case menuVerbose:
		m.config.Verbose = !m.config.Verbose
		return m.persist(fmt.Sprintf("Verbose logging %s", onOff(m.config.Verbose)))

	case menuExit:
		return m, tea.Quit
	}

	return m, nil
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections,
		configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ ChatView Settings")))

	info := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Connection"),
		fmt.Sprintf("   Endpoint: %s", configValueStyle.Render(m.config.Endpoint)),
		fmt.Sprintf("   Timeout:  %s", configValueStyle.Render(m.config.RequestTimeout().String())),
		fmt.Sprintf("   Config:   %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("   Log:      %s", configPathStyle.Render(m.logPath)),
		hintStyle.Render("   Edit endpoint and timeout with 'chatview config set'"),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(info))

	var body string
	switch m.view {
	case viewThemeSelect:
		body = m.renderThemeSelect()
	case viewTUIThemeSelect:
		body = m.renderTUIThemeSelect()
	default:
		body = m.renderMainMenu()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(body))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// menuLine renders one entry with the label padded to a common column.
func menuLine(selected bool, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if selected {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return cursor + style.Render(label) + strings.Repeat(" ", 20-len(label)) + value
}

func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

func (m ConfigModel) renderMainMenu() string {
	items := []string{
		configSectionTitleStyle.Render("Settings"),
		"",
		menuLine(m.cursor == menuTheme, "Markdown Theme", configValueStyle.Render(render.ResolveStyle(m.config.Markdown.Style))),
		menuLine(m.cursor == menuTUITheme, "TUI Theme", configValueStyle.Render(render.GetTUITheme().Name)),
		menuLine(m.cursor == menuClock24h, "24-hour Clock", m.renderBoolValue(m.config.TimeFormat == config.TimeFormat24h)),
		menuLine(m.cursor == menuCopyToClipboard, "Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)),
		menuLine(m.cursor == menuVerbose, "Verbose Logging", m.renderBoolValue(m.config.Verbose)),
		"",
		menuLine(m.cursor == menuExit, "Exit", ""),
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) renderThemeSelect() string {
	current := render.ResolveStyle(m.config.Markdown.Style)
	items := []string{configSectionTitleStyle.Render("Select Markdown Theme"), ""}
	for i, s := range render.AvailableStyles() {
		line := menuLine(m.themeCursor == i, fmt.Sprintf("%s - %s", s.Name, s.Description), "")
		if s.Name == current {
			line += configStatusOkStyle.Render(" (current)")
		}
		items = append(items, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) renderTUIThemeSelect() string {
	current := render.GetTUITheme().Name
	items := []string{configSectionTitleStyle.Render("Select TUI Theme"), ""}
	for i, t := range render.AvailableTUIThemes() {
		line := menuLine(m.tuiThemeCursor == i, fmt.Sprintf("%s - %s", t.Name, t.Description), "")
		if t.Name == current {
			line += configStatusOkStyle.Render(" (current)")
		}
		items = append(items, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
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
	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// RunConfig starts the settings menu
func RunConfig(cfg config.Config) error {
	p := tea.NewProgram(
		NewConfigModel(cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
