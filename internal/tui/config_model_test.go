package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/chatview/internal/config"
	"github.com/diogo/chatview/internal/render"
)

func newTestConfigModel(t *testing.T) ConfigModel {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { ApplyTheme(render.DefaultTUITheme) })

	m := NewConfigModel(config.DefaultConfig())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(ConfigModel)
}

func sendKey(m ConfigModel, k string) (ConfigModel, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	updated, cmd := m.Update(msg)
	return updated.(ConfigModel), cmd
}

// selectItem moves the main cursor to item and presses enter.
func selectItem(m ConfigModel, item int) (ConfigModel, tea.Cmd) {
	for m.cursor != item {
		m, _ = sendKey(m, "down")
	}
	return sendKey(m, "enter")
}

func TestNewConfigModel(t *testing.T) {
	m := newTestConfigModel(t)

	if m.view != viewMain || m.cursor != 0 {
		t.Errorf("unexpected initial state: view=%v cursor=%d", m.view, m.cursor)
	}
	if !strings.HasSuffix(m.configPath, "config.json") {
		t.Errorf("configPath = %q", m.configPath)
	}
	if !strings.HasSuffix(m.logPath, "chatview.log") {
		t.Errorf("logPath = %q", m.logPath)
	}
	if m.feedbackTimeout != 2*time.Second {
		t.Errorf("feedbackTimeout = %v", m.feedbackTimeout)
	}
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestConfigModel_Navigation(t *testing.T) {
	m := newTestConfigModel(t)

	m, _ = sendKey(m, "up")
	if m.cursor != menuItemCount-1 {
		t.Errorf("up from the top should wrap, got %d", m.cursor)
	}
	m, _ = sendKey(m, "j")
	if m.cursor != 0 {
		t.Errorf("down from the bottom should wrap, got %d", m.cursor)
	}
	m, _ = sendKey(m, "k")
	if m.cursor != menuItemCount-1 {
		t.Errorf("k should move up, got %d", m.cursor)
	}
}

func TestConfigModel_Toggles(t *testing.T) {
	tests := []struct {
		name  string
		item  int
		check func(config.Config) bool
	}{
		{"clock", menuClock24h, func(c config.Config) bool { return c.TimeFormat == config.TimeFormat24h }},
		{"clipboard", menuCopyToClipboard, func(c config.Config) bool { return c.CopyToClipboard }},
		{"verbose", menuVerbose, func(c config.Config) bool { return c.Verbose }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestConfigModel(t)

			m, cmd := selectItem(m, tt.item)
			if cmd == nil {
				t.Error("toggle should schedule the feedback clear")
			}
			if !tt.check(m.Config()) {
				t.Error("toggle should flip the setting on")
			}
			if !strings.Contains(m.feedback, "enabled") {
				t.Errorf("feedback = %q", m.feedback)
			}

			saved, err := config.LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if !tt.check(saved) {
				t.Error("toggle should be saved to disk")
			}

			m, _ = sendKey(m, "enter")
			if tt.check(m.Config()) {
				t.Error("second toggle should flip the setting off")
			}
		})
	}
}

func TestConfigModel_MarkdownTheme(t *testing.T) {
	m := newTestConfigModel(t)

	m, _ = selectItem(m, menuTheme)
	if m.view != viewThemeSelect {
		t.Fatalf("expected theme submenu, got %v", m.view)
	}
	if !strings.Contains(m.View(), "Select Markdown Theme") {
		t.Error("submenu should be rendered")
	}

	m, _ = sendKey(m, "down")
	m, _ = sendKey(m, "enter")

	want := render.StyleNames()[1]
	if m.Config().Markdown.Style != want {
		t.Errorf("Markdown.Style = %q, want %q", m.Config().Markdown.Style, want)
	}
	if m.view != viewMain {
		t.Error("selection should return to the main menu")
	}
}

func TestConfigModel_TUITheme(t *testing.T) {
	m := newTestConfigModel(t)

	m, _ = selectItem(m, menuTUITheme)
	m, _ = sendKey(m, "down")
	m, _ = sendKey(m, "enter")

	want := render.TUIThemeNames()[1]
	if m.Config().TUITheme != want {
		t.Errorf("TUITheme = %q, want %q", m.Config().TUITheme, want)
	}
	if render.GetTUITheme().Name != want {
		t.Error("theme should be applied immediately")
	}
}

func TestConfigModel_EscBehaviour(t *testing.T) {
	m := newTestConfigModel(t)

	m, _ = selectItem(m, menuTheme)
	m, cmd := sendKey(m, "esc")
	if m.view != viewMain || cmd != nil {
		t.Error("esc in a submenu should go back")
	}

	_, cmd = sendKey(m, "esc")
	if !isQuit(cmd) {
		t.Error("esc in the main menu should quit")
	}

	_, cmd = selectItem(m, menuExit)
	if !isQuit(cmd) {
		t.Error("Exit should quit")
	}
}

func TestConfigModel_SaveError(t *testing.T) {
	m := newTestConfigModel(t)
	m.save = func(config.Config) error { return errors.New("disk full") }

	m, _ = selectItem(m, menuVerbose)
	if !strings.Contains(m.feedback, "disk full") {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestConfigModel_FeedbackClear(t *testing.T) {
	m := newTestConfigModel(t)
	m.feedback = "something"

	updated, cmd := m.Update(feedbackClearMsg{})
	if updated.(ConfigModel).feedback != "" || cmd != nil {
		t.Error("feedbackClearMsg should clear the feedback")
	}
	if clearFeedback(time.Millisecond) == nil {
		t.Error("clearFeedback should return a command")
	}
}

func TestConfigModel_View(t *testing.T) {
	if !strings.Contains(NewConfigModel(config.DefaultConfig()).View(), "Initializing") {
		t.Error("unsized view should show the placeholder")
	}

	m := newTestConfigModel(t)
	view := m.View()
	for _, want := range []string{"ChatView Settings", "localhost:9001", "1m0s", "Markdown Theme", "Verbose Logging", "config.json"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct{ cursor, delta, n, want int }{
		{0, 1, 3, 1},
		{2, 1, 3, 0},
		{0, -1, 3, 2},
		{0, 1, 0, 0},
	}
	for _, tt := range tests {
		if got := wrap(tt.cursor, tt.delta, tt.n); got != tt.want {
			t.Errorf("wrap(%d, %d, %d) = %d, want %d", tt.cursor, tt.delta, tt.n, got, tt.want)
		}
	}
}
