package tui

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	apierrors "github.com/diogo/chatview/internal/errors"
	"github.com/diogo/chatview/internal/models"
	"github.com/diogo/chatview/internal/render"
)

type fakeSender struct {
	mu    sync.Mutex
	calls []string
	reply string
	err   error
}

func (f *fakeSender) Send(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	return f.reply, f.err
}

func (f *fakeSender) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) write(s string) error {
	if c.err != nil {
		return c.err
	}
	c.text = s
	return nil
}

func newTestModel(t *testing.T, sender *fakeSender, cb *fakeClipboard) Model {
	t.Helper()
	if cb == nil {
		cb = &fakeClipboard{}
	}
	m := NewChatModel(sender, ChatOptions{
		Endpoint:   "http://localhost:9001/chat",
		TimeFormat: "15:04",
		Render:     render.DefaultOptions().WithStyle(render.StyleNoTTY),
		Clipboard:  cb.write,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func typeText(m Model, s string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

var (
	enterKey    = tea.KeyMsg{Type: tea.KeyEnter}
	altEnterKey = tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	escKey      = tea.KeyMsg{Type: tea.KeyEsc}
)

// findReply runs cmd (and any batched commands) until the request result
// turns up.
func findReply(cmd tea.Cmd) (replyMsg, bool) {
	if cmd == nil {
		return replyMsg{}, false
	}
	switch msg := cmd().(type) {
	case replyMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if r, ok := findReply(c); ok {
				return r, true
			}
		}
	}
	return replyMsg{}, false
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// exchange types text, submits it and settles the resulting request.
func exchange(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, cmd := press(typeText(m, text), enterKey)
	reply, ok := findReply(cmd)
	if !ok {
		t.Fatalf("submitting %q produced no request", text)
	}
	updated, _ := m.Update(reply)
	return updated.(Model)
}

func TestChatModel_SubmitAppendsUserMessageFirst(t *testing.T) {
	sender := &fakeSender{reply: "hi there"}
	m := newTestModel(t, sender, nil)

	m, cmd := press(typeText(m, "hello"), enterKey)

	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Text != "hello" || !msgs[0].IsUser() {
		t.Fatalf("after submit messages = %+v, want one user message", msgs)
	}
	if !m.Pending() {
		t.Error("model should be pending after submit")
	}
	if m.textarea.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.textarea.Value())
	}
	if len(sender.Calls()) != 0 {
		t.Error("request must not run before the command executes")
	}

	reply, ok := findReply(cmd)
	if !ok {
		t.Fatal("submit should return the request command")
	}
	if got := sender.Calls(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("sender calls = %v, want [hello]", got)
	}

	updated, _ := m.Update(reply)
	m = updated.(Model)

	msgs = m.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[1].Sender != models.SenderAgent || msgs[1].Text != "hi there" {
		t.Errorf("agent message = %+v", msgs[1])
	}
	if m.Pending() {
		t.Error("pending should clear after the reply")
	}
}

func TestChatModel_BlankInputIgnored(t *testing.T) {
	for _, input := range []string{"", "   ", "\t"} {
		sender := &fakeSender{reply: "x"}
		m := newTestModel(t, sender, nil)

		m, cmd := press(typeText(m, input), enterKey)
		if cmd != nil {
			t.Errorf("input %q should not produce a command", input)
		}
		if len(m.Messages()) != 0 || m.Pending() {
			t.Errorf("input %q should not change the conversation", input)
		}
	}
}

func TestChatModel_FailureShowsFallback(t *testing.T) {
	sender := &fakeSender{err: apierrors.NewStatusError(500, "http://localhost:9001/chat", "boom")}
	m := exchange(t, newTestModel(t, sender, nil), "hello")

	msgs := m.Messages()
	if len(msgs) != 2 || msgs[1].Text != models.FallbackReply {
		t.Fatalf("messages = %+v, want fallback reply", msgs)
	}
	if m.Pending() {
		t.Error("pending should clear after a failure")
	}
	if strings.Contains(m.View(), "boom") {
		t.Error("error details must not be shown in the conversation")
	}
}

func TestChatModel_InputDisabledWhilePending(t *testing.T) {
	sender := &fakeSender{reply: "ok"}
	m := newTestModel(t, sender, nil)

	m, first := press(typeText(m, "one"), enterKey)
	m = typeText(m, "two")
	if m.textarea.Value() != "" {
		t.Errorf("keystrokes should not reach the input while pending, got %q", m.textarea.Value())
	}

	m, second := press(m, enterKey)
	if second != nil {
		t.Error("enter while pending should do nothing")
	}
	if len(m.Messages()) != 1 {
		t.Errorf("expected 1 message, got %d", len(m.Messages()))
	}

	reply, _ := findReply(first)
	updated, _ := m.Update(reply)
	m = updated.(Model)

	if got := sender.Calls(); len(got) != 1 {
		t.Errorf("expected exactly one request, got %v", got)
	}
	if !m.textarea.Focused() {
		t.Error("input should be focused again after the reply")
	}
}

func TestChatModel_AlternatingConversation(t *testing.T) {
	sender := &fakeSender{reply: "ack"}
	m := newTestModel(t, sender, nil)

	for _, text := range []string{"a", "b", "c"} {
		m = exchange(t, m, text)
	}

	msgs := m.Messages()
	if len(msgs) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(msgs))
	}
	for i, msg := range msgs {
		wantUser := i%2 == 0
		if msg.IsUser() != wantUser {
			t.Errorf("message %d sender = %s", i, msg.Sender)
		}
	}
}

func TestChatModel_AltEnterInsertsNewline(t *testing.T) {
	sender := &fakeSender{reply: "ok"}
	m := newTestModel(t, sender, nil)

	m = typeText(m, "line one")
	m, cmd := press(m, altEnterKey)
	if cmd != nil {
		if _, ok := findReply(cmd); ok {
			t.Fatal("alt+enter must not submit")
		}
	}
	m = typeText(m, "line two")

	m, cmd = press(m, enterKey)
	if _, ok := findReply(cmd); !ok {
		t.Fatal("enter should submit")
	}
	if got := sender.Calls(); len(got) != 1 || got[0] != "line one\nline two" {
		t.Errorf("payload = %q", got)
	}
}

func TestChatModel_EscQuitsEvenWhilePending(t *testing.T) {
	m := newTestModel(t, &fakeSender{reply: "x"}, nil)
	if _, cmd := press(m, escKey); !isQuit(cmd) {
		t.Error("esc should quit when idle")
	}

	m, _ = press(typeText(m, "hello"), enterKey)
	if _, cmd := press(m, escKey); !isQuit(cmd) {
		t.Error("esc should quit while pending")
	}
}

func TestChatModel_StrayReplyIgnored(t *testing.T) {
	m := newTestModel(t, &fakeSender{}, nil)
	updated, _ := m.Update(replyMsg{text: "unexpected"})
	if len(updated.(Model).Messages()) != 0 {
		t.Error("a reply with nothing pending should be ignored")
	}
}

func TestChatModel_SlashCommands(t *testing.T) {
	t.Run("exit and quit", func(t *testing.T) {
		for _, c := range []string{"/exit", "/quit"} {
			m := newTestModel(t, &fakeSender{}, nil)
			if _, cmd := press(typeText(m, c), enterKey); !isQuit(cmd) {
				t.Errorf("%s should quit", c)
			}
		}
	})

	t.Run("copy before any reply", func(t *testing.T) {
		cb := &fakeClipboard{}
		m := newTestModel(t, &fakeSender{}, cb)
		m, _ = press(typeText(m, "/copy"), enterKey)
		if !m.feedbackIsErr || cb.text != "" {
			t.Errorf("feedback = %q, clipboard = %q", m.feedback, cb.text)
		}
	})

	t.Run("copy last reply", func(t *testing.T) {
		cb := &fakeClipboard{}
		sender := &fakeSender{reply: "**copied**"}
		m := exchange(t, newTestModel(t, sender, cb), "hello")

		m, cmd := press(typeText(m, "/copy"), enterKey)
		if cmd != nil {
			t.Error("/copy should not issue a request")
		}
		if cb.text != "**copied**" {
			t.Errorf("clipboard = %q, want raw reply text", cb.text)
		}
		if len(sender.Calls()) != 1 || len(m.Messages()) != 2 {
			t.Error("/copy must not reach the endpoint or the conversation")
		}
		if m.textarea.Value() != "" {
			t.Error("command input should be cleared")
		}
	})

	t.Run("copy failure", func(t *testing.T) {
		cb := &fakeClipboard{err: errors.New("no clipboard")}
		m := exchange(t, newTestModel(t, &fakeSender{reply: "x"}, cb), "hello")
		m, _ = press(typeText(m, "/copy"), enterKey)
		if !m.feedbackIsErr || !strings.Contains(m.feedback, "no clipboard") {
			t.Errorf("feedback = %q", m.feedback)
		}
	})

	t.Run("export", func(t *testing.T) {
		dir := t.TempDir()
		m := exchange(t, newTestModel(t, &fakeSender{reply: "hi"}, nil), "hello")

		mdPath := filepath.Join(dir, "chat.md")
		m, _ = press(typeText(m, "/export "+mdPath), enterKey)
		if m.feedbackIsErr {
			t.Fatalf("export failed: %s", m.feedback)
		}
		data, err := os.ReadFile(mdPath)
		if err != nil {
			t.Fatalf("transcript not written: %v", err)
		}
		if !strings.Contains(string(data), "hello") || !strings.Contains(string(data), "## Agent") {
			t.Errorf("unexpected transcript:\n%s", data)
		}

		jsonPath := filepath.Join(dir, "chat.json")
		m, _ = press(typeText(m, "/export "+jsonPath), enterKey)
		data, _ = os.ReadFile(jsonPath)
		if !json.Valid(data) {
			t.Errorf("json transcript invalid: %s", data)
		}
		if len(m.Messages()) != 2 {
			t.Error("/export must not touch the conversation")
		}
	})

	t.Run("export without path", func(t *testing.T) {
		m := newTestModel(t, &fakeSender{}, nil)
		m, _ = press(typeText(m, "/export"), enterKey)
		if !m.feedbackIsErr || !strings.Contains(m.feedback, "Usage") {
			t.Errorf("feedback = %q", m.feedback)
		}
	})

	t.Run("other slash text is sent as a message", func(t *testing.T) {
		for _, text := range []string{"/etc/hosts is what?", "/nope"} {
			sender := &fakeSender{reply: "x"}
			m := newTestModel(t, sender, nil)
			m, cmd := press(typeText(m, text), enterKey)
			if len(m.Messages()) != 1 || m.Messages()[0].Text != text {
				t.Fatalf("%q: messages = %+v, want one user message", text, m.Messages())
			}
			if !m.Pending() {
				t.Errorf("%q: view should be pending", text)
			}
			if _, ok := findReply(cmd); !ok {
				t.Fatalf("%q: no request issued", text)
			}
			if calls := sender.Calls(); len(calls) != 1 || calls[0] != text {
				t.Errorf("%q: sender calls = %v", text, calls)
			}
			if m.feedback != "" {
				t.Errorf("%q: feedback = %q, want none", text, m.feedback)
			}
		}
	})

	t.Run("help", func(t *testing.T) {
		m := newTestModel(t, &fakeSender{}, nil)
		m, _ = press(typeText(m, "/help"), enterKey)
		if !strings.Contains(m.feedback, "/export") {
			t.Errorf("feedback = %q", m.feedback)
		}
	})
}

func TestChatModel_View(t *testing.T) {
	m := NewChatModel(&fakeSender{}, ChatOptions{})
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("view before sizing should show the initializing placeholder")
	}

	sender := &fakeSender{reply: "hi there"}
	m = newTestModel(t, sender, nil)

	view := m.View()
	for _, want := range []string{"ChatView", "localhost:9001", "Welcome to ChatView", "Enter"} {
		if !strings.Contains(view, want) {
			t.Errorf("idle view missing %q", want)
		}
	}

	m, cmd := press(typeText(m, "hello"), enterKey)
	view = m.View()
	for _, want := range []string{"hello", "You", "typing…", "Waiting for the agent"} {
		if !strings.Contains(view, want) {
			t.Errorf("pending view missing %q", want)
		}
	}
	if strings.Contains(view, "Welcome to ChatView") {
		t.Error("welcome placeholder should disappear once a message exists")
	}

	reply, _ := findReply(cmd)
	updated, _ := m.Update(reply)
	m = updated.(Model)

	view = m.View()
	if !strings.Contains(view, "hi there") || !strings.Contains(view, "Agent") {
		t.Errorf("settled view missing the reply:\n%s", view)
	}
	if strings.Contains(view, "typing…") {
		t.Error("typing placeholder should be gone after settlement")
	}
	if ts := m.Messages()[0].TimeOfDay("15:04"); !strings.Contains(view, ts) {
		t.Errorf("view should show the time of day %q", ts)
	}
	if len(m.Messages()) != 2 {
		t.Error("typing placeholder must not be part of the conversation")
	}
}

func TestTruncateEndpoint(t *testing.T) {
	long := "https://chat.example.com/a/very/long/path/that/does/not/fit"
	got := truncateEndpoint(long, 20)
	if runewidth.StringWidth(got) > 20 {
		t.Errorf("width of %q exceeds 20", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated endpoint should end with an ellipsis, got %q", got)
	}
	if got := truncateEndpoint("http://x/chat", 40); got != "http://x/chat" {
		t.Errorf("short endpoint changed: %q", got)
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("nil error should format as empty")
	}

	out := FormatError(apierrors.NewStatusError(503, "http://x/chat", "unavailable"))
	for _, want := range []string{"503", "http://x/chat", "status"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatError missing %q:\n%s", want, out)
		}
	}

	out = FormatError(apierrors.NewTimeoutError("http://x/chat", context.DeadlineExceeded))
	if !strings.Contains(out, "timeout") {
		t.Errorf("timeout hint missing:\n%s", out)
	}
}
