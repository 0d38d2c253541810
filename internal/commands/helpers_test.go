package commands

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diogo/chatview/internal/chat"
	"github.com/diogo/chatview/internal/config"
	"github.com/diogo/chatview/internal/tui"
)

type fakeClient struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  []string
	closed bool
}

func (f *fakeClient) Send(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	return f.reply, f.err
}

func (f *fakeClient) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

type fakeTUI struct {
	chatCalls   int
	chatOpts    tui.ChatOptions
	sender      chat.Sender
	configCalls int
	configSeen  config.Config
	err         error
}

func (f *fakeTUI) RunChat(sender chat.Sender, opts tui.ChatOptions) error {
	f.chatCalls++
	f.sender = sender
	f.chatOpts = opts
	return f.err
}

func (f *fakeTUI) RunConfig(cfg config.Config) error {
	f.configCalls++
	f.configSeen = cfg
	return f.err
}

// harness wires a command tree to in-memory fakes.
type harness struct {
	deps      *Dependencies
	client    *fakeClient
	tui       *fakeTUI
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	endpoint  string
	timeout   time.Duration
	created   int
	clipboard string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLAMOUR_STYLE", "notty")

	h := &harness{
		client: &fakeClient{reply: "hi there"},
		tui:    &fakeTUI{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.deps = &Dependencies{
		NewClient: func(endpoint string, timeout time.Duration, logger *slog.Logger) (ChatClient, error) {
			h.created++
			h.endpoint = endpoint
			h.timeout = timeout
			return h.client, nil
		},
		TUI:       h.tui,
		Stdin:     strings.NewReader(""),
		Stdout:    h.stdout,
		Stderr:    h.stderr,
		IsTTY:     func() bool { return false },
		TermWidth: func() int { return 80 },
		HasStdin:  func() bool { return false },
		Clipboard: func(s string) error {
			h.clipboard = s
			return nil
		},
	}
	return h
}

func (h *harness) run(args ...string) error {
	root := NewRootCmd(h.deps)
	root.SetArgs(args)
	return root.Execute()
}
