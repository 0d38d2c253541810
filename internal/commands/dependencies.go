package commands

import (
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/diogo/chatview/internal/api"
	"github.com/diogo/chatview/internal/chat"
	"github.com/diogo/chatview/internal/config"
	"github.com/diogo/chatview/internal/tui"
)

// ChatClient is the part of api.Client the commands rely on.
type ChatClient interface {
	chat.Sender
	Close()
}

// ClientFactory builds the client for one command run.
type ClientFactory func(endpoint string, timeout time.Duration, logger *slog.Logger) (ChatClient, error)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(sender chat.Sender, opts tui.ChatOptions) error
	RunConfig(cfg config.Config) error
}

// Dependencies holds the external dependencies of the commands so tests
// can replace the network, the terminal and the clipboard.
type Dependencies struct {
	NewClient ClientFactory
	TUI       TUIInterface

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether stdout is an interactive terminal
	IsTTY func() bool
	// TermWidth returns the width of the terminal
	TermWidth func() int
	// HasStdin reports whether input is being piped in
	HasStdin func() bool

	Clipboard func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(sender chat.Sender, opts tui.ChatOptions) error {
	return tui.RunChat(sender, opts)
}

func (d *DefaultTUI) RunConfig(cfg config.Config) error {
	return tui.RunConfig(cfg)
}

// NewAPIClient is the production ClientFactory.
func NewAPIClient(endpoint string, timeout time.Duration, logger *slog.Logger) (ChatClient, error) {
	return api.NewClient(endpoint,
		api.WithTimeout(timeout),
		api.WithLogger(logger),
	)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: NewAPIClient,
		TUI:       &DefaultTUI{},
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		IsTTY:     isStdoutTTY,
		TermWidth: getTerminalWidth,
		HasStdin:  stdinIsPiped,
		Clipboard: clipboardWrite,
	}
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
