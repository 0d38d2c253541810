package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/chatview/internal/render"
	"github.com/diogo/chatview/internal/tui"
)

// NewChatCmd creates the chat command
func NewChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat",
		Long: `Start the full-screen chat view.

Enter sends the message, Alt+Enter inserts a newline and Esc or Ctrl+C quits.
Slash commands: /copy copies the last reply, /export <path> saves the
conversation (.json for JSON, anything else for markdown), /exit quits.
Nothing is kept after the program exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps, flags)
		},
	}
}

func runChat(deps *Dependencies, flags *globalFlags) error {
	cfg, err := loadSettings(flags)
	if err != nil {
		return err
	}

	logger, closeLog := openLogger(cfg, deps.Stderr)
	defer closeLog()

	client, err := deps.NewClient(cfg.Endpoint, cfg.RequestTimeout(), logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	tui.ApplyTheme(cfg.TUITheme)
	logger.Info("chat started", "endpoint", cfg.Endpoint, "timeout", cfg.RequestTimeout().String())

	err = deps.TUI.RunChat(client, tui.ChatOptions{
		Endpoint:   cfg.Endpoint,
		TimeFormat: cfg.TimeFormat,
		Render:     render.OptionsFromConfig(cfg),
		Logger:     logger,
		Clipboard:  deps.Clipboard,
	})
	if err != nil {
		return fmt.Errorf("chat view failed: %w", err)
	}
	return nil
}
