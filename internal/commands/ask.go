package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/chatview/internal/chat"
	"github.com/diogo/chatview/internal/config"
	"github.com/diogo/chatview/internal/models"
	"github.com/diogo/chatview/internal/render"
	"github.com/diogo/chatview/internal/tui"
)

var (
	agentLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	agentBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

type askFlags struct {
	file   string
	output string
	strict bool
}

// NewAskCmd creates the ask command
func NewAskCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	af := &askFlags{}

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send a single message and print the reply",
		Long: `Send one message without opening the chat view.

The message comes from the argument, from --file, or from stdin. On a
terminal the reply is rendered as markdown; otherwise the raw text is
printed. A failed request prints the same fallback reply the chat view
shows and exits successfully, unless --strict is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readMessage(deps, af, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runAsk(ctx, deps, flags, af, text)
		},
	}

	cmd.Flags().StringVarP(&af.file, "file", "f", "", "Read the message from a file")
	cmd.Flags().StringVarP(&af.output, "output", "o", "", "Save the reply to a file")
	cmd.Flags().BoolVar(&af.strict, "strict", false, "Exit with an error when the request fails")

	return cmd
}

// readMessage picks the message from --file, the argument or stdin, in that order.
func readMessage(deps *Dependencies, af *askFlags, args []string) (string, error) {
	if af.file != "" {
		data, err := os.ReadFile(af.file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	if deps.HasStdin != nil && deps.HasStdin() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("no message given: pass it as an argument, with --file, or on stdin")
}

func runAsk(ctx context.Context, deps *Dependencies, flags *globalFlags, af *askFlags, text string) error {
	cfg, err := loadSettings(flags)
	if err != nil {
		return err
	}

	logger, closeLog := openLogger(cfg, deps.Stderr)
	defer closeLog()

	view := chat.New(chat.WithLogger(logger))
	view.SetDraft(text)
	if !view.CanSubmit() {
		return fmt.Errorf("message cannot be empty")
	}

	client, err := deps.NewClient(cfg.Endpoint, cfg.RequestTimeout(), logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	decorated := deps.IsTTY != nil && deps.IsTTY()

	var sendErr error
	sender := chat.SenderFunc(func(ctx context.Context, payload string) (string, error) {
		var spin *spinner
		if decorated {
			spin = newSpinner(deps.Stderr, "Waiting for the agent")
			spin.start()
		}

		reply, err := client.Send(ctx, payload)
		sendErr = err

		if spin != nil {
			if err != nil {
				spin.stopWithError()
			} else {
				spin.stopWithSuccess("Done")
			}
		}
		return reply, err
	})

	msg, ok := view.Exchange(ctx, sender, text)
	if !ok {
		return fmt.Errorf("message cannot be empty")
	}

	if sendErr != nil && af.strict {
		fmt.Fprintln(deps.Stderr, tui.FormatError(sendErr))
		return fmt.Errorf("chat request failed: %w", sendErr)
	}

	return writeReply(deps, cfg, af, msg, decorated)
}

// writeReply prints msg, or saves it when --output is set.
func writeReply(deps *Dependencies, cfg config.Config, af *askFlags, msg models.Message, decorated bool) error {
	if af.output != "" {
		if err := os.WriteFile(af.output, []byte(msg.Text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", af.output)))
		}
		return nil
	}

	if !decorated {
		fmt.Fprint(deps.Stdout, msg.Text)
		if !strings.HasSuffix(msg.Text, "\n") {
			fmt.Fprintln(deps.Stdout)
		}
		return nil
	}

	if cfg.CopyToClipboard && deps.Clipboard != nil {
		if err := deps.Clipboard(msg.Text); err != nil {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorWarning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	bubbleWidth := deps.TermWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	label := agentLabelStyle.Render("✦ " + msg.Sender.Label())
	if ts := msg.TimeOfDay(cfg.TimeFormat); ts != "" {
		label += lipgloss.NewStyle().Foreground(colorTextMute).Render("  " + ts)
	}
	fmt.Fprintln(deps.Stdout, label)

	rendered := render.Reply(msg.Text, render.OptionsFromConfig(cfg).WithWidth(bubbleWidth-4))
	fmt.Fprintln(deps.Stdout, agentBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}
