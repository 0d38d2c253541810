// Package commands provides CLI commands for chatview.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/diogo/chatview/internal/config"
	"github.com/diogo/chatview/internal/logging"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	endpoint string
	timeout  time.Duration
	verbose  bool
}

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the chat.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "chatview",
		Short: "Terminal chat client for an HTTP chat agent",
		Long: `chatview is a minimal chat interface. Each message you type is sent as
{"message": ...} to the configured endpoint and the agent's {"response": ...}
is shown in the conversation.

Examples:
  chatview                                  Start the chat
  chatview -e http://localhost:9001/chat    Use another endpoint
  chatview ask "What is Go?"                Send one message
  echo "hello" | chatview ask               Read the message from stdin
  chatview config set timeout 2m            Change a setting`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				printVersion(deps.Stdout)
				return nil
			}
			return runChat(deps, flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.endpoint, "endpoint", "e", "", "Chat endpoint URL (default from config)")
	cmd.PersistentFlags().DurationVarP(&flags.timeout, "timeout", "t", 0, "Request deadline, e.g. 30s (default from config)")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Log at debug level")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)
	cmd.SetIn(deps.Stdin)

	cmd.AddCommand(NewChatCmd(deps, flags))
	cmd.AddCommand(NewAskCmd(deps, flags))
	cmd.AddCommand(NewConfigCmd(deps))
	cmd.AddCommand(NewVersionCmd(deps))

	return cmd
}

var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadSettings reads the config file and applies the global flags on top.
func loadSettings(flags *globalFlags) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.endpoint != "" {
		cfg.Endpoint = flags.endpoint
	}
	if flags.timeout > 0 {
		cfg.RequestTimeoutSeconds = int((flags.timeout + time.Second - 1) / time.Second)
	}
	if flags.verbose {
		cfg.Verbose = true
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// openLogger starts file logging. Failing to open the log file is not
// fatal; the run continues without logs.
func openLogger(cfg config.Config, stderr io.Writer) (*slog.Logger, func()) {
	path, err := config.GetLogPath()
	if err == nil {
		opts := logging.DefaultOptions(path)
		opts.Level = cfg.LogLevel

		logger, closer, setupErr := logging.Setup(opts)
		if setupErr == nil {
			return logger, func() { _ = closer.Close() }
		}
		err = setupErr
	}

	fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
	return logging.Discard(), func() {}
}

func clipboardWrite(text string) error {
	return clipboard.WriteAll(text)
}
