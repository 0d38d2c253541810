package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/chatview/internal/config"
	"github.com/diogo/chatview/internal/render"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open the settings menu",
		Long: `Interactive menu for chatview settings.

Use 'chatview config show' to print the current settings and
'chatview config set <key> <value>' to change one from the command line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return deps.TUI.RunConfig(cfg)
		},
	}

	cmd.AddCommand(newConfigShowCmd(deps))
	cmd.AddCommand(newConfigSetCmd(deps))
	return cmd
}

func newConfigShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			path, _ := config.GetConfigPath()
			logPath, _ := config.GetLogPath()

			w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
			rows := [][2]string{
				{"config file", path},
				{"log file", logPath},
				{"endpoint", cfg.Endpoint},
				{"timeout", cfg.RequestTimeout().String()},
				{"time_format", cfg.TimeFormat},
				{"tui_theme", cfg.TUITheme},
				{"markdown_style", render.ResolveStyle(cfg.Markdown.Style)},
				{"log_level", cfg.LogLevel},
				{"copy_to_clipboard", fmt.Sprint(cfg.CopyToClipboard)},
				{"verbose", fmt.Sprint(cfg.Verbose)},
			}
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\n", r[0], r[1])
			}
			return w.Flush()
		},
	}
}

func newConfigSetCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: fmt.Sprintf(`Change one setting and save it.

Keys: %s

Examples:
  chatview config set endpoint https://agent.example.com/chat
  chatview config set timeout 90s
  chatview config set time_format 15:04`, strings.Join(config.SettableKeys(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := checkSetting(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(deps.Stdout, "✓ %s set to %s\n", args[0], args[1])
			return nil
		},
	}
}

// checkSetting rejects theme and style names the renderer does not know.
// A markdown style may also be the path of a glamour JSON style file.
func checkSetting(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "tui_theme":
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown tui theme %q (valid: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	case "markdown_style":
		if render.IsBuiltinStyle(value) {
			return nil
		}
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return nil
		}
		return fmt.Errorf("unknown markdown style %q (valid: %s, or a path to a JSON style file)",
			value, strings.Join(render.StyleNames(), ", "))
	}
	return nil
}
