package render

import (
	"os"

	"github.com/diogo/chatview/internal/config"
)

// StyleEnv overrides the configured markdown style when set.
const StyleEnv = "GLAMOUR_STYLE"

// OptionsFromConfig builds render options from the user configuration.
// The GLAMOUR_STYLE environment variable takes precedence over the file.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv(StyleEnv); style != "" {
		opts.Style = style
	}

	return opts
}
