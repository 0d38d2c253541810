// Package transcript exports the messages of the current session.
// Nothing is read back: a transcript is a one-way copy for the user.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/chatview/internal/models"
)

// Format represents the format for exporting a transcript
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Options configures how a transcript is exported
type Options struct {
	Format     Format
	Endpoint   string // Recorded in the header when set
	TimeFormat string // Layout for per-message timestamps
}

// DefaultOptions returns sensible defaults for export
func DefaultOptions() Options {
	return Options{
		Format:     FormatMarkdown,
		TimeFormat: "15:04:05",
	}
}

// FormatForPath picks JSON for a .json file and markdown otherwise.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatMarkdown
}

// ToMarkdown renders messages as a markdown document
func ToMarkdown(messages []models.Message, opts Options) string {
	var sb strings.Builder

	sb.WriteString("# Chat transcript\n\n")
	if opts.Endpoint != "" {
		sb.WriteString("**Endpoint:** ")
		sb.WriteString(opts.Endpoint)
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n", len(messages)))
	if len(messages) > 0 {
		sb.WriteString("**Started:** ")
		sb.WriteString(messages[0].SentAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n---\n\n")

	for i, msg := range messages {
		sb.WriteString("## ")
		sb.WriteString(msg.Sender.Label())
		if ts := msg.TimeOfDay(opts.TimeFormat); ts != "" {
			sb.WriteString(" (")
			sb.WriteString(ts)
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportDocument struct {
	Endpoint   string           `json:"endpoint,omitempty"`
	ExportedAt time.Time        `json:"exported_at"`
	Messages   []models.Message `json:"messages"`
}

// ToJSON renders messages as an indented JSON document
func ToJSON(messages []models.Message, opts Options) ([]byte, error) {
	doc := exportDocument{
		Endpoint:   opts.Endpoint,
		ExportedAt: time.Now().UTC(),
		Messages:   messages,
	}
	if doc.Messages == nil {
		doc.Messages = []models.Message{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Render produces the transcript bytes in the requested format
func Render(messages []models.Message, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatJSON:
		return ToJSON(messages, opts)
	case FormatMarkdown, "":
		return []byte(ToMarkdown(messages, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", opts.Format)
	}
}

// WriteFile exports messages to path, choosing the format from its extension.
func WriteFile(path string, messages []models.Message, opts Options) error {
	if path == "" {
		return fmt.Errorf("export path is required")
	}
	if len(messages) == 0 {
		return fmt.Errorf("nothing to export yet")
	}

	opts.Format = FormatForPath(path)
	data, err := Render(messages, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
