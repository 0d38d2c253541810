package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command
func NewVersionCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(deps.Stdout)
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "chatview %s (built %s)\n", Version, BuildTime)
}
