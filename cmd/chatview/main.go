// Command chatview is a terminal chat client for an HTTP chat agent.
package main

import "github.com/diogo/chatview/internal/commands"

func main() {
	commands.Execute()
}
