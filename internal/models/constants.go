// Package models contains data types and constants shared by the chat view,
// the endpoint client and the transcript exporter.
package models

// DefaultEndpoint is the chat endpoint used when none is configured.
const DefaultEndpoint = "http://localhost:9001/chat"

// FallbackReply is shown in place of an agent reply whenever a request fails.
const FallbackReply = "Sorry, I encountered an error. Please try again."

// MaxResponseBytes caps how much of a response body is read.
const MaxResponseBytes = 4 << 20

// DefaultHeaders returns the headers sent with every chat request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "chatview/1.0",
	}
}
