package models

// ChatRequest is the JSON body posted to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the JSON body expected back from the chat endpoint.
type ChatResponse struct {
	Response string `json:"response"`
}
