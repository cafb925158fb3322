// Package remote implements [flux.Stream] against the generation service's
// streaming HTTP endpoint. The service replies with newline-delimited JSON
// records; framing and record decoding live in the wire package, this
// package owns the connection, the pre-stream status check, and the abort
// linkage between the caller's context and the response body.
package remote

const (
	defaultModel = "standard"
	generatePath = "/v1/generate"
)

// apiRequest is the JSON body sent to the generation endpoint.
type apiRequest struct {
	Model    string       `json:"model"`
	Stream   bool         `json:"stream"`
	Messages []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// apiErrorResponse is the structured error body on non-2xx responses.
type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
