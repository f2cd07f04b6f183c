package inference

import "time"

// Message is a normalized representation of a chat message.
type Message struct {
	Role    string
	Content string
}

// Request is the normalized upstream request the gateway operates on.
type Request struct {
	RequestID string
	SessionID string
	Model     string
	Messages  []Message
	// Timings captures per-stage latency for debugging/observability.
	Timings *Timings
}

// Usage holds token accounting reported by the upstream provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is a normalized provider response.
type Response struct {
	Message Message
	Usage   Usage
}

// Timings holds latency measurements for key stages of request processing.
type Timings struct {
	ToneGate time.Duration
	Provider time.Duration
	Pipeline time.Duration
}

// UserText returns the content of the last user message, or "" when the
// request carries none. The enforcement pipeline keys its alternative
// generation on this text.
func UserText(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return msgs[i].Content
		}
	}
	return ""
}
