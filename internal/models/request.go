package models

// Timeout bounds for one chat request, in seconds
const (
	MinTimeoutSeconds = 5
	MaxTimeoutSeconds = 600
)

// ChatRequest for POST /api/v1/chat
type ChatRequest struct {
	Prompt  string `json:"prompt"`
	NoTools bool   `json:"no_tools"` // bare model invocation, no tools registered
	Timeout int    `json:"timeout"`  // seconds
}

// Normalize fills in the configured default timeout when the request omits
// one and clamps the result to the allowed range
func (r *ChatRequest) Normalize(defaultTimeout int) {
	if r.Timeout <= 0 {
		r.Timeout = defaultTimeout
	}
	if r.Timeout < MinTimeoutSeconds {
		r.Timeout = MinTimeoutSeconds
	}
	if r.Timeout > MaxTimeoutSeconds {
		r.Timeout = MaxTimeoutSeconds
	}
}
