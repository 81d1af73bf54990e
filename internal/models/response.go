package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ToolInfo describes one registered tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UsageMetadata contains model token accounting for one request
type UsageMetadata struct {
	InputTokens     int64 `json:"input_tokens"`
	OutputTokens    int64 `json:"output_tokens"`
	ExecutionTimeMs int64 `json:"execution_time_ms"`
	CacheHit        bool  `json:"cache_hit"`
}

// ChatResponse is returned by POST /api/v1/chat
type ChatResponse struct {
	Status        string                 `json:"status"`
	Prompt        string                 `json:"prompt"`
	Answer        *string                `json:"answer,omitempty"`
	Usage         *UsageMetadata         `json:"usage,omitempty"`
	AgentMetadata map[string]interface{} `json:"agent_metadata"`
}
