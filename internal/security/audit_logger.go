package security

import (
	"github.com/rs/zerolog/log"
)

// AuditLogger logs agent request events with hashed identifiers
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogAgentRequest records one agent invocation
func (a *AuditLogger) LogAgentRequest(
	prompt, apiKey string,
	toolsUsed []string,
	success bool,
	executionTimeMs int64,
) {
	if !a.enabled {
		return
	}
	promptHash := hashStr(prompt)[:16]
	keyHash := hashStr(apiKey)[:16]

	log.Info().
		Str("event", "agent_audit").
		Str("prompt_hash", promptHash).
		Str("api_key_hash", keyHash).
		Strs("tools_used", toolsUsed).
		Bool("success", success).
		Int64("execution_time_ms", executionTimeMs).
		Msg("agent audit")
}
