package security

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Published GitHub Models / OpenAI-compatible list price, used only for the
// logged estimate
const usdPerMillionTokens = 10.0

// UsageTracker enforces a per-request model token budget
type UsageTracker struct {
	maxTokens int64
}

func NewUsageTracker(maxTokens int64) *UsageTracker {
	return &UsageTracker{maxTokens: maxTokens}
}

// CheckLimits returns an error string if the combined token count for one
// request exceeds the budget
func (ut *UsageTracker) CheckLimits(inputTokens, outputTokens int64, apiKey string) (bool, string) {
	total := inputTokens + outputTokens
	if total <= ut.maxTokens {
		return true, ""
	}
	return false, fmt.Sprintf(
		"Token budget exceeded. Used: %d tokens, Limit: %d tokens",
		total, ut.maxTokens,
	)
}

// LogUsage logs token usage info with hashed identifiers
func (ut *UsageTracker) LogUsage(prompt string, inputTokens, outputTokens int64, apiKey string, durationMs int64) {
	total := inputTokens + outputTokens
	costUSD := float64(total) / 1_000_000.0 * usdPerMillionTokens

	promptHash := hashStr(prompt)[:16]
	keyHash := hashStr(apiKey)[:16]

	log.Info().
		Str("event", "token_usage").
		Str("prompt_hash", promptHash).
		Str("api_key_hash", keyHash).
		Int64("input_tokens", inputTokens).
		Int64("output_tokens", outputTokens).
		Float64("cost_usd", costUSD).
		Int64("duration_ms", durationMs).
		Msgf("Model usage: %d tokens ($%.6f) | Duration: %dms", total, costUSD, durationMs)
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
