package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultAppName = "Gearbox Agent"

	DefaultRateLimitPerMinute = 60

	// GitHub Models inference endpoint; any Anthropic-compatible proxy works
	DefaultModelBaseURL = "https://models.github.ai/inference"
	DefaultModel        = "openai/gpt-4o"

	DefaultAgentTimeout = 120 // seconds

	DefaultMaxTokensPerRequest = 16000 // input + output budget for one chat

	DefaultCORSMaxAge = 300
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}

var DefaultPIIKeywords = []string{
	"password", "ssn", "social security", "credit card",
	"bank account", "pin", "secret", "private key",
	"access token", "api key", "personal data",
}
