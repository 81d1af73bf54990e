package service

import "strings"

// routeKeywords maps each built-in tool to the prompt vocabulary that
// usually calls for it
var routeKeywords = map[string][]string{
	"calculator": {
		"calculate", "compute", "math", "sum", "multiply", "divide",
		"add", "subtract", "plus", "minus", "times", "squared",
		"+", "-", "*", "/", "percent", "%",
	},
	"get_current_time": {
		"time", "clock", "date", "right now", "current time",
		"what day", "o'clock", "hour", "minute",
	},
	"reverse_string": {
		"reverse", "backward", "backwards", "mirror", "flip the string",
	},
	"get_weather": {
		"weather", "forecast", "sunny", "rain", "rainy", "temperature",
		"degrees", "hot", "cold",
	},
}

// RoutingResult contains the tool-route hint for a prompt
type RoutingResult struct {
	Tool       string
	Confidence float64
	Scores     map[string]int
	Reasoning  string
}

// ToolRouter predicts which registered tool a natural-language prompt will
// need. It is a hint only: the model makes the actual tool choice.
type ToolRouter struct{}

func NewToolRouter() *ToolRouter {
	return &ToolRouter{}
}

// Route scores the prompt against each tool's keyword list
func (r *ToolRouter) Route(prompt string) RoutingResult {
	lower := strings.ToLower(prompt)

	scores := make(map[string]int, len(routeKeywords))
	total := 0
	best := ""
	bestScore := 0

	for tool, keywords := range routeKeywords {
		score := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		scores[tool] = score
		total += score
		if score > bestScore {
			best = tool
			bestScore = score
		}
	}

	if total == 0 {
		return RoutingResult{
			Tool:       "",
			Confidence: 0,
			Scores:     scores,
			Reasoning:  "no tool keywords matched, leaving the choice to the model",
		}
	}

	return RoutingResult{
		Tool:       best,
		Confidence: float64(bestScore) / float64(total),
		Scores:     scores,
		Reasoning:  "prompt contains " + best + "-related keywords",
	}
}
