package tools

import (
	"context"
	"time"
)

// TimeLayout is the wall-clock format returned by the clock tool
const TimeLayout = "2006-01-02 15:04:05"

// CurrentTime returns the current date and time as YYYY-MM-DD HH:MM:SS
func CurrentTime() string {
	return time.Now().Format(TimeLayout)
}

// CurrentTimeTool reports the wall-clock time. The input is ignored; the
// schema carries it only because the tool interface requires one.
func CurrentTimeTool() Tool {
	return Tool{
		Name: "get_current_time",
		Description: "Use this tool to get the current date and time. " +
			"Use this whenever the user asks what time or date it is.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			return CurrentTime(), nil
		},
	}
}
