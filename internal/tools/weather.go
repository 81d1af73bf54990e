package tools

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the date format the weather tool expects
const DateLayout = "2006-01-02"

const (
	weatherToday = "Sunny, 72°F"
	weatherOther = "Rainy, 55°F"
)

// Weather returns mock weather for a date string. The today branch is taken
// only when the trimmed input exactly equals today's date in YYYY-MM-DD form;
// every other date gets the rainy branch.
func Weather(date string) string {
	today := time.Now().Format(DateLayout)
	if strings.TrimSpace(date) == today {
		return weatherToday
	}
	return weatherOther
}

// WeatherTool returns mock weather information for a given date
func WeatherTool() Tool {
	return Tool{
		Name: "get_weather",
		Description: "Returns weather information for a given date. " +
			"Input should be a date formatted as YYYY-MM-DD. " +
			"Use get_current_time first to get today's date if needed.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "The date to get weather for, formatted as YYYY-MM-DD",
				},
			},
			"required": []string{"date"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			date, _ := input["date"].(string)
			if date == "" {
				return "", fmt.Errorf("date is required")
			}
			return Weather(date), nil
		},
	}
}
