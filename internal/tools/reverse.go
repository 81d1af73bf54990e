package tools

import (
	"context"
	"fmt"
)

// Reverse returns the string reversed by code point, so reversing twice
// returns the original for any input, multi-byte included.
func Reverse(text string) string {
	runes := []rune(text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// ReverseStringTool reverses a string
func ReverseStringTool() Tool {
	return Tool{
		Name:        "reverse_string",
		Description: "Reverses a string. Input should be a single string.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "The string to reverse",
				},
			},
			"required": []string{"text"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			text, ok := input["text"].(string)
			if !ok {
				return "", fmt.Errorf("text is required")
			}
			return Reverse(text), nil
		},
	}
}
