package tools

import (
	"context"
	"fmt"
	"strconv"

	"github.com/expr-lang/expr"
)

// Evaluate runs an arithmetic expression through the expression interpreter
// and formats the result. Invalid input yields an error-prefixed string
// rather than a Go error, so the model sees what went wrong. The interpreter
// makes no guarantees about input validity; do not feed it untrusted input
// outside a sandboxed context.
func Evaluate(expression string) string {
	out, err := expr.Eval(expression, nil)
	if err != nil {
		return fmt.Sprintf("Error evaluating expression: %v", err)
	}
	return formatResult(out)
}

func formatResult(v interface{}) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// CalculatorTool evaluates mathematical expressions
func CalculatorTool() Tool {
	return Tool{
		Name: "calculator",
		Description: "Use this tool to evaluate mathematical expressions. " +
			"Pass a valid math expression as a string (e.g., '25 * 4 + 10'). " +
			"Returns the computed result. Use this whenever the user asks a math question.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"expression": map[string]interface{}{
					"type":        "string",
					"description": "The mathematical expression to evaluate (e.g., '25 * 4 + 10')",
				},
			},
			"required": []string{"expression"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			expression, _ := input["expression"].(string)
			if expression == "" {
				return "", fmt.Errorf("expression is required")
			}
			return Evaluate(expression), nil
		},
	}
}
