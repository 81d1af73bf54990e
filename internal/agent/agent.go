package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/gearbox-ai/gearbox/internal/tools"
	"github.com/rs/zerolog/log"
)

// ToolCall represents a tool invocation request from the LLM
type ToolCall struct {
	ID    string
	Name  string
	Input map[string]interface{}
}

// Usage accumulates model token counts across agent iterations
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// RunResult is the outcome of one agent run
type RunResult struct {
	Text           string
	ToolsUsed      []string
	LastToolResult string // fallback answer when the model returns no final text
	Usage          Usage
}

// Agent wraps the model SDK for a multi-turn tool-calling loop. The base URL
// points at the GitHub Models endpoint by default; any compatible provider
// works.
type Agent struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// New creates an agent authenticated with the given token
func New(token, model, baseURL string) *Agent {
	opts := []option.RequestOption{option.WithAPIKey(token)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &Agent{
		client:    client,
		model:     model,
		maxTokens: 4096,
	}
}

// Model returns the configured model ID
func (a *Agent) Model() string {
	return a.model
}

// Run executes the agent loop: the model calls tools until stop_reason is
// "end_turn" or no tool calls remain. Tool failures are fed back to the
// model as error results; they never abort the loop.
func (a *Agent) Run(ctx context.Context, systemPrompt, userPrompt string, agentTools []tools.Tool) (*RunResult, error) {
	anthToolParams := make([]anthropic.ToolUnionUnionParam, len(agentTools))
	for i, t := range agentTools {
		var propsRaw interface{}
		if props, ok := t.InputSchema["properties"]; ok {
			propsRaw = props
		}

		schema := map[string]interface{}{
			"type":       "object",
			"properties": propsRaw,
		}
		if required, ok := t.InputSchema["required"]; ok {
			schema["required"] = required
		}
		anthToolParams[i] = anthropic.ToolParam{
			Name:        anthropic.String(t.Name),
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.F[interface{}](schema),
		}
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
	}

	res := &RunResult{}
	maxIter := 10

	for iter := 0; iter < maxIter; iter++ {
		params := anthropic.MessageNewParams{
			Model:     anthropic.F(anthropic.Model(a.model)),
			MaxTokens: anthropic.F(int64(a.maxTokens)),
			Messages:  anthropic.F(messages),
			Tools:     anthropic.F(anthToolParams),
		}
		if systemPrompt != "" {
			params.System = anthropic.F([]anthropic.TextBlockParam{
				anthropic.NewTextBlock(systemPrompt),
			})
		}

		resp, err := a.client.Messages.New(ctx, params)
		if err != nil {
			return res, fmt.Errorf("LLM call failed: %w", err)
		}
		res.Usage.InputTokens += resp.Usage.InputTokens
		res.Usage.OutputTokens += resp.Usage.OutputTokens

		var textContent string
		var pendingToolCalls []ToolCall

		for _, block := range resp.Content {
			switch b := block.AsUnion().(type) {
			case anthropic.TextBlock:
				textContent += b.Text
			case anthropic.ToolUseBlock:
				var input map[string]interface{}
				if err := json.Unmarshal(b.Input, &input); err != nil {
					log.Warn().Err(err).Str("tool", b.Name).Msg("failed to parse tool input")
					input = map[string]interface{}{}
				}
				pendingToolCalls = append(pendingToolCalls, ToolCall{
					ID:    b.ID,
					Name:  b.Name,
					Input: input,
				})
			}
		}

		log.Debug().
			Int("iter", iter).
			Str("stop_reason", string(resp.StopReason)).
			Str("text_preview", preview(textContent, 80)).
			Int("tool_calls", len(pendingToolCalls)).
			Msg("agent iteration")

		isDone := resp.StopReason == "end_turn" ||
			resp.StopReason == "stop" ||
			resp.StopReason == "stop_sequence" ||
			resp.StopReason == "max_tokens" ||
			len(pendingToolCalls) == 0
		if isDone {
			res.Text = textContent
			return res, nil
		}

		// Force a final answer near the cap to avoid runaway loops
		if iter >= 7 {
			messages = append(messages, resp.ToParam())
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock("You have enough information. Please provide your final answer now without calling any more tools."),
			))
			params := anthropic.MessageNewParams{
				Model:     anthropic.F(anthropic.Model(a.model)),
				MaxTokens: anthropic.F(int64(a.maxTokens)),
				Messages:  anthropic.F(messages),
			}
			if systemPrompt != "" {
				params.System = anthropic.F([]anthropic.TextBlockParam{anthropic.NewTextBlock(systemPrompt)})
			}
			finalResp, err := a.client.Messages.New(ctx, params)
			if err != nil {
				res.Text = textContent
				return res, fmt.Errorf("final answer call failed: %w", err)
			}
			res.Usage.InputTokens += finalResp.Usage.InputTokens
			res.Usage.OutputTokens += finalResp.Usage.OutputTokens
			for _, block := range finalResp.Content {
				if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
					textContent += b.Text
				}
			}
			res.Text = textContent
			return res, nil
		}

		messages = append(messages, resp.ToParam())

		var toolResults []anthropic.ContentBlockParamUnion
		for _, tc := range pendingToolCalls {
			res.ToolsUsed = append(res.ToolsUsed, tc.Name)
			result, execErr := executeTool(ctx, tc, agentTools)
			if execErr != nil {
				log.Warn().Err(execErr).Str("tool", tc.Name).Msg("tool execution error")
				result = fmt.Sprintf("error: %v", execErr)
			} else {
				res.LastToolResult = result
			}
			toolResults = append(toolResults, anthropic.NewToolResultBlock(tc.ID, result, execErr != nil))
		}
		messages = append(messages, anthropic.NewUserMessage(toolResults...))
	}

	return res, fmt.Errorf("agent loop exceeded max iterations (%d)", maxIter)
}

// Complete is the bare model invocation: one request, no tools
func (a *Agent) Complete(ctx context.Context, systemPrompt, prompt string) (string, Usage, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(a.model)),
		MaxTokens: anthropic.F(int64(a.maxTokens)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	}
	if systemPrompt != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(systemPrompt),
		})
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", Usage{}, fmt.Errorf("LLM call failed: %w", err)
	}

	usage := Usage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	var text string
	for _, block := range resp.Content {
		if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}
	return text, usage, nil
}

func executeTool(ctx context.Context, tc ToolCall, agentTools []tools.Tool) (string, error) {
	for _, t := range agentTools {
		if t.Name == tc.Name {
			return t.Execute(ctx, tc.Input)
		}
	}
	return "", fmt.Errorf("unknown tool: %s", tc.Name)
}

func preview(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
