// Package demo runs the canned example queries against the agent and prints
// the results, mirroring what serve mode exposes over HTTP.
package demo

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gearbox-ai/gearbox/internal/agent"
	"github.com/gearbox-ai/gearbox/internal/config"
	"github.com/gearbox-ai/gearbox/internal/service"
	"github.com/gearbox-ai/gearbox/internal/tools"
)

// Queries exercises each of the four built-in tools once
var Queries = []string{
	"What time is it right now?",
	"What is 25 * 4 + 10?",
	"Reverse the string 'Hello World'",
	"What's the weather like today?",
}

const tokenRemediation = `Error: GITHUB_TOKEN not found in environment variables.
To fix this:
  1. Create a .env file in the project root
  2. Add your token: GITHUB_TOKEN=your_token_here
  3. Generate a token at https://github.com/settings/tokens`

// Runner executes the demo queries sequentially and writes human-readable
// output to out
type Runner struct {
	cfg     *config.Config
	out     io.Writer
	noTools bool

	// invoke is replaced in tests; when nil, Run wires the real agent
	invoke func(ctx context.Context, query string) (string, error)
}

func NewRunner(cfg *config.Config, out io.Writer, noTools bool) *Runner {
	return &Runner{cfg: cfg, out: out, noTools: noTools}
}

// Run prints the startup banner, checks the required token, and runs each
// canned query through the agent. A missing token prints remediation steps
// and returns without any network call.
func (r *Runner) Run(ctx context.Context) error {
	fmt.Fprintf(r.out, "Starting %s...\n", r.cfg.AppName)

	if !r.cfg.HasToken() {
		fmt.Fprintln(r.out, tokenRemediation)
		return nil
	}
	fmt.Fprintln(r.out, "GITHUB_TOKEN loaded successfully.")

	registry := tools.Builtin()
	router := service.NewToolRouter()

	if r.invoke == nil {
		ag := agent.New(r.cfg.GitHubToken, r.cfg.Model, r.cfg.ModelBaseURL)
		fmt.Fprintf(r.out, "Model client initialized (%s via %s).\n", r.cfg.Model, r.cfg.ModelBaseURL)

		if r.noTools {
			r.invoke = func(ctx context.Context, query string) (string, error) {
				text, _, err := ag.Complete(ctx, agent.SystemPrompt, query)
				return text, err
			}
		} else {
			r.invoke = func(ctx context.Context, query string) (string, error) {
				res, err := ag.Run(ctx, agent.SystemPrompt, query, registry.List())
				if err != nil {
					return "", err
				}
				if res.Text == "" {
					return res.LastToolResult, nil
				}
				return res.Text, nil
			}
		}
	}

	if r.noTools {
		fmt.Fprintln(r.out, "Running in bare-completion mode: no tools registered.")
	} else {
		fmt.Fprintf(r.out, "Tools registered: %v\n", registry.Names())
	}

	fmt.Fprintln(r.out, "\nRunning example queries:")
	sep := strings.Repeat("-", 50)
	for _, query := range Queries {
		fmt.Fprintln(r.out, sep)
		fmt.Fprintf(r.out, "Query: %s\n", query)

		if !r.noTools {
			if hint := router.Route(query); hint.Tool != "" {
				fmt.Fprintf(r.out, "Expected tool: %s (confidence %.2f)\n", hint.Tool, hint.Confidence)
			}
		}

		queryCtx := ctx
		cancel := func() {}
		if r.cfg.AgentTimeout > 0 {
			queryCtx, cancel = context.WithTimeout(ctx, time.Duration(r.cfg.AgentTimeout)*time.Second)
		}
		result, err := r.invoke(queryCtx, query)
		cancel()
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n\n", err)
			continue
		}
		fmt.Fprintf(r.out, "Result: %s\n\n", result)
	}

	fmt.Fprintln(r.out, sep)
	fmt.Fprintln(r.out, "Agent demo complete.")
	return nil
}
