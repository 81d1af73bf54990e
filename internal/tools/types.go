// Package tools defines the Tool interface and the four built-in toy tools
// exposed to the agent.
package tools

import "context"

// Tool represents a callable function the LLM can invoke
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Execute     func(ctx context.Context, input map[string]interface{}) (string, error)
}

// Registry holds tools in registration order and resolves them by name
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.byName[t.Name]; exists {
		return
	}
	r.tools = append(r.tools, t)
	r.byName[t.Name] = t
}

// List returns tools in registration order
func (r *Registry) List() []Tool {
	return r.tools
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names returns tool names in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

// Builtin returns the default toy toolset in the order the demo registers it
func Builtin() *Registry {
	return NewRegistry(
		CalculatorTool(),
		CurrentTimeTool(),
		ReverseStringTool(),
		WeatherTool(),
	)
}
