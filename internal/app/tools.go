package app

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"tripscout/internal/adapters/observability"
	"tripscout/internal/calc"
)

// Tool is one function the agent may call. Parameters is a JSON-schema
// object in the shape chat-completion APIs expect.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Run         func(ctx context.Context, args map[string]any) string
}

// ToolRegistry maps tool names to executors. Tool failures are returned as
// strings, never as errors: the agent relays them to the model as tool
// output.
type ToolRegistry struct {
	tools map[string]Tool
	order []string
}

func NewToolRegistry(reviews *ReviewService) *ToolRegistry {
	r := &ToolRegistry{tools: make(map[string]Tool)}

	r.register(Tool{
		Name: "get_place_reviews",
		Description: "Get reviews for a place (hotel, restaurant, attraction) from both Google Places and TripAdvisor. " +
			"Returns place information, ratings and the latest reviews from both sources, " +
			"with a warning when the two sources found different places.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"place_name": map[string]any{
					"type":        "string",
					"description": "Name of the place to search for, e.g. 'Eiffel Tower' or 'Starbucks'",
				},
				"location": map[string]any{
					"type":        "string",
					"description": "Optional location context to narrow the search, e.g. 'Paris, France'",
				},
			},
			"required": []string{"place_name"},
		},
		Run: func(ctx context.Context, args map[string]any) string {
			return reviews.GetCombinedReviews(ctx, strArg(args, "place_name"), strArg(args, "location"))
		},
	})

	r.register(Tool{
		Name:        "calculate",
		Description: "Calculate a mathematical expression, e.g. '2 + 2' or '(5 + 3) * 2'. Returns the result as a string.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{
					"type":        "string",
					"description": "The arithmetic expression to evaluate",
				},
			},
			"required": []string{"expression"},
		},
		Run: func(ctx context.Context, args map[string]any) string {
			v, err := calc.Eval(strArg(args, "expression"))
			if err != nil {
				return "Error: " + err.Error()
			}
			return "Result: " + strconv.FormatFloat(v, 'g', -1, 64)
		},
	})

	return r
}

func (r *ToolRegistry) register(t Tool) {
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// List returns the tools in registration order.
func (r *ToolRegistry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.tools[n])
	}
	return out
}

// Execute decodes argsJSON and runs the named tool.
func (r *ToolRegistry) Execute(ctx context.Context, name, argsJSON string) string {
	t, ok := r.tools[name]
	if !ok {
		observability.ObserveTool(name, errors.New("unknown tool"))
		return "Error: unknown tool: " + name
	}

	args := map[string]any{}
	if strings.TrimSpace(argsJSON) != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			observability.ObserveTool(name, err)
			return "Error: invalid tool arguments: " + err.Error()
		}
	}

	log.Info().Str("tool", name).Msg("executing tool")
	out := t.Run(ctx, args)
	observability.ObserveTool(name, nil)
	return out
}

func strArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
