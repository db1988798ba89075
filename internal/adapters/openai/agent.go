// internal/adapters/openai/agent.go
package openaiad

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
	"github.com/rs/zerolog/log"

	"tripscout/internal/app"
	"tripscout/internal/domain"
)

const systemPrompt = `You are a helpful travel assistant. You help users plan trips and answer questions about hotels, restaurants and attractions.

When a user asks about a specific place, use the get_place_reviews tool to fetch reviews and ratings from Google Places and TripAdvisor. Always pass a location when the user has mentioned one. If the tool reports that the two sources found DIFFERENT places, present them separately and ask the user which one they mean. Use the calculate tool for arithmetic (budgets, currency sums, splitting costs).

Base your answers on the tool output; do not invent reviews or ratings.`

// maxToolRounds bounds the tool-call loop; a well-behaved exchange needs
// one or two rounds.
const maxToolRounds = 5

type Agent struct {
	client openai.Client
	model  string
	tools  *app.ToolRegistry
}

func New(apiKey, model string, tools *app.ToolRegistry) *Agent {
	return &Agent{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		tools:  tools,
	}
}

func (a *Agent) Reply(ctx context.Context, history []domain.Message, userMessage string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, m := range history {
		switch m.Role {
		case "user":
			messages = append(messages, openai.UserMessage(m.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userMessage))

	toolParams := a.toolParams()

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    a.model,
			Messages: messages,
			Tools:    toolParams,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("chat completion returned no choices")
		}
		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		assistantParam := msg.ToAssistantMessageParam()
		messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistantParam})
		for _, call := range msg.ToolCalls {
			log.Info().Str("tool", call.Function.Name).Str("id", call.ID).Msg("agent tool call")
			result := a.tools.Execute(ctx, call.Function.Name, call.Function.Arguments)
			messages = append(messages, openai.ToolMessage(result, call.ID))
		}
	}
	return "", fmt.Errorf("tool loop did not converge after %d rounds", maxToolRounds)
}

func (a *Agent) toolParams() []openai.ChatCompletionToolUnionParam {
	var out []openai.ChatCompletionToolUnionParam
	for _, t := range a.tools.List() {
		function := openai.FunctionDefinitionParam{
			Name:       t.Name,
			Parameters: openai.FunctionParameters(t.Parameters),
		}
		if t.Description != "" {
			function.Description = openai.String(t.Description)
		}
		out = append(out, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: function,
				Type:     constant.ValueOf[constant.Function](),
			},
		})
	}
	return out
}
