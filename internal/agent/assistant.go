// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/migrateforce/demo-create-api-gateway/internal/config"
	"github.com/migrateforce/demo-create-api-gateway/internal/errors"
	"github.com/migrateforce/demo-create-api-gateway/internal/metrics"
)

// fallbackAnswer is returned when the model keeps requesting tools past the
// iteration budget. The requested invocations have already been executed at
// that point; only the natural-language phrasing is missing.
const fallbackAnswer = "Your request was processed, but no final summary could be produced. " +
	"Check the provisioning records for the outcome of any executed actions."

// newChatProvider builds the appropriate ChatProvider based on cfg.AI.Provider.
func newChatProvider(cfg *config.Config) (ChatProvider, error) {
	provider := strings.ToLower(cfg.AI.Provider)
	switch provider {
	case "anthropic":
		apiKey := cfg.AI.AnthropicAPIKey
		if apiKey == "" {
			apiKey = cfg.AI.APIKey
		}
		if apiKey == "" {
			return nil, fmt.Errorf("Anthropic API key is not set in configuration")
		}
		return NewAnthropicProvider(apiKey), nil
	default: // "openai" or empty
		apiKey := cfg.AI.OpenAIAPIKey
		if apiKey == "" {
			apiKey = cfg.AI.APIKey
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key is not set in configuration")
		}
		return NewOpenAIProvider(apiKey, cfg.AI.BaseURL), nil
	}
}

// Assistant turns a free-text instruction into a final answer, executing any
// tool invocations the model requests along the way. Each call to Respond
// builds its own conversation; no state is shared across requests.
type Assistant struct {
	cfg        *config.Config
	provider   ChatProvider
	dispatcher Dispatcher
	logger     zerolog.Logger
}

// NewAssistant creates an Assistant with the provider selected by the
// configuration.
func NewAssistant(cfg *config.Config, dispatcher Dispatcher, logger zerolog.Logger) (*Assistant, error) {
	provider, err := newChatProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewAssistantWithProvider(cfg, provider, dispatcher, logger), nil
}

// NewAssistantWithProvider creates an Assistant with an explicit provider,
// bypassing configuration-based selection.
func NewAssistantWithProvider(cfg *config.Config, provider ChatProvider, dispatcher Dispatcher, logger zerolog.Logger) *Assistant {
	return &Assistant{
		cfg:        cfg,
		provider:   provider,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Respond runs the orchestration flow for one instruction:
//
//  1. Ask the completion service whether the instruction maps to a tool call.
//  2. If the model answered in plain text, return that text verbatim.
//  3. Otherwise execute every requested invocation in order, appending one
//     tool-role result message per invocation.
//  4. Ask the completion service again so it can phrase a final answer from
//     the results.
//
// Completion-service errors are fatal for the request. Tool execution errors
// are not: the dispatcher folds them into error-status results that the model
// sees like any other outcome.
func (a *Assistant) Respond(ctx context.Context, instruction string) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		return "", errors.InvalidInput("instruction must not be empty")
	}

	tools := a.dispatcher.Definitions()
	systemMsg := buildSystemMessage(tools)
	msgs := []Message{
		{Role: RoleUser, Content: instruction},
	}

	maxIterations := a.cfg.AI.MaxToolIterations
	for i := 0; i < maxIterations; i++ {
		resp, err := a.createCompletion(ctx, systemMsg, msgs, tools)
		if err != nil {
			a.logger.Error().Err(err).Int("iteration", i+1).Msg("chat completion failed")
			return "", err
		}

		if len(resp.ToolCalls) == 0 {
			a.logger.Info().Int("iterations", i+1).Msg("assistant answered")
			return resp.Content, nil
		}

		// Record the assistant turn that requested the calls, then fold every
		// invocation's result into the conversation before the next round.
		msgs = append(msgs, *resp)
		a.logger.Debug().Int("tool_calls", len(resp.ToolCalls)).Int("iteration", i+1).Msg("dispatching tool calls")
		for _, call := range resp.ToolCalls {
			out := a.dispatcher.Dispatch(ctx, call)
			msgs = append(msgs, Message{
				Role:       RoleTool,
				Content:    out,
				ToolCallID: call.ID,
			})
		}
	}

	a.logger.Warn().Int("max_iterations", maxIterations).Msg("model kept requesting tools; returning fallback answer")
	return fallbackAnswer, nil
}

func (a *Assistant) createCompletion(ctx context.Context, systemMsg string, msgs []Message, tools []ToolDefinition) (*Message, error) {
	start := time.Now()
	resp, err := a.provider.CreateCompletion(ctx, a.cfg.AI.Model, systemMsg, msgs, tools)
	metrics.CompletionDuration.WithLabelValues(strings.ToLower(a.cfg.AI.Provider)).Observe(time.Since(start).Seconds())
	return resp, err
}

// buildSystemMessage establishes the assistant's role and tool-usage policy.
// Tool schemas are not repeated here; the API delivers them separately.
func buildSystemMessage(tools []ToolDefinition) string {
	var b strings.Builder
	b.WriteString("You are an assistant that helps users manage cloud API gateways. ")
	if len(tools) > 0 {
		b.WriteString("When the user asks to create an API gateway and provides a project, an API identifier, " +
			"a region and an OpenAPI spec location, call the appropriate tool with exactly those values. ")
		b.WriteString("Do not invent argument values; if something required is missing, ask for it instead of calling a tool. ")
		b.WriteString("After a tool has run, summarize its result for the user in plain language, " +
			"including resource names on success and the failure reason otherwise. ")
	}
	b.WriteString("For anything unrelated to gateways, just answer normally.")
	return b.String()
}
