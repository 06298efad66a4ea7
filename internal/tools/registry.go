// SPDX-License-Identifier: AGPL-3.0-only
package tools

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/migrateforce/demo-create-api-gateway/internal/agent"
	"github.com/migrateforce/demo-create-api-gateway/internal/errors"
	"github.com/migrateforce/demo-create-api-gateway/internal/metrics"
	"github.com/migrateforce/demo-create-api-gateway/internal/model"
)

// Handler executes one tool invocation. Failures are reported as error-status
// results, never as Go errors.
type Handler func(ctx context.Context, call agent.ToolCall) *model.ActionResult

// Tool pairs a definition advertised to the model with its handler.
type Tool struct {
	Definition agent.ToolDefinition
	Handle     Handler
}

// Registry is the static tool catalog. It is built once at process start and
// never mutated afterwards, so the definitions offered on the first completion
// call of a request are identical on the reconciliation call.
type Registry struct {
	defs     []agent.ToolDefinition
	handlers map[string]Handler
	logger   zerolog.Logger
}

var _ agent.Dispatcher = (*Registry)(nil)

// NewRegistry builds a registry from the given tools.
func NewRegistry(logger zerolog.Logger, tools ...Tool) *Registry {
	r := &Registry{
		defs:     make([]agent.ToolDefinition, 0, len(tools)),
		handlers: make(map[string]Handler, len(tools)),
		logger:   logger,
	}
	for _, t := range tools {
		r.defs = append(r.defs, t.Definition)
		r.handlers[t.Definition.Name] = t.Handle
	}
	return r
}

// Definitions returns the catalog advertised to the model.
func (r *Registry) Definitions() []agent.ToolDefinition {
	return r.defs
}

// Dispatch routes a model-requested invocation to its handler and returns the
// serialized ActionResult. An invocation naming a tool absent from the catalog
// yields an error-status result identifying the unknown name.
func (r *Registry) Dispatch(ctx context.Context, call agent.ToolCall) string {
	handler, ok := r.handlers[call.Name]
	if !ok {
		r.logger.Warn().Str("tool", call.Name).Msg("model requested a tool absent from the catalog")
		metrics.RecordToolCall(call.Name, model.StatusError)
		return model.ErrorResult(errors.UnknownTool(call.Name).Error()).JSON()
	}

	result := handler(ctx, call)
	metrics.RecordToolCall(call.Name, result.Status)
	r.logger.Info().
		Str("tool", call.Name).
		Str("tool_call_id", call.ID).
		Str("status", result.Status).
		Msg("tool call dispatched")
	return result.JSON()
}
