// SPDX-License-Identifier: AGPL-3.0-only
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"

	"github.com/migrateforce/demo-create-api-gateway/internal/agent"
	"github.com/migrateforce/demo-create-api-gateway/internal/model"
)

// CreateAPIGatewayTool is the name of the one action in the catalog.
const CreateAPIGatewayTool = "create_api_gateway"

// Provisioner executes the resource-creation chain for a validated set of
// arguments. toolCallID correlates audit records with the model's invocation.
type Provisioner interface {
	Provision(ctx context.Context, toolCallID string, args model.ProvisionArgs) *model.ActionResult
}

var validate = validator.New()

// NewCatalog builds the registry holding the create_api_gateway tool.
func NewCatalog(provisioner Provisioner, logger zerolog.Logger) *Registry {
	return NewRegistry(logger, Tool{
		Definition: agent.ToolDefinition{
			Name: CreateAPIGatewayTool,
			Description: "Creates a cloud API Gateway: an API resource, an API config referencing " +
				"the given OpenAPI document, and a gateway serving that config in the given region.",
			Parameters: schemaFor(&model.ProvisionArgs{}),
		},
		Handle: createGatewayHandler(provisioner),
	})
}

// createGatewayHandler decodes and validates the model-supplied arguments
// before handing them to the provisioner. The model's strict-schema guarantee
// is not assumed to hold: malformed payloads and missing required fields
// become error-status results.
func createGatewayHandler(provisioner Provisioner) Handler {
	return func(ctx context.Context, call agent.ToolCall) *model.ActionResult {
		args, err := decodeArgs(call.Arguments)
		if err != nil {
			return model.ErrorResult(fmt.Sprintf("invalid arguments for %s: %v", CreateAPIGatewayTool, err))
		}
		return provisioner.Provision(ctx, call.ID, *args)
	}
}

// decodeArgs parses the raw argument payload, rejecting unlisted fields and
// enforcing the required-field set of the descriptor schema.
func decodeArgs(raw string) (*model.ProvisionArgs, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var args model.ProvisionArgs
	if err := dec.Decode(&args); err != nil {
		return nil, err
	}
	if err := validate.Struct(&args); err != nil {
		return nil, err
	}
	return &args, nil
}

// schemaFor converts a Go struct into the JSON-schema map advertised to the
// model, with the top-level struct inlined and additional properties
// forbidden.
func schemaFor(v interface{}) map[string]interface{} {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := reflector.Reflect(v)

	b, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("marshal tool schema: %v", err))
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(fmt.Sprintf("unmarshal tool schema: %v", err))
	}
	// The completion APIs expect a bare schema object, not a document.
	delete(m, "$schema")
	delete(m, "$id")
	return m
}
