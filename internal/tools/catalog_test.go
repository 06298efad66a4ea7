// SPDX-License-Identifier: AGPL-3.0-only
package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/migrateforce/demo-create-api-gateway/internal/agent"
	"github.com/migrateforce/demo-create-api-gateway/internal/logging"
	"github.com/migrateforce/demo-create-api-gateway/internal/model"
)

type fakeProvisioner struct {
	calls  []model.ProvisionArgs
	ids    []string
	result *model.ActionResult
}

func (f *fakeProvisioner) Provision(_ context.Context, toolCallID string, args model.ProvisionArgs) *model.ActionResult {
	f.calls = append(f.calls, args)
	f.ids = append(f.ids, toolCallID)
	if f.result != nil {
		return f.result
	}
	return model.SuccessResult(model.ResourceNames{
		API:       "projects/acme/locations/global/apis/orders-gateway",
		APIConfig: "projects/acme/locations/global/apis/orders-gateway/configs/orders-gateway-config",
		Gateway:   "projects/acme/locations/us-central1/gateways/orders-gateway",
	})
}

func newTestCatalog(p Provisioner) *Registry {
	return NewCatalog(p, logging.GetLogger())
}

const validArgs = `{"project":"acme","apiId":"orders-gateway","region":"us-central1","apiSpec":"gs://bucket/spec.yaml"}`

func decodeResult(t *testing.T, payload string) *model.ActionResult {
	t.Helper()
	var result model.ActionResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("dispatch payload is not a valid ActionResult: %v\npayload: %s", err, payload)
	}
	return &result
}

func TestCatalogDefinition(t *testing.T) {
	reg := newTestCatalog(&fakeProvisioner{})

	defs := reg.Definitions()
	if len(defs) != 1 {
		t.Fatalf("catalog size = %d, want 1", len(defs))
	}
	def := defs[0]
	if def.Name != CreateAPIGatewayTool {
		t.Errorf("tool name = %q, want %q", def.Name, CreateAPIGatewayTool)
	}
	if def.Description == "" {
		t.Error("tool description must not be empty")
	}
}

func TestCatalogSchema(t *testing.T) {
	reg := newTestCatalog(&fakeProvisioner{})
	params := reg.Definitions()[0].Parameters

	if params["type"] != "object" {
		t.Errorf(`schema type = %v, want "object"`, params["type"])
	}
	if extra, ok := params["additionalProperties"].(bool); !ok || extra {
		t.Errorf("additionalProperties = %v, want false", params["additionalProperties"])
	}

	props, ok := params["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("schema properties missing: %v", params)
	}
	required, _ := params["required"].([]interface{})
	reqSet := map[string]bool{}
	for _, r := range required {
		if s, ok := r.(string); ok {
			reqSet[s] = true
		}
	}
	for _, field := range []string{"project", "apiId", "region", "apiSpec"} {
		prop, ok := props[field].(map[string]interface{})
		if !ok {
			t.Errorf("schema property %q missing", field)
			continue
		}
		if prop["type"] != "string" {
			t.Errorf("property %q type = %v, want string", field, prop["type"])
		}
		if desc, _ := prop["description"].(string); desc == "" {
			t.Errorf("property %q has no description", field)
		}
		if !reqSet[field] {
			t.Errorf("property %q should be required", field)
		}
	}
	if len(reqSet) != 4 {
		t.Errorf("required set = %v, want exactly the four fields", required)
	}
}

func TestDispatchValidArguments(t *testing.T) {
	p := &fakeProvisioner{}
	reg := newTestCatalog(p)

	payload := reg.Dispatch(context.Background(), agent.ToolCall{
		ID:        "call_1",
		Name:      CreateAPIGatewayTool,
		Arguments: validArgs,
	})
	result := decodeResult(t, payload)

	if result.Status != model.StatusSuccess {
		t.Errorf("status = %q, want success (message: %s)", result.Status, result.Message)
	}
	if len(p.calls) != 1 {
		t.Fatalf("provisioner invoked %d times, want 1", len(p.calls))
	}
	if p.ids[0] != "call_1" {
		t.Errorf("tool call id = %q, want call_1", p.ids[0])
	}
	got := p.calls[0]
	if got.Project != "acme" || got.APIID != "orders-gateway" || got.Region != "us-central1" || got.APISpec != "gs://bucket/spec.yaml" {
		t.Errorf("parsed args = %+v", got)
	}
	if result.Resources == nil || result.Resources.Gateway == "" {
		t.Error("success result should carry resource names")
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	p := &fakeProvisioner{}
	reg := newTestCatalog(p)

	payload := reg.Dispatch(context.Background(), agent.ToolCall{
		ID:        "call_2",
		Name:      "delete_all_gateways",
		Arguments: `{}`,
	})
	result := decodeResult(t, payload)

	if result.Status != model.StatusError {
		t.Errorf("status = %q, want error", result.Status)
	}
	if !strings.Contains(result.Message, "delete_all_gateways") {
		t.Errorf("message = %q, want the unknown tool named", result.Message)
	}
	if len(p.calls) != 0 {
		t.Error("provisioner must not run for an unknown tool")
	}
}

func TestDispatchMalformedArguments(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"invalid JSON", `{"project":`},
		{"missing required field", `{"project":"acme","apiId":"orders-gateway","region":"us-central1"}`},
		{"empty required field", `{"project":"acme","apiId":"","region":"us-central1","apiSpec":"gs://b/s.yaml"}`},
		{"unlisted field", `{"project":"acme","apiId":"g","region":"us-central1","apiSpec":"gs://b/s.yaml","tier":"premium"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvisioner{}
			reg := newTestCatalog(p)

			payload := reg.Dispatch(context.Background(), agent.ToolCall{
				ID:        "call_3",
				Name:      CreateAPIGatewayTool,
				Arguments: tt.args,
			})
			result := decodeResult(t, payload)

			if result.Status != model.StatusError {
				t.Errorf("status = %q, want error", result.Status)
			}
			if len(p.calls) != 0 {
				t.Error("provisioner must not run for invalid arguments")
			}
		})
	}
}

func TestDispatchErrorResultPassthrough(t *testing.T) {
	p := &fakeProvisioner{result: model.ErrorResult("quota exceeded")}
	reg := newTestCatalog(p)

	payload := reg.Dispatch(context.Background(), agent.ToolCall{
		ID:        "call_4",
		Name:      CreateAPIGatewayTool,
		Arguments: validArgs,
	})
	result := decodeResult(t, payload)

	if result.Status != model.StatusError {
		t.Errorf("status = %q, want error", result.Status)
	}
	if result.Message != "quota exceeded" {
		t.Errorf("message = %q, want the underlying failure message", result.Message)
	}
}
