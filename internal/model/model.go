// SPDX-License-Identifier: AGPL-3.0-only
package model

import (
	"encoding/json"
	"time"
)

// Action result status values. The status discriminator is serialized verbatim
// into the tool-role message fed back to the model.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ProvisionArgs are the arguments of the create_api_gateway tool. The JSON
// schema advertised to the model is generated from this struct; every field is
// required and unlisted fields are rejected.
type ProvisionArgs struct {
	Project string `json:"project" jsonschema:"description=Cloud project identifier the resources are created in" validate:"required"`
	APIID   string `json:"apiId" jsonschema:"description=Identifier for the API; the config and gateway names are derived from it" validate:"required"`
	Region  string `json:"region" jsonschema:"description=Deployment region for the gateway (e.g. us-central1)" validate:"required"`
	APISpec string `json:"apiSpec" jsonschema:"description=Path or URI of the OpenAPI document describing the API" validate:"required"`
}

// ResourceNames holds the fully-qualified names of the three created resources.
type ResourceNames struct {
	API       string `json:"api,omitempty"`
	APIConfig string `json:"apiConfig,omitempty"`
	Gateway   string `json:"gateway,omitempty"`
}

// ActionResult is the structured outcome of a tool invocation. It is
// serialized to JSON and appended to the conversation as a tool-role message.
// A success carries the created resource names; an error carries the
// underlying message. The names reflect accepted creation calls only; the
// resource service provisions asynchronously and readiness is not awaited.
type ActionResult struct {
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Resources *ResourceNames `json:"resources,omitempty"`
}

// ErrorResult builds an error-status ActionResult.
func ErrorResult(message string) *ActionResult {
	return &ActionResult{Status: StatusError, Message: message}
}

// SuccessResult builds a success-status ActionResult.
func SuccessResult(names ResourceNames) *ActionResult {
	return &ActionResult{Status: StatusSuccess, Resources: &names}
}

// JSON serializes the result for the tool-role message. Marshaling a value of
// this shape cannot fail; the fallback exists so callers never feed an empty
// payload back to the model.
func (r *ActionResult) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"status":"error","message":"failed to serialize action result"}`
	}
	return string(b)
}

// ProvisionRecord is one audit row describing a provisioning attempt.
type ProvisionRecord struct {
	ToolCallID string    `json:"toolCallId"`
	Project    string    `json:"project"`
	APIID      string    `json:"apiId"`
	Region     string    `json:"region"`
	APISpec    string    `json:"apiSpec"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	API        string    `json:"api,omitempty"`
	APIConfig  string    `json:"apiConfig,omitempty"`
	Gateway    string    `json:"gateway,omitempty"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Duration   string    `json:"duration"`
}

// AuditStore persists provisioning attempts. A nil store disables auditing.
type AuditStore interface {
	SaveProvision(record *ProvisionRecord) error
	ListProvisions(limit int) ([]*ProvisionRecord, error)
	Close() error
}
