// SPDX-License-Identifier: AGPL-3.0-only
package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

// Client is a thin REST client for the resource-management API
// (apigateway.googleapis.com/v1 shape). The base URL is configurable so tests
// and local stand-ins can be pointed at.
//
// Create calls return once the service has accepted the operation; the
// underlying resources are provisioned asynchronously and readiness is not
// awaited here.
type Client struct {
	http *resty.Client
}

// operation is the long-running-operation envelope the create calls return.
type operation struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// apiError is the standard error envelope of the resource-management API.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient creates a resource-management client. tokenSource supplies bearer
// tokens per request; nil disables authentication (tests, local stand-ins).
func NewClient(baseURL string, tokenSource oauth2.TokenSource) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", "gateway-assistant/1.0")

	if tokenSource != nil {
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			tok, err := tokenSource.Token()
			if err != nil {
				return fmt.Errorf("fetch access token: %w", err)
			}
			req.SetAuthToken(tok.AccessToken)
			return nil
		})
	}

	return &Client{http: httpClient}
}

// CreateAPI creates the parent API resource. Returns the operation name on
// acceptance.
func (c *Client) CreateAPI(ctx context.Context, project, apiID string) (string, error) {
	var op operation
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("apiId", apiID).
		SetBody(map[string]string{"displayName": apiID}).
		SetResult(&op).
		SetError(&apiErr).
		Post(fmt.Sprintf("/projects/%s/locations/global/apis", project))
	return operationName(resp, err, &op, &apiErr)
}

// CreateAPIConfig creates an API config under the given API, referencing the
// OpenAPI document.
func (c *Client) CreateAPIConfig(ctx context.Context, project, apiID, configID, specPath string) (string, error) {
	body := map[string]interface{}{
		"displayName": configID,
		"openapiDocuments": []map[string]interface{}{
			{"document": map[string]string{"path": specPath}},
		},
	}

	var op operation
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("apiConfigId", configID).
		SetBody(body).
		SetResult(&op).
		SetError(&apiErr).
		Post(fmt.Sprintf("/projects/%s/locations/global/apis/%s/configs", project, apiID))
	return operationName(resp, err, &op, &apiErr)
}

// CreateGateway creates a gateway in the given region serving the given API
// config (fully-qualified name).
func (c *Client) CreateGateway(ctx context.Context, project, region, gatewayID, configName string) (string, error) {
	body := map[string]string{
		"displayName": gatewayID,
		"apiConfig":   configName,
	}

	var op operation
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("gatewayId", gatewayID).
		SetBody(body).
		SetResult(&op).
		SetError(&apiErr).
		Post(fmt.Sprintf("/projects/%s/locations/%s/gateways", project, region))
	return operationName(resp, err, &op, &apiErr)
}

// Delete removes a resource by its fully-qualified name. Used for
// compensating actions when rollback is enabled.
func (c *Client) Delete(ctx context.Context, name string) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&apiErr).
		Delete("/" + strings.TrimLeft(name, "/"))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return responseError(resp, &apiErr)
	}
	return nil
}

func operationName(resp *resty.Response, err error, op *operation, apiErr *apiError) (string, error) {
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", responseError(resp, apiErr)
	}
	return op.Name, nil
}

// responseError surfaces the service's own message verbatim when present, so
// failures like "quota exceeded" reach the model unchanged.
func responseError(resp *resty.Response, apiErr *apiError) error {
	if apiErr != nil && apiErr.Error.Message != "" {
		return fmt.Errorf("%s", apiErr.Error.Message)
	}
	return fmt.Errorf("resource API returned %s", resp.Status())
}
