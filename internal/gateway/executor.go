// SPDX-License-Identifier: AGPL-3.0-only
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/migrateforce/demo-create-api-gateway/internal/metrics"
	"github.com/migrateforce/demo-create-api-gateway/internal/model"
)

// Executor runs the three-step provisioning chain: API, API config, gateway.
// The steps are strictly sequential; each references the previous step's
// resource. Any failure aborts the remaining steps.
//
// Without rollback a partial failure leaves the earlier-created resources
// behind. With rollback enabled, compensating deletes are issued best-effort
// in reverse creation order.
type Executor struct {
	client   *Client
	store    model.AuditStore
	rollback bool
	logger   zerolog.Logger
}

// NewExecutor creates an Executor. store may be nil to disable auditing.
func NewExecutor(client *Client, store model.AuditStore, rollback bool, logger zerolog.Logger) *Executor {
	return &Executor{
		client:   client,
		store:    store,
		rollback: rollback,
		logger:   logger,
	}
}

// Provision executes the chain and reports the outcome as an ActionResult.
// Success means all three creation calls were accepted, not that the
// resources are ready. Every attempt is recorded in the audit store.
func (e *Executor) Provision(ctx context.Context, toolCallID string, args model.ProvisionArgs) *model.ActionResult {
	start := time.Now()
	names, err := e.runChain(ctx, args)
	end := time.Now()

	var result *model.ActionResult
	if err != nil {
		result = model.ErrorResult(err.Error())
	} else {
		result = model.SuccessResult(names)
	}
	metrics.ProvisionDuration.WithLabelValues(result.Status).Observe(end.Sub(start).Seconds())

	record := &model.ProvisionRecord{
		ToolCallID: toolCallID,
		Project:    args.Project,
		APIID:      args.APIID,
		Region:     args.Region,
		APISpec:    args.APISpec,
		Status:     result.Status,
		Message:    result.Message,
		API:        names.API,
		APIConfig:  names.APIConfig,
		Gateway:    names.Gateway,
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start).String(),
	}
	model.PersistAndLogProvision(e.store, record, e.logger)

	return result
}

// runChain performs the creation sequence, returning the names accepted so
// far alongside any error. Compensating deletes for accepted steps are
// collected as the chain advances and invoked on failure when rollback is on.
func (e *Executor) runChain(ctx context.Context, args model.ProvisionArgs) (model.ResourceNames, error) {
	var names model.ResourceNames
	var compensations []func(context.Context) error

	// The step error is surfaced unwrapped: the model should see the
	// service's own message, not a prefix describing our chain.
	fail := func(step string, err error) (model.ResourceNames, error) {
		e.logger.Error().Err(err).Str("step", step).Msg("provisioning step failed")
		if e.rollback {
			e.compensate(ctx, compensations)
		}
		return names, err
	}

	op, err := e.client.CreateAPI(ctx, args.Project, args.APIID)
	if err != nil {
		return fail("create_api", err)
	}
	names.API = fmt.Sprintf("projects/%s/locations/global/apis/%s", args.Project, args.APIID)
	compensations = append(compensations, func(ctx context.Context) error {
		return e.client.Delete(ctx, names.API)
	})
	e.logger.Info().Str("resource", names.API).Str("operation", op).Msg("API creation accepted")

	configID := args.APIID + "-config"
	op, err = e.client.CreateAPIConfig(ctx, args.Project, args.APIID, configID, args.APISpec)
	if err != nil {
		return fail("create_api_config", err)
	}
	names.APIConfig = fmt.Sprintf("%s/configs/%s", names.API, configID)
	compensations = append(compensations, func(ctx context.Context) error {
		return e.client.Delete(ctx, names.APIConfig)
	})
	e.logger.Info().Str("resource", names.APIConfig).Str("operation", op).Msg("API config creation accepted")

	op, err = e.client.CreateGateway(ctx, args.Project, args.Region, args.APIID, names.APIConfig)
	if err != nil {
		return fail("create_gateway", err)
	}
	names.Gateway = fmt.Sprintf("projects/%s/locations/%s/gateways/%s", args.Project, args.Region, args.APIID)
	e.logger.Info().Str("resource", names.Gateway).Str("operation", op).Msg("gateway creation accepted")

	return names, nil
}

// compensate undoes accepted steps in reverse creation order. Failures are
// logged and skipped; compensation never masks the original error.
func (e *Executor) compensate(ctx context.Context, compensations []func(context.Context) error) {
	for i := len(compensations) - 1; i >= 0; i-- {
		if err := compensations[i](ctx); err != nil {
			e.logger.Warn().Err(err).Int("step", i+1).Msg("compensating delete failed")
		}
	}
}
