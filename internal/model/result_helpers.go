// SPDX-License-Identifier: AGPL-3.0-only
package model

import (
	"github.com/rs/zerolog"
)

// PersistAndLogProvision saves an audit record to the store (best-effort) and
// debug-logs it. Store failures never fail the request.
func PersistAndLogProvision(store AuditStore, record *ProvisionRecord, logger zerolog.Logger) {
	if store != nil {
		if err := store.SaveProvision(record); err != nil {
			logger.Warn().Err(err).Str("tool_call_id", record.ToolCallID).Msg("failed to persist provision record")
		}
	}

	logger.Debug().
		Str("tool_call_id", record.ToolCallID).
		Str("status", record.Status).
		Str("api_id", record.APIID).
		Str("duration", record.Duration).
		Msg("provision attempt recorded")
}
