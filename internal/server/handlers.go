// SPDX-License-Identifier: AGPL-3.0-only
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/migrateforce/demo-create-api-gateway/internal/errors"
)

type chatRequest struct {
	UserMessage string `json:"userMessage" binding:"required"`
}

type chatResponse struct {
	AssistantResponse string `json:"assistantResponse"`
}

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// handleChat is the single assistant endpoint: it relays the instruction to
// the orchestration flow under the configured request deadline.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: true, Message: "userMessage is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.Server.RequestTimeout)
	defer cancel()

	answer, err := s.assistant.Respond(ctx, req.UserMessage)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperrors.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		s.logger.Error().Err(err).Msg("assistant request failed")
		_ = c.Error(err)
		c.JSON(status, errorResponse{Error: true, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, chatResponse{AssistantResponse: answer})
}

// handleListProvisions returns the most recent provisioning audit records.
func (s *Server) handleListProvisions(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: true, Message: "provision auditing is disabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: true, Message: "limit must be a positive integer"})
		return
	}

	records, err := s.store.ListProvisions(limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list provisions")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: true, Message: "failed to list provisions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"provisions": records})
}
