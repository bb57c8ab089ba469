package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pennywise-app/pennywise-backend/internal/apperrors"
	portssvc "github.com/pennywise-app/pennywise-backend/internal/core/ports/services"
	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ruleHandler handles categorization rule management.
type ruleHandler struct {
	ruleService portssvc.RuleSvcFacade
}

func newRuleHandler(rs portssvc.RuleSvcFacade) *ruleHandler {
	return &ruleHandler{ruleService: rs}
}

// registerRuleRoutes registers routes for categorization rules.
func registerRuleRoutes(rg *gin.RouterGroup, rs portssvc.RuleSvcFacade) {
	h := newRuleHandler(rs)

	rules := rg.Group("/rules")
	{
		rules.POST("", h.upsertRule)
		rules.GET("", h.listRules)
		rules.DELETE("/:ruleID", h.deleteRule)
	}
}

func (h *ruleHandler) upsertRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpsertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	rule, updated, err := h.ruleService.UpsertRule(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to upsert rule", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save rule"})
		return
	}

	status := http.StatusCreated
	if updated {
		status = http.StatusOK
	}
	c.JSON(status, dto.UpsertRuleResponse{Rule: dto.ToRuleResponse(rule), Updated: updated})
}

func (h *ruleHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	rules, err := h.ruleService.ListRules(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list rules", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list rules"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRuleResponseSlice(rules))
}

func (h *ruleHandler) deleteRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.ruleService.DeleteRule(c.Request.Context(), userID, c.Param("ruleID")); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Rule not found"})
			return
		}
		logger.Error("Failed to delete rule", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete rule"})
		return
	}

	c.Status(http.StatusNoContent)
}
