package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	portssvc "github.com/pennywise-app/pennywise-backend/internal/core/ports/services"
	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles duplicate and transfer detection requests.
type reconciliationHandler struct {
	duplicateService portssvc.DuplicateSvcFacade
	transferService  portssvc.TransferSvcFacade
}

func newReconciliationHandler(ds portssvc.DuplicateSvcFacade, ts portssvc.TransferSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		duplicateService: ds,
		transferService:  ts,
	}
}

// registerReconciliationRoutes registers routes for the reconciliation engine.
func registerReconciliationRoutes(rg *gin.RouterGroup, ds portssvc.DuplicateSvcFacade, ts portssvc.TransferSvcFacade) {
	h := newReconciliationHandler(ds, ts)

	rec := rg.Group("/reconciliation")
	{
		rec.POST("/duplicates/detect", h.detectDuplicates)
		rec.POST("/duplicates/:kind/:id/mark", h.markDuplicate)
		rec.POST("/duplicates/:kind/:id/unmark", h.unmarkDuplicate)

		rec.POST("/transfers/detect", h.detectTransfer)
		rec.POST("/transfers/:id/mark", h.markTransfer)
		rec.POST("/transfers/:id/unmark", h.unmarkTransfer)
		rec.POST("/transfers/auto-detect", h.autoDetectTransfers)
	}
}

// entryKindParam parses and validates the :kind path parameter.
func entryKindParam(c *gin.Context) (domain.EntryKind, bool) {
	kind := domain.EntryKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "kind must be receipt or bank_transaction"})
		return "", false
	}
	return kind, true
}

func (h *reconciliationHandler) detectDuplicates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DetectDuplicatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.duplicateService.DetectDuplicates(c.Request.Context(), userID, req.ToDuplicateProbe())
	if err != nil {
		logger.Error("Duplicate detection failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to detect duplicates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDuplicateDetectionResponse(result))
}

func (h *reconciliationHandler) markDuplicate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind, ok := entryKindParam(c)
	if !ok {
		return
	}

	var req dto.MarkDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.duplicateService.MarkAsDuplicate(c.Request.Context(), userID, kind, c.Param("id"), req.LinkedID, domain.EntryKind(req.LinkedKind), req.Confidence)
	if err != nil {
		logger.Error("Failed to mark duplicate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to mark duplicate"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *reconciliationHandler) unmarkDuplicate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind, ok := entryKindParam(c)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.duplicateService.UnmarkDuplicate(c.Request.Context(), userID, kind, c.Param("id")); err != nil {
		logger.Error("Failed to unmark duplicate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to unmark duplicate"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *reconciliationHandler) detectTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DetectTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.transferService.DetectTransfer(c.Request.Context(), userID, req.ToTransferProbe())
	if err != nil {
		logger.Error("Transfer detection failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to detect transfer"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferDetectionResponse(result))
}

func (h *reconciliationHandler) markTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MarkTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.transferService.MarkAsInternalTransfer(c.Request.Context(), userID, c.Param("id"), domain.TransferType(req.TransferType))
	if err != nil {
		logger.Error("Failed to mark transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to mark transfer"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *reconciliationHandler) unmarkTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.transferService.UnmarkInternalTransfer(c.Request.Context(), userID, c.Param("id")); err != nil {
		logger.Error("Failed to unmark transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to unmark transfer"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *reconciliationHandler) autoDetectTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	flagged, err := h.transferService.AutoDetectInternalTransfers(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Transfer auto-detect failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to auto-detect transfers"})
		return
	}

	c.JSON(http.StatusOK, dto.AutoDetectResponse{Flagged: flagged})
}
