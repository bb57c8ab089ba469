package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/apperrors"
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	portssvc "github.com/pennywise-app/pennywise-backend/internal/core/ports/services"
	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// transactionHandler handles similar-transaction search, category assignment
// and manual exclusions on entries of either kind.
type transactionHandler struct {
	similarService  portssvc.SimilarSvcFacade
	categoryService portssvc.CategorySvcFacade
	flagService     portssvc.FlagSvcFacade
}

func newTransactionHandler(ss portssvc.SimilarSvcFacade, cs portssvc.CategorySvcFacade, fs portssvc.FlagSvcFacade) *transactionHandler {
	return &transactionHandler{
		similarService:  ss,
		categoryService: cs,
		flagService:     fs,
	}
}

// registerTransactionRoutes registers entry-level routes.
func registerTransactionRoutes(rg *gin.RouterGroup, ss portssvc.SimilarSvcFacade, cs portssvc.CategorySvcFacade, fs portssvc.FlagSvcFacade) {
	h := newTransactionHandler(ss, cs, fs)

	txns := rg.Group("/transactions")
	{
		txns.GET("/similar", h.findSimilar)
		txns.POST("/:kind/:id/category", h.assignCategory)
		txns.POST("/:kind/:id/exclusion", h.setManualExclusion)
		txns.DELETE("/:kind/:id/exclusion", h.clearManualExclusion)
	}
}

func (h *transactionHandler) findSimilar(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	merchantName := c.Query("merchantName")
	if merchantName == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "merchantName query parameter is required"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	query := domain.SimilarQuery{}
	if excludeID := c.Query("excludeID"); excludeID != "" {
		query.ExcludeID = excludeID
		query.ExcludeKind = domain.EntryKind(c.Query("excludeKind"))
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from must be RFC3339"})
			return
		}
		query.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "to must be RFC3339"})
			return
		}
		query.To = &to
	}

	result, err := h.similarService.FindSimilarTransactions(c.Request.Context(), userID, merchantName, query)
	if err != nil {
		logger.Error("Similar transaction search failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to find similar transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSimilarTransactionsResponse(result))
}

func (h *transactionHandler) assignCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind, ok := entryKindParam(c)
	if !ok {
		return
	}

	var req dto.AssignCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.categoryService.AssignCategory(c.Request.Context(), userID, kind, c.Param("id"), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Entry or category not found"})
			return
		}
		logger.Error("Failed to assign category", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to assign category"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *transactionHandler) setManualExclusion(c *gin.Context) {
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

	if err := h.flagService.SetManualExclusion(c.Request.Context(), userID, kind, c.Param("id")); err != nil {
		logger.Error("Failed to set manual exclusion", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to exclude entry"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *transactionHandler) clearManualExclusion(c *gin.Context) {
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

	if err := h.flagService.ClearManualExclusion(c.Request.Context(), userID, kind, c.Param("id")); err != nil {
		logger.Error("Failed to clear manual exclusion", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to clear exclusion"})
		return
	}

	c.Status(http.StatusNoContent)
}
