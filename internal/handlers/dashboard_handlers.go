package handlers

import (
	"context"
	"net/http"

	"billmaker/internal/common"
	"billmaker/internal/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SummaryProvider yields the dashboard totals for one user.
type SummaryProvider interface {
	GetSummary(ctx context.Context, userID string) (*models.BillSummary, error)
}

type DashboardHandlers struct {
	summaries SummaryProvider
	logger    *zap.Logger
}

func NewDashboardHandlers(summaries SummaryProvider, logger *zap.Logger) *DashboardHandlers {
	return &DashboardHandlers{summaries: summaries, logger: logger}
}

// GetSummary godoc
// @Summary Bill counts and amount totals for the caller
// @Tags dashboard
// @Produce json
// @Success 200 {object} common.SuccessResponse
// @Router /dashboard/summary [get]
func (h *DashboardHandlers) GetSummary(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	summary, err := h.summaries.GetSummary(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, h.logger, "Summary", err)
	}
	return common.SendSuccess(c, http.StatusOK, summary, "")
}
