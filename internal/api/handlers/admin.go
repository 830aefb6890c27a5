package handlers

import (
	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/services"
	"github.com/clientscore/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the moderation endpoints. Every route sits behind
// RequireRole(ADMIN).
type AdminHandler struct {
	moderation *services.ModerationService
	aggregates *services.AggregationEngine
	auth       *services.AuthService
}

func NewAdminHandler(moderation *services.ModerationService, aggregates *services.AggregationEngine, auth *services.AuthService) *AdminHandler {
	return &AdminHandler{moderation: moderation, aggregates: aggregates, auth: auth}
}

func (h *AdminHandler) PendingReviews(c *gin.Context) {
	page, limit := pageQuery(c)
	queue, err := h.moderation.Pending(c.Request.Context(), page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Pending reviews retrieved successfully", queue)
}

func (h *AdminHandler) ModerateReview(c *gin.Context) {
	reviewID, err := uuidParam(c, "id")
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	var req services.SetModerationRequest
	if err := bindJSON(c, &req); err != nil {
		utils.SendAppError(c, err)
		return
	}
	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		utils.SendAppError(c, apperrors.Validation(fields))
		return
	}

	review, err := h.moderation.SetStatus(c.Request.Context(), reviewID, req.Status, utils.SanitizeString(req.Notes))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Review moderated successfully", review)
}

func (h *AdminHandler) RecomputeBusiness(c *gin.Context) {
	businessID, err := uuidParam(c, "id")
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	aggregates, err := h.aggregates.Recompute(c.Request.Context(), businessID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Aggregates recomputed", aggregates)
}

func (h *AdminHandler) SetAccountSuspension(c *gin.Context) {
	accountID, err := uuidParam(c, "id")
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	var req struct {
		Suspended *bool `json:"suspended"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.SendAppError(c, err)
		return
	}
	if req.Suspended == nil {
		utils.SendAppError(c, apperrors.InvalidInput("suspended", "is required"))
		return
	}

	account, err := h.auth.SetSuspended(c.Request.Context(), accountID, *req.Suspended)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Account updated", account)
}
