package handlers

import (
	"github.com/clientscore/backend/internal/api/middleware"
	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/services"
	"github.com/clientscore/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type submitReviewResponse struct {
	Review   *models.PublicReview `json:"review"`
	Business *models.Business     `json:"business"`
}

func (h *ReviewHandler) Submit(c *gin.Context) {
	var req models.SubmitReviewRequest
	if err := bindJSON(c, &req); err != nil {
		utils.SendAppError(c, err)
		return
	}

	review, business, err := h.reviewService.Submit(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendCreated(c, "Review submitted successfully", submitReviewResponse{Review: review, Business: business})
}

func (h *ReviewHandler) ListForBusiness(c *gin.Context) {
	businessID, err := uuidParam(c, "id")
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	page, limit := pageQuery(c)
	reviews, err := h.reviewService.ListForBusiness(c.Request.Context(), businessID, page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) ListMine(c *gin.Context) {
	page, limit := pageQuery(c)
	reviews, err := h.reviewService.ListMine(c.Request.Context(), middleware.CurrentIdentity(c), page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) SetVisibility(c *gin.Context) {
	reviewID, err := uuidParam(c, "id")
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	var req struct {
		IsPublic *bool `json:"isPublic"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.SendAppError(c, err)
		return
	}
	if req.IsPublic == nil {
		utils.SendAppError(c, apperrors.InvalidInput("isPublic", "is required"))
		return
	}

	review, err := h.reviewService.SetVisibility(c.Request.Context(), middleware.CurrentIdentity(c), reviewID, *req.IsPublic)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Review visibility updated", review)
}
