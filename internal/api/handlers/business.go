package handlers

import (
	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/services"
	"github.com/clientscore/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type BusinessHandler struct {
	businessService *services.BusinessService
}

func NewBusinessHandler(businessService *services.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

func (h *BusinessHandler) Search(c *gin.Context) {
	var filter models.BusinessFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendAppError(c, apperrors.InvalidInput("query", "contains an invalid value"))
		return
	}

	page, err := h.businessService.Search(c.Request.Context(), filter)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Businesses retrieved successfully", page)
}

func (h *BusinessHandler) Create(c *gin.Context) {
	var req models.CreateBusinessRequest
	if err := bindJSON(c, &req); err != nil {
		utils.SendAppError(c, err)
		return
	}

	business, err := h.businessService.Create(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendCreated(c, "Business created successfully", business)
}

func (h *BusinessHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	detail, err := h.businessService.Get(c.Request.Context(), id)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Business retrieved successfully", detail)
}
