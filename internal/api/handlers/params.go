package handlers

import (
	"strconv"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.InvalidInput(name, "must be a valid UUID")
	}
	return id, nil
}

// pageQuery reads page and limit; the services clamp out-of-range values.
func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.InvalidInput("body", "must be a valid JSON object")
	}
	return nil
}
