package api

import (
	"errors"
	"net/http"
	"time"

	resdto "fieldbook/internal/handler/dto/response"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FieldHandler struct {
	fieldQueries queries.FieldQueries
}

func NewFieldHandler(fieldQueries queries.FieldQueries) *FieldHandler {
	return &FieldHandler{fieldQueries: fieldQueries}
}

func (h *FieldHandler) GetAvailability(c *gin.Context) {
	fieldID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field id"})
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	availability, err := h.fieldQueries.Availability(c.Request.Context(), fieldID, date)
	if err != nil {
		if errors.Is(err, errs.ErrFieldNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Field not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailability(availability))
}
