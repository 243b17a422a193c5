package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "fieldbook/internal/handler/dto/request"
	resdto "fieldbook/internal/handler/dto/response"
	"fieldbook/internal/handler/middleware"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/commands"
	"fieldbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MatchHandler struct {
	matchCommands commands.MatchCommands
	matchQueries  queries.MatchQueries
}

func NewMatchHandler(matchCommands commands.MatchCommands, matchQueries queries.MatchQueries) *MatchHandler {
	return &MatchHandler{
		matchCommands: matchCommands,
		matchQueries:  matchQueries,
	}
}

func (h *MatchHandler) GetMatch(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
		return
	}

	view, err := h.matchQueries.GetByID(c.Request.Context(), matchID)
	if err != nil {
		if errors.Is(err, errs.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromMatchView(view))
}

func (h *MatchHandler) ListFieldMatches(c *gin.Context) {
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

	views, err := h.matchQueries.ListByFieldDate(c.Request.Context(), fieldID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromMatchViews(views))
}

func (h *MatchHandler) JoinMatch(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
		return
	}

	var req reqdto.JoinMatchRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team id"})
		return
	}

	view, err := h.matchCommands.JoinMatch(c.Request.Context(), matchID, userID, teamID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		case errors.Is(err, errs.ErrMatchNotOpen):
			c.JSON(http.StatusConflict, gin.H{"error": "Match is not open"})
		case errors.Is(err, errs.ErrMatchFull):
			c.JSON(http.StatusConflict, gin.H{"error": "Match is full"})
		case errors.Is(err, errs.ErrAlreadyJoined):
			c.JSON(http.StatusConflict, gin.H{"error": "Already joined this match"})
		case errors.Is(err, errs.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient wallet funds"})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid join request"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromMatchView(view))
}

func (h *MatchHandler) LeaveMatch(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
		return
	}

	view, err := h.matchCommands.LeaveMatch(c.Request.Context(), matchID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		case errors.Is(err, errs.ErrNotJoined):
			c.JSON(http.StatusConflict, gin.H{"error": "Not a player in this match"})
		case errors.Is(err, errs.ErrMatchNotOpen):
			c.JSON(http.StatusConflict, gin.H{"error": "Match is not open"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromMatchView(view))
}
