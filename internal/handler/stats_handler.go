package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kakomon/kakomon-backend/internal/middleware"
	"github.com/kakomon/kakomon-backend/internal/response"
	"github.com/kakomon/kakomon-backend/internal/service"
	"github.com/rs/zerolog"
)

// StatsHandler serves the year catalog, score history and hard questions.
type StatsHandler struct {
	statsService *service.StatsService
	log          zerolog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		log:          log.With().Str("component", "stats_handler").Logger(),
	}
}

// ListYears godoc
// GET /api/v1/public/years
func (h *StatsHandler) ListYears(c *gin.Context) {
	years, err := h.statsService.Years(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("List years failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrLoadFailed)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"years": years})
}

// MyScores godoc
// GET /api/v1/scores/me?year_id=
// year_id narrows the history to one exam year; 0 selects mixed sessions.
func (h *StatsHandler) MyScores(c *gin.Context) {
	var yearID *int
	if raw, ok := c.GetQuery("year_id"); ok {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		yearID = &id
	}

	history, err := h.statsService.History(c.Request.Context(), middleware.UserID(c), yearID)
	if err != nil {
		h.log.Error().Err(err).Msg("List scores failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, history)
}

// HardQuestions godoc
// GET /api/v1/scores/hard-questions
// Returns the ten most-missed questions across all users.
func (h *StatsHandler) HardQuestions(c *gin.Context) {
	top, err := h.statsService.HardQuestions(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Hard question ranking failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": top})
}
