package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kakomon/kakomon-backend/internal/middleware"
	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/kakomon/kakomon-backend/internal/response"
	"github.com/kakomon/kakomon-backend/internal/service"
	"github.com/kakomon/kakomon-backend/internal/validator"
	"github.com/rs/zerolog"
)

// QuizHandler handles quiz session endpoints.
type QuizHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		log:         log.With().Str("component", "quiz_handler").Logger(),
	}
}

// StartSingleYear godoc
// POST /api/v1/quiz/single
// Starts a session over every question of one exam year.
func (h *QuizHandler) StartSingleYear(c *gin.Context) {
	var req model.StartSingleYearRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.StartSingleYear(c.Request.Context(), middleware.UserID(c), req.YearID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": view})
}

// StartYearMix godoc
// POST /api/v1/quiz/mix
// Starts a session mixing big groups from several years.
func (h *QuizHandler) StartYearMix(c *gin.Context) {
	var req model.StartYearMixRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.StartYearMix(c.Request.Context(), middleware.UserID(c), req.Years)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": view})
}

// StartRetry godoc
// POST /api/v1/quiz/retry
// Starts a session over the questions missed in the latest graded attempt.
func (h *QuizHandler) StartRetry(c *gin.Context) {
	view, err := h.quizService.StartRetry(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": view})
}

// GetSession godoc
// GET /api/v1/quiz/session
func (h *QuizHandler) GetSession(c *gin.Context) {
	view, err := h.quizService.Current(middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Answer godoc
// PUT /api/v1/quiz/session/answers/:index
// Records the chosen index for one question; a null choice clears it.
func (h *QuizHandler) Answer(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.quizService.Answer(middleware.UserID(c), index, req.Choice); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"index": index, "choice": req.Choice})
}

// Submit godoc
// POST /api/v1/quiz/session/submit
// Grades the session now. Submitting after the timer already graded it
// returns that result.
func (h *QuizHandler) Submit(c *gin.Context) {
	res, err := h.quizService.Submit(middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": res})
}

// GetResult godoc
// GET /api/v1/quiz/session/result
func (h *QuizHandler) GetResult(c *gin.Context) {
	res, trigger, err := h.quizService.Result(middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": res, "trigger": trigger})
}

func (h *QuizHandler) fail(c *gin.Context, err error) {
	status, code := quizErrorCode(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).
			Int("user_id", middleware.UserID(c)).
			Str("request_id", response.RequestID(c)).
			Msg("Quiz request failed")
	}
	response.Fail(c, status, code)
}
