package handler

import (
	"errors"
	"net/http"

	"github.com/kakomon/kakomon-backend/internal/quiz"
	"github.com/kakomon/kakomon-backend/internal/response"
	"github.com/kakomon/kakomon-backend/internal/service"
)

// quizErrorCode maps engine and service errors to a status and error code.
func quizErrorCode(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, quiz.ErrInvalidYears):
		return http.StatusBadRequest, response.ErrInvalidYears
	case errors.Is(err, quiz.ErrNoUsableYears):
		return http.StatusUnprocessableEntity, response.ErrNoUsableYears
	case errors.Is(err, quiz.ErrNothingToRetry):
		return http.StatusUnprocessableEntity, response.ErrNothingToRetry
	case errors.Is(err, quiz.ErrNoQuestions):
		return http.StatusUnprocessableEntity, response.ErrNoQuestions
	case errors.Is(err, quiz.ErrLoadFailed):
		return http.StatusServiceUnavailable, response.ErrLoadFailed
	case errors.Is(err, service.ErrNoActiveSession):
		return http.StatusNotFound, response.ErrNoActiveSession
	case errors.Is(err, quiz.ErrSessionGraded):
		return http.StatusConflict, response.ErrSessionGraded
	case errors.Is(err, service.ErrSessionNotGraded):
		return http.StatusConflict, response.ErrSessionNotGraded
	case errors.Is(err, quiz.ErrQuestionOutOfRange):
		return http.StatusBadRequest, response.ErrQuestionOutOfRange
	case errors.Is(err, quiz.ErrChoiceOutOfRange):
		return http.StatusBadRequest, response.ErrChoiceOutOfRange
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}
