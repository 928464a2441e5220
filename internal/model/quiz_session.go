package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionMode enumerates how a quiz session was assembled.
type SessionMode string

const (
	SessionModeSingleYear SessionMode = "SINGLE_YEAR"
	SessionModeYearMix    SessionMode = "YEAR_MIX"
	SessionModeRetry      SessionMode = "RETRY"
)

// SessionStatus enumerates quiz session states.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusGraded     SessionStatus = "GRADED"
)

// QuizSessionView is what the client sees of its active session.
type QuizSessionView struct {
	ID               uuid.UUID         `json:"id"`
	Mode             SessionMode       `json:"mode"`
	Status           SessionStatus     `json:"status"`
	ScoringYearID    int               `json:"scoring_year_id"`
	StartedAt        time.Time         `json:"started_at"`
	Deadline         time.Time         `json:"deadline"`
	RemainingSeconds int               `json:"remaining_seconds"`
	Questions        []QuestionForUser `json:"questions"`
	Answers          []*int            `json:"answers"`
}

// StartSingleYearRequest starts a session from one exam year.
type StartSingleYearRequest struct {
	YearID int `json:"year_id" binding:"required,min=1"`
}

// StartYearMixRequest starts a session mixing several exam years.
// Each entry may itself be a comma-separated list ("201601,201602").
type StartYearMixRequest struct {
	Years []string `json:"years" binding:"required,min=1,dive,required,max=200"`
}

// AnswerRequest records or clears (null) the chosen index for one question.
type AnswerRequest struct {
	Choice *int `json:"choice" binding:"omitempty,min=0,max=8"`
}
