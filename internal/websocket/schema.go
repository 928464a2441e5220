package websocket

import (
	"github.com/google/uuid"
	"github.com/kakomon/kakomon-backend/internal/quiz"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer Action = "answer"
	ActionSubmit Action = "submit"
	ActionPing   Action = "ping"
)

// Request is any client message. Index and Choice are used by answer;
// a null choice clears the slot.
type Request struct {
	Action Action `json:"action" binding:"required,oneof=answer submit ping"`
	Index  *int   `json:"index" binding:"omitempty,min=0"`
	Choice *int   `json:"choice" binding:"omitempty,min=0,max=8"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventTick     Event = "tick"
	EventAnswered Event = "answered"
	EventGraded   Event = "graded"
	EventPong     Event = "pong"
)

// TickResponse is pushed once per second while a session is in progress.
type TickResponse struct {
	Event            Event     `json:"event"`
	SessionID        uuid.UUID `json:"session_id"`
	RemainingSeconds int       `json:"remaining_seconds"`
}

type AnsweredResponse struct {
	Event  Event `json:"event"`
	Index  int   `json:"index"`
	Choice *int  `json:"choice"`
}

// GradedResponse is pushed once when the session is graded, whether by
// manual submit or by timeout.
type GradedResponse struct {
	Event     Event        `json:"event"`
	SessionID uuid.UUID    `json:"session_id"`
	Trigger   quiz.Trigger `json:"trigger"`
	Result    *quiz.Result `json:"result"`
}

type ErrorResponse struct {
	Event   Event  `json:"event"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
