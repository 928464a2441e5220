package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kakomon/kakomon-backend/internal/model"
)

// Session errors.
var (
	ErrSessionGraded      = errors.New("session is already graded")
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrChoiceOutOfRange   = errors.New("choice index out of range")
)

// Trigger says what caused grading.
type Trigger string

const (
	TriggerManual  Trigger = "manual"
	TriggerTimeout Trigger = "timeout"
)

// Session is one exam attempt. Answer selection and grading may arrive from
// the clock goroutine and request goroutines, so state is behind mu.
type Session struct {
	ID            uuid.UUID
	UserID        int
	Mode          model.SessionMode
	Questions     []model.Question
	ScoringYearID int
	StartedAt     time.Time
	Deadline      time.Time

	mu        sync.Mutex
	answers   []int
	result    *Result
	trigger   Trigger
	completed bool
	done      chan struct{}
}

// NewSession creates a session from an assembly, all slots unanswered.
func NewSession(userID int, a *Assembly, limit time.Duration, now time.Time) *Session {
	answers := make([]int, len(a.Questions))
	for i := range answers {
		answers[i] = Unanswered
	}
	return &Session{
		ID:            uuid.New(),
		UserID:        userID,
		Mode:          a.Mode,
		Questions:     a.Questions,
		ScoringYearID: a.ScoringYearID,
		StartedAt:     now,
		Deadline:      now.Add(limit),
		answers:       answers,
		done:          make(chan struct{}),
	}
}

// Answer records choice for question index; Unanswered clears the slot.
func (s *Session) Answer(index, choice int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		return ErrSessionGraded
	}
	if index < 0 || index >= len(s.Questions) {
		return ErrQuestionOutOfRange
	}
	if choice != Unanswered && (choice < 0 || choice >= len(s.Questions[index].Choices)) {
		return ErrChoiceOutOfRange
	}
	s.answers[index] = choice
	return nil
}

// Answers returns a copy of the answer slots.
func (s *Session) Answers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.answers))
	copy(out, s.answers)
	return out
}

// Finish grades the session once. The caller that gets first == true owns
// the result's follow-up work and must call Complete afterwards. Later
// callers get the existing result and first == false; they should wait on
// Done before acting on it.
func (s *Session) Finish(g *Grader, trigger Trigger) (res *Result, first bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		return s.result, false
	}
	s.result = g.Grade(s.Questions, s.answers)
	s.trigger = trigger
	return s.result, true
}

// Complete publishes the graded result and closes Done. It is a no-op
// before Finish and on repeated calls.
func (s *Session) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil || s.completed {
		return
	}
	s.completed = true
	close(s.done)
}

// Result returns the grading result once Complete has been called.
func (s *Session) Result() (*Result, Trigger, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.completed {
		return nil, "", false
	}
	return s.result, s.trigger, true
}

// Done is closed when the session is graded and completed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Remaining is the time left until the deadline at now, never negative.
func (s *Session) Remaining(now time.Time) time.Duration {
	if d := s.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}
