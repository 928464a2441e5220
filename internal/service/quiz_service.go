package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/metrics"
	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/kakomon/kakomon-backend/internal/quiz"
	"github.com/rs/zerolog"
)

// Quiz service errors.
var (
	ErrNoActiveSession  = errors.New("no active quiz session")
	ErrSessionNotGraded = errors.New("quiz session is not graded yet")
)

const persistTimeout = 5 * time.Second

// ScoreSubmitter accepts a graded score for persistence.
type ScoreSubmitter interface {
	Submit(ctx context.Context, rec model.ScoreRecord) error
}

// MissRecorder counts missed questions for the hard-question ranking.
type MissRecorder interface {
	RecordMisses(ctx context.Context, missed []model.Question) error
}

// QuizOptions tunes session timing, grading and presentation.
type QuizOptions struct {
	TimeLimit      time.Duration
	Policy         quiz.PassPolicy
	ShuffleChoices bool
	// ClockResolution overrides the one-second tick. Zero keeps the default.
	ClockResolution time.Duration
}

// QuizOptionsFromConfig maps application config to QuizOptions.
func QuizOptionsFromConfig(cfg *config.Config) QuizOptions {
	return QuizOptions{
		TimeLimit: cfg.QuizTimeLimit,
		Policy: quiz.PassPolicy{
			CategoryFloor: cfg.PassCategoryFloor,
			OverallFloor:  cfg.PassOverallFloor,
		},
		ShuffleChoices: cfg.ShuffleChoices,
	}
}

// activeQuiz pairs a user's session with its running clock.
type activeQuiz struct {
	session *quiz.Session
	clock   *quiz.Clock
}

// QuizService runs quiz sessions: one live session and clock per user.
type QuizService struct {
	assembler *quiz.Assembler
	grader    *quiz.Grader
	missed    quiz.MissedStore
	scores    ScoreSubmitter
	ranking   MissRecorder
	rng       quiz.RandomSource
	opts      QuizOptions
	now       func() time.Time
	log       zerolog.Logger

	mu     sync.Mutex
	active map[int]*activeQuiz
	closed bool

	// background persistence still in flight
	wg sync.WaitGroup
}

// NewQuizService creates a new QuizService. ranking may be nil.
func NewQuizService(
	source quiz.QuestionSource,
	missed quiz.MissedStore,
	scores ScoreSubmitter,
	ranking MissRecorder,
	rng quiz.RandomSource,
	imageBase string,
	opts QuizOptions,
	log zerolog.Logger,
) *QuizService {
	if rng == nil {
		rng = quiz.NewRandomSource(0)
	}
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = quiz.DefaultTimeLimit
	}
	return &QuizService{
		assembler: quiz.NewAssembler(source, missed, rng, imageBase, log),
		grader:    quiz.NewGrader(opts.Policy),
		missed:    missed,
		scores:    scores,
		ranking:   ranking,
		rng:       rng,
		opts:      opts,
		now:       time.Now,
		log:       log.With().Str("component", "quiz_service").Logger(),
		active:    make(map[int]*activeQuiz),
	}
}

// ─── Session start ───

// StartSingleYear starts a session over every question of one year.
func (s *QuizService) StartSingleYear(ctx context.Context, userID, yearID int) (*model.QuizSessionView, error) {
	a, err := s.assembler.SingleYear(ctx, yearID)
	if err != nil {
		return nil, s.rejected(err)
	}
	return s.begin(userID, a), nil
}

// StartYearMix starts a session mixing big groups from several years.
// A list that reduces to one valid year starts a single-year session.
func (s *QuizService) StartYearMix(ctx context.Context, userID int, raw []string) (*model.QuizSessionView, error) {
	ids, err := quiz.ParseYearIDs(raw)
	if err != nil {
		return nil, s.rejected(err)
	}
	if len(ids) == 1 {
		return s.StartSingleYear(ctx, userID, ids[0])
	}

	a, err := s.assembler.YearMix(ctx, ids)
	if err != nil {
		return nil, s.rejected(err)
	}
	return s.begin(userID, a), nil
}

// StartRetry starts a session over the user's latest missed questions.
func (s *QuizService) StartRetry(ctx context.Context, userID int) (*model.QuizSessionView, error) {
	a, err := s.assembler.Retry(ctx, userID)
	if err != nil {
		return nil, s.rejected(err)
	}
	return s.begin(userID, a), nil
}

func (s *QuizService) rejected(err error) error {
	reason := "load_failed"
	switch {
	case errors.Is(err, quiz.ErrInvalidYears):
		reason = "invalid_years"
	case errors.Is(err, quiz.ErrNoUsableYears):
		reason = "no_usable_years"
	case errors.Is(err, quiz.ErrNothingToRetry):
		reason = "nothing_to_retry"
	case errors.Is(err, quiz.ErrNoQuestions):
		reason = "no_questions"
	}
	metrics.RecordSessionRejected(reason)
	return err
}

// begin replaces the user's session with a new one and starts its clock.
// The replaced session is abandoned ungraded.
func (s *QuizService) begin(userID int, a *quiz.Assembly) *model.QuizSessionView {
	if s.opts.ShuffleChoices {
		shuffled := make([]model.Question, len(a.Questions))
		for i, q := range a.Questions {
			shuffled[i] = quiz.ShuffleQuestion(q, s.rng)
		}
		a.Questions = shuffled
	}

	sess := quiz.NewSession(userID, a, s.opts.TimeLimit, s.now())
	entry := &activeQuiz{session: sess}

	var clockOpts []quiz.ClockOption
	if s.opts.ClockResolution > 0 {
		clockOpts = append(clockOpts, quiz.WithResolution(s.opts.ClockResolution))
	}

	s.mu.Lock()
	if prev, ok := s.active[userID]; ok && prev.clock.Stop() {
		s.log.Info().
			Int("user_id", userID).
			Str("session_id", prev.session.ID.String()).
			Msg("Quiz session abandoned")
	}
	s.active[userID] = entry
	entry.clock = quiz.StartClock(s.opts.TimeLimit, func() {
		s.finish(sess, quiz.TriggerTimeout)
	}, clockOpts...)
	s.mu.Unlock()

	metrics.RecordSessionStarted(string(a.Mode))
	s.log.Info().
		Int("user_id", userID).
		Str("session_id", sess.ID.String()).
		Str("mode", string(a.Mode)).
		Int("questions", len(a.Questions)).
		Msg("Quiz session started")

	return s.view(entry)
}

// ─── Answering and grading ───

// Answer records choice for question index. A nil choice clears the slot.
func (s *QuizService) Answer(userID, index int, choice *int) error {
	entry, ok := s.lookup(userID)
	if !ok {
		return ErrNoActiveSession
	}
	c := quiz.Unanswered
	if choice != nil {
		c = *choice
	}
	return entry.session.Answer(index, c)
}

// Submit grades the user's session now. If the clock already graded it,
// Submit waits for that grading to complete and returns its result without
// persisting it again.
func (s *QuizService) Submit(userID int) (*quiz.Result, error) {
	entry, ok := s.lookup(userID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	entry.clock.Stop()
	res, _ := s.finish(entry.session, quiz.TriggerManual)
	return res, nil
}

// finish grades sess once. Done is closed only after the missed set is
// replaced and the score is handed off, so a caller woken by Done sees both.
func (s *QuizService) finish(sess *quiz.Session, trigger quiz.Trigger) (*quiz.Result, bool) {
	res, first := sess.Finish(s.grader, trigger)
	if !first {
		<-sess.Done()
		return res, false
	}
	defer sess.Complete()

	metrics.RecordSessionGraded(string(trigger), res.Pass)
	s.log.Info().
		Int("user_id", sess.UserID).
		Str("session_id", sess.ID.String()).
		Str("trigger", string(trigger)).
		Int("score", res.Score).
		Int("total", res.Total).
		Bool("pass", res.Pass).
		Msg("Quiz session graded")

	s.replaceMissed(sess.UserID, res.Missed)
	s.persist(sess, res)
	return res, true
}

// replaceMissed overwrites the missed set, clearing it when nothing was missed.
func (s *QuizService) replaceMissed(userID int, missed []model.Question) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if len(missed) == 0 {
		err = s.missed.Clear(ctx, userID)
	} else {
		err = s.missed.Store(ctx, userID, missed)
	}
	if err != nil {
		s.log.Error().Err(err).Int("user_id", userID).Msg("Failed to replace missed-question set")
	}
}

// persist submits the score and miss counts without blocking the caller.
// Once Close has started it runs inline instead. Failures are logged only.
func (s *QuizService) persist(sess *quiz.Session, res *quiz.Result) {
	rec := model.ScoreRecord{
		UserID:     sess.UserID,
		YearID:     sess.ScoringYearID,
		Score:      res.Score,
		Total:      res.Total,
		Percent:    res.Percent,
		Categories: res.Categories,
		Pass:       res.Pass,
		GradedAt:   s.now(),
	}
	missed := res.Missed

	s.mu.Lock()
	closed := s.closed
	if !closed {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	if closed {
		s.submitScore(rec, missed)
		return
	}
	go func() {
		defer s.wg.Done()
		s.submitScore(rec, missed)
	}()
}

func (s *QuizService) submitScore(rec model.ScoreRecord, missed []model.Question) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.scores.Submit(ctx, rec); err != nil {
		metrics.RecordScoreSubmitFailed()
		s.log.Error().Err(err).
			Int("user_id", rec.UserID).
			Int("year_id", rec.YearID).
			Msg("Score submission failed")
	}

	if s.ranking != nil {
		if err := s.ranking.RecordMisses(ctx, missed); err != nil {
			s.log.Warn().Err(err).Int("user_id", rec.UserID).Msg("Failed to record misses")
		}
	}
}

// ─── Queries ───

// Current returns the user's session, graded or not.
func (s *QuizService) Current(userID int) (*model.QuizSessionView, error) {
	entry, ok := s.lookup(userID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s.view(entry), nil
}

// Result returns the grading result of the user's session.
func (s *QuizService) Result(userID int) (*quiz.Result, quiz.Trigger, error) {
	entry, ok := s.lookup(userID)
	if !ok {
		return nil, "", ErrNoActiveSession
	}
	res, trigger, graded := entry.session.Result()
	if !graded {
		return nil, "", ErrSessionNotGraded
	}
	return res, trigger, nil
}

// Session returns the user's live session and its clock.
func (s *QuizService) Session(userID int) (*quiz.Session, *quiz.Clock, bool) {
	entry, ok := s.lookup(userID)
	if !ok {
		return nil, nil, false
	}
	return entry.session, entry.clock, true
}

// ActiveSessions counts sessions that are not graded yet.
func (s *QuizService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, entry := range s.active {
		if _, _, graded := entry.session.Result(); !graded {
			n++
		}
	}
	return n
}

// Close stops every clock and waits for in-flight persistence. Sessions
// graded after this point persist synchronously.
func (s *QuizService) Close() {
	s.mu.Lock()
	s.closed = true
	for _, entry := range s.active {
		entry.clock.Stop()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *QuizService) lookup(userID int) (*activeQuiz, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.active[userID]
	return entry, ok
}

// view renders a session for its user. Remaining seconds round up so an
// unexpired session never shows zero.
func (s *QuizService) view(entry *activeQuiz) *model.QuizSessionView {
	sess := entry.session

	status := model.SessionStatusInProgress
	remaining := sess.Remaining(s.now())
	if _, _, graded := sess.Result(); graded {
		status = model.SessionStatusGraded
		remaining = 0
	}

	answers := sess.Answers()
	chosen := make([]*int, len(answers))
	for i, a := range answers {
		if a != quiz.Unanswered {
			c := a
			chosen[i] = &c
		}
	}

	return &model.QuizSessionView{
		ID:               sess.ID,
		Mode:             sess.Mode,
		Status:           status,
		ScoringYearID:    sess.ScoringYearID,
		StartedAt:        sess.StartedAt,
		Deadline:         sess.Deadline,
		RemainingSeconds: int((remaining + time.Second - 1) / time.Second),
		Questions:        questionsForUser(sess.Questions),
		Answers:          chosen,
	}
}

// questionsForUser strips the answer key from session questions.
func questionsForUser(questions []model.Question) []model.QuestionForUser {
	out := make([]model.QuestionForUser, len(questions))
	for i, q := range questions {
		var groupID int
		if def, ok := quiz.GroupOf(q.QuestionNumber); ok {
			groupID = def.ID
		}
		out[i] = model.QuestionForUser{
			Index:          i,
			YearID:         q.YearID,
			YearLabel:      quiz.FormatYearLabel(q.YearID),
			QuestionNumber: q.QuestionNumber,
			GroupID:        groupID,
			Category:       q.Category,
			Prompt:         q.Prompt,
			ReadingPassage: q.ReadingPassage,
			Choices:        q.Choices,
			Image:          q.Image,
		}
	}
	return out
}
