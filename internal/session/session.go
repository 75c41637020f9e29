// Package session runs one quiz practice session: it draws a shuffled
// working set from the question bank, accepts one answer per question,
// forwards progress updates and scores the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/kubika/internal/progress"
	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/store"
)

var (
	ErrAlreadyAnswered   = errors.New("question already answered")
	ErrUnknownQuestion   = errors.New("question not in working set")
	ErrUnknownOption     = errors.New("option not found")
	ErrEmptyWorkingSet   = errors.New("working set is empty")
	ErrInvalidTransition = errors.New("invalid transition")
)

// Reporter receives progress updates. Calls are synchronous and ordered.
type Reporter interface {
	Report(ctx context.Context, updates []progress.Update)
}

// Recorder is an audit sink for session activity. Failures are logged and
// never affect the session.
type Recorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
}

// Engine drives a single session. It is not safe for concurrent use.
type Engine struct {
	bank     *questionbank.Bank
	reporter Reporter
	recorder Recorder
	logger   *zap.Logger
	rng      *rand.Rand
	now      func() time.Time
	ctx      context.Context
	userID   string

	state *sessionState
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the shuffle source.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRecorder attaches an audit recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithUser tags recorded events with userID.
func WithUser(userID string) Option {
	return func(e *Engine) { e.userID = userID }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithContext sets the context passed to the reporter and recorder.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// NewEngine creates an engine over bank. A nil bank behaves as an empty one
// and a nil reporter drops updates.
func NewEngine(bank *questionbank.Bank, reporter Reporter, opts ...Option) *Engine {
	if bank == nil {
		bank = questionbank.Empty()
	}
	e := &Engine{
		bank:     bank,
		reporter: reporter,
		logger:   zap.NewNop(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
		ctx:      context.Background(),
		state:    &sessionState{phase: PhaseBuilding},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle applies ev to the engine. A rejected event returns an error and
// leaves the engine unchanged.
func (e *Engine) Handle(ev Event) error {
	switch ev := ev.(type) {
	case BuildEvent:
		if e.state.phase == PhaseFinishing {
			return fmt.Errorf("build while finishing: %w", ErrInvalidTransition)
		}
		e.build(ev.Filter)
		return nil

	case ReshuffleEvent:
		if e.state.phase == PhaseFinishing || e.state.phase == PhaseFinished {
			return fmt.Errorf("reshuffle while %s: %w", e.state.phase, ErrInvalidTransition)
		}
		e.build(e.state.filter)
		return nil

	case AnswerEvent:
		return e.answer(ev.QuestionID, ev.OptionID)

	case FinishEvent:
		return e.requestFinish()

	case ConfirmFinishEvent:
		if e.state.phase != PhaseFinishing {
			return fmt.Errorf("confirm finish while %s: %w", e.state.phase, ErrInvalidTransition)
		}
		if !ev.Confirm {
			e.state.phase = PhaseAnswering
			return nil
		}
		e.finish()
		return nil

	case RepeatEvent:
		if e.state.phase != PhaseFinished {
			return fmt.Errorf("repeat while %s: %w", e.state.phase, ErrInvalidTransition)
		}
		e.build(e.state.filter)
		return nil

	default:
		return fmt.Errorf("unknown event %T: %w", ev, ErrInvalidTransition)
	}
}

// Build draws a new working set for filter.
func (e *Engine) Build(filter questionbank.Filter) error {
	return e.Handle(BuildEvent{Filter: filter})
}

// Reshuffle draws a new working set with the current filter.
func (e *Engine) Reshuffle() error {
	return e.Handle(ReshuffleEvent{})
}

// SubmitAnswer answers questionID with optionID.
func (e *Engine) SubmitAnswer(questionID, optionID string) error {
	return e.Handle(AnswerEvent{QuestionID: questionID, OptionID: optionID})
}

// RequestFinish asks to end the session. With unanswered questions the engine
// moves to PhaseFinishing and waits for ConfirmFinish.
func (e *Engine) RequestFinish() error {
	return e.Handle(FinishEvent{})
}

// ConfirmFinish resolves a pending finish.
func (e *Engine) ConfirmFinish(confirm bool) error {
	return e.Handle(ConfirmFinishEvent{Confirm: confirm})
}

// Repeat starts a new session with the same filter.
func (e *Engine) Repeat() error {
	return e.Handle(RepeatEvent{})
}

func (e *Engine) build(filter questionbank.Filter) {
	ws := e.bank.Filter(filter)
	e.rng.Shuffle(len(ws), func(i, j int) { ws[i], ws[j] = ws[j], ws[i] })

	e.state = newSessionState(uuid.New().String(), filter, ws, e.now())

	e.logger.Debug("session built",
		zap.String("session_id", e.state.id),
		zap.String("topic", filter.TopicLabel()),
		zap.String("difficulty", filter.DifficultyLabel()),
		zap.Int("questions", len(ws)))

	e.record(func(r Recorder) error {
		return r.AppendSessionEvent(e.ctx, store.SessionEventData{
			SessionID:      e.state.id,
			UserID:         e.userID,
			Action:         store.SessionActionStart,
			Topic:          filter.TopicLabel(),
			Difficulty:     filter.DifficultyLabel(),
			TotalQuestions: len(ws),
		})
	})
}

func (e *Engine) answer(questionID, optionID string) error {
	s := e.state
	if s.phase != PhaseAnswering {
		return fmt.Errorf("answer while %s: %w", s.phase, ErrInvalidTransition)
	}
	q, ok := s.question(questionID)
	if !ok {
		return fmt.Errorf("answer %q: %w", questionID, ErrUnknownQuestion)
	}
	if _, answered := s.answers[questionID]; answered {
		return fmt.Errorf("answer %q: %w", questionID, ErrAlreadyAnswered)
	}
	opt, ok := q.Option(optionID)
	if !ok {
		return fmt.Errorf("answer %q with %q: %w", questionID, optionID, ErrUnknownOption)
	}

	rec := AnswerRecord{
		QuestionID:       q.ID,
		SelectedOptionID: opt.ID,
		IsCorrect:        opt.IsCorrect,
		Topic:            q.Topic,
		AnsweredAt:       e.now(),
	}
	s.answers[q.ID] = rec

	e.report([]progress.Update{{Topic: string(q.Topic), IsCorrect: rec.IsCorrect}})

	e.record(func(r Recorder) error {
		return r.AppendAnswerEvent(e.ctx, store.AnswerEventData{
			SessionID:  s.id,
			UserID:     e.userID,
			QuestionID: q.ID,
			OptionID:   opt.ID,
			Topic:      string(q.Topic),
			Difficulty: string(q.Difficulty),
			Correct:    rec.IsCorrect,
		})
	})
	return nil
}

func (e *Engine) requestFinish() error {
	s := e.state
	if s.phase != PhaseAnswering {
		return fmt.Errorf("finish while %s: %w", s.phase, ErrInvalidTransition)
	}
	if len(s.workingSet) == 0 {
		return ErrEmptyWorkingSet
	}
	if len(s.answers) < len(s.workingSet) {
		s.phase = PhaseFinishing
		return nil
	}
	e.finish()
	return nil
}

// finish reports every unanswered question as wrong in one batch, then
// computes the result.
func (e *Engine) finish() {
	s := e.state

	unanswered := s.unanswered()
	if len(unanswered) > 0 {
		updates := make([]progress.Update, len(unanswered))
		for i, q := range unanswered {
			updates[i] = progress.Update{Topic: string(q.Topic), IsCorrect: false}
		}
		e.report(updates)
	}

	now := e.now()
	s.result = buildResult(s, now)
	s.phase = PhaseFinished

	e.logger.Info("session finished",
		zap.String("session_id", s.id),
		zap.Int("total", s.result.TotalQuestions),
		zap.Int("correct", s.result.CorrectAnswers),
		zap.Int("unanswered", s.result.Unanswered))

	e.record(func(r Recorder) error {
		return r.AppendSessionEvent(e.ctx, store.SessionEventData{
			SessionID:      s.id,
			UserID:         e.userID,
			Action:         store.SessionActionEnd,
			Topic:          s.filter.TopicLabel(),
			Difficulty:     s.filter.DifficultyLabel(),
			TotalQuestions: s.result.TotalQuestions,
			CorrectAnswers: s.result.CorrectAnswers,
			Unanswered:     s.result.Unanswered,
			DurationSecs:   int(now.Sub(s.startedAt).Seconds()),
		})
	})
}

func (e *Engine) report(updates []progress.Update) {
	if e.reporter == nil {
		return
	}
	e.reporter.Report(e.ctx, updates)
}

func (e *Engine) record(fn func(Recorder) error) {
	if e.recorder == nil {
		return
	}
	if err := fn(e.recorder); err != nil {
		e.logger.Warn("record session event failed",
			zap.String("session_id", e.state.id), zap.Error(err))
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.state.phase }

// Filter returns the filter of the current working set.
func (e *Engine) Filter() questionbank.Filter { return e.state.filter }

// SessionID returns the current session id, empty before the first build.
func (e *Engine) SessionID() string { return e.state.id }

// UserID returns the user recorded events are tagged with.
func (e *Engine) UserID() string { return e.userID }

// WorkingSet returns a copy of the current working set in display order.
func (e *Engine) WorkingSet() []questionbank.Question {
	out := make([]questionbank.Question, len(e.state.workingSet))
	for i, q := range e.state.workingSet {
		out[i] = q.Clone()
	}
	return out
}

// Answer returns the record for questionID, if answered.
func (e *Engine) Answer(questionID string) (AnswerRecord, bool) {
	rec, ok := e.state.answers[questionID]
	return rec, ok
}

// AnsweredCount returns the number of answered questions.
func (e *Engine) AnsweredCount() int { return len(e.state.answers) }

// UnansweredCount returns the number of questions still open.
func (e *Engine) UnansweredCount() int {
	return len(e.state.workingSet) - len(e.state.answers)
}

// CorrectCount returns the number of correct answers so far.
func (e *Engine) CorrectCount() int { return e.state.correctCount() }

// NeedsConfirmation reports whether a finish is waiting for confirmation.
func (e *Engine) NeedsConfirmation() bool { return e.state.phase == PhaseFinishing }

// Result returns the result of a finished session, or nil.
func (e *Engine) Result() *Result { return e.state.result }
