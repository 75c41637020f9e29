package session

import "github.com/abhisek/kubika/internal/questionbank"

// Event is an input to Engine.Handle.
type Event interface {
	event()
}

// BuildEvent draws a fresh working set for Filter, discarding the current one.
type BuildEvent struct {
	Filter questionbank.Filter
}

// ReshuffleEvent draws a fresh working set with the current filter.
type ReshuffleEvent struct{}

// AnswerEvent submits OptionID as the answer to QuestionID.
type AnswerEvent struct {
	QuestionID string
	OptionID   string
}

// FinishEvent requests the end of the session.
type FinishEvent struct{}

// ConfirmFinishEvent answers the confirmation raised by a FinishEvent with
// unanswered questions.
type ConfirmFinishEvent struct {
	Confirm bool
}

// RepeatEvent starts a new session with the same filter after a finish.
type RepeatEvent struct{}

func (BuildEvent) event()         {}
func (ReshuffleEvent) event()     {}
func (AnswerEvent) event()        {}
func (FinishEvent) event()        {}
func (ConfirmFinishEvent) event() {}
func (RepeatEvent) event()        {}
