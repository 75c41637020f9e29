package screen

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/kubika/internal/identity"
	"github.com/abhisek/kubika/internal/progress"
	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/session"
	"github.com/abhisek/kubika/internal/store"
)

// HistorySource reads finished sessions back from the event log.
type HistorySource interface {
	SessionHistory(ctx context.Context, userID string, opts store.QueryOpts) ([]store.SessionSummaryRecord, error)
	AnswerStats(ctx context.Context, userID string) ([]store.TopicAnswerStats, error)
}

// Deps are the services shared by every screen. Recorder and History are
// optional.
type Deps struct {
	Bank     *questionbank.Bank
	Tracker  *progress.Tracker
	Identity *identity.Static
	Recorder session.Recorder
	History  HistorySource
	Logger   *zap.Logger
}

// CurrentUser returns the signed-in user, empty if none.
func (d Deps) CurrentUser() string {
	if d.Identity == nil {
		return ""
	}
	userID, _ := d.Identity.CurrentUser()
	return userID
}

// Log returns the logger, never nil.
func (d Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
