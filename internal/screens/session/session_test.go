package session

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kubika/internal/identity"
	"github.com/abhisek/kubika/internal/progress"
	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/router"
	"github.com/abhisek/kubika/internal/screen"
	"github.com/abhisek/kubika/internal/screens/summary"
	sess "github.com/abhisek/kubika/internal/session"
)

func testBank(t *testing.T) *questionbank.Bank {
	t.Helper()
	mk := func(id string, topic questionbank.Topic, difficulty questionbank.Difficulty) questionbank.Question {
		q, err := questionbank.NewQuestion(id, "Hitung volume "+id, []questionbank.Option{
			{ID: "a", Text: "8 cm³", IsCorrect: true},
			{ID: "b", Text: "6 cm³"},
			{ID: "c", Text: "4 cm³"},
		}, "Volume = s × s × s", topic, difficulty)
		if err != nil {
			t.Fatalf("NewQuestion(%s): %v", id, err)
		}
		return q
	}
	bank, err := questionbank.New([]questionbank.Question{
		mk("c1", questionbank.TopicCube, questionbank.DifficultyEasy),
		mk("c2", questionbank.TopicCube, questionbank.DifficultyMedium),
		mk("s1", questionbank.TopicSphere, questionbank.DifficultyEasy),
	})
	if err != nil {
		t.Fatalf("New bank: %v", err)
	}
	return bank
}

func newTestScreen(t *testing.T) (*SessionScreen, *progress.Tracker) {
	t.Helper()
	id := identity.NewStatic("Budi")
	tracker := progress.NewTracker(nil, id)
	deps := screen.Deps{
		Bank:     testBank(t),
		Tracker:  tracker,
		Identity: id,
	}
	s := New(deps, sess.WithRand(rand.New(rand.NewPCG(1, 2))))
	return s, tracker
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func press(s *SessionScreen, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(key(k))
	}
	return cmd
}

// answerCurrent opens the question under the cursor and answers it, picking
// the correct option when correct is true.
func answerCurrent(t *testing.T, s *SessionScreen, correct bool) {
	t.Helper()
	press(s, "enter")
	if s.mode != modeQuestion {
		t.Fatalf("expected question mode, got %v", s.mode)
	}
	q, _ := s.currentQuestion()
	target := 0
	for i, o := range q.Options {
		if o.IsCorrect == correct {
			target = i
			break
		}
	}
	for i := 0; i < target; i++ {
		press(s, "j")
	}
	press(s, "enter")
}

func TestNewBuildsWholeBank(t *testing.T) {
	s, _ := newTestScreen(t)

	if got := len(s.engine.WorkingSet()); got != 3 {
		t.Errorf("expected 3 questions, got %d", got)
	}
	if s.engine.Phase() != sess.PhaseAnswering {
		t.Errorf("expected answering phase, got %s", s.engine.Phase())
	}
	if s.engine.UserID() != "budi" {
		t.Errorf("expected user 'budi', got %q", s.engine.UserID())
	}
}

func TestTopicFilterRebuilds(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, "t")

	ws := s.engine.WorkingSet()
	if len(ws) != 2 {
		t.Fatalf("expected 2 cube questions, got %d", len(ws))
	}
	for _, q := range ws {
		if q.Topic != questionbank.TopicCube {
			t.Errorf("unexpected topic %q in working set", q.Topic)
		}
	}
	if !strings.Contains(s.View(100, 40), "Kubus") {
		t.Error("expected selected topic in the view")
	}
}

func TestDifficultyFilterRebuilds(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, "d")

	if got := len(s.engine.WorkingSet()); got != 2 {
		t.Errorf("expected 2 easy questions, got %d", got)
	}
}

func TestFilterWithoutMatchesShowsMessage(t *testing.T) {
	s, _ := newTestScreen(t)

	// cube → cuboid → cylinder → cone
	press(s, "t", "t", "t", "t")

	if got := len(s.engine.WorkingSet()); got != 0 {
		t.Fatalf("expected empty working set, got %d", got)
	}
	if !strings.Contains(s.View(100, 40), noMatchText) {
		t.Error("expected no-match message in the view")
	}

	press(s, "f")
	if s.notice == "" {
		t.Error("expected a notice when finishing an empty working set")
	}
}

func TestAnswerUpdatesEngineAndTracker(t *testing.T) {
	s, tracker := newTestScreen(t)

	answerCurrent(t, s, true)

	if s.engine.AnsweredCount() != 1 {
		t.Fatalf("expected 1 answer, got %d", s.engine.AnsweredCount())
	}
	if !s.picker.Answered() {
		t.Error("expected picker to show the submitted answer")
	}
	if !strings.Contains(s.View(100, 40), "Benar!") {
		t.Error("expected correct feedback in the view")
	}

	agg := tracker.Current(context.Background())
	if agg.TotalQuestions != 1 || agg.CorrectAnswers != 1 {
		t.Errorf("expected 1/1 tracked, got %d/%d", agg.CorrectAnswers, agg.TotalQuestions)
	}
}

func TestWrongAnswerShowsCorrectOption(t *testing.T) {
	s, _ := newTestScreen(t)

	answerCurrent(t, s, false)

	view := s.View(100, 40)
	if !strings.Contains(view, "Jawaban benar: 8 cm³") {
		t.Error("expected the correct answer in the view")
	}
	if !strings.Contains(view, "Pembahasan") {
		t.Error("expected the explanation card in the view")
	}
}

func TestEnterAfterAnswerMovesToNextUnanswered(t *testing.T) {
	s, _ := newTestScreen(t)

	answerCurrent(t, s, true)
	first := s.cursor
	press(s, "enter")

	if s.mode != modeQuestion {
		t.Fatalf("expected question mode, got %v", s.mode)
	}
	if s.cursor == first {
		t.Error("expected the cursor to move to another question")
	}
	if s.picker.Answered() {
		t.Error("expected a fresh picker for the next question")
	}
}

func TestEscapeInQuestionReturnsToList(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, "enter")
	if !s.HandlesEscape() {
		t.Error("expected the screen to handle Esc in question mode")
	}
	press(s, "esc")

	if s.mode != modeList {
		t.Errorf("expected list mode, got %v", s.mode)
	}
	if s.HandlesEscape() {
		t.Error("expected Esc to be left to the app in list mode")
	}
}

func TestFinishWithUnansweredAsksConfirmation(t *testing.T) {
	s, _ := newTestScreen(t)

	answerCurrent(t, s, true)
	press(s, "esc")
	if cmd := press(s, "f"); cmd != nil {
		t.Error("expected no result before confirmation")
	}

	if s.mode != modeConfirm {
		t.Fatalf("expected confirm mode, got %v", s.mode)
	}
	if !strings.Contains(s.View(100, 40), "Anda belum menjawab") {
		t.Error("expected the confirmation prompt in the view")
	}

	press(s, "n")
	if s.mode != modeList {
		t.Errorf("expected list mode after declining, got %v", s.mode)
	}
	if s.engine.Phase() != sess.PhaseAnswering {
		t.Errorf("expected answering phase after declining, got %s", s.engine.Phase())
	}
}

func TestConfirmFinishPushesResult(t *testing.T) {
	s, tracker := newTestScreen(t)

	answerCurrent(t, s, true)
	press(s, "esc", "f")
	cmd := press(s, "y")

	if cmd == nil {
		t.Fatal("expected a command pushing the result screen")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}

	res := s.engine.Result()
	if res == nil || res.CorrectAnswers != 1 || res.Unanswered != 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	// Unanswered questions are tracked as wrong.
	agg := tracker.Current(context.Background())
	if agg.TotalQuestions != 3 || agg.CorrectAnswers != 1 {
		t.Errorf("expected 1/3 tracked, got %d/%d", agg.CorrectAnswers, agg.TotalQuestions)
	}
}

func TestFinishWhenAllAnsweredSkipsConfirmation(t *testing.T) {
	s, _ := newTestScreen(t)

	for i := 0; i < 3; i++ {
		s.cursor = i
		answerCurrent(t, s, true)
		press(s, "esc")
	}
	cmd := press(s, "f")

	if cmd == nil {
		t.Fatal("expected the result to be pushed immediately")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Errorf("expected PushScreenMsg, got %T", cmd())
	}
	if s.engine.Phase() != sess.PhaseFinished {
		t.Errorf("expected finished phase, got %s", s.engine.Phase())
	}
}

func TestRepeatAfterFinish(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, "t")
	press(s, "f", "y")
	runID := s.engine.SessionID()

	press(s, "u")

	if s.engine.Phase() != sess.PhaseAnswering {
		t.Errorf("expected answering phase, got %s", s.engine.Phase())
	}
	if s.engine.SessionID() == runID {
		t.Error("expected a new session id")
	}
	if s.engine.Filter().Topic != questionbank.TopicCube {
		t.Errorf("expected the cube filter to be kept, got %q", s.engine.Filter().Topic)
	}
}

func TestReshuffleKeepsFilterAndClearsAnswers(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, "t")
	answerCurrent(t, s, true)
	press(s, "esc", "s")

	if s.engine.AnsweredCount() != 0 {
		t.Errorf("expected answers cleared, got %d", s.engine.AnsweredCount())
	}
	if got := len(s.engine.WorkingSet()); got != 2 {
		t.Errorf("expected 2 cube questions, got %d", got)
	}
}

func TestResumeReturnsToList(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, "enter")
	s.Update(screen.ResumeMsg{})

	if s.mode != modeList {
		t.Errorf("expected list mode after resume, got %v", s.mode)
	}
}

func TestEmptyBankShowsNoQuestions(t *testing.T) {
	s := New(screen.Deps{Bank: questionbank.Empty()})

	if !strings.Contains(s.View(100, 40), noQuestionsText) {
		t.Error("expected no-questions message for an empty bank")
	}
}
