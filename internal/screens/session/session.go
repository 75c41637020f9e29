package session

import (
	"errors"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/router"
	"github.com/abhisek/kubika/internal/screen"
	"github.com/abhisek/kubika/internal/screens/summary"
	sess "github.com/abhisek/kubika/internal/session"
	"github.com/abhisek/kubika/internal/ui/components"
	"github.com/abhisek/kubika/internal/ui/layout"
)

type mode int

const (
	modeList mode = iota
	modeQuestion
	modeConfirm
)

// SessionScreen is the exercise screen: filters, the question list,
// answering and finishing with confirmation.
type SessionScreen struct {
	deps   screen.Deps
	engine *sess.Engine

	topics       components.Selector
	difficulties components.Selector

	mode   mode
	cursor int
	picker components.OptionPicker
	notice string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.EscapeHandler = (*SessionScreen)(nil)

// New creates the exercise screen with a fresh working set over the whole
// bank. Extra engine options are appended after the defaults.
func New(deps screen.Deps, opts ...sess.Option) *SessionScreen {
	engineOpts := []sess.Option{
		sess.WithUser(deps.CurrentUser()),
		sess.WithLogger(deps.Log()),
	}
	if deps.Recorder != nil {
		engineOpts = append(engineOpts, sess.WithRecorder(deps.Recorder))
	}
	engineOpts = append(engineOpts, opts...)

	var reporter sess.Reporter
	if deps.Tracker != nil {
		reporter = deps.Tracker
	}

	s := &SessionScreen{
		deps:         deps,
		engine:       sess.NewEngine(deps.Bank, reporter, engineOpts...),
		topics:       newTopicSelector(),
		difficulties: newDifficultySelector(),
	}
	s.rebuild()
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	return nil
}

func (s *SessionScreen) Title() string {
	return "Latihan"
}

// HandlesEscape keeps Esc inside the screen while a question or the finish
// dialog is open.
func (s *SessionScreen) HandlesEscape() bool {
	return s.mode != modeList
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Selesai"},
			{Key: "N", Description: "Lanjutkan"},
		}
	case modeQuestion:
		if s.picker.Answered() {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Soal berikutnya"},
				{Key: "Esc", Description: "Daftar soal"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓/A-D", Description: "Pilih"},
			{Key: "Enter", Description: "Jawab"},
			{Key: "Esc", Description: "Daftar soal"},
		}
	}
	if s.engine.Phase() == sess.PhaseFinished {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Lihat hasil"},
			{Key: "U", Description: "Ulangi"},
			{Key: "Esc", Description: "Kembali"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Soal"},
		{Key: "Enter", Description: "Buka"},
		{Key: "T/D", Description: "Filter"},
		{Key: "S", Description: "Acak"},
		{Key: "F", Description: "Selesai"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ResumeMsg:
		s.mode = modeList
		s.clampCursor()
		return s, nil

	case tea.KeyPressMsg:
		switch s.mode {
		case modeConfirm:
			return s.updateConfirm(msg)
		case modeQuestion:
			return s.updateQuestion(msg)
		default:
			return s.updateList(msg)
		}
	}
	return s, nil
}

func (s *SessionScreen) updateList(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	s.notice = ""
	ws := s.engine.WorkingSet()

	if s.engine.Phase() == sess.PhaseFinished {
		switch msg.String() {
		case "enter":
			return s, s.showResult()
		case "u":
			s.handle(s.engine.Repeat())
			s.cursor = 0
		}
		return s, nil
	}

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(ws)-1 {
			s.cursor++
		}
	case "t", "right", "l":
		s.topics = s.topics.Next()
		s.rebuild()
	case "T", "left", "h":
		s.topics = s.topics.Prev()
		s.rebuild()
	case "d":
		s.difficulties = s.difficulties.Next()
		s.rebuild()
	case "D":
		s.difficulties = s.difficulties.Prev()
		s.rebuild()
	case "s":
		s.handle(s.engine.Reshuffle())
		s.cursor = 0
	case "enter":
		if len(ws) > 0 {
			s.openQuestion(s.cursor)
		}
	case "f":
		return s, s.requestFinish()
	}
	return s, nil
}

func (s *SessionScreen) updateQuestion(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeList
		return s, nil
	}

	if s.picker.Answered() {
		switch msg.String() {
		case "enter", "n", "space":
			if next, ok := s.nextUnanswered(); ok {
				s.openQuestion(next)
			} else {
				s.mode = modeList
			}
		}
		return s, nil
	}

	if msg.String() == "enter" {
		s.submit()
		return s, nil
	}
	s.picker = s.picker.Update(msg)
	return s, nil
}

func (s *SessionScreen) updateConfirm(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if err := s.engine.ConfirmFinish(true); err != nil {
			s.handle(err)
			s.mode = modeList
			return s, nil
		}
		s.mode = modeList
		return s, s.showResult()
	case "n", "esc":
		s.handle(s.engine.ConfirmFinish(false))
		s.mode = modeList
	}
	return s, nil
}

// rebuild draws a new working set for the selected filters. Answers of the
// previous working set are discarded.
func (s *SessionScreen) rebuild() {
	s.handle(s.engine.Build(filterFor(s.topics, s.difficulties)))
	s.cursor = 0
	s.mode = modeList
}

func (s *SessionScreen) openQuestion(idx int) {
	ws := s.engine.WorkingSet()
	if idx < 0 || idx >= len(ws) {
		return
	}
	q := ws[idx]
	chosen := ""
	if rec, ok := s.engine.Answer(q.ID); ok {
		chosen = rec.SelectedOptionID
	}
	s.cursor = idx
	s.picker = components.NewOptionPicker(q.Options, chosen)
	s.mode = modeQuestion
}

func (s *SessionScreen) submit() {
	q, ok := s.currentQuestion()
	if !ok {
		return
	}
	opt, ok := s.picker.Current()
	if !ok {
		return
	}
	if err := s.engine.SubmitAnswer(q.ID, opt.ID); err != nil {
		s.handle(err)
		return
	}
	s.picker.Chosen = opt.ID
}

// nextUnanswered returns the first unanswered question after the cursor,
// wrapping around.
func (s *SessionScreen) nextUnanswered() (int, bool) {
	ws := s.engine.WorkingSet()
	for i := 1; i <= len(ws); i++ {
		idx := (s.cursor + i) % len(ws)
		if _, answered := s.engine.Answer(ws[idx].ID); !answered {
			return idx, true
		}
	}
	return 0, false
}

func (s *SessionScreen) requestFinish() tea.Cmd {
	if err := s.engine.RequestFinish(); err != nil {
		s.handle(err)
		return nil
	}
	if s.engine.NeedsConfirmation() {
		s.mode = modeConfirm
		return nil
	}
	return s.showResult()
}

func (s *SessionScreen) showResult() tea.Cmd {
	res := s.engine.Result()
	if res == nil {
		return nil
	}
	result := summary.New(s.engine)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: result}
	}
}

func (s *SessionScreen) currentQuestion() (questionbank.Question, bool) {
	ws := s.engine.WorkingSet()
	if s.cursor < 0 || s.cursor >= len(ws) {
		return questionbank.Question{}, false
	}
	return ws[s.cursor], true
}

func (s *SessionScreen) clampCursor() {
	n := len(s.engine.WorkingSet())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// handle turns a rejected event into a notice. Rejections leave the engine
// unchanged, so there is nothing else to do.
func (s *SessionScreen) handle(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, sess.ErrEmptyWorkingSet):
		s.notice = "Tidak ada soal untuk diselesaikan."
	case errors.Is(err, sess.ErrAlreadyAnswered):
		s.notice = "Soal ini sudah dijawab."
	default:
		s.notice = ""
	}
	s.deps.Log().Debug("session event rejected", zap.Error(err))
}
