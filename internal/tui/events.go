package tui

import (
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

// tickMsg is posted by the countdown. Ticks from a stopped countdown carry
// an old generation and are dropped.
type tickMsg struct {
	gen int
}

type scoreChangedMsg struct {
	score int
}

type countdownStartedMsg struct{}

type countdownWarningMsg struct {
	remaining int
}

type sessionEndedMsg struct {
	result model.SessionResult
}

// eventQueue collects session events raised during one Update call. The
// session dispatches synchronously, so the host drains the queue right
// after each session call.
type eventQueue struct {
	msgs []any
}

var _ session.Listener = (*eventQueue)(nil)

func (q *eventQueue) ScoreChanged(score int) {
	q.msgs = append(q.msgs, scoreChangedMsg{score: score})
}

func (q *eventQueue) Keystroke(session.Feedback) {}

func (q *eventQueue) CountdownStarted() {
	q.msgs = append(q.msgs, countdownStartedMsg{})
}

func (q *eventQueue) CountdownWarning(remaining int) {
	q.msgs = append(q.msgs, countdownWarningMsg{remaining: remaining})
}

func (q *eventQueue) Ended(result model.SessionResult) {
	q.msgs = append(q.msgs, sessionEndedMsg{result: result})
}

func (q *eventQueue) take() []any {
	msgs := q.msgs
	q.msgs = nil
	return msgs
}
