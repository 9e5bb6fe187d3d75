package session

import "github.com/verte-zerg/typemaster/internal/model"

// Feedback classifies a keystroke by the scoring branch it triggered.
type Feedback int

// Keystroke feedback kinds.
const (
	FeedbackNeutral Feedback = iota
	FeedbackCorrect
	FeedbackIncorrect
)

func (f Feedback) String() string {
	switch f {
	case FeedbackCorrect:
		return "correct"
	case FeedbackIncorrect:
		return "incorrect"
	default:
		return "neutral"
	}
}

// Listener receives session events. Calls happen after the session lock is
// released, in the order the events occurred, so a listener may read the
// session back.
type Listener interface {
	ScoreChanged(score int)
	Keystroke(feedback Feedback)
	CountdownStarted()
	CountdownWarning(remaining int)
	Ended(result model.SessionResult)
}

// NopListener ignores every event. Embed it to implement a subset.
type NopListener struct{}

func (NopListener) ScoreChanged(int) {}
func (NopListener) Keystroke(Feedback) {}
func (NopListener) CountdownStarted() {}
func (NopListener) CountdownWarning(int) {}
func (NopListener) Ended(model.SessionResult) {}

// Listeners fans events out to several listeners.
type Listeners []Listener

func (ls Listeners) ScoreChanged(score int) {
	for _, l := range ls {
		l.ScoreChanged(score)
	}
}

func (ls Listeners) Keystroke(feedback Feedback) {
	for _, l := range ls {
		l.Keystroke(feedback)
	}
}

func (ls Listeners) CountdownStarted() {
	for _, l := range ls {
		l.CountdownStarted()
	}
}

func (ls Listeners) CountdownWarning(remaining int) {
	for _, l := range ls {
		l.CountdownWarning(remaining)
	}
}

func (ls Listeners) Ended(result model.SessionResult) {
	for _, l := range ls {
		l.Ended(result)
	}
}
