package feedback

import (
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

// Sink maps session events to cues.
type Sink struct {
	session.NopListener
	player Player
}

// NewSink returns a sink playing through p.
func NewSink(p Player) *Sink {
	return &Sink{player: p}
}

// Keystroke implements session.Listener.
func (s *Sink) Keystroke(f session.Feedback) {
	switch f {
	case session.FeedbackCorrect:
		s.player.Play(CueCorrect)
	case session.FeedbackIncorrect:
		s.player.Play(CueIncorrect)
	default:
		s.player.Play(CueType)
	}
}

// CountdownWarning implements session.Listener.
func (s *Sink) CountdownWarning(int) {
	s.player.Play(CueWarning)
}

// Ended implements session.Listener.
func (s *Sink) Ended(result model.SessionResult) {
	if result.Completed() {
		s.player.Play(CueSuccess)
		return
	}
	s.player.Play(CueGameOver)
}
