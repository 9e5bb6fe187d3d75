// Package session implements the typing session state machine: it tracks
// keystroke progress against a fixed passage, keeps a live score and produces
// a final result when the round ends.
//
// All operations are synchronous and short. A single mutex guards the state,
// so a host with more than one goroutine may call into a session safely.
// Operations that arrive in a state that does not accept them are no-ops.
package session

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Start precondition errors.
var (
	ErrEmptyPassage      = errors.New("session: passage is empty")
	ErrUnknownDifficulty = errors.New("session: unknown difficulty")
)

// CharState is the rendering state of one passage position.
type CharState int

// Passage position states.
const (
	CharPending CharState = iota
	CharCorrect
	CharIncorrect
)

// Snapshot is a copy of the live session state.
type Snapshot struct {
	Passage        string
	Input          string
	Difficulty     model.Difficulty
	Status         model.Status
	Reason         model.EndReason
	Score          int
	CorrectCount   int
	IncorrectCount int
	TimeLimit      int
	TimeRemaining  int
	Accuracy       int
	Progress       int
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock used for elapsed time.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithListener sets the receiver of session events.
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listener = l
	}
}

// WithIDGenerator replaces the result ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		s.newID = fn
	}
}

// Session is one attempt from Start to a terminal ended state.
type Session struct {
	mu       sync.Mutex
	now      func() time.Time
	newID    func() string
	listener Listener

	passage    []rune
	input      []rune
	difficulty model.Difficulty
	settings   Settings

	timeLimit     int
	timeRemaining int
	score         int
	correct       int
	incorrect     int

	status    model.Status
	resumeTo  model.Status
	startedAt time.Time
	result    *model.SessionResult
}

type event func(Listener)

// New returns an idle session.
func New(opts ...Option) *Session {
	s := &Session{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms the session with a passage. The countdown does not run until
// the first keystroke or backspace.
func (s *Session) Start(passage string, difficulty model.Difficulty) error {
	if passage == "" {
		return ErrEmptyPassage
	}
	settings, ok := SettingsFor(difficulty)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.passage = []rune(passage)
	s.input = nil
	s.difficulty = difficulty
	s.settings = settings
	s.timeLimit = settings.TimeLimit
	s.timeRemaining = settings.TimeLimit
	s.score = 0
	s.correct = 0
	s.incorrect = 0
	s.status = model.StatusArmed
	s.resumeTo = model.StatusArmed
	s.startedAt = s.now()
	s.result = nil
	return nil
}

// Type appends one typed character.
func (s *Session) Type(ch rune) {
	s.mu.Lock()
	var events []event
	if s.acceptsInput() {
		events = s.armLocked(events)
		s.input = append(s.input, ch)
		var feedback Feedback
		events, feedback = s.recountLocked(events)
		events = append(events, func(l Listener) { l.Keystroke(feedback) })
		if s.inputMatchesPassage() {
			events = s.endLocked(model.ReasonCompleted, events)
		}
	}
	s.mu.Unlock()
	s.dispatch(events)
}

// Backspace removes the last typed character. The first backspace arms the
// countdown even when there is nothing to remove.
func (s *Session) Backspace() {
	s.mu.Lock()
	var events []event
	if s.acceptsInput() {
		events = s.armLocked(events)
		if len(s.input) > 0 {
			s.input = s.input[:len(s.input)-1]
			events, _ = s.recountLocked(events)
		}
	}
	s.mu.Unlock()
	s.dispatch(events)
}

// Tick advances the countdown by one second.
func (s *Session) Tick() {
	s.mu.Lock()
	var events []event
	if s.status == model.StatusRunning {
		if s.timeRemaining > 0 {
			s.timeRemaining--
		}
		if s.timeRemaining == WarningThreshold {
			remaining := s.timeRemaining
			events = append(events, func(l Listener) { l.CountdownWarning(remaining) })
		}
		if s.timeRemaining == 0 {
			events = s.endLocked(model.ReasonTimedOut, events)
		}
	}
	s.mu.Unlock()
	s.dispatch(events)
}

// TogglePause flips between paused and the state the session paused from.
func (s *Session) TogglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case model.StatusArmed, model.StatusRunning:
		s.resumeTo = s.status
		s.status = model.StatusPaused
	case model.StatusPaused:
		s.status = s.resumeTo
	}
}

// Quit ends the session with ReasonQuit unless it already ended.
func (s *Session) Quit() {
	s.mu.Lock()
	var events []event
	switch s.status {
	case model.StatusArmed, model.StatusRunning, model.StatusPaused:
		events = s.endLocked(model.ReasonQuit, events)
	}
	s.mu.Unlock()
	s.dispatch(events)
}

// Status returns the current status.
func (s *Session) Status() model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Result returns the final result once the session has ended.
func (s *Session) Result() (model.SessionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return model.SessionResult{}, false
	}
	return *s.result, true
}

// Snapshot returns a copy of the live state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Passage:        string(s.passage),
		Input:          string(s.input),
		Difficulty:     s.difficulty,
		Status:         s.status,
		Score:          s.score,
		CorrectCount:   s.correct,
		IncorrectCount: s.incorrect,
		TimeLimit:      s.timeLimit,
		TimeRemaining:  s.timeRemaining,
		Accuracy:       accuracyOf(s.correct, len(s.input)),
	}
	if len(s.passage) > 0 {
		snap.Progress = int(math.Round(float64(len(s.input)) / float64(len(s.passage)) * 100))
	}
	if s.result != nil {
		snap.Reason = s.result.Reason
	}
	return snap
}

// CharStates returns the state of every passage position and the cursor
// index, which is -1 once the input covers the whole passage.
func (s *Session) CharStates() ([]CharState, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	states := make([]CharState, len(s.passage))
	for i, want := range s.passage {
		if i >= len(s.input) {
			break
		}
		if s.input[i] == want {
			states[i] = CharCorrect
		} else {
			states[i] = CharIncorrect
		}
	}
	cursor := -1
	if len(s.input) < len(s.passage) {
		cursor = len(s.input)
	}
	return states, cursor
}

func (s *Session) acceptsInput() bool {
	return s.status == model.StatusArmed || s.status == model.StatusRunning
}

func (s *Session) armLocked(events []event) []event {
	if s.status != model.StatusArmed {
		return events
	}
	s.status = model.StatusRunning
	return append(events, func(l Listener) { l.CountdownStarted() })
}

// recountLocked recomputes the positional counts from scratch and applies
// the score delta: forward progress earns points, otherwise a new mistake
// costs a flat penalty. Shrinking input never changes the score.
func (s *Session) recountLocked(events []event) ([]event, Feedback) {
	prevCorrect, prevIncorrect := s.correct, s.incorrect
	s.correct, s.incorrect = countPositions(s.passage, s.input)

	prevScore := s.score
	feedback := FeedbackNeutral
	switch {
	case s.correct > prevCorrect:
		gain := float64(s.correct-prevCorrect) * PointsPerChar * s.settings.Multiplier
		s.score += int(math.Round(gain))
		feedback = FeedbackCorrect
	case s.incorrect > prevIncorrect:
		s.score = max(0, s.score-MistakePenalty)
		feedback = FeedbackIncorrect
	}
	if s.score != prevScore {
		score := s.score
		events = append(events, func(l Listener) { l.ScoreChanged(score) })
	}
	return events, feedback
}

func (s *Session) inputMatchesPassage() bool {
	if len(s.input) != len(s.passage) {
		return false
	}
	for i := range s.passage {
		if s.input[i] != s.passage[i] {
			return false
		}
	}
	return true
}

func (s *Session) endLocked(reason model.EndReason, events []event) []event {
	if s.status == model.StatusEnded {
		return events
	}
	endedAt := s.now()
	elapsed := endedAt.Sub(s.startedAt).Seconds()
	accuracy := accuracyOf(s.correct, len(s.input))
	wpm := 0
	if elapsed > 0 {
		wpm = int(math.Round(float64(s.correct) / 5 / elapsed * 60))
	}

	if reason == model.ReasonCompleted {
		prevScore := s.score
		s.score += int(math.Round(float64(s.timeRemaining) * TimeBonusPerSecond * s.settings.Multiplier))
		if accuracy == 100 {
			s.score += int(math.Round(PerfectBonus * s.settings.Multiplier))
		}
		if s.score != prevScore {
			score := s.score
			events = append(events, func(l Listener) { l.ScoreChanged(score) })
		}
	}

	result := model.SessionResult{
		ID:             s.newID(),
		Score:          s.score,
		Accuracy:       accuracy,
		WordsPerMinute: wpm,
		Reason:         reason,
		Difficulty:     s.difficulty,
		ElapsedSeconds: elapsed,
		Passage:        string(s.passage),
		Input:          string(s.input),
		CorrectCount:   s.correct,
		IncorrectCount: s.incorrect,
		TimeLimit:      s.timeLimit,
		TimeRemaining:  s.timeRemaining,
		StartedAt:      s.startedAt,
		EndedAt:        endedAt,
	}
	s.result = &result
	s.status = model.StatusEnded
	return append(events, func(l Listener) { l.Ended(result) })
}

func (s *Session) dispatch(events []event) {
	if s.listener == nil {
		return
	}
	for _, e := range events {
		e(s.listener)
	}
}

func countPositions(passage, input []rune) (correct, incorrect int) {
	n := min(len(passage), len(input))
	for i := 0; i < n; i++ {
		if input[i] == passage[i] {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect
}

func accuracyOf(correct, typed int) int {
	if typed == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(typed)))
}
