// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is a difficulty tier. It fixes the time limit, the score
// multiplier and which passages may be selected.
type Difficulty string

// Difficulty tiers.
const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the tiers in menu order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty parses a tier name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
	}
	return d, nil
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	default:
		return false
	}
}

// Status drives which session operations are accepted.
type Status int

// Session statuses. Armed is the state after start and before the first
// keystroke: input is accepted but the countdown does not tick yet.
const (
	StatusIdle Status = iota
	StatusArmed
	StatusRunning
	StatusPaused
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusArmed:
		return "armed"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// EndReason says why a session ended.
type EndReason string

// End reasons.
const (
	ReasonCompleted EndReason = "completed"
	ReasonTimedOut  EndReason = "timed_out"
	ReasonQuit      EndReason = "quit"
)

// SessionResult is the final record of an ended session.
type SessionResult struct {
	ID             string
	Score          int
	Accuracy       int
	WordsPerMinute int
	Reason         EndReason
	Difficulty     Difficulty
	ElapsedSeconds float64
	Passage        string
	Input          string
	CorrectCount   int
	IncorrectCount int
	TimeLimit      int
	TimeRemaining  int
	StartedAt      time.Time
	EndedAt        time.Time
}

// Completed reports whether the passage was typed out.
func (r SessionResult) Completed() bool {
	return r.Reason == ReasonCompleted
}

// Config defines game settings.
type Config struct {
	Difficulty   Difficulty
	PassagesPath string
	Words        int
	WordListPath string
	SoundEnabled bool
	Volume       int
	Seed         int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Difficulty  Difficulty
	Since       *time.Time
	Last        int
	CurveWindow int
}

// ResultAggregate summarizes a stored session for reporting.
type ResultAggregate struct {
	ID             string
	EndedAt        time.Time
	Difficulty     Difficulty
	Reason         EndReason
	Score          int
	Accuracy       int
	WordsPerMinute int
	ElapsedSeconds float64
}
