package feedback

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Player plays cues.
type Player interface {
	Play(c Cue)
}

// Bell rings the terminal bell for alert cues. Terminals have no volume
// control, so the master volume only gates whether the bell rings.
type Bell struct {
	mu       sync.Mutex
	w        io.Writer
	logger   *log.Logger
	settings Settings
}

// NewBell returns a bell writing to w.
func NewBell(w io.Writer, settings Settings, logger *log.Logger) *Bell {
	return &Bell{w: w, logger: logger, settings: settings.Clamp()}
}

// Play implements Player.
func (b *Bell) Play(c Cue) {
	tone, ok := ToneFor(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.settings.Audible(tone) || !tone.Alert {
		return
	}
	if _, err := io.WriteString(b.w, "\a"); err != nil && b.logger != nil {
		b.logger.Debug("bell write failed", "cue", c, "error", err)
	}
}

// Settings returns the current settings.
func (b *Bell) Settings() Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings
}

// SetSettings replaces the settings.
func (b *Bell) SetSettings(s Settings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings = s.Clamp()
}
