// Package feedback turns session events into sound cues.
package feedback

// Cue names a feedback sound.
type Cue string

// Cues.
const (
	CueType      Cue = "type"
	CueCorrect   Cue = "correct"
	CueIncorrect Cue = "incorrect"
	CueSuccess   Cue = "success"
	CueGameOver  Cue = "game_over"
	CueHover     Cue = "hover"
	CueWarning   Cue = "warning"
)

// Tone describes how a cue sounds. Frequencies are in Hz, durations in
// seconds and Volume is relative to the master volume.
type Tone struct {
	Frequencies []float64
	Duration    float64
	Volume      float64
	// Alert cues are the ones worth interrupting the player for.
	Alert bool
}

var tones = map[Cue]Tone{
	CueType:      {Frequencies: []float64{800}, Duration: 0.1, Volume: 0.1},
	CueCorrect:   {Frequencies: []float64{1000}, Duration: 0.2, Volume: 0.2},
	CueIncorrect: {Frequencies: []float64{300}, Duration: 0.3, Volume: 0.15, Alert: true},
	CueSuccess:   {Frequencies: []float64{523, 659, 784}, Duration: 0.8, Volume: 0.3, Alert: true},
	CueGameOver:  {Frequencies: []float64{400, 350, 300, 250}, Duration: 0.6, Volume: 0.2, Alert: true},
	CueHover:     {Frequencies: []float64{1200}, Duration: 0.05, Volume: 0.05},
	CueWarning:   {Frequencies: []float64{800}, Duration: 0.3, Volume: 0.1, Alert: true},
}

// ToneFor returns the tone of a cue.
func ToneFor(c Cue) (Tone, bool) {
	t, ok := tones[c]
	return t, ok
}
