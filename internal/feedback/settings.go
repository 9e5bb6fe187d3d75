package feedback

// DefaultVolume is the master volume on a fresh install.
const DefaultVolume = 70

// Settings are the player's sound preferences.
type Settings struct {
	Enabled bool
	// Volume is the master volume, 0 to 100.
	Volume int
}

// DefaultSettings returns sound on at the default volume.
func DefaultSettings() Settings {
	return Settings{Enabled: true, Volume: DefaultVolume}
}

// Clamp keeps Volume within 0..100.
func (s Settings) Clamp() Settings {
	s.Volume = min(max(s.Volume, 0), 100)
	return s
}

// Audible reports whether a tone would be heard at these settings.
func (s Settings) Audible(t Tone) bool {
	return s.Enabled && s.Volume > 0 && t.Volume > 0
}
