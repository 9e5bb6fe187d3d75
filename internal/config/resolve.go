package config

import "github.com/verte-zerg/typemaster/internal/feedback"

// Built-in defaults.
const (
	DefaultDifficulty = "easy"
	DefaultWords      = 0
	DefaultLogLevel   = "info"
)

// Settings is the merged configuration before CLI flags are applied.
type Settings struct {
	Difficulty   string
	PassagesPath string
	Words        int
	WordListPath string
	SoundEnabled bool
	Volume       int
	LogLevel     string
	DBPath       string
}

// StoredSound holds the sound settings last chosen in the game menu.
type StoredSound struct {
	Enabled *bool
	Volume  *int
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	sound := feedback.DefaultSettings()
	return Settings{
		Difficulty:   DefaultDifficulty,
		Words:        DefaultWords,
		SoundEnabled: sound.Enabled,
		Volume:       sound.Volume,
		LogLevel:     DefaultLogLevel,
		DBPath:       DefaultDBPath(),
	}
}

// Resolve layers the file, the stored sound choice and the environment over
// the defaults, each later layer winning.
func Resolve(file FileConfig, stored StoredSound, envCfg EnvConfig) Settings {
	s := Defaults()

	setString(&s.Difficulty, file.Game.Difficulty)
	setString(&s.PassagesPath, file.Game.Passages)
	setInt(&s.Words, file.Game.Words)
	setString(&s.WordListPath, file.Game.WordList)
	setBool(&s.SoundEnabled, file.Sound.Enabled)
	setInt(&s.Volume, file.Sound.Volume)
	setString(&s.LogLevel, file.Log.Level)

	setBool(&s.SoundEnabled, stored.Enabled)
	setInt(&s.Volume, stored.Volume)

	setNonEmpty(&s.Difficulty, envCfg.Difficulty)
	setNonEmpty(&s.PassagesPath, envCfg.Passages)
	setNonEmpty(&s.DBPath, envCfg.DBPath)
	setNonEmpty(&s.LogLevel, envCfg.LogLevel)
	if envCfg.NoSound {
		s.SoundEnabled = false
	}
	return s.ExpandPaths()
}

// ExpandPaths expands a leading "~" in every path setting.
func (s Settings) ExpandPaths() Settings {
	s.PassagesPath = ExpandHome(s.PassagesPath)
	s.WordListPath = ExpandHome(s.WordListPath)
	s.DBPath = ExpandHome(s.DBPath)
	return s
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func setBool(target, value *bool) {
	if value != nil {
		*target = *value
	}
}

func setNonEmpty(target *string, value string) {
	if value != "" {
		*target = value
	}
}
