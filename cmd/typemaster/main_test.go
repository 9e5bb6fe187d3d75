package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/passage"
	"github.com/verte-zerg/typemaster/internal/store"
)

func parsedRoot(t *testing.T, args ...string) func(config.FileConfig, config.StoredSound, config.EnvConfig) config.Settings {
	t.Helper()
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(args))
	opts := &playOptions{}
	opts.difficulty, _ = cmd.Flags().GetString("difficulty")
	opts.passages, _ = cmd.Flags().GetString("passages")
	opts.words, _ = cmd.Flags().GetInt("words")
	opts.wordList, _ = cmd.Flags().GetString("wordlist")
	opts.sound, _ = cmd.Flags().GetBool("sound")
	opts.volume, _ = cmd.Flags().GetInt("volume")
	return func(f config.FileConfig, s config.StoredSound, e config.EnvConfig) config.Settings {
		return resolveSettings(cmd, opts, f, s, e)
	}
}

func ptr[T any](v T) *T { return &v }

func TestResolveSettingsPrecedence(t *testing.T) {
	file := config.FileConfig{
		Game:  config.GameConfig{Difficulty: ptr("medium"), Words: ptr(12)},
		Sound: config.SoundConfig{Enabled: ptr(true), Volume: ptr(40)},
	}

	resolve := parsedRoot(t)
	s := resolve(file, config.StoredSound{}, config.EnvConfig{})
	assert.Equal(t, "medium", s.Difficulty)
	assert.Equal(t, 12, s.Words)
	assert.Equal(t, 40, s.Volume)

	s = resolve(file, config.StoredSound{Volume: ptr(90)}, config.EnvConfig{Difficulty: "hard", NoSound: true})
	assert.Equal(t, "hard", s.Difficulty)
	assert.Equal(t, 90, s.Volume)
	assert.False(t, s.SoundEnabled)

	resolve = parsedRoot(t, "--difficulty", "easy", "--sound", "--volume", "10")
	s = resolve(file, config.StoredSound{Volume: ptr(90)}, config.EnvConfig{Difficulty: "hard", NoSound: true})
	assert.Equal(t, "easy", s.Difficulty)
	assert.True(t, s.SoundEnabled)
	assert.Equal(t, 10, s.Volume)
	assert.Equal(t, 12, s.Words)
}

func TestValidateSettings(t *testing.T) {
	ok := config.Defaults()
	require.NoError(t, validateSettings(ok))

	bad := ok
	bad.Difficulty = "insane"
	assert.ErrorContains(t, validateSettings(bad), "--difficulty")

	bad = ok
	bad.Words = -1
	assert.ErrorContains(t, validateSettings(bad), "--words")

	bad = ok
	bad.Volume = 101
	assert.ErrorContains(t, validateSettings(bad), "--volume")
}

type fakeSettings map[string]string

func (f fakeSettings) GetSetting(_ context.Context, key string) (string, bool, error) {
	if v, ok := f["error"]; ok {
		return "", false, errors.New(v)
	}
	v, ok := f[key]
	return v, ok, nil
}

func TestLoadStoredSound(t *testing.T) {
	ctx := context.Background()
	logger := logging.Discard()

	stored := loadStoredSound(ctx, fakeSettings{store.SettingSoundEnabled: "false", store.SettingSoundVolume: "35"}, logger)
	require.NotNil(t, stored.Enabled)
	require.NotNil(t, stored.Volume)
	assert.False(t, *stored.Enabled)
	assert.Equal(t, 35, *stored.Volume)

	stored = loadStoredSound(ctx, fakeSettings{store.SettingSoundEnabled: "maybe", store.SettingSoundVolume: "loud"}, logger)
	assert.Nil(t, stored.Enabled)
	assert.Nil(t, stored.Volume)

	stored = loadStoredSound(ctx, fakeSettings{"error": "locked"}, logger)
	assert.Equal(t, config.StoredSound{}, stored)
}

func TestBuildSourcePack(t *testing.T) {
	src, err := buildSource(config.Defaults(), 7)
	require.NoError(t, err)
	_, ok := src.(*passage.Picker)
	require.True(t, ok)

	text, err := src.Next(model.Easy)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}

func TestBuildSourceWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\ngamma\n"), 0o644))

	s := config.Defaults()
	s.Words = 4
	s.WordListPath = path
	src, err := buildSource(s, 3)
	require.NoError(t, err)
	_, ok := src.(*passage.WordSource)
	require.True(t, ok)

	text, err := src.Next(model.Easy)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(text), 4)
	assert.True(t, strings.HasSuffix(text, "."))
}

func TestBuildSourceErrors(t *testing.T) {
	s := config.Defaults()
	s.PassagesPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := buildSource(s, 1)
	assert.ErrorContains(t, err, "failed to load passages")

	s = config.Defaults()
	s.WordListPath = filepath.Join(t.TempDir(), "missing.txt")
	_, err = buildSource(s, 1)
	assert.ErrorContains(t, err, "failed to load word list")
}

func TestWritePassages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.txt")
	require.NoError(t, os.WriteFile(path, []byte("Short one.\n"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, runPassagesCmd(&buf, &passagesOptions{passages: path, difficulty: "easy"}))
	assert.Equal(t, "easy (1)\n  Short one.\n", buf.String())

	err := runPassagesCmd(&buf, &passagesOptions{passages: path, difficulty: "nope"})
	assert.ErrorContains(t, err, "--difficulty")
}

func TestWritePassagesAllTiers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePassages(&buf, passage.Default(), model.Difficulties))
	out := buf.String()
	for _, d := range model.Difficulties {
		assert.Contains(t, out, string(d)+" (")
	}
}

func TestStatsConfigFrom(t *testing.T) {
	cfg, err := statsConfigFrom(&statsOptions{difficulty: "Hard", since: "2026-01-02", last: 3, window: 5})
	require.NoError(t, err)
	assert.Equal(t, model.Hard, cfg.Difficulty)
	require.NotNil(t, cfg.Since)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local), *cfg.Since)
	assert.Equal(t, 3, cfg.Last)

	_, err = statsConfigFrom(&statsOptions{since: "yesterday", window: 5})
	assert.ErrorContains(t, err, "--since")
	_, err = statsConfigFrom(&statsOptions{window: 0})
	assert.ErrorContains(t, err, "--window")
	_, err = statsConfigFrom(&statsOptions{last: -1, window: 5})
	assert.ErrorContains(t, err, "--last")
}

func TestRenderPlainStats(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "typemaster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var empty bytes.Buffer
	require.NoError(t, renderPlainStats(ctx, &empty, st, model.StatsConfig{CurveWindow: 1}))
	assert.Equal(t, "No sessions found.\n", empty.String())

	ended := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	for i, score := range []int{300, 120} {
		require.NoError(t, st.InsertResult(ctx, model.SessionResult{
			ID:             string(rune('a' + i)),
			Score:          score,
			Accuracy:       90,
			WordsPerMinute: 35,
			Reason:         model.ReasonCompleted,
			Difficulty:     model.Medium,
			ElapsedSeconds: 14,
			Passage:        "go",
			Input:          "go",
			TimeLimit:      25,
			StartedAt:      ended.Add(time.Duration(i)*time.Minute - 14*time.Second),
			EndedAt:        ended.Add(time.Duration(i) * time.Minute),
		}))
	}

	var buf bytes.Buffer
	require.NoError(t, renderPlainStats(ctx, &buf, st, model.StatsConfig{CurveWindow: 1}))
	out := buf.String()
	for _, want := range []string{"Summary", "By difficulty", "History", "Leaderboard", "Progress"} {
		assert.Contains(t, out, want)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Game.Difficulty)
	assert.Nil(t, cfg.Sound.Volume)
}

func TestResolveSettingsExpandsHomeFlags(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	s := parsedRoot(t, "--passages", "~/pack.yaml", "--wordlist", "~/words.txt")(config.FileConfig{}, config.StoredSound{}, config.EnvConfig{})
	assert.Equal(t, filepath.Join(home, "pack.yaml"), s.PassagesPath)
	assert.Equal(t, filepath.Join(home, "words.txt"), s.WordListPath)
}
