// Package main provides the CLI entrypoint for typemaster.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/feedback"
	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/passage"
	"github.com/verte-zerg/typemaster/internal/stats"
	"github.com/verte-zerg/typemaster/internal/statsui"
	"github.com/verte-zerg/typemaster/internal/store"
	"github.com/verte-zerg/typemaster/internal/tui"
	"github.com/verte-zerg/typemaster/internal/wordlist"
)

const (
	defaultCurveWindow = 5
	plainPlotHeight    = 8
)

type playOptions struct {
	difficulty string
	passages   string
	words      int
	wordList   string
	sound      bool
	volume     int
	seed       int64
}

type statsOptions struct {
	difficulty string
	since      string
	last       int
	window     int
	plain      bool
}

type passagesOptions struct {
	difficulty string
	passages   string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &playOptions{}
	rootCmd := &cobra.Command{
		Use:           "typemaster",
		Short:         "Timed terminal typing game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlayCmd(cmd, opts)
		},
	}

	defaults := config.Defaults()
	rootCmd.Flags().StringVar(&opts.difficulty, "difficulty", defaults.Difficulty, "difficulty tier (easy, medium, hard)")
	rootCmd.Flags().StringVar(&opts.passages, "passages", "", "passage pack file (.yaml or one passage per line)")
	rootCmd.Flags().IntVar(&opts.words, "words", defaults.Words, "generate passages of N random words instead of using a pack")
	rootCmd.Flags().StringVar(&opts.wordList, "wordlist", "", "word list file for generated passages")
	rootCmd.Flags().BoolVar(&opts.sound, "sound", defaults.SoundEnabled, "enable sound cues")
	rootCmd.Flags().IntVar(&opts.volume, "volume", defaults.Volume, "sound volume (0-100)")
	rootCmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed for passage selection (0 picks one)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPassagesCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, opts *playOptions) error {
	fileCfg, envCfg, err := loadLayers()
	if err != nil {
		return err
	}
	base := config.Resolve(fileCfg, config.StoredSound{}, envCfg)

	st, err := store.Open(base.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	logger, closer, err := logging.OpenFile(config.DefaultLogPath(), base.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	stored := loadStoredSound(context.Background(), st, logger)
	settings := resolveSettings(cmd, opts, fileCfg, stored, envCfg)
	if err := validateSettings(settings); err != nil {
		return err
	}
	difficulty, _ := model.ParseDifficulty(settings.Difficulty)

	source, err := buildSource(settings, opts.seed)
	if err != nil {
		return err
	}

	bell := feedback.NewBell(os.Stderr, feedback.Settings{Enabled: settings.SoundEnabled, Volume: settings.Volume}, logger)
	game := tui.NewModel(tui.Options{
		Difficulty: difficulty,
		Source:     source,
		Store:      st,
		Sound:      bell,
		Logger:     logger,
	})
	defer game.Close()

	logger.Info("starting game", "difficulty", difficulty, "sound", settings.SoundEnabled, "volume", settings.Volume)
	program := tea.NewProgram(game, tea.WithAltScreen())
	game.SetSender(program)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadLayers() (config.FileConfig, config.EnvConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, config.EnvConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return config.FileConfig{}, config.EnvConfig{}, fmt.Errorf("failed to load environment: %w", err)
	}
	return fileCfg, envCfg, nil
}

// resolveSettings merges the config layers and then applies the flags the
// user set explicitly.
func resolveSettings(cmd *cobra.Command, opts *playOptions, fileCfg config.FileConfig, stored config.StoredSound, envCfg config.EnvConfig) config.Settings {
	s := config.Resolve(fileCfg, stored, envCfg)
	applyFlag(cmd, "difficulty", &s.Difficulty, opts.difficulty)
	applyFlag(cmd, "passages", &s.PassagesPath, opts.passages)
	applyFlag(cmd, "words", &s.Words, opts.words)
	applyFlag(cmd, "wordlist", &s.WordListPath, opts.wordList)
	applyFlag(cmd, "sound", &s.SoundEnabled, opts.sound)
	applyFlag(cmd, "volume", &s.Volume, opts.volume)
	return s.ExpandPaths()
}

func applyFlag[T any](cmd *cobra.Command, name string, target *T, value T) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

type settingGetter interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
}

// loadStoredSound reads the sound choice saved from the game menu. Unreadable
// values are logged and ignored.
func loadStoredSound(ctx context.Context, st settingGetter, logger *log.Logger) config.StoredSound {
	var stored config.StoredSound
	if raw, ok, err := st.GetSetting(ctx, store.SettingSoundEnabled); err != nil {
		logger.Warn("failed to read sound setting", "error", err)
	} else if ok {
		if enabled, perr := strconv.ParseBool(raw); perr == nil {
			stored.Enabled = &enabled
		} else {
			logger.Warn("ignoring stored sound setting", "value", raw, "error", perr)
		}
	}
	if raw, ok, err := st.GetSetting(ctx, store.SettingSoundVolume); err != nil {
		logger.Warn("failed to read volume setting", "error", err)
	} else if ok {
		if volume, perr := strconv.Atoi(raw); perr == nil {
			stored.Volume = &volume
		} else {
			logger.Warn("ignoring stored volume setting", "value", raw, "error", perr)
		}
	}
	return stored
}

func buildSource(s config.Settings, seed int64) (passage.Source, error) {
	if s.Words > 0 || s.WordListPath != "" {
		words := passage.DefaultWords
		if s.WordListPath != "" {
			loaded, err := wordlist.LoadWords(s.WordListPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load word list %s: %w", s.WordListPath, err)
			}
			words = loaded
		}
		src, err := passage.NewWordSource(words, s.Words, seed)
		if err != nil {
			return nil, fmt.Errorf("failed to build word source: %w", err)
		}
		return src, nil
	}
	pack, err := loadPack(s.PassagesPath)
	if err != nil {
		return nil, err
	}
	return passage.NewPicker(pack, seed), nil
}

func loadPack(path string) (*passage.Pack, error) {
	if path == "" {
		return passage.Default(), nil
	}
	pack, err := passage.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load passages %s: %w", path, err)
	}
	return pack, nil
}

func validateSettings(s config.Settings) error {
	if _, err := model.ParseDifficulty(s.Difficulty); err != nil {
		return fmt.Errorf("--difficulty: %w", err)
	}
	if s.Words < 0 {
		return fmt.Errorf("--words must be >= 0")
	}
	if s.Volume < 0 || s.Volume > 100 {
		return fmt.Errorf("--volume must be between 0 and 100")
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newPassagesCmd() *cobra.Command {
	opts := &passagesOptions{}
	cmd := &cobra.Command{
		Use:   "passages",
		Short: "List passages by difficulty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPassagesCmd(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.difficulty, "difficulty", "", "only list one tier")
	cmd.Flags().StringVar(&opts.passages, "passages", "", "passage pack file (default: built-in pack)")
	return cmd
}

func runPassagesCmd(w io.Writer, opts *passagesOptions) error {
	path := config.ExpandHome(opts.passages)
	if path == "" {
		fileCfg, envCfg, err := loadLayers()
		if err != nil {
			return err
		}
		path = config.Resolve(fileCfg, config.StoredSound{}, envCfg).PassagesPath
	}
	pack, err := loadPack(path)
	if err != nil {
		return err
	}
	tiers := model.Difficulties
	if opts.difficulty != "" {
		d, err := model.ParseDifficulty(opts.difficulty)
		if err != nil {
			return fmt.Errorf("--difficulty: %w", err)
		}
		tiers = []model.Difficulty{d}
	}
	return writePassages(w, pack, tiers)
}

func writePassages(w io.Writer, pack *passage.Pack, tiers []model.Difficulty) error {
	for i, d := range tiers {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		texts := pack.Tier(d)
		if _, err := fmt.Fprintf(w, "%s (%d)\n", d, len(texts)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		for _, text := range texts {
			if _, err := fmt.Fprintf(w, "  %s\n", text); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	opts := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatsCmd(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.difficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&opts.since, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.last, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&opts.window, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print plain text instead of the interactive view")
	return cmd
}

func statsConfigFrom(opts *statsOptions) (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Last:        opts.last,
		CurveWindow: opts.window,
	}
	if opts.difficulty != "" {
		d, err := model.ParseDifficulty(opts.difficulty)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("--difficulty: %w", err)
		}
		cfg.Difficulty = d
	}
	if opts.since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", opts.since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if cfg.Last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if cfg.CurveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--window must be > 0")
	}
	return cfg, nil
}

func runStatsCmd(w io.Writer, opts *statsOptions) error {
	cfg, err := statsConfigFrom(opts)
	if err != nil {
		return err
	}
	fileCfg, envCfg, err := loadLayers()
	if err != nil {
		return err
	}
	settings := config.Resolve(fileCfg, config.StoredSound{}, envCfg)

	st, err := store.Open(settings.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if opts.plain {
		return renderPlainStats(context.Background(), w, st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(ctx context.Context, w io.Writer, src stats.Source, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(ctx, src, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Results); err != nil {
		return err
	}
	if len(report.Results) == 0 {
		return nil
	}
	if err := stats.RenderBreakdown(w, report.Results); err != nil {
		return err
	}
	if err := stats.RenderHistory(w, report.Results); err != nil {
		return err
	}
	if err := stats.RenderLeaderboard(w, report.Leaderboard); err != nil {
		return err
	}
	return stats.RenderCurvesWithSize(w, report.Results, report.CurveWindow, 0, plainPlotHeight, false)
}

func defaultConfigTemplate() string {
	defaults := config.Defaults()
	return fmt.Sprintf(`# typemaster configuration
# Uncomment a value to enable it. Environment variables (TYPEMASTER_*) and
# CLI flags override config values.

[game]
# difficulty = %q         # easy, medium or hard
# passages = "~/passages.yaml"  # Passage pack (.yaml) or one passage per line
# words = %d                # Generate passages of N random words (0 uses the pack)
# wordlist = "~/words.txt"  # Word list for generated passages

[sound]
# enabled = %t            # Terminal bell cues
# volume = %d               # 0-100, 0 mutes

[log]
# level = %q             # debug, info, warn or error
`,
		defaults.Difficulty,
		defaults.Words,
		defaults.SoundEnabled,
		defaults.Volume,
		defaults.LogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
