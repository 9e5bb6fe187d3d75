// Package tui provides the Bubble Tea game host around a session.Session.
package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/typemaster/internal/countdown"
	"github.com/verte-zerg/typemaster/internal/feedback"
	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/passage"
	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/store"
)

// volumeStep is the volume change per +/- key press.
const volumeStep = 10

// Store is the persistence the game host needs.
type Store interface {
	InsertResult(ctx context.Context, r model.SessionResult) error
	BestScore(ctx context.Context, difficulty model.Difficulty) (int, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Sound plays cues and holds the adjustable sound settings.
type Sound interface {
	feedback.Player
	Settings() feedback.Settings
	SetSettings(s feedback.Settings)
}

// Sender delivers messages into a running program. *tea.Program
// satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Options configures a Model.
type Options struct {
	Difficulty   model.Difficulty
	Source       passage.Source
	Store        Store
	Sound        Sound
	Logger       *log.Logger
	TickInterval time.Duration
}

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenResults
)

// Model implements the Bubble Tea game host.
type Model struct {
	source   passage.Source
	store    Store
	sound    Sound
	logger   *log.Logger
	interval time.Duration
	sender   Sender

	width  int
	height int

	screen     screen
	difficulty model.Difficulty
	best       map[model.Difficulty]int
	notice     string

	sess      *session.Session
	queue     *eventQueue
	score     int
	lastDelta int
	warning   bool

	timer    *countdown.Countdown
	timerGen int
	retired  []*countdown.Countdown

	result  *model.SessionResult
	newBest bool

	bar progress.Model
}

// NewModel constructs the game host.
func NewModel(opts Options) *Model {
	difficulty := opts.Difficulty
	if !difficulty.Valid() {
		difficulty = model.Easy
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	m := &Model{
		source:     opts.Source,
		store:      opts.Store,
		sound:      opts.Sound,
		logger:     logger,
		interval:   interval,
		difficulty: difficulty,
		best:       map[model.Difficulty]int{},
		bar:        progress.New(progress.WithSolidFill(timerColorOK), progress.WithoutPercentage()),
	}
	m.loadBestScores()
	return m
}

// SetSender attaches the program the countdown posts ticks to.
func (m *Model) SetSender(s Sender) {
	m.sender = s
}

// Close stops the countdown and waits for every countdown goroutine.
func (m *Model) Close() {
	m.stopTimer()
	for _, c := range m.retired {
		c.Wait()
	}
	m.retired = nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("typemaster")
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if msg.gen == m.timerGen && m.sess != nil {
			m.sess.Tick()
			m.drainEvents()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.exit()
		}
		switch m.screen {
		case screenMenu:
			return m, m.updateMenu(msg)
		case screenGame:
			m.updateGame(msg)
			return m, nil
		case screenResults:
			return m, m.updateResults(msg)
		}
	}
	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		return m.exit()
	case "enter":
		m.startGame()
	case "1", "2", "3":
		idx, _ := strconv.Atoi(msg.String())
		m.selectDifficulty(model.Difficulties[idx-1])
	case "left", "h":
		m.selectDifficulty(m.shiftDifficulty(-1))
	case "right", "l":
		m.selectDifficulty(m.shiftDifficulty(1))
	case "s":
		settings := m.sound.Settings()
		settings.Enabled = !settings.Enabled
		m.applySound(settings)
	case "+", "=":
		settings := m.sound.Settings()
		settings.Volume += volumeStep
		m.applySound(settings)
	case "-", "_":
		settings := m.sound.Settings()
		settings.Volume -= volumeStep
		m.applySound(settings)
	}
	return nil
}

func (m *Model) updateGame(msg tea.KeyMsg) {
	if m.sess == nil || msg.Paste {
		return
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.togglePause()
	case tea.KeyCtrlQ:
		m.sess.Quit()
	case tea.KeyBackspace, tea.KeyDelete:
		m.sess.Backspace()
	case tea.KeySpace:
		m.sess.Type(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.sess.Type(r)
		}
	}
	m.drainEvents()
}

func (m *Model) updateResults(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.startGame()
	case "esc":
		m.screen = screenMenu
		m.result = nil
	case "q":
		return m.exit()
	}
	return nil
}

func (m *Model) startGame() {
	text, err := m.source.Next(m.difficulty)
	if err != nil {
		m.logger.Error("failed to pick passage", "difficulty", m.difficulty, "error", err)
		m.notice = "No passage available: " + err.Error()
		return
	}
	m.stopTimer()
	m.queue = &eventQueue{}
	sess := session.New(session.WithListener(session.Listeners{m.queue, feedback.NewSink(m.sound)}))
	if err := sess.Start(text, m.difficulty); err != nil {
		m.logger.Error("failed to start session", "difficulty", m.difficulty, "error", err)
		m.notice = err.Error()
		return
	}
	m.sess = sess
	m.sound.Play(feedback.CueHover)
	m.screen = screenGame
	m.notice = ""
	m.score = 0
	m.lastDelta = 0
	m.warning = false
	m.result = nil
	m.newBest = false
	m.logger.Debug("session started", "difficulty", m.difficulty, "chars", len([]rune(text)))
}

func (m *Model) togglePause() {
	m.sess.TogglePause()
	switch m.sess.Status() {
	case model.StatusPaused:
		m.stopTimer()
	case model.StatusRunning:
		m.startTimer()
	}
}

// drainEvents applies the events raised by the last session calls.
func (m *Model) drainEvents() {
	if m.queue == nil {
		return
	}
	for _, ev := range m.queue.take() {
		switch ev := ev.(type) {
		case scoreChangedMsg:
			m.lastDelta = ev.score - m.score
			m.score = ev.score
		case countdownStartedMsg:
			m.startTimer()
		case countdownWarningMsg:
			m.warning = true
		case sessionEndedMsg:
			m.finish(ev.result)
		}
	}
}

func (m *Model) finish(result model.SessionResult) {
	m.stopTimer()
	if err := m.store.InsertResult(context.Background(), result); err != nil {
		m.logger.Warn("failed to save result", "id", result.ID, "error", err)
	}
	m.newBest = result.Score > m.best[result.Difficulty]
	if m.newBest {
		m.best[result.Difficulty] = result.Score
	}
	m.result = &result
	m.screen = screenResults
	m.logger.Info("session ended",
		"reason", result.Reason,
		"difficulty", result.Difficulty,
		"score", result.Score,
		"wpm", result.WordsPerMinute,
		"accuracy", result.Accuracy,
	)
}

func (m *Model) startTimer() {
	m.stopTimer()
	m.timerGen++
	if m.sender == nil {
		return
	}
	gen := m.timerGen
	sender := m.sender
	m.timer = countdown.New(m.interval, func() {
		sender.Send(tickMsg{gen: gen})
	})
	m.timer.Start()
}

// stopTimer signals the countdown without waiting: its goroutine may be
// blocked delivering a tick to this very Update loop.
func (m *Model) stopTimer() {
	if m.timer == nil {
		return
	}
	m.timer.Stop()
	m.retired = append(pruneExited(m.retired), m.timer)
	m.timer = nil
	m.timerGen++
}

// pruneExited drops stopped countdowns whose goroutine has already exited.
func pruneExited(stopped []*countdown.Countdown) []*countdown.Countdown {
	kept := stopped[:0]
	for _, c := range stopped {
		if !c.Exited() {
			kept = append(kept, c)
		}
	}
	return kept
}

func (m *Model) exit() tea.Cmd {
	if m.sess != nil && m.screen == screenGame {
		m.sess.Quit()
		m.drainEvents()
	}
	m.stopTimer()
	return tea.Quit
}

func (m *Model) selectDifficulty(d model.Difficulty) {
	if d == m.difficulty {
		return
	}
	m.difficulty = d
	m.sound.Play(feedback.CueHover)
}

func (m *Model) shiftDifficulty(step int) model.Difficulty {
	n := len(model.Difficulties)
	for i, d := range model.Difficulties {
		if d == m.difficulty {
			return model.Difficulties[(i+step+n)%n]
		}
	}
	return model.Difficulties[0]
}

func (m *Model) applySound(settings feedback.Settings) {
	settings = settings.Clamp()
	m.sound.SetSettings(settings)
	ctx := context.Background()
	if err := m.store.SetSetting(ctx, store.SettingSoundEnabled, strconv.FormatBool(settings.Enabled)); err != nil {
		m.logger.Warn("failed to save sound setting", "error", err)
	}
	if err := m.store.SetSetting(ctx, store.SettingSoundVolume, strconv.Itoa(settings.Volume)); err != nil {
		m.logger.Warn("failed to save volume setting", "error", err)
	}
}

func (m *Model) loadBestScores() {
	ctx := context.Background()
	for _, d := range model.Difficulties {
		best, err := m.store.BestScore(ctx, d)
		if err != nil {
			m.logger.Warn("failed to load best score", "difficulty", d, "error", err)
			continue
		}
		m.best[d] = best
	}
}
