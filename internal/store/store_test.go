package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typemaster/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "typemaster.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func result(id string, d model.Difficulty, score int, endedOffset time.Duration) model.SessionResult {
	return model.SessionResult{
		ID:             id,
		Score:          score,
		Accuracy:       95,
		WordsPerMinute: 40,
		Reason:         model.ReasonCompleted,
		Difficulty:     d,
		ElapsedSeconds: 12.5,
		Passage:        "the cat",
		Input:          "the cat",
		CorrectCount:   7,
		TimeLimit:      30,
		TimeRemaining:  17,
		StartedAt:      base.Add(endedOffset - 13*time.Second),
		EndedAt:        base.Add(endedOffset),
	}
}

func TestInsertAndListResults(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.InsertResult(ctx, result("b", model.Easy, 200, 2*time.Minute)))
	require.NoError(t, s.InsertResult(ctx, result("a", model.Easy, 100, time.Minute)))
	require.NoError(t, s.InsertResult(ctx, result("c", model.Hard, 900, 3*time.Minute)))

	all, err := s.ListResults(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(all))

	first := all[0]
	assert.Equal(t, model.Easy, first.Difficulty)
	assert.Equal(t, model.ReasonCompleted, first.Reason)
	assert.Equal(t, 100, first.Score)
	assert.Equal(t, 95, first.Accuracy)
	assert.Equal(t, 40, first.WordsPerMinute)
	assert.InDelta(t, 12.5, first.ElapsedSeconds, 1e-9)
	assert.True(t, first.EndedAt.Equal(base.Add(time.Minute)))
}

func TestListResultsFilters(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		d := model.Easy
		if i%2 == 1 {
			d = model.Medium
		}
		require.NoError(t, s.InsertResult(ctx, result(fmt.Sprintf("r%d", i), d, i*10, time.Duration(i)*time.Hour)))
	}

	easy, err := s.ListResults(ctx, model.StatsConfig{Difficulty: model.Easy})
	require.NoError(t, err)
	assert.Equal(t, []string{"r0", "r2", "r4"}, ids(easy))

	since := base.Add(90 * time.Minute)
	recent, err := s.ListResults(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r3", "r4"}, ids(recent))

	last, err := s.ListResults(ctx, model.StatsConfig{Last: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r4"}, ids(last))
}

func TestInsertResultRequiresID(t *testing.T) {
	s := openTestStore(t)
	err := s.InsertResult(context.Background(), result("", model.Easy, 1, 0))
	assert.Error(t, err)
}

func TestTopScoresAndBest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	best, err := s.BestScore(ctx, model.Easy)
	require.NoError(t, err)
	assert.Zero(t, best)

	require.NoError(t, s.InsertResult(ctx, result("low", model.Easy, 50, 0)))
	require.NoError(t, s.InsertResult(ctx, result("high", model.Easy, 700, time.Minute)))
	require.NoError(t, s.InsertResult(ctx, result("tie", model.Easy, 700, 2*time.Minute)))
	require.NoError(t, s.InsertResult(ctx, result("hard", model.Hard, 9000, 3*time.Minute)))

	top, err := s.TopScores(ctx, model.Easy, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "tie"}, ids(top))

	overall, err := s.TopScores(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"hard", "high", "tie", "low"}, ids(overall))

	best, err = s.BestScore(ctx, model.Easy)
	require.NoError(t, err)
	assert.Equal(t, 700, best)

	none, err := s.TopScores(ctx, model.Easy, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, ok, err := s.GetSetting(ctx, "sound.volume")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSetting(ctx, "sound.volume", "70"))
	require.NoError(t, s.SetSetting(ctx, "sound.volume", "40"))

	value, ok, err := s.GetSetting(ctx, "sound.volume")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "40", value)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "typemaster.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.InsertResult(ctx, result("kept", model.Medium, 10, 0)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	}()
	all, err := s.ListResults(ctx, model.StatsConfig{})
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, ids(all))
}

func ids(results []model.ResultAggregate) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestInsertResultKeepsInput(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	r := result("typo", model.Easy, 50, time.Minute)
	r.Input = "teh cat"
	require.NoError(t, s.InsertResult(ctx, r))

	var input string
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT input FROM results WHERE id = ?`, "typo").Scan(&input))
	assert.Equal(t, "teh cat", input)
}

func TestOpenAddsInputToOlderSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE results (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		reason TEXT NOT NULL,
		score INTEGER NOT NULL,
		accuracy INTEGER NOT NULL,
		wpm INTEGER NOT NULL,
		elapsed_seconds REAL NOT NULL,
		correct INTEGER NOT NULL,
		incorrect INTEGER NOT NULL,
		time_limit INTEGER NOT NULL,
		time_remaining INTEGER NOT NULL,
		passage TEXT NOT NULL
	)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.InsertResult(context.Background(), result("new", model.Hard, 10, time.Minute)))

	reopened, err := Open(path)
	require.NoError(t, err, "migrating twice is a no-op")
	require.NoError(t, reopened.Close())
}
