package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/typemaster/internal/model"
)

// DefaultLeaderboardSize is the number of ranked results in a report.
const DefaultLeaderboardSize = 10

// Source is the subset of the result store a report needs.
type Source interface {
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultAggregate, error)
	TopScores(ctx context.Context, difficulty model.Difficulty, limit int) ([]model.ResultAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Results     []model.ResultAggregate
	Leaderboard []model.ResultAggregate
	Summary     Summary
	Breakdown   []DifficultyRow
	CurveWindow int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	results, err := src.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("list results: %w", err)
	}
	top, err := src.TopScores(ctx, cfg.Difficulty, DefaultLeaderboardSize)
	if err != nil {
		return Report{}, fmt.Errorf("top scores: %w", err)
	}
	return Report{
		Results:     results,
		Leaderboard: top,
		Summary:     Summarize(results),
		Breakdown:   Breakdown(results),
		CurveWindow: cfg.CurveWindow,
	}, nil
}
