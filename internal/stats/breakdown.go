package stats

import "github.com/verte-zerg/typemaster/internal/model"

// DifficultyRow is the summary of one difficulty tier.
type DifficultyRow struct {
	Difficulty model.Difficulty
	Summary    Summary
}

// Breakdown groups results by difficulty in menu order. Tiers without
// results are omitted.
func Breakdown(results []model.ResultAggregate) []DifficultyRow {
	grouped := map[model.Difficulty][]model.ResultAggregate{}
	for _, r := range results {
		grouped[r.Difficulty] = append(grouped[r.Difficulty], r)
	}
	rows := make([]DifficultyRow, 0, len(grouped))
	for _, d := range model.Difficulties {
		if len(grouped[d]) == 0 {
			continue
		}
		rows = append(rows, DifficultyRow{Difficulty: d, Summary: Summarize(grouped[d])})
	}
	return rows
}
