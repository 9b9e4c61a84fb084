// Package merge combines per-source scrape results into one assignment
// list without duplicates.
package merge

import (
	"sort"

	"github.com/pranavj/assignsync/models"
)

// Results merges assignments from all successful scrape results.
// Results are consumed in the caller's order and duplicates are removed
// by exact (name, class, url) key, first occurrence winning. Failed
// results contribute nothing. No fuzzy matching: loose matching would
// risk collapsing genuinely distinct assignments.
func Results(results []models.ScrapeResult) []models.Assignment {
	merged := make([]models.Assignment, 0)
	seen := make(map[models.Key]bool)

	for _, res := range results {
		if !res.Success {
			continue
		}
		for _, a := range res.Assignments {
			key := a.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, a)
		}
	}
	return merged
}

// SortByDueDate orders assignments by parsed due date ascending, with
// undated records last. The sort is stable so same-day assignments keep
// their source order.
func SortByDueDate(assignments []models.Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		ti, tj := assignments[i].DueDateParsed, assignments[j].DueDateParsed
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.Before(*tj)
		}
	})
}
