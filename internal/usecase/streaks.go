package usecase

import (
	"sort"

	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
)

// longestStreaks orders games by date and returns the longest winning and
// losing runs. Ties keep the earliest run.
func longestStreaks(rows []gameRow) (win summary.Streak, lose summary.Streak) {
	sorted := make([]gameRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].date.Before(sorted[j].date)
	})

	for start := 0; start < len(sorted); {
		end := start
		for end+1 < len(sorted) && sorted[end+1].Win == sorted[start].Win {
			end++
		}
		length := end - start + 1
		target := &lose
		if sorted[start].Win {
			target = &win
		}
		if length > target.Length {
			startDate, endDate := sorted[start].date, sorted[end].date
			*target = summary.Streak{Length: length, StartDate: &startDate, EndDate: &endDate}
		}
		start = end + 1
	}
	return win, lose
}
