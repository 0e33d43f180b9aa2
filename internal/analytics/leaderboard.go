package analytics

import (
	"fmt"
	"sort"
)

// DefaultLeaderboardSize is the number of entries shown on the dashboard.
const DefaultLeaderboardSize = 5

// LeaderboardEntry is a ranked rollup ready for display.
type LeaderboardEntry struct {
	StudentRollup
	Rank             int
	BestScoreDisplay string
}

// TopN ranks rollups by best score, highest first, and keeps at most n. The
// sort is stable, so equal scores keep their order of first appearance.
func TopN(rollups Rollups, n int) []LeaderboardEntry {
	if n <= 0 {
		return []LeaderboardEntry{}
	}

	ranked := rollups.List()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BestScore > ranked[j].BestScore
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	entries := make([]LeaderboardEntry, 0, len(ranked))
	for idx, rollup := range ranked {
		entries = append(entries, LeaderboardEntry{
			StudentRollup:    rollup,
			Rank:             idx + 1,
			BestScoreDisplay: fmt.Sprintf("%d%%", roundHalfUp(rollup.BestScore)),
		})
	}
	return entries
}
