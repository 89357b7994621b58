package poker

import (
	"sort"
)

// SidePot is one eligibility-scoped slice of a hand's chips. Pots are built
// in ascending contribution-level order; a pot covers contributions between
// MinContribution (exclusive) and MaxContribution (inclusive).
type SidePot struct {
	Amount          int64    `json:"amount"`
	EligibleUserIDs []string `json:"eligible_user_ids"`
	MinContribution int64    `json:"min_contribution"`
	MaxContribution int64    `json:"max_contribution"`
}

// BuildSidePots partitions per-player contributions into side pots. Negative
// contributions count as zero, contributors absent from eligibleUserIDs
// contribute nothing, and each pot preserves the original relative order of
// eligibleUserIDs so downstream payouts are deterministic. The sum of pot
// amounts always equals the sum of normalized eligible contributions.
func BuildSidePots(contributions map[string]int64, eligibleUserIDs []string) []SidePot {
	eligible := make([]string, 0, len(eligibleUserIDs))
	dedup := make(map[string]bool, len(eligibleUserIDs))
	normalized := make(map[string]int64, len(eligibleUserIDs))

	for _, userID := range eligibleUserIDs {
		if dedup[userID] {
			continue
		}
		dedup[userID] = true
		eligible = append(eligible, userID)

		if c := contributions[userID]; c > 0 {
			normalized[userID] = c
		}
	}

	seenLevel := make(map[int64]bool, len(normalized))
	levels := make([]int64, 0, len(normalized))
	for _, c := range normalized {
		if !seenLevel[c] {
			seenLevel[c] = true
			levels = append(levels, c)
		}
	}

	if len(levels) == 0 {
		return nil
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	pots := make([]SidePot, 0, len(levels))

	prev := int64(0)
	for _, level := range levels {
		var participants []string
		for _, userID := range eligible {
			if normalized[userID] >= level {
				participants = append(participants, userID)
			}
		}

		pots = append(pots, SidePot{
			Amount:          (level - prev) * int64(len(participants)),
			EligibleUserIDs: participants,
			MinContribution: prev,
			MaxContribution: level,
		})

		prev = level
	}

	return pots
}

// PotTotal sums the amounts of a pot list.
func PotTotal(pots []SidePot) int64 {
	var total int64
	for _, pot := range pots {
		total += pot.Amount
	}

	return total
}
