package poker

import (
	"fmt"
	"sort"

	"github.com/krzysztofcal/chipledger/internal/domain"
)

// Category enumerates the standard hand classes ordered from weakest to
// strongest. Higher values beat lower ones.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable hand description.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank packs a hand's category and ordered tiebreak key into a single
// comparable value: the category sits above five rank nibbles, most
// significant first, so comparing two HandRanks compares
// (category, tiebreak) lexicographically.
type HandRank uint32

// Category returns the hand class encoded in the rank.
func (r HandRank) Category() Category {
	return Category(r >> 20)
}

// PlayerHand is one showdown participant's hole cards.
type PlayerHand struct {
	UserID    string `json:"user_id"`
	HoleCards []Card `json:"hole_cards"`
}

// HandResult is the best five-card hand a player can make.
type HandResult struct {
	UserID   string   `json:"user_id"`
	Category Category `json:"category"`
	Rank     HandRank `json:"rank"`
	Best5    [5]Card  `json:"best5"`
}

// ShowdownResult holds the winner set and per-player hands of one showdown.
// Hole cards are keyed by user id and are pre-redaction; callers must pass
// the result through RedactShowdownForViewer before broadcasting.
type ShowdownResult struct {
	Winners                   []string              `json:"winners"`
	HandsByUserID             map[string]HandResult `json:"hands_by_user_id"`
	RevealedHoleCardsByUserID map[string][]Card     `json:"revealed_hole_cards_by_user_id"`
}

// ComputeShowdown ranks every player's best five-card hand over their two
// hole cards plus the five community cards and returns all players tied for
// the maximum, supporting split pots including board-plays ties. Malformed
// input is rejected with invalid_state before any computation.
func ComputeShowdown(community []Card, players []PlayerHand) (*ShowdownResult, error) {
	if len(community) != 5 {
		return nil, fmt.Errorf("%w: community must have exactly 5 cards, got %d", domain.ErrInvalidState, len(community))
	}

	if len(players) == 0 {
		return nil, fmt.Errorf("%w: showdown requires at least one player", domain.ErrInvalidState)
	}

	var seen [52]bool
	for _, c := range community {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: invalid community card", domain.ErrInvalidState)
		}

		if seen[c.index()] {
			return nil, fmt.Errorf("%w: duplicate card %s", domain.ErrInvalidState, c)
		}
		seen[c.index()] = true
	}

	seenUsers := make(map[string]bool, len(players))
	for _, p := range players {
		if p.UserID == "" {
			return nil, fmt.Errorf("%w: player without user id", domain.ErrInvalidState)
		}

		if seenUsers[p.UserID] {
			return nil, fmt.Errorf("%w: duplicate player %s", domain.ErrInvalidState, p.UserID)
		}
		seenUsers[p.UserID] = true

		if len(p.HoleCards) != 2 {
			return nil, fmt.Errorf("%w: player %s must have exactly 2 hole cards, got %d", domain.ErrInvalidState, p.UserID, len(p.HoleCards))
		}

		for _, c := range p.HoleCards {
			if !c.Valid() {
				return nil, fmt.Errorf("%w: invalid hole card for player %s", domain.ErrInvalidState, p.UserID)
			}

			if seen[c.index()] {
				return nil, fmt.Errorf("%w: duplicate card %s", domain.ErrInvalidState, c)
			}
			seen[c.index()] = true
		}
	}

	result := &ShowdownResult{
		HandsByUserID:             make(map[string]HandResult, len(players)),
		RevealedHoleCardsByUserID: make(map[string][]Card, len(players)),
	}

	var bestRank HandRank
	for _, p := range players {
		seven := make([]Card, 0, 7)
		seven = append(seven, p.HoleCards...)
		seven = append(seven, community...)

		rank, best5 := evaluateBest(seven)
		result.HandsByUserID[p.UserID] = HandResult{
			UserID:   p.UserID,
			Category: rank.Category(),
			Rank:     rank,
			Best5:    best5,
		}
		result.RevealedHoleCardsByUserID[p.UserID] = append([]Card(nil), p.HoleCards...)

		if rank > bestRank {
			bestRank = rank
		}
	}

	for _, p := range players {
		if result.HandsByUserID[p.UserID].Rank == bestRank {
			result.Winners = append(result.Winners, p.UserID)
		}
	}

	return result, nil
}

// evaluateBest enumerates all 5-card combinations of seven cards and keeps
// the maximum-scoring one.
func evaluateBest(cards []Card) (HandRank, [5]Card) {
	var (
		best      HandRank
		bestCards [5]Card
	)

	// Choosing 5 of 7 is dropping 2: iterate over the excluded pair.
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			var combo [5]Card

			k := 0
			for m, c := range cards {
				if m != i && m != j {
					combo[k] = c
					k++
				}
			}

			rank, ordered := evaluate5(combo)
			if rank > best {
				best = rank
				bestCards = ordered
			}
		}
	}

	return best, bestCards
}

// evaluate5 scores exactly five cards and returns them reordered to match
// the tiebreak key (grouped ranks first, straights high to low).
func evaluate5(cards [5]Card) (HandRank, [5]Card) {
	var counts [13]uint8
	var rankSet uint16

	flush := true
	for _, c := range cards {
		counts[c.Rank]++
		rankSet |= 1 << c.Rank

		if c.Suit != cards[0].Suit {
			flush = false
		}
	}

	high := straightHigh(rankSet)

	type group struct {
		rank  uint8
		count uint8
	}

	groups := make([]group, 0, 5)
	for rank := Ace; ; rank-- {
		if counts[rank] > 0 {
			groups = append(groups, group{rank: rank, count: counts[rank]})
		}

		if rank == Two {
			break
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	var category Category
	switch {
	case flush && high >= 0:
		category = StraightFlush
	case groups[0].count == 4:
		category = FourOfAKind
	case groups[0].count == 3 && groups[1].count == 2:
		category = FullHouse
	case flush:
		category = Flush
	case high >= 0:
		category = Straight
	case groups[0].count == 3:
		category = ThreeOfAKind
	case groups[0].count == 2 && groups[1].count == 2:
		category = TwoPair
	case groups[0].count == 2:
		category = Pair
	default:
		category = HighCard
	}

	rank := HandRank(category) << 20

	if category == Straight || category == StraightFlush {
		// Only the high card matters; the ace plays low in a wheel.
		rank |= HandRank(high) << 16

		return rank, orderStraight(cards, uint8(high))
	}

	shift := uint(16)
	var ordered [5]Card

	i := 0
	for _, g := range groups {
		for n := uint8(0); n < g.count; n++ {
			rank |= HandRank(g.rank) << shift
			shift -= 4
		}

		for _, c := range cards {
			if c.Rank == g.rank {
				ordered[i] = c
				i++
			}
		}
	}

	return rank, ordered
}

// straightHigh returns the rank index of the straight's high card, or -1.
// A five-high straight (the wheel) reports Five as its high card.
func straightHigh(rankSet uint16) int {
	for high := int(Ace); high >= int(Six); high-- {
		mask := uint16(0x1F) << (high - 4)
		if rankSet&mask == mask {
			return high
		}
	}

	const wheel = 1<<Ace | 1<<Five | 1<<Four | 1<<Three | 1<<Two
	if rankSet&wheel == wheel {
		return int(Five)
	}

	return -1
}

// orderStraight arranges a straight's cards from the high card down, with
// the ace trailing in a wheel.
func orderStraight(cards [5]Card, high uint8) [5]Card {
	var ordered [5]Card

	for i := 0; i < 5; i++ {
		want := int(high) - i
		if want < 0 {
			want = int(Ace) // wheel ace
		}

		for _, c := range cards {
			if int(c.Rank) == want {
				ordered[i] = c
				break
			}
		}
	}

	return ordered
}
