package poker

import (
	"fmt"
	"strings"
)

// Suit constants
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

// Rank constants (0-12 for 2-A)
const (
	Two uint8 = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "CDHS"
)

// Card is a single playing card. Ranks are zero-based with deuce = 0 and
// ace = 12.
type Card struct {
	Rank uint8
	Suit uint8
}

// NewCard creates a card from rank and suit.
func NewCard(rank, suit uint8) Card {
	return Card{Rank: rank, Suit: suit}
}

// Valid reports whether the card has a legal rank and suit.
func (c Card) Valid() bool {
	return c.Rank <= Ace && c.Suit <= Spades
}

// index returns the card's position in a 52-card deck, for duplicate checks.
func (c Card) index() int {
	return int(c.Suit)*13 + int(c.Rank)
}

// String returns the two-character representation (e.g. "AS", "TD").
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}

	return string(rankChars[c.Rank]) + string(suitChars[c.Suit])
}

// ParseCard parses a two-character string like "AS" into a Card.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	var rank uint8
	switch s[0] {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = s[0] - '2'
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank: %c", s[0])
	}

	var suit uint8
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit: %c", s[1])
	}

	return NewCard(rank, suit), nil
}

// MustParseCard parses a card string and panics on failure. Test helper.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}

	return c
}

// ParseCards parses a slice of card strings.
func ParseCards(ss []string) ([]Card, error) {
	cards := make([]Card, 0, len(ss))
	for _, s := range ss {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}

		cards = append(cards, c)
	}

	return cards, nil
}

// MustParseCards parses a space-separated card list and panics on failure.
// Test helper.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(strings.Fields(s))
	if err != nil {
		panic(err)
	}

	return cards
}

// MarshalText renders the card as its two-character form.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid card: rank %d suit %d", c.Rank, c.Suit)
	}

	return []byte(c.String()), nil
}

// UnmarshalText parses the two-character form.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}
