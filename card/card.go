package card

import (
	"fmt"
	"strings"
)

// Card 牌
//
// 编码规则:
// - 高4位: 花色 (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - 低4位: 点数 (1:A, 2..10, 11:J, 12:Q, 13:K)
type Card byte

const CardInvalid Card = 0

// Rank is the face of a card; suit never affects its value in 21.
type Rank byte

const (
	Ace   Rank = 1
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// New builds a card from suit and rank. Out-of-range input yields CardInvalid.
func New(s Suit, r Rank) Card {
	if s > Diamond || r < Ace || r > King {
		return CardInvalid
	}
	return Card(byte(s)<<4 | byte(r))
}

// FullDeck is the 52-card rank/suit set every draw is taken from.
var FullDeck = buildFullDeck()

func buildFullDeck() []Card {
	cards := make([]Card, 0, 52)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			cards = append(cards, New(s, r))
		}
	}
	return cards
}

func (c Card) Rank() Rank {
	if c == CardInvalid {
		return 0
	}
	return Rank(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) IsAce() bool {
	return c.Rank() == Ace
}

// Points 返回 21 点中的牌值: 2..10 按面值, J/Q/K 为 10, A 先按 11 计。
func (c Card) Points() int {
	r := c.Rank()
	switch {
	case r == Ace:
		return 11
	case r >= Jack:
		return 10
	default:
		return int(r)
	}
}

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r >= Two && r <= Ten {
		return fmt.Sprintf("%d", int(r))
	}
	return "?"
}

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	return c.Rank().String() + c.Suit().String()
}

// Parse converts strings such as "As", "10h", "Td" or "Qc" into a Card.
func Parse(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return CardInvalid, fmt.Errorf("invalid card string: %s", s)
	}

	var suit Suit
	switch s[len(s)-1] {
	case 's', 'S':
		suit = Spade
	case 'h', 'H':
		suit = Heart
	case 'c', 'C':
		suit = Club
	case 'd', 'D':
		suit = Diamond
	default:
		return CardInvalid, fmt.Errorf("invalid suit: %c", s[len(s)-1])
	}

	var rank Rank
	switch strings.ToUpper(s[:len(s)-1]) {
	case "A":
		rank = Ace
	case "2":
		rank = Two
	case "3":
		rank = Three
	case "4":
		rank = Four
	case "5":
		rank = Five
	case "6":
		rank = Six
	case "7":
		rank = Seven
	case "8":
		rank = Eight
	case "9":
		rank = Nine
	case "T", "10":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	default:
		return CardInvalid, fmt.Errorf("invalid rank: %s", s[:len(s)-1])
	}
	return New(suit, rank), nil
}

// MustParse is Parse for literals known to be valid (tests, fixtures).
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Strings renders a list of cards, e.g. for ledger summaries.
func Strings(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}
