package game

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
)

type Suit int

type Rank int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const (
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
	Ace   Rank = 14
)

const rankChars = "23456789TJQKA"

const suitChars = "shdc"

type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	if c.Rank < Two || c.Rank > Ace || c.Suit < Spades || c.Suit > Clubs {
		return "??"
	}
	return string(rankChars[c.Rank-Two]) + string(suitChars[c.Suit])
}

// ParseCard accepts the two-character form produced by Card.String, e.g. "As" or "Td".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid_card: %q", s)
	}
	r := strings.IndexByte(rankChars, s[0])
	u := strings.IndexByte(suitChars, s[1])
	if r < 0 || u < 0 {
		return Card{}, fmt.Errorf("invalid_card: %q", s)
	}
	return Card{Rank: Two + Rank(r), Suit: Suit(u)}, nil
}

func MustParseCards(list ...string) []Card {
	out := make([]Card, 0, len(list))
	for _, s := range list {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}

func CardStrings(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

type Deck struct {
	cards []Card
}

func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for s := Spades; s <= Clubs; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// NewSeededDeck returns a full deck shuffled deterministically from seed.
// The same seed always produces the same order.
func NewSeededDeck(seed string) *Deck {
	d := NewDeck()
	d.ShuffleSeed(seed)
	return d
}

func (d *Deck) ShuffleSeed(seed string) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	rnd := rand.New(rand.NewSource(int64(h.Sum64())))
	rnd.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes the top card. Heads-up hands use at most nine cards so a
// fresh deck never runs dry.
func (d *Deck) Deal() Card {
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

func (d *Deck) clone() *Deck {
	if d == nil {
		return nil
	}
	return &Deck{cards: append([]Card(nil), d.cards...)}
}
