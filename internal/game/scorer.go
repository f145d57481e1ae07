package game

import (
	"errors"
	"fmt"

	"github.com/paulhankin/poker"
)

// Score orders showdown hands: higher wins, equal splits. Scores are only
// comparable when produced by the same Scorer.
type Score int64

type Scorer interface {
	Name() string
	Rank(hole [2]Card, board []Card) (Score, error)
}

var errCardCount = errors.New("invalid_card_count")

type PureScorer struct{}

func (PureScorer) Name() string { return "pure" }

func (PureScorer) Rank(hole [2]Card, board []Card) (Score, error) {
	if len(board) > 5 {
		return 0, errCardCount
	}
	cards := make([]Card, 0, 7)
	cards = append(cards, hole[:]...)
	cards = append(cards, board...)
	if err := checkDistinct(cards); err != nil {
		return 0, err
	}
	return EvaluateBest(cards).Score(), nil
}

// FastScorer ranks through the table-driven evaluator in
// github.com/paulhankin/poker. It needs at least five cards.
type FastScorer struct{}

func (FastScorer) Name() string { return "fast" }

func (FastScorer) Rank(hole [2]Card, board []Card) (Score, error) {
	cards := make([]Card, 0, 7)
	cards = append(cards, hole[:]...)
	cards = append(cards, board...)
	if err := checkDistinct(cards); err != nil {
		return 0, err
	}
	pcs, err := toLibCards(cards)
	if err != nil {
		return 0, err
	}
	switch len(pcs) {
	case 7:
		var a7 [7]poker.Card
		copy(a7[:], pcs)
		return Score(poker.Eval7(&a7)), nil
	case 6:
		best := int16(-1 << 15)
		var five [5]poker.Card
		for skip := 0; skip < 6; skip++ {
			k := 0
			for i, c := range pcs {
				if i == skip {
					continue
				}
				five[k] = c
				k++
			}
			if s := poker.Eval5(&five); s > best {
				best = s
			}
		}
		return Score(best), nil
	case 5:
		var a5 [5]poker.Card
		copy(a5[:], pcs)
		return Score(poker.Eval5(&a5)), nil
	}
	return 0, errCardCount
}

func toLibCards(cards []Card) ([]poker.Card, error) {
	out := make([]poker.Card, 0, len(cards))
	for _, c := range cards {
		var s poker.Suit
		switch c.Suit {
		case Clubs:
			s = poker.Club
		case Diamonds:
			s = poker.Diamond
		case Hearts:
			s = poker.Heart
		case Spades:
			s = poker.Spade
		default:
			return nil, fmt.Errorf("invalid_card: %v", c)
		}
		// The library counts the ace as rank 1.
		r := poker.Rank(c.Rank)
		if c.Rank == Ace {
			r = poker.Rank(1)
		}
		pc, err := poker.MakeCard(s, r)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, nil
}

func checkDistinct(cards []Card) error {
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if c.Rank < Two || c.Rank > Ace || c.Suit < Spades || c.Suit > Clubs {
			return fmt.Errorf("invalid_card: %v", c)
		}
		if seen[c] {
			return fmt.Errorf("duplicate_card: %s", c)
		}
		seen[c] = true
	}
	return nil
}

type EvaluatorError struct {
	Scorer string
	Err    error
}

func (e *EvaluatorError) Error() string {
	return fmt.Sprintf("evaluator_unavailable: %s: %v", e.Scorer, e.Err)
}

func (e *EvaluatorError) Unwrap() error { return e.Err }

func (e *EvaluatorError) Is(target error) bool { return target == ErrEvaluator }

// ScorerChain tries each scorer in order until one ranks every hand of a
// showdown. A single showdown never mixes scores from two scorers.
type ScorerChain struct {
	scorers []Scorer
}

func NewScorerChain(primary Scorer, fallbacks ...Scorer) *ScorerChain {
	list := make([]Scorer, 0, 1+len(fallbacks))
	if primary != nil {
		list = append(list, primary)
	}
	for _, s := range fallbacks {
		if s != nil {
			list = append(list, s)
		}
	}
	return &ScorerChain{scorers: list}
}

// RankAll scores every hand with the first scorer that succeeds for all of
// them.
func (c *ScorerChain) RankAll(hands [][2]Card, board []Card) ([]Score, string, error) {
	if c == nil || len(c.scorers) == 0 {
		return nil, "", &EvaluatorError{Scorer: "none", Err: errors.New("no_scorer_configured")}
	}
	var lastErr *EvaluatorError
	for _, s := range c.scorers {
		scores := make([]Score, len(hands))
		var failed error
		for i, h := range hands {
			v, err := s.Rank(h, board)
			if err != nil {
				failed = err
				break
			}
			scores[i] = v
		}
		if failed == nil {
			return scores, s.Name(), nil
		}
		lastErr = &EvaluatorError{Scorer: s.Name(), Err: failed}
	}
	return nil, "", lastErr
}

// Describe names the best hand category for display, e.g. "Full House".
func Describe(hole [2]Card, board []Card) string {
	cards := append(append([]Card{}, hole[:]...), board...)
	return CategoryName(EvaluateBest(cards).Category)
}
