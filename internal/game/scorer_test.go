package game

import (
	"errors"
	"testing"
)

type failingScorer struct{ calls int }

func (f *failingScorer) Name() string { return "failing" }

func (f *failingScorer) Rank([2]Card, []Card) (Score, error) {
	f.calls++
	return 0, errors.New("backend down")
}

func TestFastScorerAgreesWithPureScorer(t *testing.T) {
	board := MustParseCards("Ah", "Kd", "8c", "8s", "2d")
	holes := [][2]Card{
		{{Ace, Spades}, {Queen, Hearts}},  // two pair aces and eights
		{{Eight, Hearts}, {Three, Clubs}}, // trips
		{{Queen, Clubs}, {Jack, Hearts}},  // pair of eights
		{{King, Spades}, {King, Clubs}},   // full house
		{{Ace, Clubs}, {Jack, Spades}},    // two pair, jack kicker
	}
	var pure PureScorer
	var fast FastScorer
	ps := make([]Score, len(holes))
	fs := make([]Score, len(holes))
	for i, h := range holes {
		var err error
		if ps[i], err = pure.Rank(h, board); err != nil {
			t.Fatalf("pure rank: %v", err)
		}
		if fs[i], err = fast.Rank(h, board); err != nil {
			t.Fatalf("fast rank: %v", err)
		}
	}
	for i := range holes {
		for j := range holes {
			if (ps[i] > ps[j]) != (fs[i] > fs[j]) || (ps[i] == ps[j]) != (fs[i] == fs[j]) {
				t.Fatalf("scorers disagree on %v vs %v", holes[i], holes[j])
			}
		}
	}
}

func TestFastScorerRejectsShortBoard(t *testing.T) {
	var fast FastScorer
	if _, err := fast.Rank([2]Card{{Ace, Spades}, {King, Spades}}, MustParseCards("2d", "3d")); err == nil {
		t.Fatalf("expected error for four cards")
	}
}

func TestScorerRejectsDuplicateCards(t *testing.T) {
	var pure PureScorer
	if _, err := pure.Rank([2]Card{{Ace, Spades}, {Ace, Spades}}, MustParseCards("2d", "3d", "4c")); err == nil {
		t.Fatalf("expected duplicate card error")
	}
}

func TestRankingIsStable(t *testing.T) {
	board := MustParseCards("Th", "Jd", "Qc", "2s", "7d")
	hole := [2]Card{{King, Spades}, {Nine, Hearts}}
	var pure PureScorer
	first, _ := pure.Rank(hole, board)
	for i := 0; i < 20; i++ {
		again, _ := pure.Rank(hole, board)
		if again != first {
			t.Fatalf("score changed between calls: %d vs %d", first, again)
		}
	}
}

func TestScorerChainFallsBackAsAWhole(t *testing.T) {
	primary := &failingScorer{}
	chain := NewScorerChain(primary, PureScorer{})
	board := MustParseCards("Ah", "Kd", "8c", "5s", "2d")
	scores, name, err := chain.RankAll([][2]Card{{{Ace, Spades}, {Two, Hearts}}, {{King, Clubs}, {Queen, Hearts}}}, board)
	if err != nil {
		t.Fatalf("rank all: %v", err)
	}
	if name != "pure" {
		t.Fatalf("expected pure scorer, got %s", name)
	}
	if primary.calls != 1 {
		t.Fatalf("expected primary to be tried once, got %d", primary.calls)
	}
	if scores[0] <= scores[1] {
		t.Fatalf("expected aces up to beat kings: %v", scores)
	}
}

func TestScorerChainReportsEvaluatorError(t *testing.T) {
	chain := NewScorerChain(&failingScorer{})
	_, _, err := chain.RankAll([][2]Card{{{Ace, Spades}, {Two, Hearts}}}, MustParseCards("Ah", "Kd", "8c", "5s", "2d"))
	if !errors.Is(err, ErrEvaluator) {
		t.Fatalf("expected evaluator error, got %v", err)
	}
	var evalErr *EvaluatorError
	if !errors.As(err, &evalErr) || evalErr.Scorer != "failing" {
		t.Fatalf("expected failing scorer named, got %v", err)
	}
}
