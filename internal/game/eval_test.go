package game

import "testing"

func TestEvaluate7StraightFlush(t *testing.T) {
	cards := []Card{{Ace, Spades}, {King, Spades}, {Queen, Spades}, {Jack, Spades}, {Ten, Spades}, {Two, Hearts}, {Three, Clubs}}
	r := Evaluate7(cards)
	if r.Category != CategoryStraightFlush {
		t.Fatalf("expected straight flush, got %d", r.Category)
	}
}

func TestEvaluate7FullHouse(t *testing.T) {
	cards := []Card{{Ace, Spades}, {Ace, Hearts}, {Ace, Clubs}, {King, Spades}, {King, Diamonds}, {Two, Hearts}, {Three, Clubs}}
	r := Evaluate7(cards)
	if r.Category != CategoryFullHouse {
		t.Fatalf("expected full house, got %d", r.Category)
	}
}

func TestEvaluate7TwoPair(t *testing.T) {
	cards := []Card{{Ace, Spades}, {Ace, Hearts}, {King, Clubs}, {King, Diamonds}, {Two, Hearts}, {Three, Clubs}, {Four, Spades}}
	r := Evaluate7(cards)
	if r.Category != CategoryTwoPair {
		t.Fatalf("expected two pair, got %d", r.Category)
	}
	if r.Ranks[2] != int(Four) {
		t.Fatalf("expected four kicker, got %v", r.Ranks)
	}
}

func TestWheelIsFiveHighStraight(t *testing.T) {
	wheel := Evaluate7(MustParseCards("As", "2d", "3c", "4h", "5s", "9d", "Kc"))
	if wheel.Category != CategoryStraight || wheel.Ranks[0] != 5 {
		t.Fatalf("expected 5-high straight, got %+v", wheel)
	}
	six := Evaluate7(MustParseCards("6s", "2d", "3c", "4h", "5s", "9d", "Kc"))
	if !six.BetterThan(wheel) {
		t.Fatalf("expected 6-high straight to beat the wheel")
	}
}

func TestAceDoesNotWrapAround(t *testing.T) {
	r := Evaluate7(MustParseCards("Qs", "Kd", "Ac", "2h", "3s", "8d", "9c"))
	if r.Category != CategoryHighCard {
		t.Fatalf("expected high card, got %d", r.Category)
	}
}

func TestEvaluateBestWithFewCards(t *testing.T) {
	r := EvaluateBest(MustParseCards("Ah", "Ad"))
	if r.Category != CategoryPair {
		t.Fatalf("expected pair from two cards, got %d", r.Category)
	}
	r = EvaluateBest(MustParseCards("Ah", "Kd", "Ac", "Ks"))
	if r.Category != CategoryTwoPair {
		t.Fatalf("expected two pair from four cards, got %d", r.Category)
	}
}

func TestScoreMatchesBetterThan(t *testing.T) {
	hands := [][]string{
		{"As", "Ks", "Qs", "Js", "Ts", "2h", "3c"},
		{"9s", "9h", "9c", "9d", "Ks", "2h", "3c"},
		{"9s", "9h", "9c", "Kd", "Ks", "2h", "3c"},
		{"2s", "7s", "9s", "Js", "Ks", "2h", "3c"},
		{"5s", "6h", "7c", "8d", "9s", "2h", "Kc"},
		{"9s", "9h", "9c", "Jd", "Ks", "2h", "3c"},
		{"As", "Ah", "Kc", "Kd", "2h", "3c", "4s"},
		{"As", "Ah", "Kc", "Qd", "2h", "7c", "4s"},
		{"As", "Jh", "9c", "7d", "5h", "3c", "2s"},
	}
	ranks := make([]HandRank, len(hands))
	for i, h := range hands {
		ranks[i] = Evaluate7(MustParseCards(h...))
	}
	for i := range ranks {
		for j := range ranks {
			if ranks[i].BetterThan(ranks[j]) != (ranks[i].Score() > ranks[j].Score()) {
				t.Fatalf("score order differs from BetterThan for %v vs %v", hands[i], hands[j])
			}
		}
	}
}

func TestKickerDecidesPair(t *testing.T) {
	board := MustParseCards("Ah", "Kd", "8c", "5s", "2d")
	var ps PureScorer
	strong, err := ps.Rank([2]Card{{Ace, Spades}, {Queen, Hearts}}, board)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	weak, err := ps.Rank([2]Card{{Ace, Clubs}, {Jack, Hearts}}, board)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if strong <= weak {
		t.Fatalf("expected queen kicker to win: %d vs %d", strong, weak)
	}
}
