package game

import (
	"sort"
)

// Hand categories, weakest first.
const (
	CategoryHighCard = iota
	CategoryPair
	CategoryTwoPair
	CategoryTrips
	CategoryStraight
	CategoryFlush
	CategoryFullHouse
	CategoryQuads
	CategoryStraightFlush
)

var categoryNames = [...]string{
	"High Card", "Pair", "Two Pair", "Three of a Kind", "Straight",
	"Flush", "Full House", "Four of a Kind", "Straight Flush",
}

func CategoryName(category int) string {
	if category < 0 || category >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[category]
}

type HandRank struct {
	Category int
	Ranks    []int
}

func (h HandRank) BetterThan(o HandRank) bool {
	if h.Category != o.Category {
		return h.Category > o.Category
	}
	for i := 0; i < len(h.Ranks) && i < len(o.Ranks); i++ {
		if h.Ranks[i] != o.Ranks[i] {
			return h.Ranks[i] > o.Ranks[i]
		}
	}
	return false
}

// Score packs the category and up to five tie-break ranks into one value so
// that comparing scores matches BetterThan.
func (h HandRank) Score() Score {
	v := int64(h.Category)
	for i := 0; i < 5; i++ {
		v <<= 4
		if i < len(h.Ranks) {
			v |= int64(h.Ranks[i])
		}
	}
	return Score(v)
}

// EvaluateBest ranks the best hand available from 1 to 7 cards. With fewer
// than five cards only pairs, trips and quads can form.
func EvaluateBest(cards []Card) HandRank {
	n := len(cards)
	if n <= 5 {
		return evalN(cards)
	}
	best := HandRank{Category: -1}
	combo := make([]Card, 5)
	var walk func(start, k int)
	walk = func(start, k int) {
		if k == 5 {
			h := evalN(combo)
			if h.BetterThan(best) {
				best = h
			}
			return
		}
		for i := start; i <= n-(5-k); i++ {
			combo[k] = cards[i]
			walk(i+1, k+1)
		}
	}
	walk(0, 0)
	return best
}

func Evaluate7(cards []Card) HandRank {
	return EvaluateBest(cards)
}

func evalN(cards []Card) HandRank {
	counts := map[int]int{}
	suits := map[Suit]int{}
	ranks := make([]int, 0, len(cards))
	for _, c := range cards {
		r := int(c.Rank)
		counts[r]++
		suits[c.Suit]++
		ranks = append(ranks, r)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	isFlush := false
	if len(cards) == 5 {
		for _, v := range suits {
			if v == 5 {
				isFlush = true
				break
			}
		}
	}
	isStraight, highStraight := straightHigh(ranks)
	if isFlush && isStraight {
		return HandRank{Category: CategoryStraightFlush, Ranks: []int{highStraight}}
	}

	type rc struct {
		rank  int
		count int
	}
	groups := make([]rc, 0, len(counts))
	for r, c := range counts {
		groups = append(groups, rc{rank: r, count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	if len(groups) == 0 {
		return HandRank{Category: CategoryHighCard}
	}
	second := rc{}
	if len(groups) > 1 {
		second = groups[1]
	}

	switch {
	case groups[0].count == 4:
		return HandRank{Category: CategoryQuads, Ranks: append([]int{groups[0].rank}, topKickers(ranks, []int{groups[0].rank}, 1)...)}
	case groups[0].count == 3 && second.count >= 2:
		return HandRank{Category: CategoryFullHouse, Ranks: []int{groups[0].rank, second.rank}}
	case isFlush:
		return HandRank{Category: CategoryFlush, Ranks: ranks}
	case isStraight:
		return HandRank{Category: CategoryStraight, Ranks: []int{highStraight}}
	case groups[0].count == 3:
		return HandRank{Category: CategoryTrips, Ranks: append([]int{groups[0].rank}, topKickers(ranks, []int{groups[0].rank}, 2)...)}
	case groups[0].count == 2 && second.count == 2:
		kickers := topKickers(ranks, []int{groups[0].rank, second.rank}, 1)
		return HandRank{Category: CategoryTwoPair, Ranks: append([]int{groups[0].rank, second.rank}, kickers...)}
	case groups[0].count == 2:
		return HandRank{Category: CategoryPair, Ranks: append([]int{groups[0].rank}, topKickers(ranks, []int{groups[0].rank}, 3)...)}
	}
	return HandRank{Category: CategoryHighCard, Ranks: ranks}
}

// straightHigh treats the wheel (A-2-3-4-5) as the only ace-low straight.
func straightHigh(ranks []int) (bool, int) {
	unique := uniqueRanks(ranks)
	sort.Sort(sort.Reverse(sort.IntSlice(unique)))
	if len(unique) < 5 {
		return false, 0
	}
	for i := 0; i <= len(unique)-5; i++ {
		if unique[i]-unique[i+4] == 4 {
			return true, unique[i]
		}
	}
	if contains(unique, 14) && contains(unique, 5) && contains(unique, 4) && contains(unique, 3) && contains(unique, 2) {
		return true, 5
	}
	return false, 0
}

func uniqueRanks(ranks []int) []int {
	m := map[int]bool{}
	out := make([]int, 0, len(ranks))
	for _, r := range ranks {
		if !m[r] {
			m[r] = true
			out = append(out, r)
		}
	}
	return out
}

func contains(arr []int, v int) bool {
	for _, x := range arr {
		if x == v {
			return true
		}
	}
	return false
}

func topKickers(ranks []int, exclude []int, n int) []int {
	out := []int{}
	for _, r := range ranks {
		if contains(exclude, r) {
			continue
		}
		out = append(out, r)
		if len(out) == n {
			break
		}
	}
	return out
}
