package game

import "sort"

type Pot struct {
	Amount   int64      `json:"amount"`
	Eligible []PlayerID `json:"eligible"`
}

// BuildPots splits hand contributions at every all-in boundary. The first
// pot is the main pot; each later pot only lists the players who put chips
// in at that level and have not folded. Chips a folded player committed stay
// in the pots they reached.
func BuildPots(s *HandState) []Pot {
	levels := make([]int64, 0, len(s.Players))
	for _, p := range s.Players {
		if p.Contributed > 0 && !p.Folded {
			levels = append(levels, p.Contributed)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	var pots []Pot
	var prev int64
	for _, level := range levels {
		if level == prev {
			continue
		}
		pot := Pot{}
		for _, p := range s.Players {
			in := min64(p.Contributed, level) - min64(p.Contributed, prev)
			if in <= 0 {
				continue
			}
			pot.Amount += in
			if !p.Folded && p.Contributed >= level {
				pot.Eligible = append(pot.Eligible, p.ID)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}

	// Chips a folded player put in beyond every live level.
	var dead int64
	for _, p := range s.Players {
		if p.Contributed > prev {
			dead += p.Contributed - prev
		}
	}
	if dead > 0 {
		if len(pots) == 0 {
			pots = append(pots, Pot{})
		}
		pots[len(pots)-1].Amount += dead
	}
	return pots
}
