package game

// ResolveShowdown ranks the live hands and splits each pot among its best
// eligible hands. It reads s and returns the awards without paying them.
//
// When a pot splits unevenly the odd chip goes to the first eligible winner
// left of the button, which heads-up is the non-button (big blind) seat.
func (e *Engine) ResolveShowdown(s *HandState) ([]Award, error) {
	pots := BuildPots(s)

	var seats []int
	var hands [][2]Card
	for i, p := range s.Players {
		if p.Folded {
			continue
		}
		seats = append(seats, i)
		hands = append(hands, [2]Card{p.Hole[0], p.Hole[1]})
	}
	scoreBySeat := map[int]Score{}
	if len(seats) > 1 {
		scores, _, err := e.scorers.RankAll(hands, s.Board)
		if err != nil {
			return nil, err
		}
		for i, seat := range seats {
			scoreBySeat[seat] = scores[i]
		}
	}

	order := [2]int{s.nonButtonSeat(), s.ButtonSeat}
	var awards []Award
	for idx, pot := range pots {
		var winners []int
		var best Score
		for _, seat := range order {
			if !eligible(pot, s.Players[seat].ID) {
				continue
			}
			sc := scoreBySeat[seat]
			switch {
			case len(winners) == 0 || sc > best:
				winners = []int{seat}
				best = sc
			case sc == best:
				winners = append(winners, seat)
			}
		}
		if len(winners) == 0 {
			continue
		}
		shares := splitAmount(pot.Amount, len(winners))
		for i, seat := range winners {
			awards = append(awards, Award{Player: s.Players[seat].ID, Amount: shares[i], Pot: idx})
		}
	}
	return awards, nil
}

// splitAmount divides amount evenly; the remainder goes to the first share.
func splitAmount(amount int64, n int) []int64 {
	out := make([]int64, n)
	share := amount / int64(n)
	for i := range out {
		out[i] = share
	}
	out[0] += amount - share*int64(n)
	return out
}

func eligible(p Pot, id PlayerID) bool {
	for _, e := range p.Eligible {
		if e == id {
			return true
		}
	}
	return false
}

// mainPotWinner reports the player who took pot 0, or split.
func mainPotWinner(awards []Award) string {
	var takers []PlayerID
	for _, a := range awards {
		if a.Pot == 0 {
			takers = append(takers, a.Player)
		}
	}
	if len(takers) == 1 {
		return string(takers[0])
	}
	return WinnerSplit
}
