package game

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalAction     = errors.New("illegal_action")
	ErrInsufficientStack = errors.New("insufficient_stack")
	ErrEvaluator         = errors.New("evaluator_unavailable")
)

// Constraint names reported by IllegalActionError.
const (
	ConstraintHandComplete   = "hand_complete"
	ConstraintWrongActor     = "wrong_actor"
	ConstraintNotLegal       = "action_not_legal"
	ConstraintAmountOutRange = "amount_out_of_range"
)

type IllegalActionError struct {
	Constraint string
	Action     Action
	Legal      []LegalAction
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal_action: %s (%s %s %d)", e.Constraint, e.Action.Actor, e.Action.Type, e.Action.Amount)
}

func (e *IllegalActionError) Is(target error) bool {
	return target == ErrIllegalAction
}

type InsufficientStackError struct {
	Player PlayerID
	Stack  int64
}

func (e *InsufficientStackError) Error() string {
	return fmt.Sprintf("insufficient_stack: %s has %d", e.Player, e.Stack)
}

func (e *InsufficientStackError) Is(target error) bool {
	return target == ErrInsufficientStack
}

// LegalActions lists what the player on turn may do. It is empty once the
// hand is terminal.
func LegalActions(s *HandState) []LegalAction {
	p := s.Actor()
	if p == nil || p.Folded || p.AllIn || p.Stack <= 0 {
		return nil
	}
	seat := s.CurrentActor
	opp := s.Players[1-seat]
	owed := s.ToCall(seat)

	out := []LegalAction{{Type: ActionFold}}
	if owed == 0 {
		out = append(out, LegalAction{Type: ActionCheck})
	} else {
		out = append(out, LegalAction{Type: ActionCall, ToCall: int64Ptr(min64(owed, p.Stack))})
	}

	// Sizing a wager against an all-in opponent adds nothing that all_in does not.
	if !opp.AllIn {
		if s.CurrentBet == 0 {
			out = append(out, LegalAction{
				Type:      ActionBet,
				MinAmount: int64Ptr(min64(s.BigBlind, p.Stack)),
				MaxAmount: int64Ptr(p.Stack),
			})
		} else {
			minRaise := owed + max64(s.LastRaise, s.BigBlind)
			if p.Stack >= minRaise {
				out = append(out, LegalAction{
					Type:      ActionRaise,
					MinAmount: int64Ptr(minRaise),
					MaxAmount: int64Ptr(p.Stack),
				})
			}
		}
	}

	out = append(out, LegalAction{
		Type:      ActionAllIn,
		MinAmount: int64Ptr(p.Stack),
		MaxAmount: int64Ptr(p.Stack),
	})
	return out
}

func FindLegal(legal []LegalAction, t ActionType) (LegalAction, bool) {
	for _, la := range legal {
		if la.Type == t {
			return la, true
		}
	}
	return LegalAction{}, false
}

// ValidateAction checks a against the current legal set without touching s.
func ValidateAction(s *HandState, a Action) error {
	legal := LegalActions(s)
	reject := func(constraint string) error {
		return &IllegalActionError{Constraint: constraint, Action: a, Legal: legal}
	}
	if s.Complete {
		return reject(ConstraintHandComplete)
	}
	actor := s.Actor()
	if actor == nil || actor.ID != a.Actor {
		return reject(ConstraintWrongActor)
	}
	la, ok := FindLegal(legal, a.Type)
	if !ok {
		return reject(ConstraintNotLegal)
	}
	switch a.Type {
	case ActionBet, ActionRaise, ActionAllIn:
		if a.Amount < *la.MinAmount || a.Amount > *la.MaxAmount {
			return reject(ConstraintAmountOutRange)
		}
	}
	return nil
}

// Normalize fills in amounts a caller may omit: all_in always commits the
// full stack and non-sizing actions carry no amount.
func Normalize(s *HandState, a Action) Action {
	switch a.Type {
	case ActionFold, ActionCheck, ActionCall:
		a.Amount = 0
	case ActionAllIn:
		if p := s.Actor(); p != nil && p.ID == a.Actor {
			a.Amount = p.Stack
		}
	}
	return a
}
