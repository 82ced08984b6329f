// Package solver is the boundary to an external double-dummy engine.
// The engine is consumed as an opaque oracle; no search is performed here.
package solver

import (
	"context"
	"errors"
	"sort"

	"contractbridge/internal/domain"
)

var (
	ErrUnavailable = errors.New("double-dummy solver unavailable")
	ErrEmptyDeal   = errors.New("deal is required")
)

// Priority ranks a suggested play. Higher is better.
type Priority uint8

const (
	Low Priority = iota
	Medium
	High
)

func (p Priority) String() string {
	switch p {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// SuggestedPlay is one card the oracle recommends.
type SuggestedPlay struct {
	Card     domain.Card
	Priority Priority
}

// Solution is the oracle's answer for one deal.
type Solution struct {
	Plays    map[domain.Seat][]SuggestedPlay
	Makeable []domain.Contract
}

// OptimalPlays returns the suggestions for seat, best first.
func (s Solution) OptimalPlays(seat domain.Seat) []SuggestedPlay {
	plays := append([]SuggestedPlay(nil), s.Plays[seat]...)
	sort.SliceStable(plays, func(i, j int) bool {
		return plays[i].Priority > plays[j].Priority
	})
	return plays
}

// MakeableContracts lists the contracts declarer can make double dummy.
func (s Solution) MakeableContracts(declarer domain.Seat) []domain.Contract {
	var out []domain.Contract
	for _, c := range s.Makeable {
		if c.Declarer == declarer {
			out = append(out, c)
		}
	}
	return out
}

// MakeableContract returns the makeable contract for declarer in denom, if any.
func (s Solution) MakeableContract(declarer domain.Seat, denom domain.Denomination) (domain.Contract, bool) {
	for _, c := range s.Makeable {
		if c.Declarer == declarer && c.Denomination == denom {
			return c, true
		}
	}
	return domain.Contract{}, false
}

// Solver analyses a PBN deal for a contract with the given seat on lead.
type Solver interface {
	Solve(ctx context.Context, deal string, contract domain.Contract, leader domain.Seat) (Solution, error)
}

// Func adapts a function to Solver.
type Func func(ctx context.Context, deal string, contract domain.Contract, leader domain.Seat) (Solution, error)

func (f Func) Solve(ctx context.Context, deal string, contract domain.Contract, leader domain.Seat) (Solution, error) {
	if deal == "" {
		return Solution{}, ErrEmptyDeal
	}
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}
	return f(ctx, deal, contract, leader)
}

// Unavailable is used when no engine is linked into the server.
type Unavailable struct{}

func (Unavailable) Solve(context.Context, string, domain.Contract, domain.Seat) (Solution, error) {
	return Solution{}, ErrUnavailable
}
