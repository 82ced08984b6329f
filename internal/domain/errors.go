package domain

import (
	"errors"
	"fmt"
)

// Rule violations. A rejected action never mutates engine state.
var (
	ErrPlayOutOfTurn                 = errors.New("play out of turn")
	ErrAlreadyConcluded              = errors.New("already concluded")
	ErrCallTooLow                    = errors.New("call too low")
	ErrDoubleBeforeCall              = errors.New("double before any call")
	ErrDoubleOwnUndoubledPartnership = errors.New("cannot double own partnership's undoubled call")
	ErrReRedouble                    = errors.New("call already redoubled")
	ErrCardNotInHand                 = errors.New("card not in hand")
	ErrLeadRequired                  = errors.New("lead seat is required")

	ErrInvalidBid        = errors.New("invalid bid")
	ErrInvalidCard       = errors.New("invalid card")
	ErrMustFollowSuit    = errors.New("must follow suit if possible")
	ErrCardAlreadyInHand = errors.New("card already in hand")
	ErrAlreadyStarted    = errors.New("already started")
)

// ErrAlreadyDoubled rejects an opponent double of a call that is already doubled.
// It matches ErrReRedouble under errors.Is.
var ErrAlreadyDoubled = fmt.Errorf("%w: call already doubled", ErrReRedouble)
