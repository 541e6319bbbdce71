package truco

import "errors"

var (
	ErrGameEnded      = errors.New("game already ended")
	ErrOutOfTurn      = errors.New("action out of turn")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrUnknownCommand = errors.New("unknown command")
	ErrBetPending     = errors.New("a bet is waiting for an answer")
	ErrNoPendingBet   = errors.New("there is no bet to answer")
	ErrNotYourAnswer  = errors.New("the other team must answer the bet")
	ErrEnvidoClosed   = errors.New("envido can no longer be called this round")
	ErrBetNotRaisable = errors.New("bet level not currently raisable")
	ErrInvalidCard    = errors.New("invalid card index")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
