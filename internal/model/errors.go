package model

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
)

// Precondition errors. A rejected call never changes the game.
var (
	ErrIllegalMove        = errors.New(400, "ILLEGAL_MOVE", "piece cannot move")
	ErrRollAlreadyPending = errors.New(400, "ROLL_ALREADY_PENDING", "a dice value is already pending")
	ErrGameNotActive      = errors.New(400, "GAME_NOT_ACTIVE", "game is not being played")
	ErrSeatTaken          = errors.New(409, "SEAT_TAKEN", "color already seated")
	ErrGameFull           = errors.New(409, "GAME_FULL", "no free seat")
	ErrNotEnoughSeats     = errors.New(400, "NOT_ENOUGH_SEATS", "seats are not all filled")
	ErrNotSeated          = errors.New(404, "NOT_SEATED", "color is not seated")
	ErrPlayerInactive     = errors.New(400, "PLAYER_INACTIVE", "player already left the game")
	ErrInvalidSeatCount   = errors.New(400, "INVALID_SEAT_COUNT", "seat count must be 2 or 4")
	ErrInvalidColor       = errors.New(400, "INVALID_COLOR", "unknown color")
	ErrInvalidDice        = errors.New(400, "INVALID_DICE", "dice value must be within 1..6")
	ErrStateDesync        = errors.New(409, "STATE_DESYNC", "local state diverged from the authoritative state")
	ErrInvalidTopology    = errors.New(500, "INVALID_TOPOLOGY", "invalid board topology")
	ErrInvalidSnapshot    = errors.New(400, "INVALID_SNAPSHOT", "invalid game snapshot")
)

// Resolver errors, reported when a piece has no legal path for a dice value.
var (
	ErrNeedSix       = errors.New(400, "NEED_SIX", "a piece in the yard leaves only on a six")
	ErrOvershoot     = errors.New(400, "OVERSHOOT", "move passes the finish")
	ErrPieceFinished = errors.New(400, "PIECE_FINISHED", "piece already finished")
)

func invalidTopology(format string, args ...any) error {
	return errors.New(int(ErrInvalidTopology.Code), ErrInvalidTopology.Reason, fmt.Sprintf(format, args...))
}

func invalidSnapshot(format string, args ...any) error {
	return errors.New(int(ErrInvalidSnapshot.Code), ErrInvalidSnapshot.Reason, fmt.Sprintf(format, args...))
}
