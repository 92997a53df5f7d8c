package table

import (
	"fmt"

	"github.com/yola1107/ludo/internal/model"
)

// RenderEvent formats one engine event as an activity feed line. name resolves a
// seat color to the display name of its player.
func RenderEvent(e model.Event, name func(model.Color) string) string {
	actor := name(e.Color)
	switch e.Kind {
	case model.EventDice:
		return fmt.Sprintf("%s rolled a %d.", actor, e.Dice)
	case model.EventMove:
		captured := ""
		if len(e.Captured) > 0 {
			captured = " and captured!"
		}
		return fmt.Sprintf("%s moved piece #%d from %s to %s%s", actor, e.Piece.Index+1, e.From, e.To, captured)
	case model.EventTurnPassed:
		return fmt.Sprintf("%s's turn auto-passed.", actor)
	case model.EventTurnForfeited:
		return fmt.Sprintf("%s forfeited the turn.", actor)
	case model.EventDeadlineMissed:
		return fmt.Sprintf("%s missed the deadline (%d).", actor, e.Missed)
	case model.EventPlayerDropped:
		return fmt.Sprintf("%s was dropped due to inactivity.", actor)
	case model.EventPlayerResigned:
		return fmt.Sprintf("%s resigned.", actor)
	case model.EventPlayerWon:
		return fmt.Sprintf("%s won the game!", actor)
	default:
		return fmt.Sprintf("%s acted.", actor)
	}
}
