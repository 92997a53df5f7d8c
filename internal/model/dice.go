package model

// DiceSource yields one dice value per call. The engine validates the value, so a
// source may be a local PRNG or a value already finalized elsewhere.
type DiceSource func() int32

// FixedDice always returns v.
func FixedDice(v int32) DiceSource {
	return func() int32 { return v }
}

// ScriptedDice replays values in order and returns 0 once exhausted.
func ScriptedDice(values ...int32) DiceSource {
	i := 0
	return func() int32 {
		if i >= len(values) {
			return 0
		}
		v := values[i]
		i++
		return v
	}
}
