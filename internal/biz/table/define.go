package table

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/yola1107/ludo/internal/conf"
)

/*
	StageID is the table stage. StDice and StMove carry the turn deadline.
*/

type StageID int32

const (
	StWait   StageID = iota // seats filling
	StReady                 // full, short countdown to start
	StDice                  // current player must roll
	StMove                  // current player must pick a piece
	StPass                  // grace pause after an auto-pass or forfeit
	StResult                // winner known, snapshot saved
)

// StageTimeouts are the fixed stage durations; turn stages come from room.game.
var StageTimeouts = map[StageID]time.Duration{
	StWait:   0,
	StReady:  time.Second,
	StResult: 3 * time.Second,
}

var StageNames = map[StageID]string{
	StWait:   "StWait",
	StReady:  "StReady",
	StDice:   "StDice",
	StMove:   "StMove",
	StPass:   "StPass",
	StResult: "StResult",
}

func (s StageID) String() string {
	if name, ok := StageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StageID(%d)", s)
}

// Timeout returns how long the stage lasts under c. Zero means no timer.
func (s StageID) Timeout(c *conf.Game) time.Duration {
	switch s {
	case StDice, StMove:
		return c.TurnTimeout()
	case StPass:
		return c.GraceDelay()
	}
	if timeout, ok := StageTimeouts[s]; ok {
		return timeout
	}
	log.Warnf("unknown stage: %d. use default timeout=0s", s)
	return 0
}

// IsTurn reports whether the stage is waiting on the current player.
func (s StageID) IsTurn() bool {
	return s == StDice || s == StMove
}

/*
Stage is the current stage with its timer.
*/

type Stage struct {
	mu       sync.RWMutex
	State    StageID
	Prev     StageID
	TimerID  int64
	StartAt  time.Time
	Duration time.Duration
}

func (s *Stage) Remaining() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	elapsed := time.Since(s.StartAt)
	if elapsed > s.Duration {
		return 0
	}
	return s.Duration - elapsed
}

func (s *Stage) GetState() StageID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.State
}

func (s *Stage) GetTimerID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.TimerID
}

func (s *Stage) GetStartAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.StartAt
}

func (s *Stage) Snap() (StageID, StageID, time.Duration, time.Time, int64) {
	s.mu.RLock()
	prev, state, dur, at, timerID := s.Prev, s.State, s.Duration, s.StartAt, s.TimerID
	s.mu.RUnlock()
	return prev, state, dur, at, timerID
}

func (s *Stage) Desc() string {
	prev, state, duration, _, _ := s.Snap()
	return fmt.Sprintf("[%v->%v, dur=%v]", prev, state, duration)
}

func (s *Stage) Set(state StageID, duration time.Duration, timerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Prev = s.State
	s.State = state
	s.StartAt = time.Now()
	s.Duration = duration
	s.TimerID = timerID
}
