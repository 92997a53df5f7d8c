package conf

import (
	"fmt"
	"time"
)

type Bootstrap struct {
	Room *Room `json:"room"`
	Data *Data `json:"data"`
}

type Room struct {
	Table    *Table    `json:"table"`
	Game     *Game     `json:"game"`
	Robot    *Robot    `json:"robot"`
	LogCache *LogCache `json:"logCache"`
}

// Table sizes the room: how many tables and how many chairs each (2 or 4).
type Table struct {
	TableNum int32 `json:"tableNum"`
	ChairNum int32 `json:"chairNum"`
}

// Game holds the per-round rules. Changes apply from the next round.
type Game struct {
	TurnTimeoutMs       int64  `json:"turnTimeoutMs"`
	GraceDelayMs        int64  `json:"graceDelayMs"`
	MissedDeadlineLimit int32  `json:"missedDeadlineLimit"`
	AutoMoveSingle      bool   `json:"autoMoveSingle"`
	BonusRoll           bool   `json:"bonusRoll"`
	TopologyFile        string `json:"topologyFile"`
}

type Robot struct {
	Open       bool  `json:"open"`
	Num        int32 `json:"num"`
	IdBegin    int64 `json:"idBegin"`
	MinThinkMs int64 `json:"minThinkMs"`
	MaxThinkMs int64 `json:"maxThinkMs"`
}

type LogCache struct {
	Open      bool   `json:"open"`
	Directory string `json:"directory"`
}

type Data struct {
	Redis *Redis `json:"redis"`
}

type Redis struct {
	Addr           string `json:"addr"`
	Password       string `json:"password"`
	Db             int32  `json:"db"`
	SnapshotTtlSec int64  `json:"snapshotTtlSec"`
}

func (c *Bootstrap) Validate() error {
	if c.Room == nil {
		return fmt.Errorf("room is required")
	}
	if c.Data == nil {
		return fmt.Errorf("data is required")
	}
	if err := c.Room.Validate(); err != nil {
		return err
	}
	return c.Data.Validate()
}

func (c *Room) Validate() error {
	if c.Table == nil || c.Game == nil || c.Robot == nil || c.LogCache == nil {
		return fmt.Errorf("room: table, game, robot and logCache are required")
	}
	for _, v := range []validator{c.Table, c.Game, c.Robot, c.LogCache} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Table) Validate() error {
	if c.TableNum <= 0 {
		return fmt.Errorf("room.table.tableNum must be positive, got %d", c.TableNum)
	}
	if c.ChairNum != 2 && c.ChairNum != 4 {
		return fmt.Errorf("room.table.chairNum must be 2 or 4, got %d", c.ChairNum)
	}
	return nil
}

func (c *Game) Validate() error {
	if c.TurnTimeoutMs <= 0 {
		return fmt.Errorf("room.game.turnTimeoutMs must be positive, got %d", c.TurnTimeoutMs)
	}
	if c.GraceDelayMs < 0 {
		return fmt.Errorf("room.game.graceDelayMs must not be negative, got %d", c.GraceDelayMs)
	}
	if c.MissedDeadlineLimit < 0 {
		return fmt.Errorf("room.game.missedDeadlineLimit must not be negative, got %d", c.MissedDeadlineLimit)
	}
	return nil
}

func (c *Game) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutMs) * time.Millisecond
}

func (c *Game) GraceDelay() time.Duration {
	return time.Duration(c.GraceDelayMs) * time.Millisecond
}

func (c *Robot) Validate() error {
	if c.Num < 0 {
		return fmt.Errorf("room.robot.num must not be negative, got %d", c.Num)
	}
	if c.MinThinkMs < 0 || c.MaxThinkMs < c.MinThinkMs {
		return fmt.Errorf("room.robot: need 0 <= minThinkMs <= maxThinkMs, got %d..%d", c.MinThinkMs, c.MaxThinkMs)
	}
	return nil
}

func (c *LogCache) Validate() error {
	if c.Open && c.Directory == "" {
		return fmt.Errorf("room.logCache.directory is required when open")
	}
	return nil
}

func (c *Data) Validate() error {
	if c.Redis == nil || c.Redis.Addr == "" {
		return fmt.Errorf("data.redis.addr is required")
	}
	if c.Redis.SnapshotTtlSec < 0 {
		return fmt.Errorf("data.redis.snapshotTtlSec must not be negative")
	}
	return nil
}

func (c *Redis) SnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTtlSec) * time.Second
}
