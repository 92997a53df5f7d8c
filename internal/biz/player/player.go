package player

import (
	"fmt"

	"github.com/yola1107/ludo/internal/model"
)

// BaseData is the account side of a player, owned outside the table.
type BaseData struct {
	UID      int64
	NickName string
	Avatar   string
}

type Player struct {
	isRobot  bool
	baseData *BaseData
	gameData *GameData
}

type Raw struct {
	ID       int64
	IsRobot  bool
	BaseData *BaseData
}

func New(raw *Raw) *Player {
	base := raw.BaseData
	if base == nil {
		base = &BaseData{UID: raw.ID, NickName: fmt.Sprintf("p%d", raw.ID)}
	}
	p := &Player{
		isRobot:  raw.IsRobot,
		baseData: base,
		gameData: &GameData{},
	}
	p.ExitReset()
	return p
}

func (p *Player) IsRobot() bool          { return p.isRobot }
func (p *Player) GetBaseData() *BaseData { return p.baseData }
func (p *Player) GetPlayerID() int64     { return p.baseData.UID }
func (p *Player) GetNickName() string    { return p.baseData.NickName }

// Name is the activity-feed label of the player.
func (p *Player) Name() string {
	if p.baseData.NickName != "" {
		return p.baseData.NickName
	}
	return fmt.Sprintf("%d", p.baseData.UID)
}

// Status is the seat state of a player at a table.
type Status int32

const (
	StFree Status = iota
	StSit
	StReady
	StGaming
	StResigned // left the running game voluntarily
	StDropped  // removed after too many missed deadlines
)

func (s Status) String() string {
	switch s {
	case StFree:
		return "Free"
	case StSit:
		return "Sit"
	case StReady:
		return "Ready"
	case StGaming:
		return "Gaming"
	case StResigned:
		return "Resigned"
	case StDropped:
		return "Dropped"
	default:
		return fmt.Sprintf("%d", s)
	}
}

// GameData is the per-table state of a player.
type GameData struct {
	TableID   int32
	ChairID   int32
	status    Status
	idleCount int32 // deadlines missed this round
	color     model.Color
	hasColor  bool
}

// Reset clears the round state and keeps table and chair.
func (p *Player) Reset() {
	p.gameData.status = StSit
	p.gameData.idleCount = 0
	p.gameData.color = 0
	p.gameData.hasColor = false
}

// ExitReset is called when the player leaves the table.
func (p *Player) ExitReset() {
	p.Reset()
	p.gameData.ChairID = -1
	p.gameData.TableID = -1
	p.gameData.status = StFree
}

func (p *Player) Desc() string {
	color := "-"
	if p.gameData.hasColor {
		color = p.gameData.color.String()
	}
	return fmt.Sprintf("(%d %d T:%d St:%s ai:%v co:%s idle:%d)",
		p.GetPlayerID(), p.GetChairID(), p.GetTableID(), p.GetStatus(), p.isRobot, color, p.gameData.idleCount)
}
