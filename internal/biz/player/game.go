package player

import (
	"github.com/yola1107/ludo/internal/model"
)

func (p *Player) SetTableID(tableID int32) { p.gameData.TableID = tableID }
func (p *Player) GetTableID() int32        { return p.gameData.TableID }
func (p *Player) SetChairID(chairID int32) { p.gameData.ChairID = chairID }
func (p *Player) GetChairID() int32        { return p.gameData.ChairID }

// IncrTimeoutCnt counts a missed deadline; an action taken in time does not clear it.
func (p *Player) IncrTimeoutCnt(timeout bool) {
	if timeout {
		p.gameData.idleCount++
	}
}

func (p *Player) GetTimeoutCnt() int32 { return p.gameData.idleCount }

func (p *Player) GetStatus() Status { return p.gameData.status }
func (p *Player) SetSit()           { p.gameData.status = StSit }
func (p *Player) SetReady()         { p.gameData.status = StReady }
func (p *Player) IsReady() bool     { return p.gameData.status == StReady }
func (p *Player) SetGaming()        { p.gameData.status = StGaming }
func (p *Player) IsGaming() bool    { return p.gameData.status == StGaming }

// SetOut marks the player as no longer taking turns in the running round.
func (p *Player) SetOut(resigned bool) {
	if resigned {
		p.gameData.status = StResigned
	} else {
		p.gameData.status = StDropped
	}
}

// InRound is true for players who took part in the running round, in or out.
func (p *Player) InRound() bool {
	switch p.gameData.status {
	case StGaming, StResigned, StDropped:
		return true
	}
	return false
}

func (p *Player) SetColor(c model.Color) {
	p.gameData.color = c
	p.gameData.hasColor = true
}

func (p *Player) GetColor() (model.Color, bool) { return p.gameData.color, p.gameData.hasColor }
