package biz

import (
	kerrors "github.com/go-kratos/kratos/v2/errors"

	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/biz/table"
)

var (
	ErrPlayerNotFound = kerrors.New(404, "PLAYER_NOT_FOUND", "player is not logged in")
	ErrAlreadyLogin   = kerrors.New(409, "ALREADY_LOGIN", "player is already logged in")
	ErrActionRejected = kerrors.New(400, "ACTION_REJECTED", "action is not allowed in the current stage")
)

// Swapper resolves a logged-in user to its player and table.
func (uc *Usecase) Swapper(uid int64) (*player.Player, *table.Table, error) {
	p := uc.pm.GetByID(uid)
	if p == nil {
		return nil, nil, ErrPlayerNotFound
	}
	t := uc.tm.GetTable(p.GetTableID())
	if t == nil {
		return p, nil, table.ErrTableNotFound
	}
	return p, t, nil
}

// Login registers a human player and seats it at a table.
func (uc *Usecase) Login(raw *player.Raw) (*player.Player, error) {
	if raw == nil || raw.IsRobot {
		return nil, table.ErrPlayerInvalid
	}
	if uc.pm.Has(raw.ID) {
		return nil, ErrAlreadyLogin
	}
	p := player.New(raw)
	if err := uc.tm.ThrowInto(p); err != nil {
		return nil, err
	}
	uc.pm.Add(p)
	return p, nil
}

// Logout resigns a playing user and frees its chair.
func (uc *Usecase) Logout(uid int64) error {
	p := uc.pm.GetByID(uid)
	if p == nil {
		return ErrPlayerNotFound
	}
	return uc.tm.ExitTable(p, 0, "logout")
}

func (uc *Usecase) Roll(uid int64) error {
	return uc.act(uid, func(p *player.Player, t *table.Table) bool { return t.OnDiceReq(p) })
}

func (uc *Usecase) Move(uid int64, index int32) error {
	return uc.act(uid, func(p *player.Player, t *table.Table) bool { return t.OnMoveReq(p, index) })
}

func (uc *Usecase) Resign(uid int64) error {
	return uc.act(uid, func(p *player.Player, t *table.Table) bool { return t.OnResign(p) })
}

func (uc *Usecase) act(uid int64, f func(*player.Player, *table.Table) bool) error {
	p, t, err := uc.Swapper(uid)
	if err != nil {
		return err
	}
	if !f(p, t) {
		return ErrActionRejected
	}
	return nil
}
