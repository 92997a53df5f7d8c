package server

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"

	"github.com/yola1107/ludo/internal/biz"
	"github.com/yola1107/ludo/internal/biz/table"
	"github.com/yola1107/ludo/internal/conf"
)

type nopRepo struct{}

func (nopRepo) SaveRecord(context.Context, *table.Record) error { return nil }
func (nopRepo) GetRecord(context.Context, string) (*table.Record, error) {
	return nil, nil
}
func (nopRepo) RecentGames(context.Context, int32, int64) ([]string, error) {
	return nil, nil
}

func TestRoomServer(t *testing.T) {
	c := &conf.Room{
		Table:    &conf.Table{TableNum: 2, ChairNum: 4},
		Game:     &conf.Game{TurnTimeoutMs: 15000, MissedDeadlineLimit: 3},
		Robot:    &conf.Robot{},
		LogCache: &conf.LogCache{},
	}
	uc, cleanup, err := biz.NewUsecase(nopRepo{}, log.DefaultLogger, conf.NewLive(c))
	require.NoError(t, err)
	defer cleanup()

	s := NewRoomServer(uc, log.DefaultLogger)
	before := uc.GetTimer().Len()
	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, before+1, uc.GetTimer().Len())
	require.Equal(t, biz.Stats{Tables: 2}, uc.Stats())

	require.NoError(t, s.Stop(context.Background()))
	require.Equal(t, before, uc.GetTimer().Len())
}
