package table

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/conf"
	"github.com/yola1107/ludo/internal/model"
	"github.com/yola1107/ludo/library/ext"
	"github.com/yola1107/ludo/library/log/file"
)

const defaultLogDir = "./logs/tables"

// Log is the per-table audit file. Writes are dropped while the cache is closed;
// open is asked on every write so a reload can switch it.
type Log struct {
	open    func() bool
	tableID int32
	logger  *file.Log
}

func NewTableLog(tableID int32, c *conf.LogCache, open func() bool) *Log {
	dir := defaultLogDir
	if c != nil && c.Directory != "" {
		dir = c.Directory
	}
	return &Log{
		open:    open,
		tableID: tableID,
		logger:  file.NewFileLog(filepath.Join(dir, fmt.Sprintf("table_%d.log", tableID))),
	}
}

func (l *Log) Close() error {
	return l.logger.Close()
}

func (l *Log) write(msg string, args ...any) {
	if l.open == nil || !l.open() {
		return
	}
	l.logger.WriteLog(msg, args...)
}

func (l *Log) userEnter(p *player.Player, sitCnt int16) {
	l.write("[Enter] p:%+v sitCnt(%d)", p.Desc(), sitCnt)
}

func (l *Log) userExit(p *player.Player, sitCnt int16, lastChair int32) {
	l.write("[Exit] p:%+v sitCnt(%d) lastChair(%d)", p.Desc(), sitCnt, lastChair)
}

func (l *Log) stage(s string, turn int64) {
	l.write("[Stage] %s. turn=%d", s, turn)
}

func (l *Log) begin(tb string, seats []*player.Player) {
	logs := []string{fmt.Sprintf("[GameStart] %s", tb)}
	for _, p := range seats {
		if p == nil {
			continue
		}
		c, _ := p.GetColor()
		logs = append(logs, fmt.Sprintf("p:%+v color=%v status:%v", p.Desc(), c, p.GetStatus()))
	}
	l.write(strings.Join(logs, "\r\n"))
}

func (l *Log) Dice(p *player.Player, out *model.RollOutcome) {
	l.write("[Dice] p:%+v dice=%d streak=%d legal=%v forfeited=%v passed=%v auto=%v",
		p.Desc(), out.Dice, out.SixStreak, out.Legal, out.Forfeited, out.Passed, out.AutoMove)
}

func (l *Log) Move(p *player.Player, out *model.MoveOutcome) {
	l.write("[Move] p:%+v %v path=%s", p.Desc(), out, ext.ToJSON(out.Path))
}

func (l *Log) Missed(p *player.Player, out *model.PassOutcome) {
	l.write("[Timeout] p:%+v missed=%d dropped=%v won=%v", p.Desc(), out.Missed, out.Dropped, out.Won)
}

func (l *Log) resign(p *player.Player) {
	l.write("[Resign] p:%+v", p.Desc())
}

func (l *Log) settle(winner *player.Player, color model.Color, turn int64) {
	logs := []string{"[Settle]"}
	if winner != nil {
		logs = append(logs, fmt.Sprintf("<winner>:%+v color:%v turn:%d", winner.Desc(), color, turn))
	}
	l.write(strings.Join(logs, "\r\n"))
}

func (l *Log) end(msg ...any) {
	l.write("[GameEnd] %s", msg)
	l.write("\r\n\r\n")
}

func logPlayers(players []*player.Player) string {
	logs := []string{""}
	for _, p := range players {
		if p == nil {
			continue
		}
		logs = append(logs, fmt.Sprintf("<p>:%+v status:%v", p.Desc(), p.GetStatus()))
	}
	return strings.Join(logs, "\r\n")
}
