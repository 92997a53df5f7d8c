package zap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yola1107/ludo/library/log/zap/conf"
)

const timeLayout = "2006/01/02 15:04:05.000"

// levelTags are padded to five runes so console columns line up.
var levelTags = map[zapcore.Level]struct{ name, color string }{
	zapcore.DebugLevel:  {"DEBUG", "\x1b[36m"},
	zapcore.InfoLevel:   {"INFO·", "\x1b[32m"},
	zapcore.WarnLevel:   {"WARN·", "\x1b[33m"},
	zapcore.ErrorLevel:  {"ERROR", "\x1b[31m"},
	zapcore.DPanicLevel: {"PANIC", "\x1b[35m"},
	zapcore.PanicLevel:  {"PANIC", "\x1b[35m"},
	zapcore.FatalLevel:  {"FATAL", "\x1b[35m"},
}

// sink is the zap logger with its runtime level and the rotated files behind it.
type sink struct {
	zl    *zap.Logger
	level zap.AtomicLevel
	files []io.Closer
}

func (s *sink) close() error {
	_ = s.zl.Sync()
	for _, f := range s.files {
		_ = f.Close()
	}
	return nil
}

// newSink always writes to stderr. Production mode with a directory also writes
// <app>.log and, with ErrorFile, <app>_error.log.
func newSink(c *conf.Logger) (*sink, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level: %s", c.Level)
	}

	s := &sink{level: level}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(true)), zapcore.Lock(os.Stderr), level),
	}
	if c.Mode == conf.ModeProd && c.Directory != "" {
		app := c.AppName
		if app == "" {
			app = "app"
		}
		cores = append(cores, s.fileCore(c, app+".log", level))
		if c.ErrorFile {
			cores = append(cores, s.fileCore(c, app+"_error.log", zap.ErrorLevel))
		}
	}

	sampled := zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewSamplerWithOptions(core, time.Second, 2000, 10)
	})
	s.zl = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.PanicLevel), sampled)
	return s, nil
}

func (s *sink) fileCore(c *conf.Logger, name string, enab zapcore.LevelEnabler) zapcore.Core {
	rot := c.Rotate
	if rot == nil {
		rot = conf.DefaultRotate()
	}
	w := &lumberjack.Logger{
		Filename:   filepath.Join(c.Directory, name),
		MaxSize:    int(rot.MaxSizeMB),
		MaxBackups: int(rot.MaxBackups),
		MaxAge:     int(rot.MaxAgeDays),
		Compress:   rot.Compress,
		LocalTime:  rot.LocalTime,
	}
	s.files = append(s.files, w)

	enc := zapcore.NewConsoleEncoder(encoderConfig(false))
	if c.FormatJson {
		enc = zapcore.NewJSONEncoder(encoderConfig(false))
	}
	return zapcore.NewCore(enc, zapcore.AddSync(w), enab)
}

func encoderConfig(console bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.ConsoleSeparator = " "
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + t.Format(timeLayout) + "]")
	}
	cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		tag := levelTags[l]
		if console {
			enc.AppendString("[" + tag.color + tag.name + "\x1b[0m]")
			return
		}
		enc.AppendString("[" + tag.name + "]")
	}
	cfg.EncodeCaller = func(c zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		if console {
			enc.AppendString(c.FullPath())
			return
		}
		enc.AppendString("[" + c.FullPath() + "]")
	}
	return cfg
}
