package zap

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yola1107/ludo/library/log/zap/conf"
)

var _ log.Logger = (*Logger)(nil)

const sensitiveMask = "***"

// Logger adapts a zap logger to kratos log.Logger. Level and masked keys can be
// changed while it is in use.
type Logger struct {
	sink   *sink
	mu     sync.RWMutex
	masked map[string]struct{}
}

// NewLogger builds the process logger. It panics on a config that failed Validate.
func NewLogger(c *conf.Log) *Logger {
	if c == nil || c.Logger == nil {
		c = conf.DefaultConfig().Log
	}
	s, err := newSink(c.Logger)
	if err != nil {
		panic(err)
	}
	return initLogger(c.Logger, s)
}

func initLogger(c *conf.Logger, s *sink) *Logger {
	l := &Logger{sink: s}
	l.SetSensitive(c.Sensitive)
	log.Debugf("zap logger ready. mode=%d app=%q level=%q dir=%q masked=%v",
		c.Mode, c.AppName, c.Level, c.Directory, c.Sensitive)
	return l
}

func (l *Logger) Log(level log.Level, keyvals ...any) error {
	zl := zapLevel(level)
	if !l.sink.zl.Core().Enabled(zl) {
		return nil
	}
	if len(keyvals) == 0 || len(keyvals)%2 == 1 {
		l.sink.zl.Warn(fmt.Sprint("odd keyvals: ", keyvals))
		return nil
	}

	var msg string
	fields := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if key == log.DefaultMessageKey {
			msg, _ = keyvals[i+1].(string)
			continue
		}
		if l.isMasked(key) {
			fields = append(fields, zap.String(key, sensitiveMask))
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}

	zlog := l.sink.zl.WithOptions(zap.AddCallerSkip(callerSkip()))
	if ce := zlog.Check(zl, msg); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func zapLevel(level log.Level) zapcore.Level {
	switch level {
	case log.LevelDebug:
		return zapcore.DebugLevel
	case log.LevelWarn:
		return zapcore.WarnLevel
	case log.LevelError:
		return zapcore.ErrorLevel
	case log.LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Close() error {
	l.sink.zl.Info("logger closing")
	return l.sink.close()
}

func (l *Logger) GetLevel() string {
	return l.sink.level.String()
}

// SetLevel switches the level at runtime; an unknown name keeps the current one.
func (l *Logger) SetLevel(level string) {
	if err := l.sink.level.UnmarshalText([]byte(level)); err != nil {
		l.sink.zl.Warn("invalid log level", zap.String("level", level), zap.Error(err))
		return
	}
	l.sink.zl.Info("log level updated", zap.String("level", level))
}

func (l *Logger) GetSensitive() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.masked))
	for k := range l.masked {
		keys = append(keys, k)
	}
	return keys
}

// SetSensitive replaces the set of field keys whose values are masked. Keys
// match case-insensitively.
func (l *Logger) SetSensitive(keys []string) {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[strings.ToLower(k)] = struct{}{}
	}
	l.mu.Lock()
	l.masked = set
	l.mu.Unlock()
}

func (l *Logger) isMasked(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.masked) == 0 {
		return false
	}
	_, ok := l.masked[strings.ToLower(key)]
	return ok
}

// callerSkip points the caller at the code that logged, one frame deeper when
// the call came through a log.Helper.
func callerSkip() int {
	pc := make([]uintptr, 8)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])
	for {
		f, more := frames.Next()
		if strings.Contains(f.Function, "kratos/v2/log.(*") {
			return 3
		}
		if !more {
			return 2
		}
	}
}
