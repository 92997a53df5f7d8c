package conf

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

type Mode int32

const (
	ModeDev Mode = iota
	ModeProd
)

type Bootstrap struct {
	Log *Log `json:"log"`
}

type Log struct {
	Logger *Logger `json:"logger"`
}

type Logger struct {
	Mode       Mode     `json:"mode"`
	AppName    string   `json:"appName"`
	Level      string   `json:"level"`
	Directory  string   `json:"directory"`
	FormatJson bool     `json:"formatJson"`
	ErrorFile  bool     `json:"errorFile"`
	Sensitive  []string `json:"sensitive"`
	Rotate     *Rotate  `json:"rotate"`
}

type Rotate struct {
	MaxSizeMB  int32 `json:"maxSizeMB"`
	MaxBackups int32 `json:"maxBackups"`
	MaxAgeDays int32 `json:"maxAgeDays"`
	Compress   bool  `json:"compress"`
	LocalTime  bool  `json:"localTime"`
}

func (c *Bootstrap) Validate() error {
	if c.Log == nil || c.Log.Logger == nil {
		return fmt.Errorf("log.logger is required")
	}
	return c.Log.Logger.Validate()
}

func (c *Logger) Validate() error {
	if c.Mode != ModeDev && c.Mode != ModeProd {
		return fmt.Errorf("log.logger.mode: unknown mode %d", c.Mode)
	}
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("log.logger.level: %w", err)
	}
	if c.Mode == ModeProd && c.Directory == "" {
		return fmt.Errorf("log.logger.directory is required in prod mode")
	}
	return nil
}

func DefaultConfig(opts ...Option) *Bootstrap {
	c := &Log{
		Logger: &Logger{
			Mode:      ModeDev,
			AppName:   "app",
			Level:     "debug",
			Directory: "./logs",
			Sensitive: []string{},
			Rotate:    DefaultRotate(),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return &Bootstrap{
		Log: c,
	}
}

func DefaultRotate() *Rotate {
	return &Rotate{
		MaxSizeMB:  100,
		MaxBackups: 7,
		MaxAgeDays: 7,
		Compress:   true,
		LocalTime:  true,
	}
}

type Option func(*Log)

func WithAppName(appName string) Option {
	return func(c *Log) { c.Logger.AppName = appName }
}

func WithProduction() Option {
	return func(c *Log) {
		c.Logger.Mode = ModeProd
		c.Logger.Level = "info"
	}
}

func WithDirectory(dir string) Option {
	return func(c *Log) { c.Logger.Directory = dir }
}

func WithErrorFile(enabled bool) Option {
	return func(c *Log) { c.Logger.ErrorFile = enabled }
}
