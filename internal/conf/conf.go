package conf

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/yola1107/ludo/library/event"
	"github.com/yola1107/ludo/library/ext"
	"github.com/yola1107/ludo/library/log/zap"
	zconf "github.com/yola1107/ludo/library/log/zap/conf"
)

const Name = "ludo"
const Version = "v0.0.1"

type validator interface {
	Validate() error
}

// LoadConfig reads the bootstrap and logger sections from one file and panics on bad input.
func LoadConfig(flagconf string) (config.Config, *Bootstrap, *zconf.Bootstrap) {
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)

	if err := c.Load(); err != nil {
		panic(err)
	}

	var (
		bc Bootstrap
		lc zconf.Bootstrap
	)

	if err := scanValid(c, &bc); err != nil {
		panic(fmt.Errorf("bootstrap config invalid: %w", err))
	}
	if err := scanValid(c, &lc); err != nil {
		panic(fmt.Errorf("logger config invalid: %w", err))
	}

	return c, &bc, &lc
}

func scanValid(c config.Config, v validator) error {
	if err := c.Scan(v); err != nil {
		return err
	}
	return v.Validate()
}

// WatchConfig hot-reloads the mutable sections. Each accepted change is published
// on the bus as a fresh value; the returned Live serves the room sections.
func WatchConfig(c config.Config, bc *Bootstrap, lc *zconf.Bootstrap, logger *zap.Logger) (*Live, error) {
	bus := event.NewEventBus()
	subscribeBus(bus, logger)
	live := NewLive(bc.Room)
	live.Follow(bus)

	for key, ptr := range watchTargets(bc, lc) {
		if err := c.Watch(key, observer(key, ptr, bus)); err != nil {
			return nil, fmt.Errorf("watch %q failed: %w", key, err)
		}
	}
	return live, nil
}

func watchTargets(bc *Bootstrap, lc *zconf.Bootstrap) map[string]any {
	return map[string]any{
		"room.game":     bc.Room.Game,
		"room.robot":    bc.Room.Robot,
		"room.logCache": bc.Room.LogCache,
		"log.logger":    lc.Log.Logger,
	}
}

// observer publishes each valid value of key that differs from the last one.
// The initial value is never written to.
func observer(key string, initial any, bus *event.Bus) func(string, config.Value) {
	var (
		mu  sync.Mutex
		cur = initial
	)
	return func(_ string, val config.Value) {
		mu.Lock()
		defer mu.Unlock()

		typ := reflect.TypeOf(cur)
		if typ.Kind() != reflect.Pointer {
			log.Errorf("[config] %q target must be a pointer", key)
			return
		}

		newVal := reflect.New(typ.Elem()).Interface()
		if err := val.Scan(newVal); err != nil {
			log.Errorf("[config] scan failed: key=%q, err=%v", key, err)
			return
		}

		if v, ok := newVal.(validator); ok {
			if err := v.Validate(); err != nil {
				log.Errorf("[config] validation failed: key=%q, err=%v", key, err)
				return
			}
		}

		_, diff, err := ext.DiffLog(cur, newVal)
		if err != nil {
			log.Errorf("[config] diff failed: key=%q, err=%v", key, err)
			return
		}
		if len(diff) > 0 {
			log.Warnf("[config] [%q] updated:\n%s", key, diff)
			cur = newVal
			bus.Publish(key, newVal)
		}
	}
}

func subscribeBus(bus *event.Bus, logger *zap.Logger) {
	if logger == nil {
		return
	}
	bus.Subscribe("log.logger", func(val any) {
		if v, ok := val.(*zconf.Logger); ok {
			if v.Level != logger.GetLevel() {
				logger.SetLevel(v.Level)
			}
			if changes, err := ext.Diff(v.Sensitive, logger.GetSensitive()); err == nil && len(changes) > 0 {
				logger.SetSensitive(v.Sensitive)
			}
		}
	})
}
