package model

import (
	"github.com/go-kratos/kratos/v2/log"
)

// Rules are the configurable policies of a game.
type Rules struct {
	AutoMoveSingle      bool  `json:"autoMoveSingle"`      // apply the only legal move without asking
	MissedDeadlineLimit int32 `json:"missedDeadlineLimit"` // 0 disables elimination
	BonusRoll           bool  `json:"bonusRoll"`           // capture or finish grants another roll
}

// DefaultRules is the rule set used when no option overrides it.
func DefaultRules() Rules {
	return Rules{
		AutoMoveSingle:      true,
		MissedDeadlineLimit: 3,
	}
}

// Option configures a Game.
type Option func(*options)

type options struct {
	topo   *Topology
	rules  Rules
	logger log.Logger
}

func newOptions(opts []Option) *options {
	o := &options{rules: DefaultRules()}
	for _, opt := range opts {
		opt(o)
	}
	if o.topo == nil {
		o.topo = DefaultTopology()
	}
	if o.logger == nil {
		o.logger = log.GetLogger()
	}
	return o
}

// WithTopology injects a validated board geometry.
func WithTopology(t *Topology) Option {
	return func(o *options) { o.topo = t }
}

func WithRules(r Rules) Option {
	return func(o *options) { o.rules = r }
}

func WithAutoMoveSingle(on bool) Option {
	return func(o *options) { o.rules.AutoMoveSingle = on }
}

func WithMissedDeadlineLimit(n int32) Option {
	return func(o *options) { o.rules.MissedDeadlineLimit = n }
}

func WithBonusRoll(on bool) Option {
	return func(o *options) { o.rules.BonusRoll = on }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}
