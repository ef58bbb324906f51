package brain

import (
	"errors"
	"fmt"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/perception"
)

// Decider kinds accepted by New.
const (
	KindPriority = "priority"
	KindLearned  = "learned"
)

// ErrUnknownKind is returned by New for an unrecognized decider kind.
var ErrUnknownKind = errors.New("unknown decider kind")

// Decider chooses one action per perception. Implementations must be safe
// for concurrent use.
type Decider interface {
	Decide(p *perception.Perception) agents.Action
	Name() string
}

// Option customizes New.
type Option func(*options)

type options struct {
	thresholds Thresholds
}

// WithThresholds overrides the base tier thresholds.
func WithThresholds(t Thresholds) Option {
	return func(o *options) { o.thresholds = t }
}

// New returns the decider named by kind. The learned kind loads its weights
// from weightsPath and falls back to a priority selector with the same
// thresholds.
func New(kind, weightsPath string, opts ...Option) (Decider, error) {
	o := options{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(&o)
	}
	selector := NewPrioritySelector(o.thresholds)

	switch kind {
	case "", KindPriority:
		return selector, nil
	case KindLearned:
		policy, err := LoadLinearPolicy(weightsPath, selector)
		if err != nil {
			return nil, fmt.Errorf("load learned policy: %w", err)
		}
		return policy, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
