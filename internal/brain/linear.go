package brain

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/perception"
	"github.com/talgya/mini-village/internal/world"
)

// ReasonLearned prefixes reasons produced by the learned policy.
const ReasonLearned = "learned"

// LinearWeights is the on-disk weight format: one row per action tag, each
// FeatureLen weights followed by a bias.
type LinearWeights struct {
	Version int                  `json:"version"`
	Actions map[string][]float32 `json:"actions"`
}

// LinearPolicy scores every action as a dot product over the encoded
// perception and acts on the best one it can find a target for.
type LinearPolicy struct {
	rows     [agents.NumActions][]float32
	fallback *PrioritySelector
}

// NewLinearPolicy validates weights and builds a policy. Actions without a
// row are never chosen.
func NewLinearPolicy(w LinearWeights, fallback *PrioritySelector) (*LinearPolicy, error) {
	if fallback == nil {
		fallback = defaultSelector
	}
	lp := &LinearPolicy{fallback: fallback}
	for tag, row := range w.Actions {
		var at agents.ActionType
		if err := at.UnmarshalText([]byte(tag)); err != nil {
			return nil, err
		}
		if len(row) != perception.FeatureLen+1 {
			return nil, fmt.Errorf("action %s: want %d weights, got %d", tag, perception.FeatureLen+1, len(row))
		}
		lp.rows[at] = row
	}
	return lp, nil
}

// LoadLinearPolicy reads a JSON weights file.
func LoadLinearPolicy(path string, fallback *PrioritySelector) (*LinearPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	var w LinearWeights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse weights: %w", err)
	}
	return NewLinearPolicy(w, fallback)
}

// Name identifies the decider.
func (lp *LinearPolicy) Name() string { return KindLearned }

// Scores returns the raw score of each action; actions without weights
// score negative infinity.
func (lp *LinearPolicy) Scores(features []float32) [agents.NumActions]float64 {
	var out [agents.NumActions]float64
	for i, row := range lp.rows {
		if row == nil {
			out[i] = math.Inf(-1)
			continue
		}
		sum := float64(row[len(row)-1])
		for j, f := range features {
			if j >= len(row)-1 {
				break
			}
			sum += float64(row[j]) * float64(f)
		}
		out[i] = sum
	}
	return out
}

// Decide picks the top-scoring action and resolves its target with the
// selector's sub-resolutions. If that action has no target it defers to
// the priority selector.
func (lp *LinearPolicy) Decide(p *perception.Perception) agents.Action {
	scores := lp.Scores(perception.Encode(p))
	best := -1
	for i, s := range scores {
		if math.IsInf(s, -1) {
			continue
		}
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	if best < 0 {
		return lp.fallback.Decide(p)
	}
	if a, ok := lp.resolve(p, agents.ActionType(best)); ok {
		return a
	}
	return lp.fallback.Decide(p)
}

func (lp *LinearPolicy) resolve(p *perception.Perception, t agents.ActionType) (agents.Action, bool) {
	reason := ReasonLearned + ":" + t.String()
	act := func(pos func(*perception.Perception) (world.Point, bool)) (agents.Action, bool) {
		target, ok := pos(p)
		return agents.Action{Type: t, Target: target, Reason: reason}, ok
	}
	switch t {
	case agents.ActionForage:
		return act(resolveFood)
	case agents.ActionSeekShelter:
		return act(resolveShelter)
	case agents.ActionBuild:
		return act(buildTarget)
	case agents.ActionFish:
		return act(fishTarget)
	case agents.ActionGather:
		return act(gatherTarget)
	case agents.ActionRest:
		return restAction(p, reason), true
	case agents.ActionExplore:
		return exploreAction(p, reason), true
	case agents.ActionSocialize:
		av, ok := socialTarget(p, SocialRange)
		return socializeAction(av, reason), ok
	case agents.ActionCraft:
		return agents.Action{Type: t, Target: p.Origin, Reason: reason}, craftReady(p, lp.fallback.Thresholds)
	default:
		return agents.Action{Type: agents.ActionIdle, Target: p.Origin, Reason: reason}, true
	}
}
