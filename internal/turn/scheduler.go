// Package turn implements the initiative scheduler: it turns accumulated
// agility into a per-round turn order and hands out turns one at a time.
package turn

import (
	"log/slog"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/rng"
)

const (
	// FallbackThreshold is the turn threshold used with no participants.
	FallbackThreshold = 100
	// FallbackJitter is the maximum jitter used with no participants.
	FallbackJitter = 10
)

// Phase is the scheduler's position in the round lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseParamsComputed
	PhaseOrderComputed
	PhaseDraining
	PhaseRoundEnd
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseParamsComputed:
		return "params_computed"
	case PhaseOrderComputed:
		return "order_computed"
	case PhaseDraining:
		return "draining"
	case PhaseRoundEnd:
		return "round_end"
	default:
		return "unknown"
	}
}

// StepKind says what Advance produced.
type StepKind int

const (
	StepTurnStart StepKind = iota
	StepRoundEnd
)

// Step is the result of one Advance call.
type Step struct {
	Kind  StepKind
	Actor actor.ID // set for StepTurnStart
	Tick  uint32
	Round uint32
	// Order is the freshly drawn round order when this step began a round.
	Order []actor.ID
}

// State is the scheduler's persistent state.
type State struct {
	Participants []actor.ID `json:"participants"`
	Threshold    uint32     `json:"threshold"`
	Jitter       uint32     `json:"jitter"`
	Queue        []actor.ID `json:"queue"`
	Tick         uint32     `json:"tick"`
	Round        uint32     `json:"round"`
	Phase        Phase      `json:"phase"`
}

// Scheduler orders participants by accumulated agility.
type Scheduler struct {
	store        *actor.Store
	roller       rng.Roller
	participants []actor.ID
	threshold    uint32
	jitter       uint32
	queue        []actor.ID
	tick         uint32
	round        uint32
	phase        Phase
}

// New creates an idle scheduler reading actors from store.
func New(store *actor.Store, roller rng.Roller) *Scheduler {
	return &Scheduler{
		store:     store,
		roller:    roller,
		threshold: FallbackThreshold,
		jitter:    FallbackJitter,
	}
}

// Add registers a participant and recomputes the round parameters.
func (s *Scheduler) Add(id actor.ID) {
	for _, p := range s.participants {
		if p == id {
			return
		}
	}
	s.participants = append(s.participants, id)
	s.RecomputeParams()
}

// Remove drops a participant, including any turns it still had queued.
func (s *Scheduler) Remove(id actor.ID) {
	kept := s.participants[:0]
	for _, p := range s.participants {
		if p != id {
			kept = append(kept, p)
		}
	}
	s.participants = kept

	queue := s.queue[:0]
	for _, q := range s.queue {
		if q != id {
			queue = append(queue, q)
		}
	}
	s.queue = queue
	s.RecomputeParams()
}

// Participants returns the roster in join order.
func (s *Scheduler) Participants() []actor.ID {
	return append([]actor.ID(nil), s.participants...)
}

// RecomputeParams derives the turn threshold and jitter from the roster:
// threshold = 2 × average agility, jitter = 8 × average level, both floored at 1.
// Participants without combat stats are left out of the averages.
func (s *Scheduler) RecomputeParams() {
	var totalAgility, totalLevel, count uint32
	for _, id := range s.participants {
		a := s.store.Get(id)
		if a == nil || a.Stats == nil {
			continue
		}
		if a.Stats.Agility > 0 {
			totalAgility += uint32(a.Stats.Agility)
		}
		totalLevel += a.Level()
		count++
	}
	if count == 0 {
		s.threshold = FallbackThreshold
		s.jitter = FallbackJitter
	} else {
		s.threshold = max(totalAgility/count, 1) * 2
		s.jitter = max(totalLevel/count, 1) * 8
	}
	if s.phase == PhaseIdle {
		s.phase = PhaseParamsComputed
	}
}

// SetParams overrides the threshold and jitter until the next recompute.
// A zero threshold is raised to 1.
func (s *Scheduler) SetParams(threshold, jitter uint32) {
	s.threshold = max(threshold, 1)
	s.jitter = jitter
	if s.phase == PhaseIdle {
		s.phase = PhaseParamsComputed
	}
}

// CalculateTurnOrder adds agility plus jitter to every participant's
// accumulator and emits the participant once per full threshold it holds.
// The order is appended to the round queue and returned.
func (s *Scheduler) CalculateTurnOrder() []actor.ID {
	var order []actor.ID
	for _, id := range s.participants {
		a := s.store.Get(id)
		if a == nil || a.Stats == nil {
			continue
		}
		var agility uint32
		if a.Stats.Agility > 0 {
			agility = uint32(a.Stats.Agility)
		}
		jitter := uint32(rng.Range(s.roller, 0, int(s.jitter)))

		current := actor.SatAddU32(actor.SatAddU32(a.Accumulated, agility), jitter)
		for current >= s.threshold {
			current -= s.threshold
			order = append(order, id)
		}
		a.Accumulated = current
	}
	s.queue = append(s.queue, order...)
	s.phase = PhaseOrderComputed
	slog.Debug("turn order computed", "order", order, "threshold", s.threshold, "jitter", s.jitter)
	return order
}

// Advance hands out the next turn. At the start of a round it recomputes
// parameters and draws a new order first; when the queue runs dry it
// reports the end of the round and returns to idle.
func (s *Scheduler) Advance() Step {
	var drawn []actor.ID
	switch s.phase {
	case PhaseIdle, PhaseRoundEnd:
		s.phase = PhaseIdle
		s.RecomputeParams()
		drawn = s.CalculateTurnOrder()
	case PhaseParamsComputed:
		drawn = s.CalculateTurnOrder()
	}

	if len(s.queue) == 0 {
		s.round++
		s.phase = PhaseRoundEnd
		return Step{Kind: StepRoundEnd, Tick: s.tick, Round: s.round, Order: drawn}
	}

	next := s.queue[0]
	s.queue = s.queue[1:]
	s.tick++
	s.phase = PhaseDraining
	return Step{Kind: StepTurnStart, Actor: next, Tick: s.tick, Round: s.round, Order: drawn}
}

// Tick returns the monotonic world clock, advanced once per turn.
func (s *Scheduler) Tick() uint32 { return s.tick }

// Round returns how many rounds have ended.
func (s *Scheduler) Round() uint32 { return s.round }

// Phase returns the current lifecycle phase.
func (s *Scheduler) Phase() Phase { return s.phase }

// Threshold returns the current turn threshold.
func (s *Scheduler) Threshold() uint32 { return s.threshold }

// Jitter returns the current maximum jitter.
func (s *Scheduler) Jitter() uint32 { return s.jitter }

// Queue returns the turns still queued this round.
func (s *Scheduler) Queue() []actor.ID {
	return append([]actor.ID(nil), s.queue...)
}

// State captures the scheduler for a snapshot.
func (s *Scheduler) State() State {
	return State{
		Participants: s.Participants(),
		Threshold:    s.threshold,
		Jitter:       s.jitter,
		Queue:        s.Queue(),
		Tick:         s.tick,
		Round:        s.round,
		Phase:        s.phase,
	}
}

// Restore replaces the scheduler state with st.
func (s *Scheduler) Restore(st State) {
	s.participants = append([]actor.ID(nil), st.Participants...)
	s.threshold = max(st.Threshold, 1)
	s.jitter = st.Jitter
	s.queue = append([]actor.ID(nil), st.Queue...)
	s.tick = st.Tick
	s.round = st.Round
	s.phase = st.Phase
}
