package wizard

import (
	"errors"
	"fmt"

	"github.com/wandcli/wand/pkg/schema"
)

// State is the session lifecycle state.
type State int

const (
	StateInit State = iota
	StateAwaitingAnswer
	StateChaining
	StateFinalizing
	StateDone
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAwaitingAnswer:
		return "awaiting-answer"
	case StateChaining:
		return "chaining"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ErrChainCycle is returned when a chain option targets a config already
// on the active chain path (A chains to B chains back to A).
var ErrChainCycle = errors.New("chain cycle")

// historyEntry captures the session position before an answer was
// recorded, enabling exact back-navigation.
type historyEntry struct {
	stepIdx int       // declaration index of the step that was current
	answers AnswerSet // snapshot prior to recording
}

// Session is the live, mutable run of a wizard over one immutable Config.
// It advances only in response to discrete calls; it holds no goroutines
// and persists nothing across invocations.
type Session struct {
	cfg     *schema.Config
	answers AnswerSet
	current int // declaration index of the current step; -1 before Start
	history []historyEntry
	state   State

	// chain bookkeeping
	visited       map[string]bool // config names along the active chain path
	chainTarget   string          // set while state == StateChaining
	chainSub      string          // subcommand token spliced after own flags
	chainFragment string          // the chained child's assembled fragment

	fragment string // assembled flags fragment, set by Finalize
}

// NewSession creates a session over cfg. The config must already be
// validated; a session never revalidates it.
func NewSession(cfg *schema.Config) *Session {
	return &Session{
		cfg:     cfg,
		answers: make(AnswerSet),
		current: -1,
		visited: map[string]bool{cfg.Name(): true},
	}
}

// newChildSession creates the nested session for a chain target,
// inheriting the visited set of the active chain path.
func newChildSession(cfg *schema.Config, visited map[string]bool) *Session {
	s := NewSession(cfg)
	for name := range visited {
		s.visited[name] = true
	}
	return s
}

// Start performs the Init transition: directly to Finalizing when no step
// is visible (preset-only config), otherwise to AwaitingAnswer at the
// first visible step.
func (s *Session) Start() {
	if s.state != StateInit {
		return
	}
	visible := VisibleSteps(s.cfg, s.answers)
	if len(visible) == 0 {
		s.state = StateFinalizing
		return
	}
	s.current = visible[0]
	s.state = StateAwaitingAnswer
}

// Config returns the immutable config this session runs over.
func (s *Session) Config() *schema.Config { return s.cfg }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Current returns the step awaiting an answer, or nil outside
// AwaitingAnswer.
func (s *Session) Current() *schema.Step {
	if s.state != StateAwaitingAnswer || s.current < 0 || s.current >= len(s.cfg.Steps) {
		return nil
	}
	return &s.cfg.Steps[s.current]
}

// Answers returns the recorded answers. The returned set is live; callers
// treat it as read-only.
func (s *Session) Answers() AnswerSet { return s.answers }

// Answer returns the recorded answer for a step id, if any.
func (s *Session) Answer(id string) (Answer, bool) {
	a, ok := s.answers[id]
	return a, ok
}

// HistoryLen reports how many back-navigation snapshots exist.
func (s *Session) HistoryLen() int { return len(s.history) }

// Submit records the answer for the current step and advances the
// session: to the next visible step, to Finalizing when none remain, or
// to Chaining when a choice option carries a chain reference. Recording
// overwrites any prior value for the step and removes every answer for
// steps declared after it, since their visibility may have changed.
func (s *Session) Submit(a Answer) error {
	step := s.Current()
	if step == nil {
		return fmt.Errorf("submit in state %s: no step awaiting an answer", s.state)
	}
	if a.Kind != step.Type {
		return fmt.Errorf("step %q expects a %s answer, got %s", step.ID, step.Type, a.Kind)
	}
	if a.Kind == schema.StepChoice && (a.Choice < 0 || a.Choice >= len(step.Options)) {
		return fmt.Errorf("step %q: choice index %d out of range", step.ID, a.Choice)
	}

	// Chain cycle is detected before any state changes so the session
	// stays exactly where it was.
	var chain string
	if a.Kind == schema.StepChoice {
		chain = step.Options[a.Choice].Chain
		if chain != "" && s.visited[chain] {
			return fmt.Errorf("%w: %q is already on the active chain path", ErrChainCycle, chain)
		}
	}

	s.history = append(s.history, historyEntry{stepIdx: s.current, answers: s.answers.Clone()})
	s.answers[step.ID] = a
	for i := s.current + 1; i < len(s.cfg.Steps); i++ {
		delete(s.answers, s.cfg.Steps[i].ID)
	}

	if chain != "" {
		s.chainTarget = chain
		s.state = StateChaining
		return nil
	}

	s.advance()
	return nil
}

// advance moves to the next visible step after the current one, or to
// Finalizing when none remain. Visibility is recomputed from scratch.
func (s *Session) advance() {
	for _, idx := range VisibleSteps(s.cfg, s.answers) {
		if idx > s.current {
			s.current = idx
			s.state = StateAwaitingAnswer
			return
		}
	}
	s.state = StateFinalizing
}

// Back pops the history stack, restoring the answer set to its prior
// snapshot and the pointer to the prior visible step. With an empty
// stack, Back cancels the session.
func (s *Session) Back() {
	if s.state != StateAwaitingAnswer && s.state != StateChaining && s.state != StateFinalizing {
		return
	}
	if len(s.history) == 0 {
		s.Cancel()
		return
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.answers = last.answers
	s.current = last.stepIdx
	s.state = StateAwaitingAnswer
	s.chainTarget = ""
	s.chainSub = ""
	s.chainFragment = ""
}

// Cancel discards all accumulated state and moves to the Cancelled
// terminal. It is a no-op on an already-terminal session.
func (s *Session) Cancel() {
	if s.state == StateDone || s.state == StateCancelled {
		return
	}
	s.answers = make(AnswerSet)
	s.state = StateCancelled
}

// ChainTarget returns the pending chain target name while Chaining.
func (s *Session) ChainTarget() string {
	if s.state != StateChaining {
		return ""
	}
	return s.chainTarget
}

// Chain creates the nested session for the pending chain target. The
// caller loads the target config, runs the returned session to
// completion, and hands its fragment back via CompleteChain. The child's
// lifecycle is fully contained within this session's Chaining state.
func (s *Session) Chain(target *schema.Config) (*Session, error) {
	if s.state != StateChaining {
		return nil, fmt.Errorf("chain in state %s: no chain pending", s.state)
	}
	if s.visited[target.Name()] {
		return nil, fmt.Errorf("%w: %q is already on the active chain path", ErrChainCycle, target.Name())
	}
	child := newChildSession(target, s.visited)
	return child, nil
}

// CompleteChain splices the finished child's fragment after this
// session's own: a chain consumes the remainder of the flow, so control
// moves straight to Finalizing.
func (s *Session) CompleteChain(child *Session) error {
	if s.state != StateChaining {
		return fmt.Errorf("complete chain in state %s: no chain pending", s.state)
	}
	if child.State() != StateDone {
		return fmt.Errorf("complete chain: child session is %s, not done", child.State())
	}
	s.chainSub = SubcommandToken(s.cfg, child.cfg)
	s.chainFragment = child.Fragment()
	s.chainTarget = ""
	s.state = StateFinalizing
	return nil
}

// Finalize performs the Finalizing → Done transition, assembling the
// session's flag fragment (with any chained fragment spliced in).
// Placeholder resolution happens on the Command string afterwards; it is
// not the session's concern.
func (s *Session) Finalize() error {
	if s.state != StateFinalizing {
		return fmt.Errorf("finalize in state %s", s.state)
	}
	s.fragment = joinFragments(BuildFlags(s.cfg, s.answers), s.chainSub, s.chainFragment)
	s.state = StateDone
	return nil
}

// Fragment returns the assembled flags-only fragment after Finalize.
// Chained parents use this to splice a child's output.
func (s *Session) Fragment() string { return s.fragment }

// Command returns the full assembled command line: the config's command
// token followed by the fragment. Valid after Finalize.
func (s *Session) Command() string {
	return joinFragments(s.cfg.Command, s.fragment)
}
