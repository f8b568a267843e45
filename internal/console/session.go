package console

import (
	"fmt"

	"ragconsole/internal/domain"
)

// Session owns all client-side workflow state: which stages have completed,
// the options cache and the chat transcript. Created at program start,
// mutated only by the documented stage transitions, discarded on reset.
// It performs no I/O and is driven by the TUI layer.
type Session struct {
	completed [numStages]bool
	options   domain.AvailableOptions
	config    domain.PipelineConfig
	turns     []domain.ChatTurn
}

func NewSession() *Session {
	return &Session{}
}

// Enabled reports whether a stage's controls may be used. A stage is
// enabled iff every prior stage has completed at least once since the
// last reset.
func (s *Session) Enabled(st Stage) bool {
	prev, ok := transitions[st]
	if !ok {
		return true
	}
	return s.completed[prev]
}

// Completed reports whether the stage has recorded a success since the
// last reset.
func (s *Session) Completed(st Stage) bool {
	if st < 0 || st >= numStages {
		return false
	}
	return s.completed[st]
}

// Complete records a successful stage action. Completing a locked stage
// is a programming error; the TUI never dispatches one.
func (s *Session) Complete(st Stage) error {
	if st < 0 || st >= numStages {
		return fmt.Errorf("unknown stage %d", int(st))
	}
	if !s.Enabled(st) {
		return fmt.Errorf("stage %s is locked", st)
	}
	s.completed[st] = true
	return nil
}

// SetOptions stores the options fetched at startup.
func (s *Session) SetOptions(opts domain.AvailableOptions) {
	s.options = opts
}

func (s *Session) Options() domain.AvailableOptions {
	return s.options
}

// SetConfig remembers the last successfully applied configuration.
func (s *Session) SetConfig(cfg domain.PipelineConfig) {
	s.config = cfg
}

func (s *Session) Config() domain.PipelineConfig {
	return s.config
}

// Append adds a turn to the transcript. Turns are never removed
// individually; a failed chat round-trip keeps the user's turn.
func (s *Session) Append(turn domain.ChatTurn) {
	s.turns = append(s.turns, turn)
}

// Transcript returns the chat turns in order.
func (s *Session) Transcript() []domain.ChatTurn {
	return s.turns
}

// ClearChat empties the transcript without touching stage state.
func (s *Session) ClearChat() {
	s.turns = nil
}

// Reset discards all stage completions, the applied configuration and the
// transcript. The options cache survives; it is load-time data, not
// workflow state.
func (s *Session) Reset() {
	s.completed = [numStages]bool{}
	s.config = domain.PipelineConfig{}
	s.turns = nil
}
