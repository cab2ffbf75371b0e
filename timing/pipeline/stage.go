package pipeline

import (
	"sync"

	"github.com/go-logr/logr"

	"github.com/sarchlab/alu8/emu"
)

// Statistics holds stage activity counters.
type Statistics struct {
	// Edges is the number of rising clock edges seen.
	Edges uint64
	// Captures is the number of edges that sampled the ALU output.
	Captures uint64
	// Resets is the number of times the reset line went from low to high.
	Resets uint64
	// ResetEdges is the number of edges ignored because reset was held.
	ResetEdges uint64
}

// StageOption is a functional option for configuring the Stage.
type StageOption func(*Stage)

// WithLogger sets the logger used for register events.
func WithLogger(logger logr.Logger) StageOption {
	return func(s *Stage) {
		s.logger = logger
	}
}

// WithALU sets the ALU evaluated by the stage. A nil ALU is ignored.
func WithALU(alu *emu.ALU) StageOption {
	return func(s *Stage) {
		if alu != nil {
			s.alu = alu
		}
	}
}

// Stage is the ALU followed by its output register. The combinational output
// follows the inputs immediately; the registered output changes only on a
// clock edge or a reset.
type Stage struct {
	mu sync.Mutex

	alu      *emu.ALU
	register OutputRegister
	logger   logr.Logger

	inputs emu.Inputs
	comb   emu.Output
	reset  bool

	stats Statistics
}

// NewStage creates a new Stage with the register in the reset state.
func NewStage(opts ...StageOption) *Stage {
	s := &Stage{
		alu:    emu.NewALU(),
		logger: logr.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.comb = s.alu.Evaluate(s.inputs)

	return s
}

// SetInputs drives new values onto the ALU inputs and re-evaluates the
// combinational output.
func (s *Stage) SetInputs(in emu.Inputs) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inputs = in
	s.comb = s.alu.Evaluate(in)
}

// SetReset drives the reset line. Asserting it clears the register at once,
// without waiting for a clock edge.
func (s *Stage) SetReset(level bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if level && !s.reset {
		s.logger.V(1).Info("reset asserted")
		s.stats.Resets++
	} else if !level && s.reset {
		s.logger.V(1).Info("reset released")
	}

	s.reset = level
	if level {
		s.register.Step(false, true, s.comb)
	}
}

// ClockEdge performs one rising clock edge.
func (s *Stage) ClockEdge() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Edges++

	state := s.register.Step(true, s.reset, s.comb)
	if s.reset {
		s.stats.ResetEdges++
		return state
	}

	s.stats.Captures++
	s.logger.V(2).Info("captured",
		"inputs", s.inputs.String(),
		"output", s.comb.String())

	return state
}

// Inputs returns the values currently driven onto the ALU.
func (s *Stage) Inputs() emu.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inputs
}

// ResetAsserted returns the level of the reset line.
func (s *Stage) ResetAsserted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reset
}

// Combinational returns the live, unregistered ALU output.
func (s *Stage) Combinational() emu.Output {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.comb
}

// Outputs returns the registered result and flags.
func (s *Stage) Outputs() emu.Output {
	return s.register.Output()
}

// State returns the state of the output register.
func (s *Stage) State() State {
	return s.register.State()
}

// Stats returns stage activity counters.
func (s *Stage) Stats() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

// Reset clears the register, releases reset and zeroes inputs and counters.
func (s *Stage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.register.Clear()
	s.inputs = emu.Inputs{}
	s.comb = s.alu.Evaluate(s.inputs)
	s.reset = false
	s.stats = Statistics{}
}
