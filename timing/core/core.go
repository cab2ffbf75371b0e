// Package core provides the clocked simulation model of the ALU stage.
// It drives a pipeline.Stage from a stream of input vectors, one vector per
// rising clock edge, on top of an Akita simulation engine.
package core

import (
	"github.com/go-logr/logr"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/alu8/emu"
	"github.com/sarchlab/alu8/timing/clock"
	"github.com/sarchlab/alu8/timing/pipeline"
)

// Vector is the stimulus applied during one clock cycle.
type Vector struct {
	// Inputs is driven onto the ALU before the clock edge.
	Inputs emu.Inputs
	// Reset is the level of the reset line during the cycle.
	Reset bool
}

// Source supplies stimulus vectors. Next returns false once exhausted.
type Source interface {
	Next() (Vector, bool)
}

// SliceSource replays a fixed list of vectors.
type SliceSource struct {
	vectors []Vector
	pos     int
}

// NewSliceSource creates a Source over vectors.
func NewSliceSource(vectors []Vector) *SliceSource {
	return &SliceSource{vectors: vectors}
}

// Next returns the next vector.
func (s *SliceSource) Next() (Vector, bool) {
	if s.pos >= len(s.vectors) {
		return Vector{}, false
	}
	v := s.vectors[s.pos]
	s.pos++
	return v, true
}

// TraceEntry records one simulated cycle.
type TraceEntry struct {
	// Cycle is the zero-based cycle number.
	Cycle uint64
	// Time is the simulated time of the clock edge in seconds.
	Time float64
	// Vector is the stimulus applied in the cycle.
	Vector Vector
	// Combinational is the ALU output sampled at the edge.
	Combinational emu.Output
	// Registered is the register output after the edge.
	Registered emu.Output
	// State is the register state after the edge.
	State pipeline.State
}

// Stats holds run statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Captures is the number of cycles that latched a new result.
	Captures uint64
	// ResetCycles is the number of cycles spent with reset asserted.
	ResetCycles uint64
	// DivideByZero is the number of captured DIV results with a zero divisor.
	DivideByZero uint64
	// PassThrough is the number of captured results from unassigned opcodes.
	PassThrough uint64
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithLogger sets the logger for the core and its stage.
func WithLogger(logger logr.Logger) Option {
	return func(c *Core) {
		c.logger = logger
	}
}

// WithTimingConfig sets the clocking configuration.
func WithTimingConfig(config *clock.TimingConfig) Option {
	return func(c *Core) {
		c.config = config
	}
}

// WithTrace enables per-cycle trace recording.
func WithTrace(enabled bool) Option {
	return func(c *Core) {
		c.tracing = enabled
	}
}

// Core is a clocked ALU stage. Each tick of the Akita ticking component
// applies one vector from the source and performs one clock edge.
type Core struct {
	*sim.TickingComponent

	// Stage is the underlying ALU and output register.
	Stage *pipeline.Stage

	engine sim.Engine
	config *clock.TimingConfig
	logger logr.Logger
	source Source

	tracing bool
	trace   []TraceEntry

	stats  Stats
	halted bool
}

// NewCore creates a new Core named name that reads its stimulus from source.
func NewCore(name string, engine sim.Engine, source Source, opts ...Option) *Core {
	c := &Core{
		engine: engine,
		config: clock.DefaultTimingConfig(),
		logger: logr.Discard(),
		source: source,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Stage = pipeline.NewStage(pipeline.WithLogger(c.logger.WithName("stage")))
	c.TickingComponent = sim.NewTickingComponent(name, engine, c.config.Freq(), c)

	return c
}

// Tick applies the next vector and clocks the stage once. It returns false
// when the source is exhausted or the cycle limit is reached.
func (c *Core) Tick() bool {
	if c.halted {
		return false
	}

	if c.config.MaxCycles != 0 && c.stats.Cycles >= c.config.MaxCycles {
		c.halt("cycle limit reached")
		return false
	}

	v, ok := c.source.Next()
	if !ok {
		c.halt("stimulus exhausted")
		return false
	}

	c.Stage.SetInputs(v.Inputs)
	c.Stage.SetReset(v.Reset)
	comb := c.Stage.Combinational()
	state := c.Stage.ClockEdge()
	out := c.Stage.Outputs()

	c.account(v, comb)

	if c.tracing {
		c.trace = append(c.trace, TraceEntry{
			Cycle:         c.stats.Cycles,
			Time:          float64(c.engine.CurrentTime()),
			Vector:        v,
			Combinational: comb,
			Registered:    out,
			State:         state,
		})
	}

	c.stats.Cycles++

	return true
}

func (c *Core) account(v Vector, comb emu.Output) {
	if v.Reset {
		c.stats.ResetCycles++
		return
	}

	c.stats.Captures++

	op := v.Inputs.Op()
	if comb.DivideByZero(op) {
		c.stats.DivideByZero++
		c.logger.V(1).Info("divide by zero", "cycle", c.stats.Cycles, "a", v.Inputs.A)
	}
	if !v.Inputs.Code.Assigned() {
		c.stats.PassThrough++
	}
}

func (c *Core) halt(reason string) {
	c.halted = true
	c.logger.Info("halted", "reason", reason, "cycles", c.stats.Cycles)
}

// Run starts the clock and runs the engine until the core halts.
func (c *Core) Run() error {
	c.logger.Info("running", "name", c.Name(), "frequencyMHz", c.config.FrequencyMHz)
	c.TickLater()
	return c.engine.Run()
}

// RunCycles executes up to cycles ticks directly, without the engine.
// Returns true if still running, false if halted.
func (c *Core) RunCycles(cycles uint64) bool {
	for i := uint64(0); i < cycles; i++ {
		if !c.Tick() {
			return false
		}
	}
	return !c.halted
}

// Halted returns true once the source is exhausted or the cycle limit hit.
func (c *Core) Halted() bool {
	return c.halted
}

// Outputs returns the registered result and flags.
func (c *Core) Outputs() emu.Output {
	return c.Stage.Outputs()
}

// Trace returns the recorded trace. It is empty unless tracing is enabled.
func (c *Core) Trace() []TraceEntry {
	return c.trace
}

// Stats returns run statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// SetSource replaces the stimulus source and clears the halted state.
func (c *Core) SetSource(source Source) {
	c.source = source
	c.halted = false
}

// Reset clears the stage, the trace and all statistics.
func (c *Core) Reset() {
	c.Stage.Reset()
	c.trace = nil
	c.stats = Stats{}
	c.halted = false
}
