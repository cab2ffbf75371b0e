// Package pipeline provides the registered output stage of the ALU.
package pipeline

import (
	"sync"

	"github.com/sarchlab/alu8/emu"
)

// State is the state of an OutputRegister.
type State uint8

// Register states.
const (
	// StateReset means all outputs are forced to zero.
	StateReset State = iota
	// StateHolding means the outputs hold the values sampled at the most
	// recent clock edge.
	StateHolding
)

// String returns the state name.
func (s State) String() string {
	if s == StateHolding {
		return "HOLDING"
	}
	return "RESET"
}

// OutputRegister latches the ALU result and flags. It models a synchronous
// register with an asynchronous, level-sensitive reset.
type OutputRegister struct {
	mu sync.RWMutex

	state State

	// Latched result and flags.
	out emu.Output
}

// Step applies one stimulus to the register. Reset is checked first: while
// reset is asserted the outputs are forced to zero and any concurrent edge is
// ignored. Otherwise a rising edge samples in. Without an edge or reset the
// register keeps its value.
func (r *OutputRegister) Step(edge, reset bool, in emu.Output) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case reset:
		r.clear()
	case edge:
		r.out = in
		r.state = StateHolding
	}

	return r.state
}

// Clear resets the register to its zero state.
func (r *OutputRegister) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clear()
}

func (r *OutputRegister) clear() {
	r.state = StateReset
	r.out = emu.Output{}
}

// State returns the current register state.
func (r *OutputRegister) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state
}

// Output returns the latched result and flags.
func (r *OutputRegister) Output() emu.Output {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.out
}

// GetResult returns the latched result.
func (r *OutputRegister) GetResult() uint8 { return r.Output().Result }

// GetFlags returns the latched flags.
func (r *OutputRegister) GetFlags() emu.Flags { return r.Output().Flags }
