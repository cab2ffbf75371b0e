// Package clock provides the clocking configuration of the ALU stage.
package clock

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"
)

// MaxResetCycles bounds ResetCycles and any single reset run in a stimulus.
const MaxResetCycles = 1 << 16

// TimingConfig holds the clocking parameters for a simulation run.
type TimingConfig struct {
	// FrequencyMHz is the clock frequency driving the output register.
	// Default: 100 MHz.
	FrequencyMHz float64 `json:"frequency_mhz"`

	// ResetCycles is the number of cycles reset is held asserted before the
	// first stimulus vector is applied. Default: 1 cycle.
	ResetCycles uint64 `json:"reset_cycles"`

	// MaxCycles bounds the number of simulated cycles. Zero means the run
	// ends when the stimulus is exhausted. Default: 0.
	MaxCycles uint64 `json:"max_cycles"`
}

// DefaultTimingConfig returns a TimingConfig with default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		FrequencyMHz: 100,
		ResetCycles:  1,
		MaxCycles:    0,
	}
}

// LoadConfig loads a TimingConfig from a JSON file.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a runnable clock.
func (c *TimingConfig) Validate() error {
	if c.FrequencyMHz <= 0 {
		return fmt.Errorf("frequency_mhz must be > 0")
	}
	if c.ResetCycles > MaxResetCycles {
		return fmt.Errorf("reset_cycles must be <= %d", MaxResetCycles)
	}
	if c.MaxCycles != 0 && c.ResetCycles >= c.MaxCycles {
		return fmt.Errorf("reset_cycles must be < max_cycles")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	return &TimingConfig{
		FrequencyMHz: c.FrequencyMHz,
		ResetCycles:  c.ResetCycles,
		MaxCycles:    c.MaxCycles,
	}
}

// Freq returns the clock frequency in akita units.
func (c *TimingConfig) Freq() sim.Freq {
	return sim.Freq(c.FrequencyMHz) * sim.MHz
}

// PeriodNs returns the clock period in nanoseconds.
func (c *TimingConfig) PeriodNs() float64 {
	return 1e3 / c.FrequencyMHz
}
