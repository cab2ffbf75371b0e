// Package main provides the entry point for alusim.
// alusim runs a stimulus file through the clocked 8-bit ALU stage.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/alu8/stimulus"
	"github.com/sarchlab/alu8/timing/clock"
	"github.com/sarchlab/alu8/timing/core"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("alusim", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.String("config", "", "Path to timing configuration JSON file")
	trace := flags.Bool("trace", false, "Print the registered outputs of every cycle")
	verbose := flags.Int("v", 0, "Log verbosity")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if flags.NArg() != 1 {
		fmt.Fprintf(stderr, "Usage: alusim [options] <stimulus>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
		return 1
	}

	stimulusPath := flags.Arg(0)

	timingConfig := clock.DefaultTimingConfig()
	if *configPath != "" {
		var err error
		timingConfig, err = clock.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading timing config: %v\n", err)
			return 1
		}
	}
	if err := timingConfig.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid timing config: %v\n", err)
		return 1
	}

	prog, err := stimulus.Load(stimulusPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading stimulus: %v\n", err)
		return 1
	}

	logger := funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(stderr, args)
	}, funcr.Options{Verbosity: *verbose})

	c := buildCore(prog, timingConfig, logger)
	if err := c.Run(); err != nil {
		fmt.Fprintf(stderr, "Simulation failed: %v\n", err)
		return 1
	}

	report(stdout, stimulusPath, prog, c, timingConfig, *trace)

	return 0
}

// buildCore prefixes the stimulus with the configured reset cycles.
func buildCore(prog *stimulus.Program, config *clock.TimingConfig, logger logr.Logger) *core.Core {
	vectors := make([]core.Vector, 0, int(config.ResetCycles)+len(prog.Vectors))
	for range config.ResetCycles {
		vectors = append(vectors, core.Vector{Reset: true})
	}
	vectors = append(vectors, prog.Vectors...)

	return core.NewCore("ALU", sim.NewSerialEngine(), core.NewSliceSource(vectors),
		core.WithLogger(logger),
		core.WithTimingConfig(config),
		core.WithTrace(true))
}

// sourceLine maps a cycle to its stimulus line. The configured reset cycles
// have no source line.
func sourceLine(prog *stimulus.Program, config *clock.TimingConfig, cycle uint64) string {
	if cycle < config.ResetCycles {
		return "-"
	}
	i := cycle - config.ResetCycles
	if i >= uint64(len(prog.Lines)) {
		return "-"
	}
	return fmt.Sprintf("%d", prog.Lines[i])
}

func report(
	w io.Writer,
	path string,
	prog *stimulus.Program,
	c *core.Core,
	config *clock.TimingConfig,
	trace bool,
) {
	if trace {
		fmt.Fprintf(w, "%6s  %5s  %10s  %-5s  %-28s  %s\n",
			"cycle", "line", "time(ns)", "rst", "inputs", "registered")
		for _, entry := range c.Trace() {
			rst := "-"
			if entry.Vector.Reset {
				rst = "R"
			}
			fmt.Fprintf(w, "%6d  %5s  %10.2f  %-5s  %-28s  %s\n",
				entry.Cycle, sourceLine(prog, config, entry.Cycle), entry.Time*1e9,
				rst, entry.Vector.Inputs, entry.Registered)
		}
		fmt.Fprintf(w, "\n")
	}

	stats := c.Stats()
	out := c.Outputs()

	fmt.Fprintf(w, "Stimulus: %s\n", path)
	fmt.Fprintf(w, "Clock: %.2f MHz (period %.2f ns)\n", config.FrequencyMHz, config.PeriodNs())
	fmt.Fprintf(w, "Total Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(w, "  Reset cycles:    %d\n", stats.ResetCycles)
	fmt.Fprintf(w, "  Captures:        %d\n", stats.Captures)
	fmt.Fprintf(w, "  Divide by zero:  %d\n", stats.DivideByZero)
	fmt.Fprintf(w, "  Pass-through:    %d\n", stats.PassThrough)
	fmt.Fprintf(w, "Final: %s\n", out)
}
