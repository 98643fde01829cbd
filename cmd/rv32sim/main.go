// Command rv32sim executes a flat RV32I/M/V binary image.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/qtx73/rv32emu/config"
	"github.com/qtx73/rv32emu/loader"
	"github.com/qtx73/rv32emu/vm"
)

// Build metadata, set via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Exit codes reported to the shell beyond the program's own x[3] value.
const (
	ExitCodeCycleLimit  = 124 // echoes the conventional shell timeout-killed status
	ExitCodeLoadFailure = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rv32sim", flag.ContinueOnError)

	maxCycles := fs.Uint64("max-cycles", 0, "cycle ceiling (0 uses the config/default value)")
	memSize := fs.Uint("mem-size", 0, "override the flat memory size in bytes (0 uses the config/default value)")
	trace := fs.Bool("trace", false, "write one line per retired instruction to stdout")
	traceFile := fs.String("trace-file", "", "redirect the trace to a file instead of stdout")
	configPath := fs.String("config", "", "path to a TOML config file (optional)")
	showVersion := fs.Bool("version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return ExitCodeLoadFailure
	}

	if *showVersion {
		fmt.Printf("rv32sim %s (commit %s, built %s)\n", Version, Commit, Date)
		return 0
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: rv32sim [flags] <image>")
		return ExitCodeLoadFailure
	}
	imagePath := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv32sim: %v\n", err)
		return ExitCodeLoadFailure
	}

	cycles := cfg.Execution.MaxCycles
	if *maxCycles != 0 {
		cycles = *maxCycles
	}
	size := cfg.Execution.MemorySize
	if *memSize != 0 {
		size = uint32(*memSize)
	}

	m := vm.NewMachine(size, cycles)

	if err := loader.LoadIntoMachine(m, imagePath, 0); err != nil {
		fmt.Fprintf(os.Stderr, "rv32sim: %v\n", err)
		return ExitCodeLoadFailure
	}

	sink, closeSink, err := buildTraceSink(cfg, *trace, *traceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv32sim: %v\n", err)
		return ExitCodeLoadFailure
	}
	if closeSink != nil {
		defer closeSink()
	}
	m.Trace = sink

	runErr := m.Run()
	switch {
	case errors.Is(runErr, vm.ErrCycleLimit):
		fmt.Fprintln(os.Stderr, "rv32sim: maximum cycles exceeded")
		return ExitCodeCycleLimit
	case errors.Is(runErr, vm.ErrHalt):
		return int(m.ExitCode) & 0xFF
	case runErr != nil:
		fmt.Fprintf(os.Stderr, "rv32sim: %v\n", runErr)
		return ExitCodeLoadFailure
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func buildTraceSink(cfg *config.Config, traceFlag bool, traceFilePath string) (vm.TraceSink, func(), error) {
	enabled := traceFlag || cfg.Trace.Enabled
	if !enabled {
		return nil, nil, nil
	}

	path := traceFilePath
	if path == "" {
		path = cfg.Trace.OutputFile
	}
	if path == "" {
		return vm.NewWriterSink(os.Stdout), nil, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening trace file %s: %w", path, err)
	}
	return vm.NewWriterSink(f), func() { f.Close() }, nil
}
