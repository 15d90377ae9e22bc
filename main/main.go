package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/fluidlab/macflow/io"
	"github.com/fluidlab/macflow/ops"
	"github.com/fluidlab/macflow/sim"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		if err := fg.log.Close(); err != nil {
			log.Fatal(err.Error())
		}
	}
	if fg.prof != nil {
		pprof.StopCPUProfile()
		if err := fg.prof.Close(); err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		runStr        string
		exampleConfig bool
		profileFile   string
	)

	flag.IntVar(
		&ops.NumCores, "Threads", runtime.NumCPU(),
		"Number of threads used. Default is the number of logical cores.",
	)
	flag.StringVar(
		&runStr, "Run", "",
		"Configuration file for a simulation run.",
	)
	flag.BoolVar(
		&exampleConfig, "ExampleConfig", false,
		"Prints an example configuration file to stdout.",
	)
	flag.StringVar(
		&profileFile, "ProfileFile", "",
		"File a CPU profile is written to.",
	)

	flag.Parse()

	switch {
	case exampleConfig:
		fmt.Println(io.ExampleConfigFile)
	case runStr != "":
		runMain(runStr, profileFile)
	default:
		log.Fatal("Either -Run or -ExampleConfig must be given. " +
			"Try the -help flag.")
	}
}

func runMain(fname, profileFile string) {
	wrap, err := io.ReadConfig(fname)
	if err != nil {
		log.Fatalf("Error parsing config file %s: %s", fname, err.Error())
	}

	fg, logger := setupFiles(&wrap.Simulation, profileFile)
	defer fg.Close()

	s, err := wrap.BuildSimulation(logger)
	if err != nil {
		log.Fatal(err.Error())
	}

	emitter := sim.Emitter(discardEmitter{})
	if wrap.Simulation.ValidMetricsFile() {
		m, err := sim.CreateMetricsFile(wrap.Simulation.MetricsFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		emitter = m
	}

	logger.Printf("Running %d steps on a %dx%dx%d grid with %d threads.",
		s.Steps(), wrap.Grid.NX, wrap.Grid.NY, wrap.Grid.NZ, ops.NumCores)

	if err := s.Run(emitter); err != nil {
		log.Fatal(err.Error())
	}
	logger.Println("Run complete.")
}

// setupFiles opens the log and profile files named by the config and
// returns a logger wired to the log file, or to stderr when none is given.
func setupFiles(sc *io.SimulationConfig, profileFile string) (*FileGroup, *log.Logger) {
	fg := &FileGroup{}
	logger := log.New(os.Stderr, "", log.LstdFlags)

	if sc.ValidLogFile() {
		f, err := os.Create(sc.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		fg.log = f
		logger = log.New(f, "", log.LstdFlags)
	}

	if profileFile != "" {
		f, err := os.Create(profileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		if err = pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err.Error())
		}
		fg.prof = f
	}
	return fg, logger
}

// discardEmitter drops snapshots when no metrics file is configured.
type discardEmitter struct{}

func (discardEmitter) Emit(*sim.Snapshot) error { return nil }
func (discardEmitter) Close() error             { return nil }
