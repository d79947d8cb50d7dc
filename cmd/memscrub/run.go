package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/memscrub/datarecording"
	"github.com/sarchlab/memscrub/lfsr"
	"github.com/sarchlab/memscrub/mem"
	"github.com/sarchlab/memscrub/monitoring"
	"github.com/sarchlab/memscrub/selftest"
)

var runFlags struct {
	seed        uint32
	firstAddr   uint64
	words       uint64
	units       int
	iterations  int
	forever     bool
	record      bool
	output      string
	monitor     bool
	monitorPort int
	openBrowser bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a memory self test",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		applyEnvDefaults(cmd)
		runSelfTest()
	},
}

func init() {
	runCmd.Flags().Uint32Var(&runFlags.seed, "seed", lfsr.DefaultSeed,
		"base seed of the pattern generator")
	runCmd.Flags().Uint64Var(&runFlags.firstAddr, "first", 0x8000,
		"first address of the region under test")
	runCmd.Flags().Uint64Var(&runFlags.words, "words", 24576,
		"number of 32-bit words in the region under test")
	runCmd.Flags().IntVar(&runFlags.units, "units", 8,
		"number of parallel execution units")
	runCmd.Flags().IntVar(&runFlags.iterations, "iterations", 1,
		"number of write/verify cycles")
	runCmd.Flags().BoolVar(&runFlags.forever, "forever", false,
		"cycle until interrupted, accumulating the error count")
	runCmd.Flags().BoolVar(&runFlags.record, "record", false,
		"record the run into a SQLite file")
	runCmd.Flags().StringVar(&runFlags.output, "output", "",
		"name of the SQLite file to record into")
	runCmd.Flags().BoolVar(&runFlags.monitor, "monitor", false,
		"serve live progress over HTTP while the test runs")
	runCmd.Flags().IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"port of the monitoring server, random if 0")
	runCmd.Flags().BoolVar(&runFlags.openBrowser, "open", false,
		"open the monitoring page in a browser")

	rootCmd.AddCommand(runCmd)
}

// applyEnvDefaults lets a .env file or the environment preset the main
// knobs without repeating them on every invocation. Explicit flags win.
func applyEnvDefaults(cmd *cobra.Command) {
	envUint := func(flag, env string, apply func(uint64)) {
		if cmd.Flags().Changed(flag) {
			return
		}
		value, ok := os.LookupEnv(env)
		if !ok {
			return
		}
		parsed, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			configError("%s: %v", env, err)
		}
		apply(parsed)
	}

	envUint("seed", "MEMSCRUB_SEED",
		func(v uint64) { runFlags.seed = uint32(v) })
	envUint("first", "MEMSCRUB_FIRST",
		func(v uint64) { runFlags.firstAddr = v })
	envUint("words", "MEMSCRUB_WORDS",
		func(v uint64) { runFlags.words = v })
	envUint("units", "MEMSCRUB_UNITS",
		func(v uint64) { runFlags.units = int(v) })
	envUint("iterations", "MEMSCRUB_ITERATIONS",
		func(v uint64) { runFlags.iterations = int(v) })
}

func runSelfTest() {
	lastAddr := runFlags.firstAddr + runFlags.words*mem.WordSize
	storage := mem.NewStorage(lastAddr)

	builder := selftest.MakeBuilder().
		WithSeed(runFlags.seed).
		WithRegion(runFlags.firstAddr, lastAddr).
		WithUnitCount(runFlags.units).
		WithIterations(runFlags.iterations).
		WithMemory(storage)

	if runFlags.forever {
		builder = builder.WithUnboundedIterations()
	}

	var monitor *monitoring.Monitor
	if runFlags.monitor {
		monitor = monitoring.NewMonitor()
		if runFlags.monitorPort > 0 {
			monitor.WithPortNumber(runFlags.monitorPort)
		}

		bar := monitor.CreateProgressBar(
			"iterations", uint64(runFlags.iterations))
		builder = builder.WithProgressBar(bar)
	}

	test, err := builder.Build()
	if err != nil {
		configError("invalid configuration: %v", err)
	}

	if monitor != nil {
		monitor.RegisterTest(test)
		url := monitor.StartServer()

		if runFlags.openBrowser {
			err := browser.OpenURL(url)
			if err != nil {
				fmt.Fprintf(os.Stderr, "cannot open browser: %v\n", err)
			}
		}
	}

	if runFlags.forever {
		stopOnInterrupt(test)
	}

	start := time.Now()
	errorCount := selftest.Run(test)
	duration := time.Since(start)

	if runFlags.record {
		recordRun(test, errorCount, start, duration)
	}

	if errorCount == 0 {
		fmt.Printf("Test success, errors = 0\n")
		return
	}

	fmt.Printf("Test failure, errors = %d\n", errorCount)
	atexit.Exit(1)
}

func stopOnInterrupt(test *selftest.Test) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	go func() {
		<-interrupt
		fmt.Fprintln(os.Stderr, "interrupted, finishing current iteration")
		test.Stop()
	}()
}

func recordRun(
	test *selftest.Test,
	errorCount uint64,
	start time.Time,
	duration time.Duration,
) {
	recorder := datarecording.New(runFlags.output)
	logger := datarecording.NewRunLogger(recorder)

	firstAddr, lastAddr := test.Region()
	logger.Record(datarecording.RunEntry{
		RunID:      xid.New().String(),
		StartTime:  start.Format("2006-01-02 15:04:05"),
		Seed:       test.Seed(),
		FirstAddr:  firstAddr,
		LastAddr:   lastAddr,
		UnitCount:  test.UnitCount(),
		Iterations: test.CompletedIterations(),
		Errors:     errorCount,
		Passed:     errorCount == 0,
		DurationMS: duration.Milliseconds(),
	})
	logger.Flush()
}

func configError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	atexit.Exit(2)
}
