// Command rtsim is the thin CLI entry point around the rtsim simulation
// engine (spec.md §6.3). Input parsing, chart rendering, and argument
// handling are external collaborators of the core engine; this binary
// wires them together.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cnotch/rtsim"
	"github.com/cnotch/rtsim/config"
	"github.com/cnotch/rtsim/report"
)

var (
	inputPath  string
	drawOutput string
	drawTicks  int
	showTicks  bool
	showHps    bool
	showLabels bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "rtsim",
	Short: "Discrete-event simulator for fixed-priority and EDF real-time scheduling",
	Long: `rtsim simulates a periodic real-time task set tick-by-tick under Rate
Monotonic or Earliest Deadline First scheduling, accounting for kernel
overheads, and reports either the first missed deadline or a proven
feasibility interval.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&inputPath, "input", "", "task set / algorithm / overheads input file (required)")
	rootCmd.Flags().StringVar(&drawOutput, "draw", "", "write a textual schedule summary to this path")
	rootCmd.Flags().IntVar(&drawTicks, "draw-interval", 0, "simulated time interval to bound the run for -draw")
	rootCmd.Flags().BoolVar(&showTicks, "ticks", false, "include tick-boundary overheads in the summary")
	rootCmd.Flags().BoolVar(&showHps, "hps", false, "print the task set's hyperperiod in the summary")
	rootCmd.Flags().BoolVar(&showLabels, "labels", false, "include overhead step labels in the summary")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional TOML file of default overheads (non-zero input file values win)")
	_ = rootCmd.MarkFlagRequired("input")
}

func run(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	runID := uuid.NewString()
	log = log.With("run_id", runID)

	if configPath != "" {
		if err := loadDefaultOverheads(configPath); err != nil {
			log.Warnw("failed to load default overhead config, continuing with input file only", "error", err)
		}
	}

	taskSet, policy, overheads, err := config.ParseFile(inputPath)
	if err != nil {
		return err
	}
	overheads = withViperDefaults(overheads)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	notifySignals(cancel)

	sim := rtsim.New(taskSet, policy, overheads, rtsim.WithLogger(log), rtsim.WithRunID(runID))

	if drawOutput != "" {
		result := sim.RunFor(ctx, float64(drawTicks))
		summary := report.SummarizeWithOptions(sim.History(), report.Options{
			ShowTicks:   showTicks,
			ShowHPS:     showHps,
			ShowLabels:  showLabels,
			TickRate:    overheads.TickRate,
			Hyperperiod: taskSet.Hyperperiod(),
		})
		if err := os.WriteFile(drawOutput, []byte(summary), 0o644); err != nil {
			return err
		}
		fmt.Println("The schedule was saved to file ", drawOutput)
		printOutcome(result, 0)
		return nil
	}

	result, feasibilityEnd := sim.Run(ctx)
	printOutcome(result, feasibilityEnd)
	return nil
}

func printOutcome(result rtsim.SimResult, feasibilityEnd float64) {
	if result.Missed {
		fmt.Printf("A deadline was missed at time instant %v\n", result.MissTime)
		return
	}
	fmt.Printf("The simulation interval is [0, %v]\n", feasibilityEnd)
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// loadDefaultOverheads reads a flat TOML key/value overhead profile via
// Viper, letting an operator keep a shared default catalogue out of the
// per-scenario input file (spec.md §4.7 / §10). withViperDefaults merges
// these in afterwards, filling only the fields that are zero after parsing
// the input file: a non-zero input value wins, while a zero value (omitted or
// written as 0) is replaced by the config value when one is set.
func loadDefaultOverheads(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("toml")
	return viper.ReadInConfig()
}

func withViperDefaults(o rtsim.Overheads) rtsim.Overheads {
	if configPath == "" {
		return o
	}
	set := func(field *float64, key string) {
		if *field == 0 && viper.IsSet(key) {
			*field = viper.GetFloat64(key)
		}
	}
	set(&o.TickRate, "tick_rate")
	set(&o.Save, "save")
	set(&o.Load, "load")
	set(&o.DecrementTimer, "decrement_timer")
	set(&o.RestartTimer, "restart_timer")
	set(&o.Resume, "resume")
	set(&o.AddReady, "add_ready")
	set(&o.GetHPT, "get_hpt")
	return o
}

func notifySignals(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if _, ok := <-c; ok {
			cancel()
		}
	}()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
