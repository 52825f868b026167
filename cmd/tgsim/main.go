package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/tgsim/internal/analysis"
	"github.com/san-kum/tgsim/internal/automation"
	"github.com/san-kum/tgsim/internal/config"
	"github.com/san-kum/tgsim/internal/experiment"
	"github.com/san-kum/tgsim/internal/export"
	"github.com/san-kum/tgsim/internal/logging"
	"github.com/san-kum/tgsim/internal/storage"
	"github.com/san-kum/tgsim/internal/tui"
	"github.com/san-kum/tgsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	logJSON    bool
	configFile string
	preset     string
	dt         float64
	duration   float64
	integrator string
	worldName  string
	controller string
	kp         float64
	ki         float64
	kd         float64
	target     float64
	gravity    float64
	noProbe    bool
	noSave     bool
	// sweep
	runs       int
	parallel   int
	fromHeight float64
	toHeight   float64
	svgSize    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "tgsim",
		Short:        "terrain generation and physics scene lab",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive launcher when no command given
			picker := tui.NewPicker("crater")
			if _, err := tea.NewProgram(picker).Run(); err != nil {
				return err
			}
			if cfg := picker.Chosen(); cfg != nil {
				return liveScene(cfg)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tgsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a scene to completion and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run a scene with a live top-down view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run copies of a scene in parallel, varying the probe drop height",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&runs, "runs", 4, "number of runs")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "max runs at once (0 = no cap)")
	sweepCmd.Flags().Float64Var(&fromHeight, "from", 10, "lowest drop height")
	sweepCmd.Flags().Float64Var(&toHeight, "to", 40, "highest drop height")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	bodiesCmd := &cobra.Command{
		Use:   "bodies [run_id]",
		Short: "list the bodies a stored run built",
		Args:  cobra.ExactArgs(1),
		RunE:  showBodies,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a scenario file in order",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id] [out.svg]",
		Short: "draw a stored run from above as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportRun,
	}
	exportCmd.Flags().IntVar(&svgSize, "size", 600, "picture size in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := modelArg(args)
			presets := config.ListPresets(model)
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", model)
				return nil
			}
			fmt.Printf("presets for %s:\n", model)
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "list models, worlds, integrators and controllers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			r := experiment.NewRegistry()
			fmt.Printf("models:      %s\n", strings.Join(r.ListModels(), ", "))
			fmt.Printf("worlds:      %s\n", strings.Join(r.ListWorlds(), ", "))
			fmt.Printf("integrators: %s\n", strings.Join(r.ListIntegrators(), ", "))
			fmt.Printf("controllers: %s\n", strings.Join(r.ListControllers(), ", "))
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file with the defaults (or a preset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(cfg.Model, preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s", preset)
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, scenarioCmd, listCmd, showCmd, bodiesCmd, exportCmd, presetsCmd, catalogCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
	f.StringVar(&worldName, "world", "memory", "world backend")
	f.StringVar(&controller, "controller", "none", "controller")
	f.Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	f.Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	f.Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	f.Float64Var(&target, "target", 0, "pid target height")
	f.Float64Var(&gravity, "gravity", config.DefaultGravity, "vertical gravity")
	f.BoolVar(&noProbe, "no-probe", false, "build the terrain without a probe")
}

func modelArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "crater"
}

// loadConfig layers a preset, then a config file, then any flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if cfg.Model == "" {
			cfg.Model = model
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("world") {
		cfg.World = worldName
	}
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if flags.Changed("target") {
		cfg.ControllerParams.Target = target
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if noProbe {
		cfg.Probe.Enabled = false
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) *slog.Logger {
	if logJSON {
		return logging.NewJSONLogger(cfg.LogLevel, os.Stderr)
	}
	return logging.NewLogger(cfg.LogLevel, os.Stderr)
}

func runScene(cmd *cobra.Command, args []string) error {
	model := modelArg(args)
	cfg, err := loadConfig(cmd, model)
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithLogger(ctx, log)

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	exp.SetLogger(log)

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d steps (%.2fs simulated) in %v\n", result.Steps, result.Time, elapsed)
	fmt.Println(viz.MetricsTable(result.Metrics))
	fmt.Println(viz.BodyTable(exp.Bodies()))

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := exp.Save(st, result)
	if err != nil {
		return err
	}
	log.Info("run stored", "id", runID, "dir", dataDir)
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	model := modelArg(args)
	cfg, err := loadConfig(cmd, model)
	if err != nil {
		return err
	}
	return liveScene(cfg)
}

func liveScene(cfg *config.Config) error {
	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	ss, err := exp.Start()
	if err != nil {
		return err
	}

	live := viz.NewLive(cfg.Model, exp.World(), ss, exp.Recorder(), cfg.Dt, cfg.Duration)
	p := tea.NewProgram(live)
	if _, err := p.Run(); err != nil {
		ss.Close()
		return err
	}
	return live.Err()
}

func runSweep(cmd *cobra.Command, args []string) error {
	model := modelArg(args)
	cfg, err := loadConfig(cmd, model)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}
	if !cfg.Probe.Enabled {
		return fmt.Errorf("sweep varies the probe and needs it enabled")
	}

	heights := make([]float64, runs)
	for i := range heights {
		heights[i] = fromHeight
		if runs > 1 {
			heights[i] += (toHeight - fromHeight) * float64(i) / float64(runs-1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithLogger(ctx, newLogger(cfg))

	_, results, err := experiment.Sweep(ctx, cfg, experiment.NewRegistry(), runs, parallel, func(i int, c *config.Config) {
		c.Probe.Position[1] = heights[i]
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tHEIGHT\tSTEPS\tENERGY\tDRIFT\tPEAK SPEED\tCONTAINED")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.2f\t%d\t%.3f\t%.3g\t%.3f\t%.0f%%\n",
			i, heights[i], r.Steps,
			r.Metrics["energy"], r.Metrics["energy_drift"],
			r.Metrics["peak_speed"], 100*r.Metrics["containment"])
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	level := config.DefaultConfig().LogLevel
	if logLevel != "" {
		level = logLevel
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithLogger(ctx, newLogger(&config.Config{LogLevel: level}))

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), st)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSTEPS\tTIME\tPEAK SPEED\tRUN ID")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.2fs\t%.3f\t%s\n",
			r.Name, r.Result.Steps, r.Result.Time, r.Result.Metrics["peak_speed"], r.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tWORLD\tINTEG\tCTRL\tBODIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%s\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.World,
			run.Integrator,
			run.Controller,
			run.Bodies,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	bodies, err := st.LoadBodies(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(meta.ID))
	fmt.Printf("%s on %s, %s, %s, dt %.4fs, %d steps (%.2fs)\n\n",
		meta.Model, meta.World, meta.Integrator, meta.Controller, meta.Dt, meta.Steps, meta.SimTime)
	fmt.Println(viz.TopDown(bodies, trace, 50, 20))
	fmt.Println(viz.HeightChart(trace, 60, 10))
	if f, _, err := analysis.DominantFrequency(analysis.Heights(trace), meta.Dt); err == nil && f > 0 {
		fmt.Printf("dominant height frequency: %.3f Hz (period %.2fs)\n", f, 1/f)
	}
	fmt.Println()
	fmt.Println(viz.MetricsTable(meta.Metrics))
	return nil
}

func showBodies(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	bodies, err := st.LoadBodies(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.BodyTable(bodies))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := export.WriteRun(f, storage.New(dataDir), args[0], svgSize); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}
