package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/balancesim/internal/analysis"
	"github.com/san-kum/balancesim/internal/config"
	"github.com/san-kum/balancesim/internal/dynamo"
	"github.com/san-kum/balancesim/internal/experiment"
	"github.com/san-kum/balancesim/internal/export"
	"github.com/san-kum/balancesim/internal/optim"
	"github.com/san-kum/balancesim/internal/storage"
	"github.com/san-kum/balancesim/internal/telemetry"
	"github.com/san-kum/balancesim/internal/viz"
)

var (
	dataDir string
	verbose bool
	logFile string
	logger  = zap.NewNop()

	closeLogger = func() {}

	// run and live
	configFile string
	preset     string
	name       string
	dt         float64
	duration   float64
	resetEvery int
	saturate   bool
	controller string
	kp         float64
	ki         float64
	kd         float64
	setpoint   float64
	relief     float64
	power      float64
	mass       float64
	length     float64
	wheels     int

	// output
	outPath     string
	chartDir    string
	chartFormat string
	canIface    string
	canSend     bool
	plotWidth   int
	plotHeight  int
	phaseWidth  int
	phaseHeight int

	// tune and compare
	gridSpecs []string
	metric    string
	workers   int
)

func main() {
	logger, closeLogger = newLogger(false, "")

	err := newRootCmd().Execute()
	if err != nil {
		logger.Error("command failed", zap.Error(err))
	}
	closeLogger()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "balancesim",
		Short:         "charge station balance simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose || logFile != "" {
				closeLogger()
				logger, closeLogger = newLogger(verbose, logFile)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(experiment.NewRegistry())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".balancesim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file (rotated)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run and store a simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot angle and position of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "position against angle",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&phaseWidth, "width", 70, "plot width")
	phaseCmd.Flags().IntVar(&phaseHeight, "height", 20, "plot height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the station angle",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render charts of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCharts,
	}
	exportPNGCmd.Flags().StringVarP(&chartDir, "out", "o", "charts", "output directory")
	exportPNGCmd.Flags().StringVar(&chartFormat, "format", export.FormatPNG, "png or svg")

	exportCANCmd := &cobra.Command{
		Use:   "export-can [run_id]",
		Short: "encode frames as CAN telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCAN,
	}
	exportCANCmd.Flags().StringVar(&canIface, "iface", "vcan0", "CAN interface name")
	exportCANCmd.Flags().BoolVar(&canSend, "send", false, "transmit on the interface instead of printing a candump log")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search controller gains",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridSpecs, "grid", []string{"kp=0.5:4:8", "kd=0:0.5:6"}, "parameter grid, name=lo:hi:n or name=v1,v2,...")
	tuneCmd.Flags().StringVar(&metric, "metric", "angle_rms", "metric to minimise")
	tuneCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")
	tuneCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the best configuration to this YAML file")

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [preset] ...",
		Short: "run presets side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE:  comparePresets,
	}
	compareCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the driver",
		Args:  cobra.NoArgs,
		RunE:  benchDriver,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, analyzeCmd, exportCSVCmd, exportJSONCmd,
		exportPNGCmd, exportCANCmd, tuneCmd, compareCmd, benchCmd, presetsCmd, liveCmd)

	return rootCmd
}

func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&name, "name", def.Name, "run name")
	cmd.Flags().Float64Var(&dt, "dt", def.Dt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", def.Duration, "duration")
	cmd.Flags().IntVar(&resetEvery, "reset-every", def.ResetEvery, "reset the controller every n steps (0 never)")
	cmd.Flags().BoolVar(&saturate, "saturate", def.Saturate, "clamp controller output to [-1, 1]")
	cmd.Flags().StringVar(&controller, "controller", def.Controller.Type, "pid, constant or manual")
	cmd.Flags().Float64Var(&kp, "kp", def.Controller.Kp, "pid kp")
	cmd.Flags().Float64Var(&ki, "ki", def.Controller.Ki, "pid ki")
	cmd.Flags().Float64Var(&kd, "kd", def.Controller.Kd, "pid kd")
	cmd.Flags().Float64Var(&setpoint, "setpoint", def.Controller.Setpoint, "pid setpoint (rad)")
	cmd.Flags().Float64Var(&relief, "relief", def.Controller.Relief, "pid relief band (rad)")
	cmd.Flags().Float64Var(&power, "power", def.Controller.Power, "constant or initial manual power")
	cmd.Flags().Float64Var(&mass, "mass", def.Robot.Mass, "robot mass (kg)")
	cmd.Flags().Float64Var(&length, "length", def.Robot.Length, "robot length (m)")
	cmd.Flags().IntVar(&wheels, "wheels", def.Robot.Wheels, "number of wheels")
}

// buildConfig starts from a preset, a config file or the defaults, then
// applies the flags the user set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = name
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("reset-every") {
		cfg.ResetEvery = resetEvery
	}
	if flags.Changed("saturate") {
		cfg.Saturate = saturate
	}
	if flags.Changed("controller") {
		cfg.Controller.Type = controller
	}
	if flags.Changed("kp") {
		cfg.Controller.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.Controller.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.Controller.Kd = kd
	}
	if flags.Changed("setpoint") {
		cfg.Controller.Setpoint = setpoint
	}
	if flags.Changed("relief") {
		cfg.Controller.Relief = relief
	}
	if flags.Changed("power") {
		cfg.Controller.Power = power
	}
	if flags.Changed("mass") {
		cfg.Robot.Mass = mass
	}
	if flags.Changed("length") {
		cfg.Robot.Length = length
	}
	if flags.Changed("wheels") {
		cfg.Robot.Wheels = wheels
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func sortedMetrics(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	logger.Info("running simulation", zap.String("name", cfg.Name), zap.String("controller", cfg.Controller.Type))
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		var simErr *dynamo.SimulationError
		if errors.As(err, &simErr) {
			logger.Warn("run stopped", zap.Int("step", simErr.Step), zap.Float64("t", simErr.Time))
		}
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	final := result.Final()
	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(out, "final: x=%.4f m, angle=%.4f rad\n", final.Position, final.Angle)
	fmt.Fprintln(out, "\nmetrics:")
	for _, k := range sortedMetrics(result.Metrics) {
		fmt.Fprintf(out, "  %s: %.6f\n", k, result.Metrics[k])
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tCTRL\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Controller,
			run.Steps,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "controller: %s\n", meta.Controller)
	fmt.Fprintf(out, "samples: %d\n\n", len(frames))

	angles := make([]float64, len(frames))
	positions := make([]float64, len(frames))
	for i, f := range frames {
		angles[i] = f.Angle
		positions[i] = f.Position
	}

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"station angle (rad)", angles},
		{"robot position (m)", positions},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(series.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "phase plot: %s\n", meta.ID)
	fmt.Fprintln(out, "x-axis: position, y-axis: angle")
	fmt.Fprintln(out)
	fmt.Fprint(out, analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(frames), phaseWidth, phaseHeight))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frequency analysis: %s\n\n", meta.ID)

	times := make([]float64, len(frames))
	angles := make([]float64, len(frames))
	for i, f := range frames {
		times[i] = f.Time
		angles[i] = f.Angle
	}

	ps := analysis.PowerSpectrum(analysis.Pad(angles))
	plotData := ps[:max(2, len(ps)/4)]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (angle)"),
	)
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)

	freq, _ := analysis.DominantFrequency(angles, meta.Dt)
	fmt.Fprintf(out, "dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Fprintf(out, "period: %.3f s\n", 1.0/freq)
	}

	level := 0.0
	if meta.Config != nil {
		level = meta.Config.Controller.Setpoint
	}
	crossings := analysis.Crossings(times, angles, level)
	fmt.Fprintf(out, "upward crossings of %.3f rad: %d\n", level, len(crossings))

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return storage.WriteFramesCSV(cmd.OutOrStdout(), frames)
	}
	if err := storage.ExportCSV(outPath, frames); err != nil {
		return err
	}
	logger.Info("exported csv", zap.String("path", outPath), zap.Int("frames", len(frames)))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return storage.ExportJSON(cmd.OutOrStdout(), meta, frames)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrExportIO, err)
	}
	defer file.Close()

	if err := storage.ExportJSON(file, meta, frames); err != nil {
		return err
	}
	logger.Info("exported json", zap.String("path", outPath))
	return nil
}

func exportCharts(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	paths, err := export.SaveCharts(chartDir, frames, chartFormat)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

func exportCAN(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if !canSend {
		return telemetry.WriteLog(cmd.OutOrStdout(), canIface, frames)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	w, err := telemetry.NewSocketCANWriter(ctx, canIface)
	if err != nil {
		return err
	}
	defer w.Close()

	n, err := telemetry.Send(ctx, w, frames)
	logger.Info("sent can frames", zap.String("iface", canIface), zap.Int("frames", n))
	return err
}

// parseGrid reads name=lo:hi:n or name=v1,v2,...
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))

	for _, spec := range specs {
		param, values, ok := strings.Cut(spec, "=")
		if !ok || param == "" || values == "" {
			return nil, nil, fmt.Errorf("bad grid %q: want name=lo:hi:n or name=v1,v2", spec)
		}

		var vals []float64
		if parts := strings.Split(values, ":"); len(parts) == 3 {
			lo, err1 := strconv.ParseFloat(parts[0], 64)
			hi, err2 := strconv.ParseFloat(parts[1], 64)
			n, err3 := strconv.Atoi(parts[2])
			if err := errors.Join(err1, err2, err3); err != nil {
				return nil, nil, fmt.Errorf("bad grid %q: %w", spec, err)
			}
			if n < 1 {
				return nil, nil, fmt.Errorf("bad grid %q: need at least one point", spec)
			}
			vals = optim.Linspace(lo, hi, n)
		} else {
			for _, s := range strings.Split(values, ",") {
				v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				if err != nil {
					return nil, nil, fmt.Errorf("bad grid %q: %w", spec, err)
				}
				vals = append(vals, v)
			}
		}

		names = append(names, param)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}

	gs, err := optim.NewGridSearch(names, ranges, workers, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	start := time.Now()
	best, err := gs.Search(ctx, cfg, metric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "evaluated %d configurations in %v (%d skipped)\n", best.Evaluated, time.Since(start), best.Skipped)
	fmt.Fprintf(out, "best %s: %.6f\n", metric, best.Value)
	for _, n := range names {
		fmt.Fprintf(out, "  %s = %g\n", n, best.Params[n])
	}

	if outPath != "" {
		tuned := cfg.Clone()
		for n, v := range best.Params {
			if err := tuned.SetParam(n, v); err != nil {
				return err
			}
		}
		if err := config.Save(outPath, tuned); err != nil {
			return err
		}
		logger.Info("saved tuned config", zap.String("path", outPath))
	}
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	jobs := make([]dynamo.Job, 0, len(args))
	for _, p := range args {
		cfg := config.GetPreset(p)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", p, config.ListPresets())
		}
		exp, err := experiment.New(cfg, registry, logger)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		jobs = append(jobs, exp.Job())
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	// each job carries its preset's dt and duration
	results, err := dynamo.NewEnsemble(workers, dynamo.WithLogger(logger)).
		Run(ctx, jobs, config.GetPreset(args[0]).SimConfig())
	if err != nil {
		return err
	}

	metricNames := sortedMetrics(results[0].Metrics)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "PRESET\tFINAL X\tFINAL ANGLE")
	for _, m := range metricNames {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(m))
	}
	fmt.Fprintln(w)

	for i, res := range results {
		final := res.Final()
		fmt.Fprintf(w, "%s\t%.4f\t%.4f", args[i], final.Position, final.Angle)
		for _, m := range metricNames {
			fmt.Fprintf(w, "\t%.4f", res.Metrics[m])
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}

func benchDriver(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	durations := []float64{1.0, 10.0, 60.0}
	dts := []float64{0.001, 0.01}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "benchmarking pid balance")
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := config.DefaultConfig()
			cfg.Duration = dur
			cfg.Dt = step

			exp, err := experiment.New(cfg, registry, nil)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCONTROLLER\tDT\tDURATION\tRESET EVERY")
	for _, p := range config.ListPresets() {
		cfg := config.GetPreset(p)
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.1fs\t%d\n", p, cfg.Controller.Type, cfg.Dt, cfg.Duration, cfg.ResetEvery)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg, experiment.NewRegistry())
}
