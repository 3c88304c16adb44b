package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/telesim/internal/analysis"
	"github.com/san-kum/telesim/internal/array"
	"github.com/san-kum/telesim/internal/config"
	"github.com/san-kum/telesim/internal/experiment"
	"github.com/san-kum/telesim/internal/export"
	"github.com/san-kum/telesim/internal/logging"
	"github.com/san-kum/telesim/internal/metrics"
	"github.com/san-kum/telesim/internal/pointing"
	"github.com/san-kum/telesim/internal/storage"
	"github.com/san-kum/telesim/internal/viz"
)

var (
	dataDir  string
	logLevel string

	configFile  string
	preset      string
	instrument  string
	scanPattern string
	site        string
	generator   string
	genParams   []string
	overrides   []string
	seed        int64
	strict      bool
	failLimits  bool
	jsonOut     string

	signal   string
	detIndex int
	svgOut   string
)

// main registers the telesim commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "telesim",
		Short:         "telescope array and scan simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".telesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate an observation and store the TOD",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "run config file (yaml or toml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "preset as <scan_pattern>/<name>")
	runCmd.Flags().StringVar(&instrument, "instrument", config.DefaultInstrument, "instrument name")
	runCmd.Flags().StringVar(&scanPattern, "scan", config.DefaultScanPattern, "scan pattern")
	runCmd.Flags().StringVar(&site, "site", config.DefaultSite, "site name")
	runCmd.Flags().StringVar(&generator, "generator", config.DefaultGenerator, "data generator")
	runCmd.Flags().StringArrayVar(&genParams, "param", nil, "generator parameter key=value (repeatable)")
	runCmd.Flags().StringArrayVar(&overrides, "set", nil, "simulation override key=value (repeatable)")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().BoolVar(&strict, "strict", false, "reject overrides no collaborator accepts")
	runCmd.Flags().BoolVar(&failLimits, "fail-on-limits", false, "abort when the scan exceeds mount limits")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also write the full TOD as JSON to this path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one detector of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&signal, "signal", "", "signal name (default: first stored)")
	plotCmd.Flags().IntVar(&detIndex, "det", 0, "detector row")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum of one detector",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&signal, "signal", "", "signal name (default: first stored)")
	analyzeCmd.Flags().IntVar(&detIndex, "det", 0, "detector row")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	arraysCmd := &cobra.Command{
		Use:   "arrays",
		Short: "list the known arrays",
		RunE:  listArrays,
	}

	detsCmd := &cobra.Command{
		Use:   "dets [array]",
		Short: "show the detector layout of an array",
		Args:  cobra.ExactArgs(1),
		RunE:  showDets,
	}
	detsCmd.Flags().StringArrayVar(&overrides, "set", nil, "array override key=value (repeatable)")
	detsCmd.Flags().StringVar(&svgOut, "svg", "", "write the focal plane as SVG to this path")

	scanCmd := &cobra.Command{
		Use:   "scan [pattern]",
		Short: "show a scan pattern and its kinematics",
		Args:  cobra.ExactArgs(1),
		RunE:  showScan,
	}
	scanCmd.Flags().StringArrayVar(&overrides, "set", nil, "pointing override key=value (repeatable)")
	scanCmd.Flags().StringVar(&svgOut, "svg", "", "write the boresight track as SVG to this path")

	presetsCmd := &cobra.Command{
		Use:   "presets [scan_pattern]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := config.PresetGroups()
			if len(args) == 1 {
				groups = args
			}
			for _, g := range groups {
				presets := config.ListPresets(g)
				if len(presets) == 0 {
					fmt.Printf("no presets for scan pattern: %s\n", g)
					continue
				}
				fmt.Printf("presets for %s:\n", g)
				for _, p := range presets {
					fmt.Printf("  %s/%s\n", g, p)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, arraysCmd, detsCmd, scanCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()

	if preset != "" {
		pattern, name, _ := strings.Cut(preset, "/")
		cfg = config.GetPreset(pattern, name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(pattern))
		}
	}

	// a config file replaces the preset; explicit flags win over both
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("instrument") || cfg.Instrument == "" {
		cfg.Instrument = instrument
	}
	if flags.Changed("scan") || cfg.ScanPattern == "" {
		cfg.ScanPattern = scanPattern
	}
	if flags.Changed("site") || cfg.Site == "" {
		cfg.Site = site
	}
	if flags.Changed("generator") || cfg.Generator == "" {
		cfg.Generator = generator
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("strict") {
		cfg.Strict = strict
	}
	if flags.Changed("fail-on-limits") {
		cfg.FailOnKinematicLimit = failLimits
	}

	kv, err := parseKeyValues(overrides)
	if err != nil {
		return err
	}
	if cfg.Overrides == nil {
		cfg.Overrides = make(map[string]interface{})
	}
	for k, v := range kv {
		cfg.Overrides[k] = v
	}

	gp, err := parseKeyValues(genParams)
	if err != nil {
		return err
	}
	if cfg.GeneratorParams == nil {
		cfg.GeneratorParams = make(map[string]float64)
	}
	for k, v := range gp {
		f, ok := toFloat(v)
		if !ok {
			return fmt.Errorf("generator parameter %s must be a number, got %v", k, v)
		}
		cfg.GeneratorParams[k] = f
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger := logging.New(logLevel)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(ctx); err != nil {
		return err
	}

	start := time.Now()
	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	meta := exp.Metadata(res)
	runID, err := st.Save(meta, res.TOD)
	if err != nil {
		return err
	}
	logger.Info("run saved", logging.String("run_id", runID), logging.Duration("elapsed", elapsed))
	if jsonOut != "" {
		if err := storage.ExportJSON(jsonOut, meta, res.TOD); err != nil {
			return err
		}
	}

	s := exp.GetSimulation()
	fmt.Println(viz.HeaderStyle.Render("run " + runID))
	fmt.Printf("instrument: %s (%d dets)\n", s.Instrument().Name, res.TOD.NDets())
	fmt.Printf("scan: %s, %d samples\n", s.Pointing().ScanPattern, res.TOD.NSamples())
	fmt.Printf("site: %s\n", s.Site().Name)
	fmt.Printf("abscal: %.6g\n", res.TOD.Abscal)
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("elapsed: %v", elapsed)))
	fmt.Println()
	fmt.Println(viz.Metrics(metrics.Keys(res.Metrics), res.Metrics))
	if len(res.Warnings) > 0 {
		fmt.Println()
		fmt.Println(viz.Warnings(res.Warnings))
	}
	return nil
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
	fmt.Fprintln(w, "ID\tINSTRUMENT\tSCAN\tSITE\tGENERATOR\tTIME\tDETS\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Instrument,
			run.ScanPattern,
			run.Site,
			run.Generator,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NDets,
			run.NSamples,
		)
	}

	return w.Flush()
}

// loadDetector reads one detector row of a stored signal.
func loadDetector(runID string) (*storage.RunMetadata, string, []float64, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, "", nil, nil, err
	}

	name := signal
	if name == "" {
		if len(meta.Signals) == 0 {
			return nil, "", nil, nil, fmt.Errorf("run %s has no signals", runID)
		}
		name = meta.Signals[0]
	}

	rows, times, err := st.LoadSignal(runID, name)
	if err != nil {
		return nil, "", nil, nil, err
	}
	if detIndex < 0 || detIndex >= len(rows) {
		return nil, "", nil, nil, fmt.Errorf("detector %d out of range [0, %d)", detIndex, len(rows))
	}
	return meta, name, rows[detIndex], times, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, name, data, _, err := loadDetector(args[0])
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("instrument: %s\n", meta.Instrument)
	fmt.Printf("samples: %d\n\n", len(data))

	band := ""
	if detIndex < len(meta.Dets) {
		band = " (" + meta.Dets[detIndex].Band + ")"
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s, detector %d%s", name, detIndex, band)),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, name, data, times, err := loadDetector(args[0])
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("no data")
	}
	rate := float64(len(times)-1) / (times[len(times)-1] - times[0])

	freqs, power, err := analysis.PowerSpectrum(data, rate)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("signal: %s, detector %d, %.3g Hz sampling\n\n", name, detIndex, rate)

	plotData := analysis.PlotBins(power)
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", name)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(freqs, power)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func listArrays(cmd *cobra.Command, args []string) error {
	reg, err := array.LoadRegistry()
	if err != nil {
		return err
	}
	fmt.Println(viz.Title.Render("arrays"))
	fmt.Print(reg.Summary())
	return nil
}

func showDets(cmd *cobra.Command, args []string) error {
	kv, err := parseKeyValues(overrides)
	if err != nil {
		return err
	}
	reg, err := array.LoadRegistry()
	if err != nil {
		return err
	}
	a, err := reg.Get(args[0], kv)
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(args[0]))
	fmt.Println(viz.Subtle.Render(a.String()))
	fmt.Println()

	dets := a.Dets()
	fwhm := a.AngularFWHM(math.Inf(1))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BAND\tN\tCENTER [GHz]\tWIDTH [GHz]\tFWHM [arcsec]")
	for _, band := range dets.Bands() {
		mask := a.BandMask(band)
		n, first := 0, -1
		for i, in := range mask {
			if in {
				n++
				if first < 0 {
					first = i
				}
			}
		}
		d := dets[first]
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%.2f\n", band, n, d.BandCenter, d.BandWidth, fwhm[first]*180/math.Pi*3600)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(viz.Panel.Render(strings.TrimRight(viz.FocalPlane(dets, 40, 20).String(), "\n")))

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.FocalPlaneSVG(dets, 600)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func showScan(cmd *cobra.Command, args []string) error {
	kv, err := parseKeyValues(overrides)
	if err != nil {
		return err
	}
	p, err := pointing.Get(args[0], kv)
	if err != nil {
		return err
	}

	deg := func(xs []float64) []float64 {
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = x * 180 / math.Pi
		}
		return out
	}
	phi, theta := deg(p.Phi), deg(p.Theta)

	fmt.Println(viz.HeaderStyle.Render(p.ScanPattern))
	fmt.Printf("frame: %s, %d samples\n", p.Frame, p.NSamples())
	fmt.Printf("max_vel: %.4g deg/s\n", p.MaxVel*180/math.Pi)
	fmt.Printf("max_acc: %.4g deg/s^2\n\n", p.MaxAcc*180/math.Pi)

	for _, series := range []struct {
		caption string
		data    []float64
	}{{"phi [deg]", phi}, {"theta [deg]", theta}} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	fmt.Println(viz.Panel.Render(strings.TrimRight(viz.Track(phi, theta, 40, 20).String(), "\n")))
	fmt.Println()

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.TrackSVG(phi, theta, 600, 600, "#00ff88")), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

// parseKeyValues decodes key=value pairs, reading each value as YAML so
// numbers, lists and booleans keep their type and mappings keep their order.
func parseKeyValues(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		k, raw, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		v, err := config.ParseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("value for %s: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
