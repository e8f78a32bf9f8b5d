package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/burnsim/internal/ballistics"
	"github.com/san-kum/burnsim/internal/blob"
	"github.com/san-kum/burnsim/internal/config"
	"github.com/san-kum/burnsim/internal/experiment"
	"github.com/san-kum/burnsim/internal/export"
	"github.com/san-kum/burnsim/internal/optim"
	"github.com/san-kum/burnsim/internal/storage"
	"github.com/san-kum/burnsim/internal/tui"
	"github.com/san-kum/burnsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	theme    string
	// Catalog driver override
	storeDriver string
	// Config file and preset ("family/name")
	configFile string
	preset     string
	// Run overrides
	dt          float64
	maxSteps    int
	density     float64
	correlation string
	throat      float64
	parallel    bool
	live        bool
	frameRate   int
	// Plot options
	series     []string
	plotWidth  int
	plotHeight int
	svgSeries  string
	svgWidth   int
	svgHeight  int
	outFile    string
	// Sweep
	sweepParams  []string
	objective    string
	maximize     bool
	maxPressure  float64
	allowNonPhys bool
	// Archive
	archiveDriver string
	archivePath   string
	bucket        string
	prefix        string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "burnsim"})

// main registers the commands and executes the root command, exiting with
// status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "burnsim",
		Short:         "solid rocket motor internal ballistics simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			viz.SetTheme(theme)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".burnsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemeExhaust.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "motor config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset as family/name, see the presets command")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "run catalog driver: fs or sqlite")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a motor to burnout and store the trace",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step (s)")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", ballistics.DefaultMaxSteps, "abort after this many steps")
	runCmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "propellant density (lbm/in³)")
	runCmd.Flags().StringVar(&correlation, "correlation", config.DefaultCorrelation, "burn rate correlation")
	runCmd.Flags().Float64Var(&throat, "throat", 0, "nozzle throat diameter (in)")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "evaluate grains concurrently")
	runCmd.Flags().BoolVar(&live, "live", false, "show the burn in a live view")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "live view frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the summary of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVarP(&series, "series", "s", viz.DefaultSeries, fmt.Sprintf("series to plot %v", viz.SeriesNames()))
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw one series of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgSeries, "series", "s", "thrust", "series to draw")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list motor presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			families := config.ListFamilies()
			if len(args) == 1 {
				families = args[:1]
			}
			for _, family := range families {
				presets := config.ListPresets(family)
				if len(presets) == 0 {
					fmt.Printf("no presets for family: %s\n", family)
					continue
				}
				fmt.Printf("%s:\n", family)
				for _, p := range presets {
					fmt.Printf("  %s/%s\n", family, p)
				}
			}
			return nil
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a motor config to start from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	pushCmd := &cobra.Command{
		Use:   "push [run_id]",
		Short: "copy a stored run to the archive (directory or S3)",
		Args:  cobra.ExactArgs(1),
		RunE:  pushRun,
	}
	pushCmd.Flags().StringVar(&archiveDriver, "archive", "", "archive driver: fs or s3")
	pushCmd.Flags().StringVar(&archivePath, "archive-path", "", "archive directory for the fs driver")
	pushCmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket")
	pushCmd.Flags().StringVar(&prefix, "prefix", "", "key prefix inside the archive")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search design parameters for the best motor",
		Args:  cobra.NoArgs,
		RunE:  sweepDesign,
	}
	sweepCmd.Flags().StringArrayVarP(&sweepParams, "param", "p", nil, fmt.Sprintf("name=lo:hi:n, repeatable; names %v", optim.Parameters()))
	sweepCmd.Flags().StringVar(&objective, "objective", "total_impulse", "summary field or metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", true, "maximize the objective instead of minimizing it")
	sweepCmd.Flags().Float64Var(&maxPressure, "max-pressure", 0, "reject designs above this peak pressure (psi)")
	sweepCmd.Flags().BoolVar(&allowNonPhys, "allow-nonphysical", false, "accept designs with steps outside the correlation's Kn range")

	correlationsCmd := &cobra.Command{
		Use:   "correlations",
		Short: "list burn rate correlations and metrics",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			registry := experiment.NewRegistry()
			fmt.Println("correlations:")
			for _, name := range registry.ListCorrelations() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("metrics:")
			for _, name := range registry.ListMetrics() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		presetsCmd, initConfigCmd, pushCmd, sweepCmd, correlationsCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// loadConfig resolves the motor config from the defaults, a preset or a
// config file. A preset and a file are mutually exclusive.
func loadConfig() (*config.Config, error) {
	if preset != "" && configFile != "" {
		return nil, fmt.Errorf("--preset and --config are mutually exclusive; run init-config with the preset to get a file to edit")
	}
	cfg := config.DefaultConfig()

	if preset != "" {
		family, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be family/name, got %q", preset)
		}
		p := config.GetPreset(family, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(family))
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	if storeDriver != "" {
		cfg.Storage.Driver = storeDriver
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	path := cfg.Storage.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(dataDir, path)
	}
	if cfg.Storage.Driver == "sqlite" && filepath.Ext(path) == "" {
		path += ".db"
	}

	st, err := storage.Open(cfg.Storage.Driver, path)
	if err != nil {
		return nil, err
	}
	if err := st.Init(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// withStore opens the configured catalog for the duration of fn.
func withStore(fn func(st storage.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// CLI flags override preset and config file
	if cmd.Flags().Changed("dt") {
		cfg.Run.Dt = dt
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.Run.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Run.Parallel = parallel
	}
	if cmd.Flags().Changed("density") {
		cfg.Propellant.Density = density
	}
	if cmd.Flags().Changed("correlation") {
		cfg.Propellant.Correlation = correlation
	}
	if cmd.Flags().Changed("throat") {
		cfg.Nozzle.Throat = throat
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg, experiment.NewRegistry())
	if !live {
		exp.SetLogger(logger.WithPrefix("sim"))
	}

	logger.Info("running simulation", "motor", cfg.Name, "grains", len(cfg.Grains), "dt", cfg.Run.Dt)
	start := time.Now()

	var result *ballistics.Result
	if live {
		result, err = tui.Run(ctx, exp, frameRate)
	} else {
		result, err = exp.Run(ctx)
	}
	if err != nil {
		if result == nil || len(result.Snapshots) == 0 {
			return err
		}
		// a partial trace is still worth keeping
		logger.Warn("run stopped early", "err", err, "steps", result.StepsTaken)
	}

	for _, w := range result.Warnings {
		logger.Debug("warning", "err", w)
	}
	if n := len(result.Warnings); n > 0 {
		logger.Warn("non-physical steps", "count", n)
	}

	runID, saveErr := st.Save(storage.RunMetadata{Name: cfg.Name, Correlation: cfg.Propellant.Correlation}, result)
	if saveErr != nil {
		return saveErr
	}

	logger.Info("completed", "elapsed", time.Since(start).Round(time.Millisecond), "steps", result.StepsTaken, "run", runID)
	fmt.Println(viz.SummaryTable(cfg.Name+" · "+runID, ballistics.Summarize(result)))

	if len(result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for _, name := range sortedMetricNames(result.Metrics) {
			fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
		}
	}
	return err
}

func sortedMetricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func listRuns(cmd *cobra.Command, args []string) error {
	return withStore(func(st storage.Store) error {
		runs, err := st.List()
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("no runs found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTIME\tGRAINS\tDT\tBURN\tCLASS\tWARN")

		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%.3fs\t%s\t%d\n",
				run.ID,
				run.Name,
				run.Timestamp.Local().Format("2006-01-02 15:04:05"),
				run.Grains,
				run.Dt,
				run.Summary.BurnTime,
				run.Summary.Designation,
				run.Warnings,
			)
		}

		return w.Flush()
	})
}

func showRun(cmd *cobra.Command, args []string) error {
	return withStore(func(st storage.Store) error {
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		trace, err := st.LoadTrace(meta.ID)
		if err != nil {
			return err
		}

		fmt.Println(viz.SummaryTable(meta.Name+" · "+meta.ID, meta.Summary))
		fmt.Printf("\nthrust  %s\n", sparkOf("thrust", trace))
		fmt.Printf("kn      %s\n", sparkOf("kn", trace))
		for i, t := range meta.BurnoutTimes {
			if t < 0 {
				fmt.Printf("grain %d: still burning\n", i)
				continue
			}
			fmt.Printf("grain %d: burnout at %.3f s\n", i, t)
		}
		return nil
	})
}

func sparkOf(name string, trace []ballistics.Snapshot) string {
	data, err := viz.Series(name, trace)
	if err != nil {
		return err.Error()
	}
	return viz.Sparkline(data, 60)
}

func plotRun(cmd *cobra.Command, args []string) error {
	return withStore(func(st storage.Store) error {
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		trace, err := st.LoadTrace(meta.ID)
		if err != nil {
			return err
		}

		fmt.Printf("run: %s\n", meta.ID)
		fmt.Printf("motor: %s\n", meta.Name)
		fmt.Printf("samples: %d\n\n", len(trace))

		for _, name := range series {
			graph, err := viz.Plot(name, trace, plotWidth, plotHeight)
			if err != nil {
				return err
			}
			fmt.Println(graph)
			fmt.Println()
		}
		return nil
	})
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return withStore(func(st storage.Store) error {
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		trace, err := st.LoadTrace(meta.ID)
		if err != nil {
			return err
		}
		if len(trace) == 0 {
			return fmt.Errorf("no data to export")
		}
		return storage.WriteCSV(os.Stdout, trace, meta.Grains)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return withStore(func(st storage.Store) error {
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		trace, err := st.LoadTrace(meta.ID)
		if err != nil {
			return err
		}
		return storage.ExportJSON(os.Stdout, *meta, trace)
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	return withStore(func(st storage.Store) error {
		trace, err := st.LoadTrace(args[0])
		if err != nil {
			return err
		}

		w := os.Stdout
		if outFile != "" {
			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return export.TraceSVG(w, trace, svgSeries, svgWidth, svgHeight)
	})
}

func pushRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	archive := cfg.Archive
	if cmd.Flags().Changed("archive") {
		archive.Driver = archiveDriver
	}
	if cmd.Flags().Changed("archive-path") {
		archive.Path = archivePath
	}
	if cmd.Flags().Changed("bucket") {
		archive.Bucket = bucket
	}
	if cmd.Flags().Changed("prefix") {
		archive.Prefix = prefix
	}
	if archive.Driver != "s3" && !filepath.IsAbs(archive.Path) {
		archive.Path = filepath.Join(dataDir, archive.Path)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	dst, err := blob.Open(ctx, archive)
	if err != nil {
		return err
	}

	infos, err := blob.Push(ctx, st, dst, archive.Prefix, args[0])
	for _, info := range infos {
		logger.Info("pushed", "driver", dst.Driver(), "key", info.Key, "size", info.Size)
	}
	return err
}

// parseRange reads name=lo:hi:n.
func parseRange(spec string) (string, []float64, error) {
	name, rng, ok := strings.Cut(spec, "=")
	if !ok {
		return "", nil, fmt.Errorf("parameter must be name=lo:hi:n, got %q", spec)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("range must be lo:hi:n, got %q", rng)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, err
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, err
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("range count must be a positive integer, got %q", parts[2])
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func sweepDesign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, spec := range sweepParams {
		name, values, err := parseRange(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.SetLogger(logger.WithPrefix("sweep"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	obj := optim.Objective{Name: objective, Maximize: maximize, MaxPressure: maxPressure, AllowNonPhysical: allowNonPhys}
	best, trials, err := g.Search(ctx, cfg, obj)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tPEAK P\tCLASS\tOK\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(objective))
	for _, t := range trials {
		cols := make([]string, len(names))
		for i, name := range names {
			cols[i] = strconv.FormatFloat(t.Params[name], 'g', 6, 64)
		}
		status := "yes"
		if t.Err != nil {
			status = t.Err.Error()
		} else if !t.Feasible {
			status = "no"
		}
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%s\t%s\n", strings.Join(cols, "\t"), t.Value, t.Summary.PeakPressure, t.Summary.Designation, status)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.SummaryTable(fmt.Sprintf("best %v", best.Params), best.Summary))
	return nil
}
