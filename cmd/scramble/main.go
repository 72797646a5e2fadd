package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/scramble/internal/config"
	"github.com/san-kum/scramble/internal/logging"
	"github.com/san-kum/scramble/internal/metrics"
	"github.com/san-kum/scramble/internal/scramble"
	"github.com/san-kum/scramble/internal/sequencer"
	"github.com/san-kum/scramble/internal/storage"
	"github.com/san-kum/scramble/internal/trigger"
	"github.com/san-kum/scramble/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configFile string
	preset     string
	logFile    string
	debug      bool
	// Overrides
	fps           int
	theme         string
	seed          uint64
	reducedMotion bool
	// play
	title  string
	watch  bool
	record bool
	// trace
	save       bool
	plot       bool
	everyNth   int
	traceQuiet bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "scramble",
		Short:         "scrambled text reveal sequencer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          playSequence,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".scramble", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logFile, "log", "", "log file path (\"stderr\" for stderr)")
	pf.BoolVar(&debug, "debug", false, "debug logging")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	pf.Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.BoolVar(&reducedMotion, "reduced-motion", false, "show final text without animation")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play the sequence in the terminal",
		RunE:  playSequence,
	}
	for _, c := range []*cobra.Command{rootCmd, playCmd} {
		c.Flags().StringVar(&title, "title", "Orange Servers", "panel title")
		c.Flags().BoolVar(&watch, "watch", false, "reload and replay when the config file changes")
		c.Flags().BoolVar(&record, "record", false, "save the played frames as a run")
	}

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "run the sequence headless on a virtual clock",
		RunE:  traceSequence,
	}
	traceCmd.Flags().BoolVar(&save, "save", false, "save the trace as a run")
	traceCmd.Flags().BoolVar(&plot, "plot", false, "plot revealed characters over time")
	traceCmd.Flags().IntVar(&everyNth, "every", 6, "print every nth frame")
	traceCmd.Flags().BoolVarP(&traceQuiet, "quiet", "q", false, "only print the summary")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE:  validateConfig,
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write the default config to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}

	rootCmd.AddCommand(playCmd, traceCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, validateCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves preset, then file, then defaults. Flags given on the
// command line win over all of them.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	case configFile != "":
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("reduced-motion") {
		cfg.ReducedMotion = reducedMotion
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	return logging.New(logging.Options{Path: logFile, Debug: debug})
}

func seededEngine(s uint64) *scramble.Engine {
	return scramble.NewEngine(rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)))
}

func playSequence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	steps := cfg.Steps()
	opts := viz.Options{
		Title:         title,
		FPS:           cfg.FPS,
		Theme:         cfg.Theme,
		Seed:          cfg.Seed,
		ReducedMotion: cfg.ReducedMotionQuery(),
		Logger:        logger,
	}

	var rec *storage.Recorder
	if record {
		rec = storage.NewRecorder(steps)
		opts.Observers = append(opts.Observers, rec)
	}

	player, err := viz.NewPlayer(steps, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(player, tea.WithAltScreen(), tea.WithReportFocus())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if watch {
		if configFile == "" || preset != "" {
			return errors.New("--watch needs --config and no --preset")
		}
		w, err := trigger.NewWatcher(configFile, logger)
		if err != nil {
			return err
		}
		go func() {
			err := w.Run(ctx, func(path string) {
				p.Send(reloadFromFile(path))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	logger.Info("player starting",
		zap.Int("steps", len(steps)),
		zap.Int("fps", cfg.FPS),
		zap.Uint64("seed", cfg.Seed))

	if _, err := p.Run(); err != nil {
		return err
	}

	if rec != nil && len(rec.Samples()) > 0 {
		meta := storage.NewMetadata("play", steps, cfg.Seed, cfg.FPS)
		meta.ReducedMotion = cfg.ReducedMotionQuery()()
		meta.TotalChars = rec.Total()
		runID, err := saveRun(meta, rec.Samples())
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", runID)
	}
	return nil
}

// reloadFromFile re-reads a watched config into a message for the player.
// Frame rate and theme stay as they were at startup.
func reloadFromFile(path string) viz.ReloadMsg {
	cfg, err := config.Load(path)
	if err != nil {
		return viz.ReloadMsg{Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return viz.ReloadMsg{Err: err}
	}
	return viz.ReloadMsg{Steps: cfg.Steps()}
}

func saveRun(meta storage.RunMetadata, samples []storage.Sample) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(meta, samples)
}

func traceSequence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	steps := cfg.Steps()
	rec := storage.NewRecorder(steps)
	targets := make([]string, len(steps))
	for i, s := range steps {
		targets[i] = s.Text
	}
	set := metrics.Standard(targets)
	interval := cfg.FrameInterval()

	fmt.Printf("steps: %d\n", len(steps))
	fmt.Printf("fps: %d\n", cfg.FPS)
	fmt.Printf("seed: %d\n\n", cfg.Seed)

	every := max(1, everyNth)
	frame := 0
	printer := sequencer.ObserverFunc(func(now time.Time, st sequencer.State) {
		frame++
		if traceQuiet || (frame%every != 0 && !st.CursorVisible) {
			return
		}
		cursor := " "
		if st.CursorVisible {
			cursor = "▌"
		}
		fmt.Printf("%7.3fs  line %d%s\n", now.Sub(sequencer.Epoch).Seconds(), st.ActiveLine, cursor)
		for i, l := range st.Lines {
			marker := "  "
			if i == st.ActiveLine {
				marker = "> "
			}
			fmt.Printf("  %s%s\n", marker, l)
		}
	})

	res, err := sequencer.Simulate(cmd.Context(), steps, interval,
		sequencer.WithEngine(seededEngine(cfg.Seed)),
		sequencer.WithReducedMotion(cfg.ReducedMotionQuery()),
		sequencer.WithLogger(logger),
		sequencer.WithObserver(rec),
		sequencer.WithObserver(set),
		sequencer.WithObserver(printer),
	)
	if err != nil {
		return err
	}

	fmt.Printf("\nphase: %s\n", res.Phase)
	fmt.Printf("frames: %d\n", res.Frames)
	fmt.Printf("elapsed: %.3fs\n", res.Elapsed.Seconds())
	vals := set.Values()
	for _, m := range set {
		fmt.Printf("%s: %.3f\n", m.Name(), vals[m.Name()])
	}
	if res.Phase == sequencer.PhaseStatic {
		for _, l := range res.State.Lines {
			fmt.Printf("  %s\n", l)
		}
	}

	if plot {
		if data := revealedSeries(rec.Samples()); len(data) > 1 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(data, asciigraph.Height(10), asciigraph.Width(80),
				asciigraph.Caption("revealed characters vs frame")))
		}
	}

	if save {
		meta := storage.NewMetadata("trace", steps, cfg.Seed, cfg.FPS)
		meta.ReducedMotion = res.Phase == sequencer.PhaseStatic
		meta.TotalChars = rec.Total()
		meta.Metrics = vals
		runID, err := saveRun(meta, rec.Samples())
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", runID)
	}
	return nil
}

func revealedSeries(samples []storage.Sample) []float64 {
	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = float64(s.Revealed)
	}
	return data
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
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tDURATION\tSTEPS\tFPS\tSEED\tSETTLED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%d\t%t\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			len(run.Steps),
			run.FPS,
			run.Seed,
			run.Settled,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("label: %s\n", meta.Label)
	fmt.Printf("samples: %d\n\n", len(samples))

	caption := fmt.Sprintf("revealed characters (of %d)", meta.TotalChars)
	fmt.Println(asciigraph.Plot(revealedSeries(samples), asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(caption)))
	fmt.Println()

	active := make([]float64, len(samples))
	for i, s := range samples {
		active[i] = float64(s.ActiveLine)
	}
	fmt.Println(asciigraph.Plot(active, asciigraph.Height(len(meta.Steps)+1), asciigraph.Width(80), asciigraph.Caption("active line")))

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEPS\tDURATION\tFIRST LINE")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		steps := cfg.Steps()
		_, total := scramble.Timeline(steps)
		first := ""
		if len(steps) > 0 {
			first = steps[0].Text
		}
		fmt.Fprintf(w, "%s\t%d\t%.1fs\t%s\n", name, len(steps), total.Seconds(), first)
	}
	return w.Flush()
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: invalid config:\n%w", args[0], err)
	}
	_, total := scramble.Timeline(cfg.Steps())
	fmt.Printf("%s: ok (%d steps, %.1fs)\n", args[0], len(cfg.Lines), total.Seconds())
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "scramble.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
