package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ilpincy/argos3-sub001/internal/entity"
	"github.com/ilpincy/argos3-sub001/internal/profiler"
	"github.com/ilpincy/argos3-sub001/internal/random"
	"github.com/ilpincy/argos3-sub001/internal/simulator"
	"github.com/ilpincy/argos3-sub001/internal/storage"
	"github.com/ilpincy/argos3-sub001/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	seed        uint32
	threads     int
	method      string
	save        bool
	metricsAddr string
	svgPath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "argos",
		Short:         "multi-robot simulation kernel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".argos", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [config]",
		Short: "run an experiment",
		Args:  cobra.ExactArgs(1),
		RunE:  runExperiment,
	}
	runCmd.Flags().Uint32Var(&seed, "seed", 0, "explicit random seed (overrides random_seed)")
	runCmd.Flags().IntVar(&threads, "threads", -1, "worker threads (overrides <system>)")
	runCmd.Flags().StringVar(&method, "method", "", "threading method: scatter-gather or h-dispatch (applies to --threads or the configured count)")
	runCmd.Flags().BoolVar(&save, "save", false, "store the run and its RNG checkpoint")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final arena as SVG to this file")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	checkpointCmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "work with RNG checkpoints",
	}
	inspectCmd := &cobra.Command{
		Use:   "inspect [run_id]",
		Short: "decode the RNG checkpoint of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectCheckpoint,
	}
	checkpointCmd.AddCommand(inspectCmd)

	generatorsCmd := &cobra.Command{
		Use:   "generators",
		Short: "list the compiled random generator types",
		Args:  cobra.NoArgs,
		RunE:  listGenerators,
	}

	rootCmd.AddCommand(runCmd, runsCmd, checkpointCmd, generatorsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "argos",
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}), nil
}

func runExperiment(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	opts := []simulator.Option{simulator.WithLogger(logger)}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, simulator.WithSeed(seed))
	}
	if threads >= 0 {
		opts = append(opts, simulator.WithThreading(threads, method))
	} else if method != "" {
		opts = append(opts, simulator.WithThreadingMethod(method))
	}

	if metricsAddr != "" {
		m := profiler.NewMetrics()
		opts = append(opts, simulator.WithMetrics(m))
		stop := serveMetrics(logger, metricsAddr, m)
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	sim := simulator.New(opts...)
	defer sim.Destroy()
	if err := sim.LoadExperiment(args[0]); err != nil {
		return err
	}

	start := time.Now()
	runErr := sim.Execute(ctx)
	logger.Info("Experiment finished", "ticks", sim.Clock(), "wall", time.Since(start).Round(time.Millisecond))
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	if svgPath != "" {
		if err := writeSnapshot(sim, svgPath); err != nil {
			return err
		}
		logger.Info("Wrote arena snapshot", "file", svgPath)
	}
	if save {
		runID, err := saveRun(sim, args[0])
		if err != nil {
			return err
		}
		fmt.Println(runID)
	}
	return nil
}

func serveMetrics(logger *log.Logger, addr string, m *profiler.Metrics) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	logger.Info("Serving metrics", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func writeSnapshot(sim *simulator.Simulator, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := viz.WriteArenaSVG(f, sim.Space(), 80, 40, 4); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveRun(sim *simulator.Simulator, configPath string) (string, error) {
	state, err := sim.SaveRNGState()
	if err != nil {
		return "", err
	}
	var records []storage.EntityRecord
	for _, e := range sim.Space().Entities() {
		if b, ok := entity.AsEmbodied(e); ok {
			x, y := b.Position()
			records = append(records, storage.EntityRecord{ID: e.ID(), Type: e.Type(), X: x, Y: y})
		}
	}
	fw := sim.Framework()
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(storage.Run{
		Metadata: storage.RunMetadata{
			Config:     configPath,
			Seed:       sim.RandomSeed(),
			Ticks:      sim.Clock(),
			Threads:    fw.System.Threads,
			Method:     fw.System.Method,
			Backend:    random.ActiveBackend().Name(),
			Categories: sim.RNGRegistry().Categories(),
		},
		RNGState: state,
		Entities: records,
	})
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
	fmt.Fprintln(w, "ID\tCONFIG\tTIME\tSEED\tTICKS\tTHREADS\tBACKEND")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Config,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Ticks,
			run.Threads,
			run.Backend,
		)
	}
	return w.Flush()
}

func inspectCheckpoint(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.LoadRNGState(args[0])
	if err != nil {
		return err
	}
	reg := random.NewRegistry()
	if err := reg.LoadState(data); err != nil {
		return fmt.Errorf("decoding checkpoint: %w", err)
	}

	fmt.Printf("%d bytes, %d categories\n", len(data), len(reg.Categories()))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSEED\tMEMBERS\tTYPES")
	for _, id := range reg.Categories() {
		cat, err := reg.Category(id)
		if err != nil {
			return err
		}
		types := make(map[string]int)
		for _, rng := range cat.RNGs() {
			types[rng.Type()]++
		}
		parts := make([]string, 0, len(types))
		for typ, n := range types {
			parts = append(parts, fmt.Sprintf("%s x%d", typ, n))
		}
		sort.Strings(parts)
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", id, cat.Seed(), cat.Len(), strings.Join(parts, ", "))
	}
	return w.Flush()
}

func listGenerators(cmd *cobra.Command, args []string) error {
	b := random.ActiveBackend()
	fmt.Printf("backend: %s\n", b.Name())
	for _, typ := range b.Types() {
		mark := ""
		if typ == b.DefaultType() {
			mark = " (default)"
		}
		fmt.Printf("  %s%s\n", typ, mark)
	}
	return nil
}
