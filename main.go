// Command aquarl trains Dyna-Q agents to manage the feeding, heating,
// and aeration of a simulated aquaculture tank, and runs the simulator
// under fixed management policies.
//
// Usage:
//
//	aquarl train [flags]     train a Dyna-Q agent
//	aquarl simulate [flags]  run a fixed policy and print daily diagnostics
//	aquarl runs [flags]      list stored training runs
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"

	"github.com/samuelfneumann/aquarl/agent/dynaq"
	"github.com/samuelfneumann/aquarl/config"
	"github.com/samuelfneumann/aquarl/environment/aquaculture"
	"github.com/samuelfneumann/aquarl/environment/wrappers"
	"github.com/samuelfneumann/aquarl/experiment/runstore"
	"github.com/samuelfneumann/aquarl/experiment/trackers"
	"github.com/samuelfneumann/aquarl/utils/progressbar"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	klog.Flush()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "train":
		return runTrain(ctx, args[1:])
	case "simulate":
		return runSimulate(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: aquarl <train|simulate|runs> [flags]", msg)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	klog.InitFlags(fs)
	return fs
}

func runTrain(ctx context.Context, args []string) error {
	fs := newFlagSet("train")
	region := fs.String("region", "guangdong", "region of the farm")
	episodes := fs.Int("episodes", 300, "number of training episodes")
	seed := fs.Uint64("seed", 1, "seed of the random source shared by the tank and agent")
	configPath := fs.String("config", "", "YAML file overriding the simulation parameters")
	agentPath := fs.String("agent", "", "YAML file overriding the agent hyperparameters")
	plotPath := fs.String("plot", "", "save the reward curve to this image file")
	verbose := fs.Bool("verbose", false, "print the reward of each episode")
	summary := fs.Bool("summary", false, "print the production indicators of each episode")
	storeKind := fs.String("store", "memory", "store backend: memory|sqlite")
	dbPath := fs.String("db", "aquarl.db", "sqlite database path")
	metricsAddr := fs.String("metrics-addr", "", "serve prometheus metrics at this address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	agentCfg, err := dynaq.LoadConfig(*agentPath)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	tank, _, err := aquaculture.New(cfg, *region, rng)
	if err != nil {
		return err
	}
	defer tank.Close()

	env, err := wrappers.NewDiscreteAction(tank, cfg.Environment.ActionBins)
	if err != nil {
		return err
	}
	agent, err := dynaq.New(env, agentCfg, rng)
	if err != nil {
		return err
	}

	store, err := runstore.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = runstore.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	runID := runstore.NewRunID()
	err = store.SaveRun(ctx, runstore.Run{
		ID:       runID,
		Region:   *region,
		Seed:     *seed,
		Episodes: *episodes,
		Started:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	klog.Infof("run %s: training in %s for %d episodes with %d actions",
		runID, *region, *episodes, env.NumActions())

	t := []trackers.Tracker{trackers.NewStore(ctx, store, runID)}
	if !*verbose {
		bar := progressbar.NewManualProgressBar(os.Stderr, "train", 40,
			*episodes)
		t = append(t, trackers.NewProgress(bar))
	}
	if *summary {
		t = append(t, trackers.NewSummary(os.Stdout))
	}

	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		t = append(t, trackers.NewMetrics(reg, agent))

		shutdown := serveMetrics(*metricsAddr, reg)
		defer shutdown()
	}

	_, err = dynaq.TrainContext(ctx, agent, *episodes, *plotPath, *verbose,
		t...)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %s\n", runID, agent)
	return nil
}

// serveMetrics serves the metrics of reg on addr until the returned
// function is called
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.Errorf("metrics server: %v", err)
		}
	}()
	klog.Infof("serving metrics on %s/metrics", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			klog.Warningf("metrics server shutdown: %v", err)
		}
	}
}

func runSimulate(ctx context.Context, args []string) error {
	fs := newFlagSet("simulate")
	region := fs.String("region", "guangdong", "region of the farm")
	days := fs.Int("days", 180, "length of the production cycle in days")
	feed := fs.Float64("feed", 0.5, "daily feeding rate in [0, 1]")
	setpoint := fs.Float64("setpoint", 30, "heater setpoint in degrees Celsius")
	aeration := fs.Float64("aeration", 0.6, "aeration rate (dissolved oxygen)")
	seed := fs.Uint64("seed", 1, "random seed")
	configPath := fs.String("config", "", "YAML file overriding the simulation parameters")
	renderDir := fs.String("render", "", "write a frame of the tank for each day to this directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	cfg.Environment.MaxDays = *days
	if *renderDir != "" {
		cfg.Render.Dir = *renderDir
	}

	tank, step, err := aquaculture.New(cfg, *region,
		rand.New(rand.NewSource(*seed)))
	if err != nil {
		return err
	}
	defer tank.Close()

	action := mat.NewVecDense(3, []float64{*feed, *setpoint, *aeration})
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Day\tFish\tBiomass (g)\tTemp (C)\tUIA (mg/L)\t"+
		"Feed (g)\tReward\t")

	total := 0.0
	for !step.Last() {
		if err := ctx.Err(); err != nil {
			return err
		}

		step, _, err = tank.Step(action)
		if err != nil {
			return err
		}
		total += step.Reward

		info := step.Info
		fmt.Fprintf(w, "%d\t%.0f\t%.1f\t%.2f\t%.3f\t%.1f\t%.3f\t\n",
			step.Number, info[aquaculture.InfoCount],
			info[aquaculture.InfoBiomass], info[aquaculture.InfoTemperature],
			info[aquaculture.InfoUIA], info[aquaculture.InfoFeedMass],
			step.Reward)

		if *renderDir != "" {
			if _, err := tank.Render(aquaculture.RenderHuman); err != nil {
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nCycle ended after %d days (%v): total reward %.2f, "+
		"final biomass %.1f g\n", step.Number, step.EndType(), total,
		step.Info[aquaculture.InfoBiomass])
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := newFlagSet("runs")
	storeKind := fs.String("store", "sqlite", "store backend: memory|sqlite")
	dbPath := fs.String("db", "aquarl.db", "sqlite database path")
	id := fs.String("id", "", "print the episode rewards of this run")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := runstore.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = runstore.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	if *id != "" {
		rewards, ok, err := store.GetRewards(ctx, *id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no rewards stored for run %s", *id)
		}
		for i, r := range rewards {
			fmt.Printf("Episode %d: Total Reward = %.2f\n", i+1, r)
		}
		return nil
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRegion\tSeed\tEpisodes\tStarted")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.Region, r.Seed,
			r.Episodes, r.Started.Format(time.RFC3339))
	}
	return w.Flush()
}
