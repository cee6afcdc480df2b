package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/openevo/archipelago/internal/monitoring"
	"github.com/openevo/archipelago/pkg/algorithm"
	"github.com/openevo/archipelago/pkg/archipelago"
	"github.com/openevo/archipelago/pkg/config"
	"github.com/openevo/archipelago/pkg/island"
	"github.com/openevo/archipelago/pkg/migration"
	"github.com/openevo/archipelago/pkg/problem"
	"github.com/openevo/archipelago/pkg/reporting"
)

func main() {
	// Environment overrides come from an optional .env file, flags win.
	_ = godotenv.Load()

	cfg := config.Default()
	cfg.ApplyEnv()

	flag.StringVar(&cfg.Problem, "problem", cfg.Problem, "problem to solve: sphere or rosenbrock")
	flag.IntVar(&cfg.Dimension, "dim", cfg.Dimension, "problem dimension")
	flag.IntVar(&cfg.Islands, "islands", cfg.Islands, "number of islands")
	flag.IntVar(&cfg.PopSize, "pop", cfg.PopSize, "population size per island")
	flag.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "evolution rounds per island")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "base random seed")
	flag.IntVar(&cfg.Generations, "gen", cfg.Generations, "generations per evolve call")
	flag.IntVar(&cfg.Variant, "variant", cfg.Variant, "DE variant (1 ... 18)")
	flag.IntVar(&cfg.Adaptive, "adaptive", cfg.Adaptive, "adaptation scheme (0 or 1)")
	flag.Float64Var(&cfg.MigrationProbability, "migr-prob", cfg.MigrationProbability, "per-round migration probability")
	flag.IntVar(&cfg.MigrationRate, "migr-rate", cfg.MigrationRate, "emigrants per migration")
	flag.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "optional .xlsx export path")
	verbose := flag.Bool("verbose", false, "dump full populations")
	metricsAddr := flag.String("metrics-addr", "", "optional address for the Prometheus metrics endpoint")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	health := monitoring.NewHealthChecker()
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", monitoring.NewMetricsHandler())
			http.Handle("/healthz", health)
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Printf("metrics endpoint failed: %v", err)
			}
		}()
	}

	if err := run(cfg, *verbose, health); err != nil {
		health.RecordFailure(err.Error())
		log.Fatalf("run failed: %v", err)
	}
}

func run(cfg config.RunConfig, verbose bool, health *monitoring.HealthChecker) error {
	var prob problem.Problem
	switch cfg.Problem {
	case "sphere":
		prob = problem.NewSphere(cfg.Dimension)
	case "rosenbrock":
		prob = problem.NewRosenbrock(cfg.Dimension)
	}

	arch := archipelago.New(archipelago.Ring{}, archipelago.WithSeed(cfg.Seed))
	for k := 0; k < cfg.Islands; k++ {
		algo, err := algorithm.NewSADESeeded(cfg.Generations, cfg.Variant, cfg.Adaptive,
			cfg.Ftol, cfg.Xtol, false, cfg.Seed+int64(k))
		if err != nil {
			return err
		}
		isl, err := island.New(prob, algo, cfg.PopSize, cfg.MigrationProbability,
			migration.NewBestSelection(cfg.MigrationRate),
			migration.NewFairReplacement(),
			island.WithSeed(cfg.Seed+int64(k)),
			island.WithName(fmt.Sprintf("island-%d", k+1)))
		if err != nil {
			return err
		}
		arch.Push(isl)
	}

	// one archipelago round per iteration keeps the health endpoint live
	// during long runs
	for r := 0; r < cfg.Rounds; r++ {
		if err := arch.Evolve(1); err != nil {
			return err
		}
		arch.Join()
		health.RecordRound()
	}

	console := reporting.NewConsoleReporter()
	console.ReportArchipelago(arch)
	if verbose {
		for _, isl := range arch.Islands() {
			console.ReportIsland(isl, true)
		}
	}

	if cfg.OutputFile != "" {
		if err := reporting.NewExcelReporter().ExportArchipelago(arch, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "results written to %s\n", cfg.OutputFile)
	}
	return nil
}
