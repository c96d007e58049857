package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PatrikGranholm/nordiclaw/internal/config"
	dbMemory "github.com/PatrikGranholm/nordiclaw/internal/db/memory"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/facet"
	logpkg "github.com/PatrikGranholm/nordiclaw/internal/logger"
	"github.com/PatrikGranholm/nordiclaw/internal/metrics"
	datasetrepo "github.com/PatrikGranholm/nordiclaw/internal/repository/dataset"
	lookuprepo "github.com/PatrikGranholm/nordiclaw/internal/repository/lookup"
	cataloguc "github.com/PatrikGranholm/nordiclaw/internal/usecase/catalog"
	facetuc "github.com/PatrikGranholm/nordiclaw/internal/usecase/facet"
	mergeuc "github.com/PatrikGranholm/nordiclaw/internal/usecase/merge"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configured dataset offline and print ingestion stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd)
		},
	}
}

func runCheck(cmd *cobra.Command) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.RegisterCatalogMetrics()

	store := dbMemory.NewStore(cfg.Cache.MemoryCapacity)
	defer store.Close()

	lookups := lookuprepo.New(
		cfg.Dataset.LookupDir, store,
		time.Duration(cfg.Cache.LookupTTLHours)*time.Hour, logger,
	)
	datasets := datasetrepo.New(cfg.Dataset.Dir, lookups, logger)
	mergeSvc := mergeuc.New(logger)
	engine := facetuc.New(facet.DefaultFields(), logger)
	catalogSvc := cataloguc.New(datasets, engine, mergeSvc, logger)

	ctx := cmd.Context()
	snap, err := catalogSvc.Load(ctx, cfg.Dataset.Source)
	if err != nil {
		return fmt.Errorf("load dataset %q: %w", cfg.Dataset.Source, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "source:      %s\n", snap.SourceID())
	fmt.Fprintf(out, "columns:     %d\n", len(snap.Columns()))
	fmt.Fprintf(out, "rows:        %d\n", len(snap.Rows()))
	fmt.Fprintf(out, "manuscripts: %d\n", len(snap.Manuscripts()))

	// Exercise span reconstruction for every manuscript and surface anything
	// the renderer would have to flag.
	var merged, heuristic, flagged int
	for _, ms := range snap.Manuscripts() {
		if ms.Key().IsZero() {
			continue
		}
		m, heur, err := catalogSvc.SpanMap(ctx, ms.Key(), nil)
		if err != nil {
			return fmt.Errorf("span map for %q: %w", ms.Key().Display(), err)
		}
		if heur {
			heuristic++
		} else {
			merged++
		}
		if flags := m.Flags(); len(flags) > 0 {
			flagged++
			for _, f := range flags {
				logger.Warn("span flag",
					zap.String("manuscript", ms.Key().Display()),
					zap.String("reason", string(f.Reason)),
				)
			}
		}
	}
	fmt.Fprintf(out, "spans:       %d from merge metadata, %d heuristic, %d flagged\n",
		merged, heuristic, flagged)

	_, options, err := catalogSvc.Facets(ctx)
	if err != nil {
		return fmt.Errorf("facets: %w", err)
	}
	for _, f := range engine.Fields() {
		fmt.Fprintf(out, "facet %-16s %d options\n", f.Name()+":", len(options[f.Name()]))
	}

	return nil
}
