package cli

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/davecthomas/ghdeps/internal/config"
	"github.com/davecthomas/ghdeps/pkg/cache"
	"github.com/davecthomas/ghdeps/pkg/export"
	"github.com/davecthomas/ghdeps/pkg/github"
	"github.com/davecthomas/ghdeps/pkg/manifest"
)

type scanFlags struct {
	org      string
	language string
	outDir   string
	parallel int
	noCache  bool
}

// newScanCmd creates the scan command.
func newScanCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Inventory an organization's repositories and their dependencies",
		Long: `Search a GitHub organization for repositories in a given language,
record metadata and the most recent commit of each, locate a dependency
manifest (requirements.txt or pyproject.toml) anywhere in each repository
tree, and export two CSV tables: repositories and dependency records.

Configuration comes from the environment (GITHUB_TOKEN, ORGANIZATION,
LANGUAGE, and tuning knobs; a .env file is honored). Flags override the
environment.

Examples:
  ghdeps scan                          # org/language from environment
  ghdeps scan --org acme --language python -o out/
  ghdeps scan --parallel 4 --no-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.org, "org", "", "organization to scan (overrides ORGANIZATION)")
	cmd.Flags().StringVar(&flags.language, "language", "", "language filter (overrides LANGUAGE)")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "", "output directory for CSV files")
	cmd.Flags().IntVar(&flags.parallel, "parallel", 0, "repositories inspected concurrently")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the response cache")

	return cmd
}

func runScan(ctx context.Context, flags scanFlags) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flags.org != "" {
		cfg.Organization = flags.org
	}
	if flags.language != "" {
		cfg.Language = flags.language
	}
	if flags.outDir != "" {
		cfg.OutputDir = flags.outDir
	}
	if flags.parallel > 0 {
		cfg.Parallelism = flags.parallel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger.Info("starting scan",
		"run_id", runID,
		"org", cfg.Organization,
		"language", cfg.Language,
		"parallelism", cfg.Parallelism)

	store := buildCache(ctx, cfg, flags.noCache, logger)
	defer store.Close()

	metrics := github.NewMetrics()
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, metrics, logger)
	}

	client := github.NewClient(cfg.Token,
		github.WithLogger(logger),
		github.WithMetrics(metrics),
		github.WithCache(store, cfg.CacheTTL),
		github.WithRequestsPerSecond(cfg.RequestsPerSecond),
		github.WithPerPage(cfg.PerPage),
	)

	search := newProgress(logger)
	repos, err := client.SearchRepos(ctx, cfg.Organization, cfg.Language)
	if err != nil {
		// Partial pages are still worth tabulating; one bad query must
		// not discard what was already collected.
		logger.Warn("repository search ended early", "error", err)
	}
	if len(repos) == 0 {
		printWarning("No repositories found for org %s with language %s", cfg.Organization, cfg.Language)
		return nil
	}
	search.done(fmt.Sprintf("Found %d repositories", len(repos)))

	registry := manifest.NewRegistry()

	// Workers share one client and therefore one rate gate, so a quota
	// cooldown observed by any of them pauses all of them.
	rows := make([]export.RepoRow, len(repos))
	deps := make([][]export.DependencyRecord, len(repos))
	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.Parallelism)

	for i, repo := range repos {
		wg.Add(1)
		go func(idx int, repo github.Repo) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			rows[idx], deps[idx] = inspectRepo(ctx, client, registry, repo, logger)
		}(i, repo)
	}
	wg.Wait()

	repoFile := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s_repos.csv", cfg.Organization, cfg.Language))
	depFile := filepath.Join(cfg.OutputDir, "repos_with_dependencies.csv")
	if err := writeResults(repoFile, depFile, rows, deps); err != nil {
		return err
	}

	total := 0
	for _, d := range deps {
		total += len(d)
	}
	printSuccess("Scanned %d repositories, extracted %d dependency records", len(repos), total)
	printDetail("repositories: %s", repoFile)
	printDetail("dependencies: %s", depFile)
	logger.Info("scan complete", "run_id", runID, "repos", len(repos), "dependencies", total)
	return nil
}

// inspectRepo gathers one repository's row for the metadata table and its
// dependency records. Failures degrade the row instead of failing the scan.
func inspectRepo(ctx context.Context, client *github.Client, registry *manifest.Registry, repo github.Repo, logger *charmlog.Logger) (export.RepoRow, []export.DependencyRecord) {
	row := export.RepoRow{
		Repo:             repo,
		DependencySystem: "Unknown",
		DependencyFile:   "None",
	}

	commit, err := client.MostRecentCommit(ctx, repo.FullName)
	if err != nil {
		logger.Warn("could not read most recent commit", "repo", repo.FullName, "error", err)
	}
	row.Commit = commit

	for _, name := range registry.FileNames() {
		path, found := client.FindFile(ctx, repo.FullName, name)
		if !found {
			continue
		}
		parser, ok := registry.Lookup(name)
		if !ok {
			continue
		}
		row.DependencySystem = parser.System()
		row.DependencyFile = path

		data, err := client.FetchFile(ctx, repo.FullName, path)
		if err != nil {
			logger.Warn("could not fetch manifest", "repo", repo.FullName, "path", path, "error", err)
			break
		}
		records, err := parser.Parse(data)
		if err != nil {
			logger.Warn("manifest did not parse", "repo", repo.FullName, "path", path, "error", err)
			break
		}

		out := make([]export.DependencyRecord, 0, len(records))
		for _, rec := range records {
			out = append(out, export.DependencyRecord{
				Repository:   repo.FullName,
				ManifestPath: path,
				Package:      rec.Name,
				Version:      rec.Version,
			})
		}
		return row, out
	}
	return row, nil
}

func writeResults(repoFile, depFile string, rows []export.RepoRow, deps [][]export.DependencyRecord) error {
	rw, err := export.NewRepoWriter(repoFile)
	if err != nil {
		return err
	}
	defer rw.Close()
	if err := rw.Write(rows); err != nil {
		return err
	}

	dw, err := export.NewDependencyWriter(depFile)
	if err != nil {
		return err
	}
	defer dw.Close()
	for _, records := range deps {
		if len(records) == 0 {
			continue
		}
		if err := dw.Write(records); err != nil {
			return err
		}
	}
	return nil
}

// buildCache picks the response cache backend: Redis when configured, a
// file cache when a directory is set, otherwise no caching.
func buildCache(ctx context.Context, cfg *config.Config, disabled bool, logger *charmlog.Logger) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	if cfg.RedisAddr != "" {
		store, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err == nil {
			return store
		}
		logger.Warn("redis cache unavailable, falling back to file cache", "addr", cfg.RedisAddr, "error", err)
	}
	dir := cfg.CacheDir
	if dir == "" {
		return cache.NewNullCache()
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Warn("file cache unavailable, caching disabled", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	return store
}

func serveMetrics(addr string, metrics *github.Metrics, logger *charmlog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving metrics", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Warn("metrics server stopped", "error", err)
	}
}
