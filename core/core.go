// Package core runs reusability queries and hands their results to the output writers.
package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reusabilityapi/reusability/core/agg"
	"github.com/reusabilityapi/reusability/core/algo"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/internal/metricsclient"
	"github.com/reusabilityapi/reusability/internal/outwriter"
	"github.com/reusabilityapi/reusability/schema"
	"golang.org/x/sync/errgroup"
)

// ExecutorFunc defines the function signature for executing different query commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// Errors for missing query targets.
var (
	ErrMissingRepoURL  = errors.New("repository URL is required")
	ErrMissingCommit   = errors.New("commit SHA is required")
	ErrMissingFilePath = errors.New("file path is required")
)

// ExecuteFiles prints the index of every file of a commit.
// It serves as the main entry point for the 'files' command.
func ExecuteFiles(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	logQueryHeader(cfg, schema.FilesByCommitQuery)
	files, duration, err := GetFilesResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteFiles(files, cfg, duration)
}

// ExecuteFile prints the indices of one file at a commit.
func ExecuteFile(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	logQueryHeader(cfg, schema.FilesByCommitAndFileQuery)
	files, duration, err := GetFileResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteFileRows(files, cfg, duration)
}

// ExecuteProject prints the project index of a commit.
func ExecuteProject(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	logQueryHeader(cfg, schema.ProjectByCommitQuery)
	projects, duration, err := GetProjectResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteProjects(projects, cfg, duration)
}

// ExecuteHistory prints one project index per commit.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	logQueryHeader(cfg, schema.ProjectPerCommitQuery)
	projects, duration, err := GetHistoryResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteProjects(projects, cfg, duration)
}

// ExecuteReport prints the project index of a commit together with its file indices.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	logQueryHeader(cfg, schema.FilesByCommitQuery)
	report, duration, err := GetReportResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(report, cfg, duration)
}

// ExecuteFormula prints the formula and its weights. It makes no provider calls.
func ExecuteFormula(cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteFormula(algo.FormulaTerms(), cfg)
}

// GetFilesResults returns the sorted file indices of cfg.CommitSHA.
func GetFilesResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.FileReusabilityIndex, time.Duration, error) {
	if err := requireTarget(cfg, true, false); err != nil {
		return nil, 0, err
	}
	start := time.Now()
	tracker := beginRun(mgr, newRun(schema.FilesByCommitQuery, cfg, start))

	a := newAggregator(ctx, cfg, mgr)
	files, err := query(cfg.Strict,
		func() ([]schema.FileReusabilityIndex, error) {
			return a.FileIndicesByCommit(ctx, cfg.RepoURL, cfg.CommitSHA, cfg.ResultLimit)
		},
		func() []schema.FileReusabilityIndex {
			return a.FindReusabilityIndexByCommit(ctx, cfg.RepoURL, cfg.CommitSHA, cfg.ResultLimit)
		})
	tracker.finish(fileIndexRecords(files))
	return files, time.Since(start), err
}

// GetFileResults returns the indices of cfg.FilePath at cfg.CommitSHA in provider order.
func GetFileResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.FileReusabilityIndex, time.Duration, error) {
	if err := requireTarget(cfg, true, true); err != nil {
		return nil, 0, err
	}
	start := time.Now()
	tracker := beginRun(mgr, newRun(schema.FilesByCommitAndFileQuery, cfg, start))

	a := newAggregator(ctx, cfg, mgr)
	files, err := query(cfg.Strict,
		func() ([]schema.FileReusabilityIndex, error) {
			return a.FileIndicesByCommitAndFile(ctx, cfg.RepoURL, cfg.CommitSHA, cfg.FilePath)
		},
		func() []schema.FileReusabilityIndex {
			return a.FindReusabilityIndexByCommitAndFile(ctx, cfg.RepoURL, cfg.CommitSHA, cfg.FilePath)
		})
	tracker.finish(fileIndexRecords(files))
	return files, time.Since(start), err
}

// GetProjectResults returns the mean index of cfg.CommitSHA as a single element.
func GetProjectResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.ProjectReusabilityIndex, time.Duration, error) {
	if err := requireTarget(cfg, true, false); err != nil {
		return nil, 0, err
	}
	start := time.Now()
	tracker := beginRun(mgr, newRun(schema.ProjectByCommitQuery, cfg, start))

	a := newAggregator(ctx, cfg, mgr)
	projects, err := projectByCommit(ctx, a, cfg)
	tracker.finish(projectIndexRecords(projects))
	return projects, time.Since(start), err
}

// GetHistoryResults returns one project index per commit of cfg.RepoURL, sorted.
func GetHistoryResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.ProjectReusabilityIndex, time.Duration, error) {
	if err := requireTarget(cfg, false, false); err != nil {
		return nil, 0, err
	}
	start := time.Now()
	tracker := beginRun(mgr, newRun(schema.ProjectPerCommitQuery, cfg, start))

	a := newAggregator(ctx, cfg, mgr)
	projects, err := query(cfg.Strict,
		func() ([]schema.ProjectReusabilityIndex, error) {
			return a.ProjectIndicesPerCommit(ctx, cfg.RepoURL, cfg.ResultLimit)
		},
		func() []schema.ProjectReusabilityIndex {
			return a.FindProjectReusabilityIndexPerCommit(ctx, cfg.RepoURL, cfg.ResultLimit)
		})
	tracker.finish(projectIndexRecords(projects))
	return projects, time.Since(start), err
}

// GetReportResults fetches the file indices and the project index of cfg.CommitSHA concurrently.
// Only the file rows are recorded in run history.
func GetReportResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.CommitReport, time.Duration, error) {
	report := schema.CommitReport{RepoURL: cfg.RepoURL, CommitSHA: cfg.CommitSHA}
	if err := requireTarget(cfg, true, false); err != nil {
		return report, 0, err
	}
	start := time.Now()
	tracker := beginRun(mgr, newRun(schema.FilesByCommitQuery, cfg, start))

	a := newAggregator(ctx, cfg, mgr)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		files, err := query(cfg.Strict,
			func() ([]schema.FileReusabilityIndex, error) {
				return a.FileIndicesByCommit(gctx, cfg.RepoURL, cfg.CommitSHA, cfg.ResultLimit)
			},
			func() []schema.FileReusabilityIndex {
				return a.FindReusabilityIndexByCommit(gctx, cfg.RepoURL, cfg.CommitSHA, cfg.ResultLimit)
			})
		report.Files = files
		return err
	})
	g.Go(func() error {
		projects, err := projectByCommit(gctx, a, cfg)
		report.Project = projects
		return err
	})
	err := g.Wait()
	if err != nil {
		report.Files, report.Project = nil, nil
	}
	tracker.finish(fileIndexRecords(report.Files))
	return report, time.Since(start), err
}

// projectByCommit runs the project aggregate in the variant selected by cfg.Strict.
func projectByCommit(ctx context.Context, a *agg.Aggregator, cfg *contract.Config) ([]schema.ProjectReusabilityIndex, error) {
	return query(cfg.Strict,
		func() ([]schema.ProjectReusabilityIndex, error) {
			return a.ProjectIndexByCommit(ctx, cfg.RepoURL, cfg.CommitSHA)
		},
		func() []schema.ProjectReusabilityIndex {
			return a.FindProjectReusabilityIndexByCommit(ctx, cfg.RepoURL, cfg.CommitSHA)
		})
}

// query runs the typed variant in strict mode and the never-failing variant otherwise.
func query[T any](strict bool, typed func() ([]T, error), lenient func() []T) ([]T, error) {
	if strict {
		return typed()
	}
	return lenient(), nil
}

// newAggregator builds an Aggregator over the provider client, fronted by the
// response cache when one is configured.
func newAggregator(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) *agg.Aggregator {
	client, ok := metricsClientFromContext(ctx)
	if !ok {
		client = metricsclient.New(cfg.MetricsURL, cfg.RequestTimeout)
	}
	if cfg.CacheBackend != schema.NoneBackend && mgr != nil {
		if store := mgr.GetResponseStore(); store != nil {
			client = agg.NewCachingClient(client, store, cfg.CacheTTL, responseMemo(store))
		}
	}
	return agg.NewAggregator(client)
}

// memos holds one response memo per cache store for the life of the process.
var (
	memosMu sync.Mutex
	memos   = map[contract.CacheStore]*agg.Memo{}
)

// responseMemo returns the memo shared by every query reading through store.
func responseMemo(store contract.CacheStore) *agg.Memo {
	memosMu.Lock()
	defer memosMu.Unlock()
	memo, ok := memos[store]
	if !ok {
		memo = agg.NewMemo(agg.DefaultMemoEntries)
		memos[store] = memo
	}
	return memo
}

// newRun describes a query for run history.
func newRun(kind schema.QueryKind, cfg *contract.Config, start time.Time) schema.AnalysisRun {
	run := schema.AnalysisRun{
		Kind:      kind,
		RepoURL:   cfg.RepoURL,
		StartTime: start,
		Params:    runParams(cfg),
	}
	if kind != schema.ProjectPerCommitQuery {
		run.CommitSHA = cfg.CommitSHA
	}
	return run
}

// requireTarget checks that the positional query arguments are present.
func requireTarget(cfg *contract.Config, needCommit, needPath bool) error {
	switch {
	case cfg.RepoURL == "":
		return ErrMissingRepoURL
	case needCommit && cfg.CommitSHA == "":
		return ErrMissingCommit
	case needPath && cfg.FilePath == "":
		return ErrMissingFilePath
	}
	return nil
}
