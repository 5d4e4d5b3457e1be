// Package agg turns provider metric records into reusability indices.
package agg

import (
	"context"
	"fmt"

	"github.com/reusabilityapi/reusability/core/algo"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
)

// Operation names reported to the error handler.
const (
	OpFilesByCommit        = "findReusabilityIndexByCommit"
	OpFilesByCommitAndFile = "findReusabilityIndexByCommitAndFile"
	OpProjectByCommit      = "findProjectReusabilityIndexByCommit"
	OpProjectPerCommit     = "findProjectReusabilityIndexPerCommit"
)

// ErrorHandler receives failures swallowed by the Find* operations.
type ErrorHandler func(op string, err error)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithErrorHandler replaces the handler used by the Find* operations.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *Aggregator) {
		if h != nil {
			a.onError = h
		}
	}
}

// Aggregator computes file and project reusability indices from a MetricsClient.
// It keeps no state between calls and is safe for concurrent use when the client is.
type Aggregator struct {
	client  contract.MetricsClient
	onError ErrorHandler
}

// NewAggregator returns an Aggregator reading from client.
// Swallowed failures are logged as warnings unless WithErrorHandler says otherwise.
func NewAggregator(client contract.MetricsClient, opts ...Option) *Aggregator {
	a := &Aggregator{client: client, onError: warnHandler}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func warnHandler(op string, err error) {
	contract.LogWarn(op+" failed", err)
}

// FileIndicesByCommit returns the index of every file of a commit, sorted by index
// ascending with ties ordered by file path. A limit <= 0 fetches all files.
func (a *Aggregator) FileIndicesByCommit(ctx context.Context, repoURL, sha string, limit int) ([]schema.FileReusabilityIndex, error) {
	records, err := a.client.MetricsByCommit(ctx, repoURL, sha, limit)
	if err != nil {
		return nil, err
	}
	files, err := fileIndices(records, nil)
	if err != nil {
		return nil, err
	}
	return algo.RankFiles(files), nil
}

// FileIndicesByCommitAndFile returns the indices of one file at a commit in the order
// the provider sent them. Every result carries filePath as given by the caller.
func (a *Aggregator) FileIndicesByCommitAndFile(ctx context.Context, repoURL, sha, filePath string) ([]schema.FileReusabilityIndex, error) {
	records, err := a.client.MetricsByCommitAndFile(ctx, repoURL, sha, filePath)
	if err != nil {
		return nil, err
	}
	return fileIndices(records, &filePath)
}

// ProjectIndexByCommit returns the mean index over all files of a commit as a single
// element. The element carries sha and the revision count of the first record.
func (a *Aggregator) ProjectIndexByCommit(ctx context.Context, repoURL, sha string) ([]schema.ProjectReusabilityIndex, error) {
	records, err := a.client.MetricsByCommit(ctx, repoURL, sha, 0)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []schema.ProjectReusabilityIndex{}, nil
	}
	files, err := fileIndices(records, nil)
	if err != nil {
		return nil, err
	}
	return []schema.ProjectReusabilityIndex{{
		CommitID:      sha,
		RevisionCount: records[0].RevisionCount,
		Index:         algo.MeanIndex(files),
	}}, nil
}

// ProjectIndicesPerCommit returns one project index per commit-level record,
// sorted by index ascending with ties ordered by commit ID. A limit <= 0 fetches all commits.
func (a *Aggregator) ProjectIndicesPerCommit(ctx context.Context, repoURL string, limit int) ([]schema.ProjectReusabilityIndex, error) {
	records, err := a.client.ProjectMetrics(ctx, repoURL, limit)
	if err != nil {
		return nil, err
	}
	projects := make([]schema.ProjectReusabilityIndex, 0, len(records))
	for _, r := range records {
		index, err := algo.ComputeIndex(r)
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", r.Sha, err)
		}
		projects = append(projects, schema.ProjectReusabilityIndex{
			CommitID:      r.Sha,
			RevisionCount: r.RevisionCount,
			Index:         index,
		})
	}
	return algo.RankProjects(projects), nil
}

// FindReusabilityIndexByCommit is FileIndicesByCommit with failures reported to the
// error handler and replaced by an empty result.
func (a *Aggregator) FindReusabilityIndexByCommit(ctx context.Context, repoURL, sha string, limit int) []schema.FileReusabilityIndex {
	files, err := a.FileIndicesByCommit(ctx, repoURL, sha, limit)
	return recoverEmpty(a, OpFilesByCommit, files, err)
}

// FindReusabilityIndexByCommitAndFile is FileIndicesByCommitAndFile with failures reported
// to the error handler and replaced by an empty result.
func (a *Aggregator) FindReusabilityIndexByCommitAndFile(ctx context.Context, repoURL, sha, filePath string) []schema.FileReusabilityIndex {
	files, err := a.FileIndicesByCommitAndFile(ctx, repoURL, sha, filePath)
	return recoverEmpty(a, OpFilesByCommitAndFile, files, err)
}

// FindProjectReusabilityIndexByCommit is ProjectIndexByCommit with failures reported to
// the error handler and replaced by an empty result.
func (a *Aggregator) FindProjectReusabilityIndexByCommit(ctx context.Context, repoURL, sha string) []schema.ProjectReusabilityIndex {
	projects, err := a.ProjectIndexByCommit(ctx, repoURL, sha)
	return recoverEmpty(a, OpProjectByCommit, projects, err)
}

// FindProjectReusabilityIndexPerCommit is ProjectIndicesPerCommit with failures reported
// to the error handler and replaced by an empty result.
func (a *Aggregator) FindProjectReusabilityIndexPerCommit(ctx context.Context, repoURL string, limit int) []schema.ProjectReusabilityIndex {
	projects, err := a.ProjectIndicesPerCommit(ctx, repoURL, limit)
	return recoverEmpty(a, OpProjectPerCommit, projects, err)
}

// recoverEmpty reports err and returns an empty non-nil slice, or returns results unchanged.
func recoverEmpty[T any](a *Aggregator, op string, results []T, err error) []T {
	if err != nil {
		a.onError(op, err)
		return []T{}
	}
	if results == nil {
		return []T{}
	}
	return results
}

// fileIndices computes one file index per record. A non-nil pathOverride replaces
// every record's file path.
func fileIndices(records []schema.MetricsRecord, pathOverride *string) ([]schema.FileReusabilityIndex, error) {
	files := make([]schema.FileReusabilityIndex, 0, len(records))
	for _, r := range records {
		index, err := algo.ComputeIndex(r)
		if err != nil {
			return nil, fmt.Errorf("file %q at %s: %w", r.FilePath, r.Sha, err)
		}
		path := r.FilePath
		if pathOverride != nil {
			path = *pathOverride
		}
		files = append(files, schema.FileReusabilityIndex{
			CommitID:      r.Sha,
			RevisionCount: r.RevisionCount,
			FilePath:      path,
			Index:         index,
		})
	}
	return files, nil
}
