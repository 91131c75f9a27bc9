package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/docaudit/domain"
)

// AuditFileFunc audits one file and returns its report entry
type AuditFileFunc func(ctx context.Context, path string) (*domain.FileAudit, error)

// ParallelExecutor runs per-file audits with bounded concurrency. Results
// come back indexed by input position, so the rendered report stays in
// source order regardless of completion order. Session counters are
// mutex-guarded by the session itself; fixes touch one file per task, so
// file-level exclusivity is structural.
type ParallelExecutor struct {
	maxWorkers int
}

// NewParallelExecutor creates an executor with the given worker limit
func NewParallelExecutor(maxWorkers int) *ParallelExecutor {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &ParallelExecutor{maxWorkers: maxWorkers}
}

// Run audits all files and returns their reports in input order. The first
// fatal error (transport, I/O) cancels outstanding work and is returned.
func (e *ParallelExecutor) Run(ctx context.Context, files []string, fn AuditFileFunc) ([]*domain.FileAudit, error) {
	results := make([]*domain.FileAudit, len(files))

	if e.maxWorkers == 1 {
		for i, path := range files {
			audit, err := fn(ctx, path)
			if err != nil {
				return nil, err
			}
			results[i] = audit
		}
		return results, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxWorkers)

	for i, path := range files {
		g.Go(func() error {
			audit, err := fn(gCtx, path)
			if err != nil {
				return err
			}
			results[i] = audit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
