package pipeline

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// RenderAll renders independent diagrams concurrently, bounded by
// r.Concurrency. A failing diagram does not stop the others: results holds
// one entry per job in job order, nil where the job failed, and the returned
// error joins every failure.
//
// Jobs must write to distinct output paths.
func (r *Runner) RenderAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	if err := checkDistinctOutputs(jobs); err != nil {
		return nil, err
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]*Result, len(jobs))
	p := pool.New().WithMaxGoroutines(limit).WithErrors()
	for i, job := range jobs {
		p.Go(func() error {
			res, err := r.Execute(ctx, job.Diagram, job.Options)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	return results, p.Wait()
}

func checkDistinctOutputs(jobs []Job) error {
	seen := make(map[string]int, len(jobs))
	for i, job := range jobs {
		if j, ok := seen[job.Options.Output]; ok {
			return errors.New(errors.ErrCodeInvalidInput, "jobs %d and %d both write %s", j, i, job.Options.Output)
		}
		seen[job.Options.Output] = i
	}
	return nil
}
