// Package batch generates many puzzles concurrently.
package batch

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kyiku/wordsearch-back/internal/definition"
	"github.com/kyiku/wordsearch-back/internal/placement"
	"github.com/kyiku/wordsearch-back/internal/puzzle"
)

// DefaultWorkers is used when a Runner is created with workers <= 0.
const DefaultWorkers = 4

// MaxJobs caps the number of definitions in one batch.
const MaxJobs = 100

// ErrTooManyJobs is returned by Run for batches larger than MaxJobs.
var ErrTooManyJobs = errors.New("too many puzzles in batch")

// Job is one definition to build. Name is carried into the result.
type Job struct {
	Name       string
	Definition *definition.Definition
}

// Result is the outcome of one Job. Puzzle is set on success and also when
// Err is a *placement.MissingWordError.
type Result struct {
	Name     string
	Puzzle   *puzzle.Puzzle
	Err      error
	Duration time.Duration
}

// Runner builds jobs on a bounded pool of goroutines.
type Runner struct {
	workers int
	opts    definition.BuildOptions
	log     logrus.FieldLogger
}

// NewRunner creates a Runner with the given pool size. opts is passed to
// every definition's Build.
func NewRunner(workers int, opts definition.BuildOptions) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{
		workers: workers,
		opts:    opts,
		log:     log,
	}
}

// Run builds every job and returns the results in job order. A failing job
// does not stop the others; its error is reported in its Result. Run itself
// fails only when ctx is done before every job has started.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	if len(jobs) > MaxJobs {
		return nil, ErrTooManyJobs
	}

	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.build(job)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) build(job Job) Result {
	start := time.Now()
	res := Result{Name: job.Name}
	entry := r.log.WithField("job", job.Name)

	if job.Definition == nil {
		res.Err = errors.New("definition is required")
		return res
	}

	p, err := job.Definition.Build(r.opts)
	res.Duration = time.Since(start)
	res.Err = err

	var missing *placement.MissingWordError
	switch {
	case err == nil:
		res.Puzzle = p
	case errors.As(err, &missing):
		res.Puzzle = p
		entry.WithField("missing", missing.Words).Warn("batch puzzle missing words")
	default:
		entry.WithError(err).Warn("batch puzzle failed")
		return res
	}

	entry.WithFields(logrus.Fields{
		"size":     p.Size(),
		"placed":   len(p.PlacedWords()),
		"duration": res.Duration,
	}).Debug("batch puzzle generated")
	return res
}
