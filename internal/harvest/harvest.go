// Package harvest drives the fetch-and-assemble pipeline over an ordered
// task set, in a single sequential worker or a bounded pool, with one
// sequential retry pass for first-attempt failures.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/fetch"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// Assembler turns one fetched page into one record. Assembly never fails:
// blocks that cannot be extracted leave their defaults in place. The context
// bounds any secondary-source lookups the assembler performs.
type Assembler interface {
	Assemble(ctx context.Context, doc *goquery.Document, id domain.Identity) domain.Match
}

// Mode selects the scheduling model for the first pass.
type Mode int

const (
	// Sequential processes tasks strictly in input order.
	Sequential Mode = iota

	// Parallel processes tasks through a bounded worker pool; completion
	// order is unspecified.
	Parallel
)

// Scheduling defaults and bounds.
const (
	// DefaultWorkers is the pool size when the caller does not set one.
	// Each worker owns a full fetch session, so the pool stays small.
	DefaultWorkers = 4

	// DefaultFetchDelay is the politeness delay between sequential fetches.
	DefaultFetchDelay = 500 * time.Millisecond

	// sessionAttempts bounds session construction tries per task before
	// the task is marked failed.
	sessionAttempts = 3

	// DefaultSessionRetryDelay separates session construction attempts.
	DefaultSessionRetryDelay = time.Second
)

// Config configures a harvest run.
type Config struct {
	Mode              Mode
	Workers           int
	FetchDelay        time.Duration
	SessionRetryDelay time.Duration
}

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.FetchDelay == 0 {
		c.FetchDelay = DefaultFetchDelay
	}
	if c.SessionRetryDelay == 0 {
		c.SessionRetryDelay = DefaultSessionRetryDelay
	}
	return c
}

// Failure records a task that ended in FailedFinal.
type Failure struct {
	Task  domain.Task
	State domain.TaskState
	Err   error
}

// Result is the outcome of one harvest run. Records holds every record from
// tasks that ended Succeeded, across both passes. Element order matches
// input order only in sequential mode; parallel callers sort by identity
// fields if they need stable order.
type Result struct {
	RunID    string
	Records  domain.Dataset
	Failures []Failure
	Retried  int
	Total    int
}

// Runner executes harvest runs.
type Runner struct {
	factory   fetch.Factory
	assembler Assembler
	log       logger.Interface
	progress  Reporter
	cfg       Config
}

// NewRunner creates a runner. A nil progress reporter disables progress
// reporting.
func NewRunner(
	factory fetch.Factory,
	assembler Assembler,
	log logger.Interface,
	progress Reporter,
	cfg Config,
) *Runner {
	if progress == nil {
		progress = NoopReporter{}
	}

	return &Runner{
		factory:   factory,
		assembler: assembler,
		log:       log,
		progress:  progress,
		cfg:       cfg.withDefaults(),
	}
}

// outcome is the terminal state of one task attempt.
type outcome struct {
	task   domain.Task
	record domain.Match
	err    error
}

// Run executes both harvest passes over the task set. Per-task errors are
// absorbed here; Run only fails on context cancellation. The returned
// dataset may be partial: callers get whatever subset succeeded plus the
// failure count.
func (r *Runner) Run(ctx context.Context, tasks []domain.Task) (*Result, error) {
	result := &Result{
		RunID: uuid.NewString(),
		Total: len(tasks),
	}

	log := r.log.With("run_id", result.RunID)
	log.Info("harvest run starting",
		"tasks", len(tasks),
		"mode", r.modeName(),
		"workers", r.cfg.Workers,
	)

	r.progress.Start(len(tasks))
	defer r.progress.Done()

	var firstPassFailed []Failure

	var err error
	if r.cfg.Mode == Parallel {
		firstPassFailed, err = r.parallelPass(ctx, log, tasks, result)
	} else {
		firstPassFailed, err = r.sequentialPass(ctx, log, tasks, result)
	}
	if err != nil {
		return nil, err
	}

	if retryErr := r.retryPass(ctx, log, firstPassFailed, result); retryErr != nil {
		return nil, retryErr
	}

	log.Info("harvest run finished",
		"succeeded", len(result.Records),
		"retried", result.Retried,
		"failed", len(result.Failures),
	)

	return result, nil
}

// modeName returns the config mode as a string for logging.
func (r *Runner) modeName() string {
	if r.cfg.Mode == Parallel {
		return "parallel"
	}
	return "sequential"
}

// sequentialPass runs the first pass in strict input order with a
// politeness delay between fetches.
func (r *Runner) sequentialPass(
	ctx context.Context,
	log logger.Interface,
	tasks []domain.Task,
	result *Result,
) ([]Failure, error) {
	var failed []Failure

	for i, task := range tasks {
		if i > 0 {
			if delayErr := sleepOrCancel(ctx, r.cfg.FetchDelay); delayErr != nil {
				return nil, delayErr
			}
		}

		out := r.attempt(ctx, task)
		failed = r.collect(log, out, result, failed)
		r.progress.Increment()
	}

	return failed, nil
}

// parallelPass runs the first pass through a bounded worker pool. Results
// are handed back over a channel and appended by this goroutine only, so no
// mutable state is shared across workers.
func (r *Runner) parallelPass(
	ctx context.Context,
	log logger.Interface,
	tasks []domain.Task,
	result *Result,
) ([]Failure, error) {
	taskCh := make(chan domain.Task)
	outCh := make(chan outcome)

	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for task := range taskCh {
				outCh <- r.attempt(ctx, task)
			}
		}()
	}

	go func() {
		defer close(taskCh)

		for _, task := range tasks {
			select {
			case taskCh <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	var failed []Failure

	for out := range outCh {
		failed = r.collect(log, out, result, failed)
		r.progress.Increment()
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return failed, nil
}

// retryPass re-attempts every first-attempt failure exactly once,
// sequentially, with fresh sessions.
func (r *Runner) retryPass(
	ctx context.Context,
	log logger.Interface,
	failed []Failure,
	result *Result,
) error {
	for _, failure := range failed {
		if delayErr := sleepOrCancel(ctx, r.cfg.FetchDelay); delayErr != nil {
			return delayErr
		}

		result.Retried++

		out := r.attempt(ctx, failure.Task)
		if out.err != nil {
			log.Warn("task failed after retry",
				"league", failure.Task.Identity.League,
				"season", failure.Task.Identity.Season,
				"game_id", failure.Task.Identity.GameID,
				"error", out.err.Error(),
			)
			result.Failures = append(result.Failures, Failure{
				Task:  failure.Task,
				State: domain.TaskFailedFinal,
				Err:   out.err,
			})

			continue
		}

		result.Records = append(result.Records, out.record)
	}

	return nil
}

// collect routes one first-pass outcome: successes into the dataset,
// not-found failures straight to FailedFinal (retrying a permanently absent
// page is wasted effort), everything else into the retry queue.
func (r *Runner) collect(
	log logger.Interface,
	out outcome,
	result *Result,
	failed []Failure,
) []Failure {
	if out.err == nil {
		result.Records = append(result.Records, out.record)
		return failed
	}

	id := out.task.Identity

	if errors.Is(out.err, fetch.ErrNotFound) {
		log.Info("task skipped, page absent",
			"league", id.League,
			"season", id.Season,
			"game_id", id.GameID,
		)
		result.Failures = append(result.Failures, Failure{
			Task:  out.task,
			State: domain.TaskFailedFinal,
			Err:   out.err,
		})

		return failed
	}

	log.Warn("task failed first attempt",
		"league", id.League,
		"season", id.Season,
		"game_id", id.GameID,
		"error", out.err.Error(),
	)

	return append(failed, Failure{
		Task:  out.task,
		State: domain.TaskFailedFirstAttempt,
		Err:   out.err,
	})
}

// attempt runs one task to a terminal state: construct a session (bounded
// retries), fetch, assemble. The session is released on every exit path.
func (r *Runner) attempt(ctx context.Context, task domain.Task) outcome {
	session, err := r.newSession(ctx)
	if err != nil {
		return outcome{task: task, err: fmt.Errorf("session construction: %w", err)}
	}
	defer session.Close()

	doc, err := session.Fetch(ctx, task.URL)
	if err != nil {
		return outcome{task: task, err: err}
	}

	return outcome{task: task, record: r.assembler.Assemble(ctx, doc, task.Identity)}
}

// newSession constructs a fetch session, retrying construction up to
// sessionAttempts times before giving up on the task.
func (r *Runner) newSession(ctx context.Context) (fetch.Session, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(r.cfg.SessionRetryDelay),
			sessionAttempts-1,
		),
		ctx,
	)

	return backoff.RetryWithData(func() (fetch.Session, error) {
		return r.factory.New(ctx)
	}, policy)
}

// sleepOrCancel sleeps for the given delay unless the context ends first.
func sleepOrCancel(ctx context.Context, delay time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
