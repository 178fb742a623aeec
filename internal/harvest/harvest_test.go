package harvest_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/fetch"
	"github.com/jonesrussell/matchcrawl/internal/harvest"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// fakeSession serves canned outcomes keyed by URL and records fetch order.
type fakeSession struct {
	factory *fakeFactory
}

func (s *fakeSession) Fetch(_ context.Context, url string) (*goquery.Document, error) {
	s.factory.mu.Lock()
	s.factory.fetches = append(s.factory.fetches, url)
	attempt := s.factory.attempts[url]
	s.factory.attempts[url]++
	s.factory.mu.Unlock()

	if failures, ok := s.factory.failFirst[url]; ok && attempt < failures {
		return nil, fmt.Errorf("fetch %s: connection reset", url)
	}
	if s.factory.notFound[url] {
		return nil, fmt.Errorf("%s: %w", url, fetch.ErrNotFound)
	}

	return goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
}

func (s *fakeSession) Close() error {
	s.factory.mu.Lock()
	s.factory.closed++
	s.factory.mu.Unlock()
	return nil
}

// fakeFactory builds fake sessions and can fail construction a fixed number
// of times.
type fakeFactory struct {
	mu       sync.Mutex
	fetches  []string
	attempts map[string]int
	closed   int
	created  int

	failFirst map[string]int
	notFound  map[string]bool

	constructionFailures int
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		attempts:  map[string]int{},
		failFirst: map[string]int{},
		notFound:  map[string]bool{},
	}
}

func (f *fakeFactory) New(_ context.Context) (fetch.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.constructionFailures > 0 {
		f.constructionFailures--
		return nil, errors.New("browser did not start")
	}

	f.created++
	return &fakeSession{factory: f}, nil
}

// identityAssembler returns a record carrying only identity fields.
type identityAssembler struct{}

func (identityAssembler) Assemble(_ context.Context, _ *goquery.Document, id domain.Identity) domain.Match {
	return domain.NewMatch(id)
}

// countingReporter records progress calls.
type countingReporter struct {
	mu         sync.Mutex
	total      int
	increments int
	done       bool
}

func (r *countingReporter) Start(total int) {
	r.mu.Lock()
	r.total = total
	r.mu.Unlock()
}

func (r *countingReporter) Increment() {
	r.mu.Lock()
	r.increments++
	r.mu.Unlock()
}

func (r *countingReporter) Done() {
	r.mu.Lock()
	r.done = true
	r.mu.Unlock()
}

func makeTasks(n int) []domain.Task {
	tasks := make([]domain.Task, 0, n)
	for i := 1; i <= n; i++ {
		tasks = append(tasks, domain.Task{
			Identity: domain.Identity{Season: 2025, League: "K리그1", GameID: i},
			URL:      fmt.Sprintf("https://example.com/match/%d", i),
		})
	}
	return tasks
}

func fastConfig(mode harvest.Mode, workers int) harvest.Config {
	return harvest.Config{
		Mode:              mode,
		Workers:           workers,
		FetchDelay:        time.Millisecond,
		SessionRetryDelay: time.Millisecond,
	}
}

func gameIDs(records domain.Dataset) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.GameID)
	}
	sort.Ints(ids)
	return ids
}

func TestRunSequentialCompleteness(t *testing.T) {
	factory := newFakeFactory()
	reporter := &countingReporter{}
	runner := harvest.NewRunner(factory, identityAssembler{}, logger.NewNoOp(), reporter, fastConfig(harvest.Sequential, 0))

	tasks := makeTasks(5)
	result, err := runner.Run(context.Background(), tasks)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Records) != 5 {
		t.Fatalf("records = %d, want 5", len(result.Records))
	}
	if result.Retried != 0 || len(result.Failures) != 0 {
		t.Errorf("expected a clean run, got retried=%d failed=%d", result.Retried, len(result.Failures))
	}
	if result.RunID == "" {
		t.Error("run id must be set")
	}

	// Sequential mode preserves input order.
	for i, record := range result.Records {
		if record.GameID != i+1 {
			t.Fatalf("record %d has game id %d, order not preserved", i, record.GameID)
		}
	}

	// Every session was released.
	if factory.closed != factory.created {
		t.Errorf("created %d sessions but closed %d", factory.created, factory.closed)
	}

	if reporter.total != 5 || reporter.increments != 5 || !reporter.done {
		t.Errorf("progress = %d/%d done=%v", reporter.increments, reporter.total, reporter.done)
	}
}

func TestRunRetriesAfterFirstPass(t *testing.T) {
	factory := newFakeFactory()
	// Tasks 2 and 4 fail once, then succeed on retry.
	factory.failFirst["https://example.com/match/2"] = 1
	factory.failFirst["https://example.com/match/4"] = 1

	runner := harvest.NewRunner(factory, identityAssembler{}, logger.NewNoOp(), nil, fastConfig(harvest.Sequential, 0))

	result, err := runner.Run(context.Background(), makeTasks(5))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Records) != 5 {
		t.Fatalf("records = %d, want 5 after retries", len(result.Records))
	}
	if result.Retried != 2 {
		t.Errorf("retried = %d, want 2", result.Retried)
	}
	if len(result.Failures) != 0 {
		t.Errorf("failures = %d, want 0", len(result.Failures))
	}

	// Retries run only after the whole first pass: the second fetch of
	// task 2 must come after the first fetch of task 5.
	firstOf5, secondOf2 := -1, -1
	seen2 := 0
	for i, url := range factory.fetches {
		if url == "https://example.com/match/5" && firstOf5 == -1 {
			firstOf5 = i
		}
		if url == "https://example.com/match/2" {
			seen2++
			if seen2 == 2 {
				secondOf2 = i
			}
		}
	}
	if secondOf2 < firstOf5 {
		t.Errorf("retry of task 2 at %d ran before first pass finished at %d", secondOf2, firstOf5)
	}
}

func TestRunFailureAfterRetry(t *testing.T) {
	factory := newFakeFactory()
	// Task 3 fails on both attempts.
	factory.failFirst["https://example.com/match/3"] = 2

	runner := harvest.NewRunner(factory, identityAssembler{}, logger.NewNoOp(), nil, fastConfig(harvest.Sequential, 0))

	result, err := runner.Run(context.Background(), makeTasks(3))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
	if result.Retried != 1 {
		t.Errorf("retried = %d, want 1", result.Retried)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(result.Failures))
	}

	failure := result.Failures[0]
	if failure.Task.Identity.GameID != 3 {
		t.Errorf("failed task = %d, want 3", failure.Task.Identity.GameID)
	}
	if failure.State != domain.TaskFailedFinal {
		t.Errorf("failure state = %s, want %s", failure.State, domain.TaskFailedFinal)
	}
}

func TestRunNotFoundSkipsRetry(t *testing.T) {
	factory := newFakeFactory()
	factory.notFound["https://example.com/match/2"] = true

	runner := harvest.NewRunner(factory, identityAssembler{}, logger.NewNoOp(), nil, fastConfig(harvest.Sequential, 0))

	result, err := runner.Run(context.Background(), makeTasks(3))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
	// An absent page is terminal: no retry attempt is spent on it.
	if result.Retried != 0 {
		t.Errorf("retried = %d, want 0 for a not-found page", result.Retried)
	}
	if len(result.Failures) != 1 || !errors.Is(result.Failures[0].Err, fetch.ErrNotFound) {
		t.Fatalf("expected one not-found failure, got %+v", result.Failures)
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	tasks := makeTasks(20)

	sequential := harvest.NewRunner(newFakeFactory(), identityAssembler{}, logger.NewNoOp(), nil, fastConfig(harvest.Sequential, 0))
	seqResult, err := sequential.Run(context.Background(), tasks)
	if err != nil {
		t.Fatalf("sequential run: %v", err)
	}

	parallel := harvest.NewRunner(newFakeFactory(), identityAssembler{}, logger.NewNoOp(), nil, fastConfig(harvest.Parallel, 4))
	parResult, err := parallel.Run(context.Background(), tasks)
	if err != nil {
		t.Fatalf("parallel run: %v", err)
	}

	// Parallel completion order is unspecified; the record sets match.
	seqIDs := gameIDs(seqResult.Records)
	parIDs := gameIDs(parResult.Records)
	if len(seqIDs) != len(parIDs) {
		t.Fatalf("sequential produced %d records, parallel %d", len(seqIDs), len(parIDs))
	}
	for i := range seqIDs {
		if seqIDs[i] != parIDs[i] {
			t.Fatalf("record sets differ at %d: %d vs %d", i, seqIDs[i], parIDs[i])
		}
	}
}

func TestRunSessionConstructionRetried(t *testing.T) {
	factory := newFakeFactory()
	// Construction fails twice; the third attempt succeeds within the
	// per-task bound.
	factory.constructionFailures = 2

	runner := harvest.NewRunner(factory, identityAssembler{}, logger.NewNoOp(), nil, fastConfig(harvest.Sequential, 0))

	result, err := runner.Run(context.Background(), makeTasks(1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(result.Records))
	}
	if len(result.Failures) != 0 {
		t.Errorf("failures = %d, want 0", len(result.Failures))
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := harvest.NewRunner(newFakeFactory(), identityAssembler{}, logger.NewNoOp(), nil, fastConfig(harvest.Sequential, 0))

	_, err := runner.Run(ctx, makeTasks(3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
