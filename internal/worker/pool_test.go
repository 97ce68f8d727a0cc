package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// mockJob returns an error when shouldErr is set
type mockJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *int32
}

func (j *mockJob) Execute(ctx context.Context) error {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if j.shouldErr {
		return errors.New("job error")
	}
	return nil
}

func TestNewPool(t *testing.T) {
	p1 := NewPool[error](context.Background(), 5)
	if p1.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p1.workers)
	}

	p2 := NewPool[error](context.Background(), 0)
	if p2.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p2.workers)
	}

	p3 := NewPool[error](context.Background(), -1)
	if p3.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p3.workers)
	}
}

func TestPool_Run(t *testing.T) {
	var executed int32
	count := 10

	jobs := make([]Job[error], count)
	for i := range jobs {
		jobs[i] = &mockJob{executed: &executed}
	}

	results := NewPool[error](context.Background(), 2).Run(jobs)

	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
}

func TestPool_Run_ManyJobsDoNotDeadlock(t *testing.T) {
	// Far more jobs than the queue and results buffers can hold
	jobs := make([]Job[int], 500)
	for i := range jobs {
		n := i
		jobs[i] = JobFunc[int](func(ctx context.Context) int { return n })
	}

	done := make(chan []int)
	go func() {
		done <- NewPool[int](context.Background(), 2).Run(jobs)
	}()

	select {
	case results := <-done:
		if len(results) != 500 {
			t.Errorf("expected 500 results, got %d", len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run deadlocked")
	}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 10

	var current int32
	var maxConcurrent int32
	var completed int32
	var mu sync.Mutex

	totalJobs := 50
	jobs := make([]Job[error], totalJobs)
	for i := range jobs {
		jobs[i] = JobFunc[error](func(ctx context.Context) error {
			curr := atomic.AddInt32(&current, 1)
			mu.Lock()
			if curr > maxConcurrent {
				maxConcurrent = curr
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			atomic.AddInt32(&current, -1)
			atomic.AddInt32(&completed, 1)
			return nil
		})
	}

	NewPool[error](context.Background(), workers).Run(jobs)

	if atomic.LoadInt32(&completed) != int32(totalJobs) {
		t.Errorf("expected %d completed jobs, got %d", totalJobs, completed)
	}

	mu.Lock()
	max := maxConcurrent
	mu.Unlock()

	if max > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", max, workers)
	}
}

func TestPool_ErrorHandling(t *testing.T) {
	jobs := []Job[error]{
		&mockJob{shouldErr: true},
		&mockJob{shouldErr: false},
	}

	results := NewPool[error](context.Background(), 2).Run(jobs)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failures := 0
	for _, err := range results {
		if err != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected 1 error, got %d", failures)
	}
}

func TestPool_Run_ReleasesContext(t *testing.T) {
	pool := NewPool[error](context.Background(), 2)
	pool.Run([]Job[error]{&mockJob{}, &mockJob{}})

	if !errors.Is(pool.ctx.Err(), context.Canceled) {
		t.Errorf("expected pool context cancelled after Run, got %v", pool.ctx.Err())
	}
}

func TestPool_Run_EmptyJobs(t *testing.T) {
	pool := NewPool[error](context.Background(), 2)

	if results := pool.Run(nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if pool.ctx.Err() == nil {
		t.Error("expected pool context released after Run")
	}
}

func TestPool_ParentContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job[error]{&mockJob{}, &mockJob{}, &mockJob{}}
	results := NewPool[error](ctx, 1).Run(jobs)

	if len(results) > len(jobs) {
		t.Errorf("expected at most %d results, got %d", len(jobs), len(results))
	}
}
