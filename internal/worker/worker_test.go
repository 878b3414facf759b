package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupWorker(t *testing.T, queues ...string) (*Worker, *JobQueue) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	w := NewWorker(WorkerConfig{
		RedisClient: client,
		Queues:      queues,
	})
	return w, NewJobQueue(client)
}

func TestWorkerProcessesJob(t *testing.T) {
	w, queue := setupWorker(t, "default")

	var processed int64
	w.RegisterHandler(JobTypeTokenCleanup, func(ctx context.Context, job *Job) error {
		atomic.AddInt64(&processed, 1)
		return nil
	})

	if err := queue.Enqueue("default", JobTypeTokenCleanup, nil); err != nil {
		t.Fatalf("Failed to enqueue job: %v", err)
	}

	w.Start(1)
	defer w.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt64(&processed) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if atomic.LoadInt64(&processed) != 1 {
		t.Errorf("Expected 1 processed job, got %d", processed)
	}
}

func TestWorkerRetriesFailedJob(t *testing.T) {
	w, queue := setupWorker(t, "default")

	var attempts int64
	w.RegisterHandler(JobTypeReminderDigest, func(ctx context.Context, job *Job) error {
		atomic.AddInt64(&attempts, 1)
		return errors.New("transient failure")
	})

	if err := queue.Enqueue("default", JobTypeReminderDigest, nil); err != nil {
		t.Fatalf("Failed to enqueue job: %v", err)
	}

	w.Start(1)
	defer w.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt64(&attempts) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if atomic.LoadInt64(&attempts) != 1 {
		t.Fatalf("Expected 1 attempt, got %d", attempts)
	}

	// The failed job goes to the retry queue with a backoff delay.
	size, err := queue.GetQueueSize("retry_queue")
	if err != nil {
		t.Fatalf("Failed to read retry queue size: %v", err)
	}
	if size != 1 {
		t.Errorf("Expected 1 job in retry queue, got %d", size)
	}
}

func TestWorkerMovesExhaustedJobToDeadQueue(t *testing.T) {
	w, queue := setupWorker(t, "default")

	w.RegisterHandler(JobTypeTokenCleanup, func(ctx context.Context, job *Job) error {
		return errors.New("permanent failure")
	})

	// MaxTries 1 so the first failure is terminal.
	job := &Job{
		ID:        "job-1",
		Type:      JobTypeTokenCleanup,
		MaxTries:  1,
		CreatedAt: time.Now(),
		ProcessAt: time.Now(),
	}
	if err := w.enqueueJob("default", job); err != nil {
		t.Fatalf("Failed to enqueue job: %v", err)
	}

	w.Start(1)
	defer w.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		size, _ := queue.GetQueueSize(deadQueue)
		if size == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Error("Expected the job to land in the dead queue")
}

func TestJobQueueSize(t *testing.T) {
	_, queue := setupWorker(t, "default")

	for i := 0; i < 3; i++ {
		if err := queue.Enqueue("maintenance", JobTypeTokenCleanup, nil); err != nil {
			t.Fatalf("Failed to enqueue job: %v", err)
		}
	}

	size, err := queue.GetQueueSize("maintenance")
	if err != nil {
		t.Fatalf("Failed to read queue size: %v", err)
	}
	if size != 3 {
		t.Errorf("Expected queue size 3, got %d", size)
	}
}
