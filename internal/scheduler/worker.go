package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher performs the publish transition. Satisfied by database.Store.
type Publisher interface {
	PublishPost(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

// Worker polls the queue and publishes due drafts. The store-side is_draft
// guard makes the transition idempotent, so a crash between publish and
// queue removal only causes a harmless no-op retry.
type Worker struct {
	queue    Queue
	store    Publisher
	interval time.Duration
}

func NewWorker(queue Queue, store Publisher, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Worker{
		queue:    queue,
		store:    store,
		interval: interval,
	}
}

// Run polls until the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("publish worker started", "interval", w.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("publish worker stopped")
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick publishes everything due at the time of the call.
func (w *Worker) Tick(ctx context.Context) {
	tasks, err := w.queue.Due(ctx, time.Now())
	if err != nil {
		slog.Error("failed to read publish queue", "error", err)
		return
	}

	for _, task := range tasks {
		published, err := w.store.PublishPost(ctx, task.PostID, task.PublishAt)
		if err != nil {
			// Leave the task queued so the next tick retries it.
			slog.Error("failed to publish post", "postId", task.PostID, "error", err)
			continue
		}
		if published {
			slog.Info("published scheduled post", "postId", task.PostID, "publishAt", task.PublishAt)
		}
		if err := w.queue.Remove(ctx, task.PostID); err != nil {
			slog.Error("failed to remove published task", "postId", task.PostID, "error", err)
		}
	}
}
