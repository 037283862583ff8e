// Package scheduler defers draft posts until their scheduled publish time.
package scheduler

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const queueKey = "publish_queue"

// Task is one pending publish transition.
type Task struct {
	PostID    uuid.UUID
	PublishAt time.Time
}

// Queue holds scheduled publish tasks keyed by post id.
type Queue interface {
	Schedule(ctx context.Context, postID uuid.UUID, at time.Time) error
	Due(ctx context.Context, now time.Time) ([]Task, error)
	Remove(ctx context.Context, postID uuid.UUID) error
}

// RedisQueue keeps tasks in a sorted set scored by the target unix time.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(addr, password string, db int) *RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Schedule(ctx context.Context, postID uuid.UUID, at time.Time) error {
	return q.client.ZAdd(ctx, queueKey, redis.Z{
		Score:  float64(at.Unix()),
		Member: postID.String(),
	}).Err()
}

func (q *RedisQueue) Due(ctx context.Context, now time.Time) ([]Task, error) {
	entries, err := q.client.ZRangeByScoreWithScores(ctx, queueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(entries))
	for _, entry := range entries {
		member, ok := entry.Member.(string)
		if !ok {
			continue
		}
		postID, err := uuid.Parse(member)
		if err != nil {
			// Junk member; drop it so it never clogs the queue.
			q.client.ZRem(ctx, queueKey, member)
			continue
		}
		tasks = append(tasks, Task{
			PostID:    postID,
			PublishAt: time.Unix(int64(entry.Score), 0),
		})
	}
	return tasks, nil
}

func (q *RedisQueue) Remove(ctx context.Context, postID uuid.UUID) error {
	return q.client.ZRem(ctx, queueKey, postID.String()).Err()
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// MemoryQueue is an in-process queue used in tests and single-node
// development setups.
type MemoryQueue struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]time.Time
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{tasks: make(map[uuid.UUID]time.Time)}
}

func (q *MemoryQueue) Schedule(ctx context.Context, postID uuid.UUID, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks[postID] = at
	return nil
}

func (q *MemoryQueue) Due(ctx context.Context, now time.Time) ([]Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks := []Task{}
	for postID, at := range q.tasks {
		if !at.After(now) {
			tasks = append(tasks, Task{PostID: postID, PublishAt: at})
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].PublishAt.Before(tasks[j].PublishAt) })
	return tasks, nil
}

func (q *MemoryQueue) Remove(ctx context.Context, postID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.tasks, postID)
	return nil
}
