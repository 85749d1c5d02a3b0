// Package mail provides the email job queue and the SMTP delivery used
// by the worker binary. The API server only enqueues; delivery happens
// out of process with its own retry policy.
package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// queueKey is the Redis list holding pending email jobs.
const queueKey = "tack:mail:queue"

// Job is one email to deliver. Attempt counts are tracked by the worker
// when it re-enqueues a failed job.
type Job struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Attempt int    `json:"attempt"`
}

// Queue is a Redis-list backed email job queue.
type Queue struct {
	client *redis.Client
}

// NewQueue connects to Redis and verifies the connection.
func NewQueue(ctx context.Context, addr, password string, db int) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("mail.NewQueue: ping: %w", err)
	}

	return &Queue{client: client}, nil
}

// NewQueueFromClient wraps an existing Redis client. The caller keeps
// ownership of the client; Close must not be called on the queue.
func NewQueueFromClient(client *redis.Client) *Queue {
	return &Queue{client: client}
}

func (q *Queue) Close() error {
	if err := q.client.Close(); err != nil {
		return fmt.Errorf("mail.Queue.Close: %w", err)
	}
	return nil
}

// Enqueue pushes a job onto the queue. It does not wait for delivery.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("mail.Queue.Enqueue: marshal: %w", err)
	}

	if err := q.client.LPush(ctx, queueKey, payload).Err(); err != nil {
		return fmt.Errorf("mail.Queue.Enqueue: %w", err)
	}

	return nil
}

// Dequeue blocks up to timeout for the next job. Returns ErrEmpty when
// the timeout elapses with no job available.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (Job, error) {
	res, err := q.client.BRPop(ctx, timeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return Job{}, ErrEmpty
	}
	if err != nil {
		return Job{}, fmt.Errorf("mail.Queue.Dequeue: %w", err)
	}

	// BRPOP returns [key, value].
	if len(res) != 2 {
		return Job{}, fmt.Errorf("mail.Queue.Dequeue: unexpected reply length %d", len(res))
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return Job{}, fmt.Errorf("mail.Queue.Dequeue: unmarshal: %w", err)
	}

	return job, nil
}

// ErrEmpty is returned by Dequeue when no job arrived within the timeout.
var ErrEmpty = errors.New("mail: queue empty")
