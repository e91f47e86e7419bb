package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail   = "jobs:email"
	QueueWebhook = "jobs:webhook"
)

const (
	JobEmail   = "email"
	JobWebhook = "webhook"
)

// RedisClient is the subset of *redis.Client used by the dispatcher, the pool
// and the cron.
type RedisClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb RedisClient
}

func NewDispatcher(rdb RedisClient) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

// EnqueueWebhook pushes a webhook delivery job to Redis.
func (d *Dispatcher) EnqueueWebhook(ctx context.Context, event WebhookEvent) error {
	return d.enqueue(ctx, QueueWebhook, JobWebhook, event)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

type listPusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

func push(ctx context.Context, rdb listPusher, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// HandlerFunc processes one job payload. A returned error schedules a retry.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

type handler struct {
	queue       string
	maxAttempts int
	fn          HandlerFunc
}

// Pool runs a fixed number of goroutines consuming every registered queue.
type Pool struct {
	rdb      RedisClient
	size     int
	handlers map[string]handler
	queues   []string
	backoff  time.Duration // pause after a failed queue read
}

func NewPool(rdb RedisClient, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{rdb: rdb, size: size, handlers: map[string]handler{}, backoff: time.Second}
}

// Handle registers fn for jobType read from queue. After maxAttempts failed
// runs the job is moved to the DLQ.
func (p *Pool) Handle(queue, jobType string, maxAttempts int, fn HandlerFunc) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	p.handlers[jobType] = handler{queue: queue, maxAttempts: maxAttempts, fn: fn}
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Run blocks until ctx is cancelled and every worker goroutine has returned.
// Each goroutine blocks on BRPOP: zero CPU when idle.
func (p *Pool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.runWorker(ctx, id)
		}(i)
	}
	log.Info().Int("workers", p.size).Strs("queues", p.queues).Msg("worker pool started")
	wg.Wait()
	return nil
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	failing := false
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || ctx.Err() != nil {
					continue // timeout or context cancelled
				}
				if !failing {
					log.Error().Err(err).Int("worker", id).Msg("worker: queue read failed, backing off")
					failing = true
				}
				select {
				case <-ctx.Done():
				case <-time.After(p.backoff):
				}
				continue
			}
			if failing {
				log.Info().Int("worker", id).Msg("worker: queue reads recovered")
				failing = false
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		p.deadLetter(ctx, DeadLetter{Queue: queue, Raw: raw, Reason: "invalid envelope"})
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		p.deadLetter(ctx, DeadLetter{Queue: queue, Job: job, Reason: "no handler registered"})
		return
	}

	err := h.fn(ctx, job.Payload)
	if err == nil {
		return
	}

	job.Attempts++
	log.Warn().Err(err).
		Str("type", job.Type).
		Str("queue", queue).
		Int("attempts", job.Attempts).
		Msg("job failed")

	if job.Attempts >= h.maxAttempts {
		p.deadLetter(ctx, DeadLetter{Queue: queue, Job: job, Reason: err.Error()})
		return
	}
	if err := push(ctx, p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to re-enqueue job")
	}
}
