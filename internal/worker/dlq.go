package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces dead-letter lists: dlq:<queue>.
const DLQPrefix = "dlq:"

// DeadLetter is a job the pool gave up on. Raw holds the original message
// when it could not be decoded into a Job.
type DeadLetter struct {
	Queue    string    `json:"queue"`
	Job      Job       `json:"job"`
	Raw      string    `json:"raw,omitempty"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// DeadLetterStore is the subset of *redis.Client used to inspect and drain
// dead-letter lists.
type DeadLetterStore interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	RPop(ctx context.Context, key string) *redis.StringCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

func (p *Pool) deadLetter(ctx context.Context, dl DeadLetter) {
	dl.FailedAt = time.Now().UTC()
	data, err := json.Marshal(dl)
	if err != nil {
		log.Error().Err(err).Str("queue", dl.Queue).Msg("dlq: marshal entry")
		return
	}
	if err := p.rdb.LPush(ctx, DLQPrefix+dl.Queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", dl.Queue).Msg("dlq: push entry")
		return
	}
	log.Warn().
		Str("queue", dl.Queue).
		Str("job_type", dl.Job.Type).
		Int("attempts", dl.Job.Attempts).
		Str("reason", dl.Reason).
		Msg("job moved to dead letter queue")
}

// DLQLength returns how many jobs of queue are parked.
func DLQLength(ctx context.Context, rdb RedisClient, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// PeekDeadLetters returns up to limit parked jobs of queue, newest first,
// without removing them.
func PeekDeadLetters(ctx context.Context, rdb DeadLetterStore, queue string, limit int64) ([]DeadLetter, error) {
	if limit <= 0 {
		return nil, nil
	}
	raws, err := rdb.LRange(ctx, DLQPrefix+queue, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("dlq: read %s: %w", queue, err)
	}
	out := make([]DeadLetter, 0, len(raws))
	for _, raw := range raws {
		var dl DeadLetter
		if err := json.Unmarshal([]byte(raw), &dl); err != nil {
			return nil, fmt.Errorf("dlq: decode entry: %w", err)
		}
		out = append(out, dl)
	}
	return out, nil
}

// RequeueDeadLetters moves every decodable parked job of queue back onto the
// queue with its attempt counter reset. Entries without a job type stay out.
func RequeueDeadLetters(ctx context.Context, rdb DeadLetterStore, queue string) (int, error) {
	moved := 0
	for {
		raw, err := rdb.RPop(ctx, DLQPrefix+queue).Result()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("dlq: pop %s: %w", queue, err)
		}

		var dl DeadLetter
		if err := json.Unmarshal([]byte(raw), &dl); err != nil || dl.Job.Type == "" {
			log.Warn().Str("queue", queue).Msg("dlq: dropping undecodable entry")
			continue
		}
		dl.Job.Attempts = 0
		if err := push(ctx, rdb, queue, dl.Job); err != nil {
			return moved, err
		}
		moved++
	}
}
