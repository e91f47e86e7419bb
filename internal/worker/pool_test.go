package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDispatcher_EnqueueWebhook(t *testing.T) {
	rdb := newFakeRedis()
	d := NewDispatcher(rdb)

	ev := WebhookEvent{Event: EventPurchaseOrderReceived, PurchaseOrderID: "po-1", Status: "Recebido"}
	require.NoError(t, d.EnqueueWebhook(context.Background(), ev))

	raw, _, ok := rdb.pop(QueueWebhook)
	require.True(t, ok)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, JobWebhook, job.Type)
	assert.Zero(t, job.Attempts)

	var got WebhookEvent
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, ev, got)
}

func TestPool_RetriesThenDeadLetters(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	p := NewPool(rdb, 1)

	calls := 0
	p.Handle(QueueWebhook, JobWebhook, 3, func(context.Context, json.RawMessage) error {
		calls++
		return errors.New("receiver down")
	})

	require.NoError(t, NewDispatcher(rdb).EnqueueWebhook(ctx, WebhookEvent{Event: EventPurchaseOrderOverdue}))
	for i := 0; i < 3; i++ {
		raw, queue, ok := rdb.pop(QueueWebhook)
		require.True(t, ok, "attempt %d must be queued", i+1)
		p.processJob(ctx, queue, raw)
	}

	assert.Equal(t, 3, calls)
	assert.Zero(t, rdb.len(QueueWebhook))

	n, err := DLQLength(ctx, rdb, QueueWebhook)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	parked, err := PeekDeadLetters(ctx, rdb, QueueWebhook, 10)
	require.NoError(t, err)
	require.Len(t, parked, 1)
	assert.Equal(t, 3, parked[0].Job.Attempts)
	assert.Equal(t, "receiver down", parked[0].Reason)
	assert.Equal(t, JobWebhook, parked[0].Job.Type)
	assert.Equal(t, QueueWebhook, parked[0].Queue)

	moved, err := RequeueDeadLetters(ctx, rdb, QueueWebhook)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	assert.Zero(t, rdb.len(DLQPrefix+QueueWebhook))

	raw, _, ok := rdb.pop(QueueWebhook)
	require.True(t, ok)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Zero(t, job.Attempts, "requeue resets attempts")
}

func TestPool_UnknownJobTypeGoesToDLQ(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	p := NewPool(rdb, 1)

	p.processJob(ctx, QueueEmail, `{"type":"fax","payload":{}}`)
	p.processJob(ctx, QueueEmail, `not json`)
	assert.Equal(t, 2, rdb.len(DLQPrefix+QueueEmail))

	moved, err := RequeueDeadLetters(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.Equal(t, 1, moved, "undecodable envelope is dropped on requeue")
}

func TestPool_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	rdb := newFakeRedis()
	p := NewPool(rdb, 3)

	var handled atomic.Int32
	p.Handle(QueueEmail, JobEmail, 1, func(context.Context, json.RawMessage) error {
		handled.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = p.Run(ctx)
		close(done)
	}()

	d := NewDispatcher(rdb)
	require.NoError(t, d.EnqueueEmail(ctx, EmailJobPayload{ToEmail: "a@b.com"}))
	require.NoError(t, d.EnqueueEmail(ctx, EmailJobPayload{ToEmail: "c@d.com"}))

	require.Eventually(t, func() bool { return handled.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool did not stop after cancel")
	}
}

// downRedis fails every queue read the way go-redis does when the server is unreachable.
type downRedis struct {
	*fakeRedis
	reads atomic.Int32
}

func (d *downRedis) BRPop(context.Context, time.Duration, ...string) *redis.StringSliceCmd {
	d.reads.Add(1)
	return redis.NewStringSliceResult(nil, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"))
}

func TestPool_BacksOffWhileRedisIsDown(t *testing.T) {
	defer goleak.VerifyNone(t)

	rdb := &downRedis{fakeRedis: newFakeRedis()}
	p := NewPool(rdb, 1)
	p.backoff = 50 * time.Millisecond
	p.Handle(QueueEmail, JobEmail, 1, func(context.Context, json.RawMessage) error { return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	start := time.Now()
	require.NoError(t, p.Run(ctx))

	assert.LessOrEqual(t, rdb.reads.Load(), int32(4), "each failed read waits for the backoff")
	assert.GreaterOrEqual(t, rdb.reads.Load(), int32(2))
	assert.Less(t, time.Since(start), time.Second, "cancel interrupts the backoff")
}
