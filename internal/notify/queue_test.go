package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, Message{ChatID: 1, Text: "a"}))
	assert.ErrorIs(t, q.Enqueue(ctx, Message{ChatID: 2, Text: "b"}), ErrQueueFull)
	assert.Equal(t, 1, q.Len())

	msg, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.ChatID)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = q.Dequeue(cctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), ContextTimeoutEnabled: true})
	t.Cleanup(func() { client.Close() })

	q := NewRedisQueue(client, "")
	ctx := context.Background()

	first := Message{ChatID: 10, Text: "<b>hi</b>", ButtonText: "View Group", ButtonURL: "https://app"}
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, Message{ChatID: 11, Text: "second"}))

	n, err := client.LLen(ctx, DefaultRedisKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got, "queue is FIFO")

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ChatID)

	cctx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = q.Dequeue(cctx)
	assert.Error(t, err)
}
