package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
)

func TestMemoryIdempotencyStore_Replay(t *testing.T) {
	s := NewMemoryIdempotencyStore(time.Hour)
	ctx := context.Background()

	replay, err := s.AcquireKey(ctx, "k1", "u1", "POST /sales", "hash")
	require.NoError(t, err)
	assert.Nil(t, replay)

	// Same key while the first request is still running.
	_, err = s.AcquireKey(ctx, "k1", "u1", "POST /sales", "hash")
	assert.True(t, apperror.HasCode(err, apperror.CodeIdempotency))

	require.NoError(t, s.CompleteKey(ctx, "k1", 201, "application/json", map[string]string{"id": "42"}))

	replay, err = s.AcquireKey(ctx, "k1", "u1", "POST /sales", "hash")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, 201, replay.StatusCode)
	assert.JSONEq(t, `{"id":"42"}`, string(replay.Body))
}

func TestMemoryIdempotencyStore_Mismatch(t *testing.T) {
	s := NewMemoryIdempotencyStore(time.Hour)
	ctx := context.Background()

	_, err := s.AcquireKey(ctx, "k1", "u1", "POST /sales", "hash-a")
	require.NoError(t, err)

	_, err = s.AcquireKey(ctx, "k1", "u1", "POST /sales", "hash-b")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Idempotency key mismatch", appErr.Message)
}

func TestMemoryIdempotencyStore_FailedReplayAndExpiry(t *testing.T) {
	s := NewMemoryIdempotencyStore(time.Millisecond)
	ctx := context.Background()

	_, err := s.AcquireKey(ctx, "k1", "u1", "POST /packaging", "h")
	require.NoError(t, err)
	require.NoError(t, s.FailKey(ctx, "k1", 400, "application/json", map[string]any{"success": false}))

	time.Sleep(5 * time.Millisecond)

	replay, err := s.AcquireKey(ctx, "k1", "u1", "POST /packaging", "h")
	require.NoError(t, err)
	assert.Nil(t, replay, "expired keys are acquired afresh")
}

func TestResolve_StalePendingIsReclaimed(t *testing.T) {
	rec := &IdempotencyRecord{
		UserID:      "u1",
		Operation:   "POST /sales",
		Status:      IdempotencyStatusPending,
		RequestHash: "h",
		UpdatedAt:   time.Now().Add(-2 * StalePendingAfter),
	}

	replay, reclaim, err := resolve("k", rec, "u1", "POST /sales", "h")
	require.NoError(t, err)
	assert.Nil(t, replay)
	assert.True(t, reclaim)
}

func TestFinish_StoresResponse(t *testing.T) {
	rec := &IdempotencyRecord{Status: IdempotencyStatusPending}
	require.NoError(t, finish(rec, IdempotencyStatusSuccess, 204, "", nil))
	assert.Nil(t, rec.Response)

	require.NoError(t, finish(rec, IdempotencyStatusSuccess, 200, "application/json", []int{1, 2}))
	var back []int
	require.NoError(t, json.Unmarshal(rec.Response, &back))
	assert.Equal(t, []int{1, 2}, back)
}
