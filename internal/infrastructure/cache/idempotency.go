package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"blendery/internal/core/apperror"
)

// IdempotencyStatus represents the state of an idempotent operation.
type IdempotencyStatus string

const (
	IdempotencyStatusPending IdempotencyStatus = "pending"
	IdempotencyStatusSuccess IdempotencyStatus = "success"
	IdempotencyStatusFailed  IdempotencyStatus = "failed"
)

// StalePendingAfter is how long a pending key may stay unfinished before
// another request may reclaim it (the first one most likely crashed).
const StalePendingAfter = time.Minute

// IdempotencyRecord is the stored state of one key.
type IdempotencyRecord struct {
	UserID      string            `json:"userId"`
	Operation   string            `json:"operation"`
	Status      IdempotencyStatus `json:"status"`
	RequestHash string            `json:"requestHash"`
	Response    []byte            `json:"response,omitempty"`
	StatusCode  int               `json:"statusCode,omitempty"`
	ContentType string            `json:"contentType,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// IdempotencyReplay is the cached HTTP response for replay.
type IdempotencyReplay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IdempotencyStore manages Idempotency-Key state.
//
// AcquireKey returns:
//   - (nil, nil) if the key was acquired by this request
//   - (replay, nil) if the operation already finished
//   - (nil, err) if the key is in use or was issued for another request
type IdempotencyStore interface {
	AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*IdempotencyReplay, error)
	CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
	FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
}

// resolve decides what an existing record means for a new request.
// reclaim is true when a stale pending record may be taken over.
func resolve(key string, rec *IdempotencyRecord, userID, operation, requestHash string) (replay *IdempotencyReplay, reclaim bool, err error) {
	if rec.UserID != userID || rec.Operation != operation || rec.RequestHash != requestHash {
		return nil, false, apperror.NewIdempotencyMismatch(key).
			WithDetail("stored_operation", rec.Operation).
			WithDetail("request_operation", operation)
	}

	switch rec.Status {
	case IdempotencyStatusSuccess, IdempotencyStatusFailed:
		return &IdempotencyReplay{
			StatusCode:  normalizeReplayStatus(rec.StatusCode),
			ContentType: normalizeReplayContentType(rec.ContentType),
			Body:        rec.Response,
		}, false, nil
	}

	if time.Since(rec.UpdatedAt) > StalePendingAfter {
		return nil, true, nil
	}
	return nil, false, apperror.NewIdempotencyConflict(key)
}

func finish(rec *IdempotencyRecord, status IdempotencyStatus, statusCode int, contentType string, response any) error {
	rec.Status = status
	rec.StatusCode = statusCode
	rec.ContentType = contentType
	rec.UpdatedAt = time.Now().UTC()
	rec.Response = nil
	if response != nil {
		b, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		rec.Response = b
	}
	return nil
}

func normalizeReplayStatus(status int) int {
	if status == 0 {
		return 200
	}
	return status
}

func normalizeReplayContentType(ct string) string {
	if ct == "" {
		return "application/json"
	}
	return ct
}

// RedisIdempotencyStore keeps one JSON record per key with a TTL, shared
// by every instance of the service.
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisIdempotencyStore creates a store with an existing client.
func NewRedisIdempotencyStore(client redis.UniversalClient, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, keyPrefix: "blendery:idempotency:", ttl: ttl}
}

func (s *RedisIdempotencyStore) load(ctx context.Context, key string) (*IdempotencyRecord, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if err != nil {
		return nil, err
	}
	var rec IdempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &rec, nil
}

func (s *RedisIdempotencyStore) AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*IdempotencyReplay, error) {
	rec := IdempotencyRecord{
		UserID:      userID,
		Operation:   operation,
		Status:      IdempotencyStatusPending,
		RequestHash: requestHash,
		UpdatedAt:   time.Now().UTC(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	created, err := s.client.SetNX(ctx, s.keyPrefix+key, raw, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}
	if created {
		return nil, nil
	}

	existing, err := s.load(ctx, key)
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET.
		return s.AcquireKey(ctx, key, userID, operation, requestHash)
	}
	if err != nil {
		return nil, fmt.Errorf("load idempotency key: %w", err)
	}

	replay, reclaim, err := resolve(key, existing, userID, operation, requestHash)
	if err != nil || replay != nil {
		return replay, err
	}
	if reclaim {
		if err := s.client.Set(ctx, s.keyPrefix+key, raw, s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("reclaim stale key: %w", err)
		}
	}
	return nil, nil
}

func (s *RedisIdempotencyStore) save(ctx context.Context, key string, status IdempotencyStatus, statusCode int, contentType string, response any) error {
	rec, err := s.load(ctx, key)
	if err != nil {
		return fmt.Errorf("load idempotency key: %w", err)
	}
	if err := finish(rec, status, statusCode, contentType, response); err != nil {
		return err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.SetArgs(ctx, s.keyPrefix+key, raw, redis.SetArgs{KeepTTL: true}).Err()
}

func (s *RedisIdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	return s.save(ctx, key, IdempotencyStatusSuccess, statusCode, contentType, response)
}

func (s *RedisIdempotencyStore) FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	return s.save(ctx, key, IdempotencyStatusFailed, statusCode, contentType, response)
}

// MemoryIdempotencyStore keeps keys in process memory. It serves single
// instance deployments without Redis.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	records map[string]*memoryRecord
}

type memoryRecord struct {
	IdempotencyRecord
	expiresAt time.Time
}

// NewMemoryIdempotencyStore creates an empty in-memory store.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{ttl: ttl, records: make(map[string]*memoryRecord)}
}

func (s *MemoryIdempotencyStore) AcquireKey(_ context.Context, key, userID, operation, requestHash string) (*IdempotencyReplay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	fresh := &memoryRecord{
		IdempotencyRecord: IdempotencyRecord{
			UserID:      userID,
			Operation:   operation,
			Status:      IdempotencyStatusPending,
			RequestHash: requestHash,
			UpdatedAt:   now,
		},
		expiresAt: now.Add(s.ttl),
	}

	existing, ok := s.records[key]
	if !ok || now.After(existing.expiresAt) {
		s.records[key] = fresh
		return nil, nil
	}

	replay, reclaim, err := resolve(key, &existing.IdempotencyRecord, userID, operation, requestHash)
	if err != nil || replay != nil {
		return replay, err
	}
	if reclaim {
		existing.UpdatedAt = now
	}
	return nil, nil
}

func (s *MemoryIdempotencyStore) save(key string, status IdempotencyStatus, statusCode int, contentType string, response any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return fmt.Errorf("idempotency key %q not acquired", key)
	}
	return finish(&rec.IdempotencyRecord, status, statusCode, contentType, response)
}

func (s *MemoryIdempotencyStore) CompleteKey(_ context.Context, key string, statusCode int, contentType string, response any) error {
	return s.save(key, IdempotencyStatusSuccess, statusCode, contentType, response)
}

func (s *MemoryIdempotencyStore) FailKey(_ context.Context, key string, statusCode int, contentType string, response any) error {
	return s.save(key, IdempotencyStatusFailed, statusCode, contentType, response)
}

var (
	_ IdempotencyStore = (*RedisIdempotencyStore)(nil)
	_ IdempotencyStore = (*MemoryIdempotencyStore)(nil)
)
