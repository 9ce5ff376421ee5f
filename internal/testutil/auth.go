package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/core/id"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/auth"
)

// UserRepo is an in-memory auth.UserRepository.
type UserRepo struct {
	*Table[*auth.User]
}

var _ auth.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{Table: NewTable(ClonePtr[auth.User])}
}

func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	if ok, _ := r.Exists(ctx, u.Email); ok {
		return apperror.NewDuplicate(audit.EntityUser, "email", u.Email)
	}
	r.Put(u.ID, u)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, key id.ID) (*auth.User, error) {
	u, ok := r.Get(key)
	if !ok {
		return nil, notFound(audit.EntityUser, key)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	email = auth.NormalizeEmail(email)
	for _, u := range r.All() {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound(audit.EntityUser, email)
}

func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepo) UpdateLoginState(_ context.Context, u *auth.User) error {
	_, found, _ := r.Mutate(u.ID, func(cur *auth.User) (*auth.User, bool) {
		cur.FailedLoginAttempts = u.FailedLoginAttempts
		cur.LockedUntil = u.LockedUntil
		cur.LastLoginAt = u.LastLoginAt
		return cur, true
	})
	if !found {
		return notFound(audit.EntityUser, u.ID)
	}
	return nil
}

// AuditLog records journal entries in memory and serves them back.
type AuditLog struct {
	mu      sync.Mutex
	entries []audit.Entry
}

var (
	_ audit.Recorder = (*AuditLog)(nil)
	_ audit.Reader   = (*AuditLog)(nil)
)

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) Record(ctx context.Context, entityType string, entityID id.ID, action audit.Action, changes any) error {
	raw, err := json.Marshal(changes)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, audit.Entry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     appctx.GetUserID(ctx),
		Changes:    raw,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

func (l *AuditLog) History(_ context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []audit.Entry{}
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// Entries returns a copy of every recorded entry, oldest first.
func (l *AuditLog) Entries() []audit.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]audit.Entry(nil), l.entries...)
}

// Actions lists the recorded actions for entityType, oldest first.
func (l *AuditLog) Actions(entityType string) []audit.Action {
	var out []audit.Action
	for _, e := range l.Entries() {
		if e.EntityType == entityType {
			out = append(out, e.Action)
		}
	}
	return out
}

// Snapshot implements Snapshotter.
func (l *AuditLog) Snapshot() func() {
	l.mu.Lock()
	n := len(l.entries)
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.entries = l.entries[:n]
	}
}
