package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/singleflight"
)

// Querier is the part of *pgxpool.Pool the PGStore uses.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGStore keeps sessions in the sessions table. Expired rows are ignored on
// load and removed by a periodic sweep piggybacked on Save.
type PGStore struct {
	db        Querier
	ttl       time.Duration
	sf        singleflight.Group
	lastSweep atomic.Int64
}

// NewPGStore returns a Postgres-backed session store.
func NewPGStore(db Querier, ttl time.Duration) *PGStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PGStore{db: db, ttl: ttl}
}

func (s *PGStore) Load(ctx context.Context, id string) (*Session, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM sessions WHERE id = $1 AND expires_at > NOW()`, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decodeValues(id, data)
}

func (s *PGStore) Save(ctx context.Context, sess *Session) error {
	b, err := encodeValues(sess.Values)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO sessions (id, data, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`
	if _, err := s.db.Exec(ctx, query, sess.ID, b, time.Now().UTC().Add(s.ttl)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.maybeSweep(ctx)
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// Sweep deletes expired sessions and returns how many were removed.
// Concurrent callers share one DELETE.
func (s *PGStore) Sweep(ctx context.Context) (int64, error) {
	v, err, _ := s.sf.Do("sweep", func() (interface{}, error) {
		tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
		if err != nil {
			return int64(0), fmt.Errorf("sweep sessions: %w", err)
		}
		s.lastSweep.Store(time.Now().UnixNano())
		return tag.RowsAffected(), nil
	})
	return v.(int64), err
}

func (s *PGStore) maybeSweep(ctx context.Context) {
	last := time.Unix(0, s.lastSweep.Load())
	if time.Since(last) < sweepInterval {
		return
	}
	// Expired rows are already invisible to Load.
	_, _ = s.Sweep(ctx)
}
