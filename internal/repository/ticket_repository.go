package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/pkg/util"
)

// TicketStore encapsulates ticket persistence. Every write is a single
// durable statement: a crash after a successful call never loses the write,
// and a crash mid-call never leaves a half-written record.
type TicketStore interface {
	// Create inserts a ticket record, or returns the existing record when
	// the thread id is already present. Creation is idempotent under
	// at-least-once delivery of the thread-created event.
	Create(ctx context.Context, rec *domain.TicketRecord) (*domain.TicketRecord, error)
	// GetByThread is the only lookup path used by lifecycle operations.
	GetByThread(ctx context.Context, threadID string) (*domain.TicketRecord, error)
	// SetStatus and SetClaimedBy are silent no-ops for unknown thread ids;
	// callers resolve existence through GetByThread first.
	SetStatus(ctx context.Context, threadID string, status domain.TicketStatus, closedAt *time.Time) error
	SetClaimedBy(ctx context.Context, threadID, userID string) error
}

type ticketStore struct {
	pool *pgxpool.Pool
}

// NewTicketStore instantiates the pgx-backed store.
func NewTicketStore(pool *pgxpool.Pool) TicketStore {
	return &ticketStore{pool: pool}
}

func (s *ticketStore) Create(ctx context.Context, rec *domain.TicketRecord) (*domain.TicketRecord, error) {
	const query = `
        INSERT INTO tickets (thread_id, channel_id, creator_user_id, category, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (thread_id) DO NOTHING
        RETURNING id`
	err := s.pool.QueryRow(ctx, query,
		rec.ThreadID,
		rec.ChannelID,
		rec.CreatorUserID,
		rec.Category,
		rec.Status,
		rec.CreatedAt,
	).Scan(&rec.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict: the thread already has a record; return it untouched.
		return s.GetByThread(ctx, rec.ThreadID)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *ticketStore) GetByThread(ctx context.Context, threadID string) (*domain.TicketRecord, error) {
	const query = `
        SELECT id, thread_id, channel_id, creator_user_id, category, status, claimed_by, created_at, closed_at
        FROM tickets WHERE thread_id=$1`
	var rec domain.TicketRecord
	if err := s.pool.QueryRow(ctx, query, threadID).Scan(
		&rec.ID,
		&rec.ThreadID,
		&rec.ChannelID,
		&rec.CreatorUserID,
		&rec.Category,
		&rec.Status,
		&rec.ClaimedBy,
		&rec.CreatedAt,
		&rec.ClosedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"thread_id": threadID})
		}
		return nil, err
	}
	return &rec, nil
}

func (s *ticketStore) SetStatus(ctx context.Context, threadID string, status domain.TicketStatus, closedAt *time.Time) error {
	const query = `UPDATE tickets SET status=$1, closed_at=COALESCE($2, closed_at) WHERE thread_id=$3`
	_, err := s.pool.Exec(ctx, query, status, closedAt, threadID)
	return err
}

func (s *ticketStore) SetClaimedBy(ctx context.Context, threadID, userID string) error {
	const query = `UPDATE tickets SET claimed_by=$1 WHERE thread_id=$2`
	_, err := s.pool.Exec(ctx, query, userID, threadID)
	return err
}
