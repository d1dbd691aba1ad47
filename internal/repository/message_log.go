package repository

import (
	"context"

	"dataseller/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageLogRepository persists the conversation transcript for support
// lookups and the admin dashboard.
type MessageLogRepository struct {
	db *pgxpool.Pool
}

func NewMessageLogRepository(db *pgxpool.Pool) *MessageLogRepository {
	return &MessageLogRepository{db: db}
}

func (r *MessageLogRepository) Insert(ctx context.Context, rec entities.MessageRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO messages (customer_id, direction, platform, content)
		VALUES ($1, $2, $3, $4)
	`, rec.CustomerID, rec.Direction, rec.Platform, rec.Content)
	return err
}

// CountByDirection returns totals for the admin stats endpoint.
func (r *MessageLogRepository) CountByDirection(ctx context.Context) (incoming, outgoing int64, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE direction = 'incoming'),
			COUNT(*) FILTER (WHERE direction = 'outgoing')
		FROM messages
	`).Scan(&incoming, &outgoing)
	return incoming, outgoing, err
}
