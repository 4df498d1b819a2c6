package postgres

import (
	"context"
	"database/sql"

	"venturebridge/internal/domain"
)

type messageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) domain.MessageRepository {
	return &messageRepository{DB: db}
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, m.SenderID, m.ReceiverID, m.Content, m.IsRead, m.CreatedAt).Scan(&m.ID)
}

func (r *messageRepository) ListConversation(ctx context.Context, a, b string, params domain.PaginationParams) ([]*domain.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
		LIMIT $3 OFFSET $4
	`
	return r.list(ctx, query, a, b, params.PageSize, params.Offset())
}

func (r *messageRepository) ListUnread(ctx context.Context, receiverID string) ([]*domain.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE receiver_id = $1 AND is_read = FALSE
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, receiverID)
}

func (r *messageRepository) MarkDelivered(ctx context.Context, receiverID string) error {
	query := `UPDATE messages SET is_read = TRUE WHERE receiver_id = $1 AND is_read = FALSE`
	_, err := r.DB.ExecContext(ctx, query, receiverID)
	return err
}

func (r *messageRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Message, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	msgs := make([]*domain.Message, 0)
	for rows.Next() {
		m := &domain.Message{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
