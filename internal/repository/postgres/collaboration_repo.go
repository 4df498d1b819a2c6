package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"venturebridge/internal/domain"
)

type collaborationRepository struct {
	DB *sql.DB
}

func NewCollaborationRepository(db *sql.DB) domain.CollaborationRepository {
	return &collaborationRepository{DB: db}
}

const collaborationColumns = `id, investor_id, entrepreneur_id, startup_name, message, status, responded_at, created_at, updated_at`

func (r *collaborationRepository) Create(ctx context.Context, c *domain.Collaboration) error {
	query := `
		INSERT INTO collaborations (investor_id, entrepreneur_id, startup_name, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.InvestorID, c.EntrepreneurID, c.StartupName, c.Message, c.Status, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *collaborationRepository) GetByID(ctx context.Context, id string) (*domain.Collaboration, error) {
	query := `SELECT ` + collaborationColumns + ` FROM collaborations WHERE id = $1`
	return r.scanCollaboration(r.DB.QueryRowContext(ctx, query, id))
}

func (r *collaborationRepository) ExistsAccepted(ctx context.Context, a, b string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM collaborations
			WHERE status = 'accepted'
			  AND ((investor_id = $1 AND entrepreneur_id = $2) OR (investor_id = $2 AND entrepreneur_id = $1))
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, a, b).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *collaborationRepository) FindActive(ctx context.Context, investorID, entrepreneurID string) (*domain.Collaboration, error) {
	query := `
		SELECT ` + collaborationColumns + `
		FROM collaborations
		WHERE investor_id = $1 AND entrepreneur_id = $2 AND status IN ('pending', 'accepted')
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanCollaboration(r.DB.QueryRowContext(ctx, query, investorID, entrepreneurID))
}

func (r *collaborationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Collaboration, error) {
	query := `
		SELECT ` + collaborationColumns + `
		FROM collaborations
		WHERE investor_id = $1 OR entrepreneur_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	collabs := make([]*domain.Collaboration, 0)
	for rows.Next() {
		c := &domain.Collaboration{}
		var respondedAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.InvestorID, &c.EntrepreneurID, &c.StartupName, &c.Message, &c.Status, &respondedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if respondedAt.Valid {
			c.RespondedAt = &respondedAt.Time
		}
		collabs = append(collabs, c)
	}
	return collabs, rows.Err()
}

func (r *collaborationRepository) UpdateStatus(ctx context.Context, id string, status domain.CollaborationStatus, respondedAt *time.Time) error {
	query := `
		UPDATE collaborations SET status = $1, responded_at = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.DB.ExecContext(ctx, query, status, respondedAt, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *collaborationRepository) scanCollaboration(row *sql.Row) (*domain.Collaboration, error) {
	c := &domain.Collaboration{}
	var respondedAt sql.NullTime
	err := row.Scan(&c.ID, &c.InvestorID, &c.EntrepreneurID, &c.StartupName, &c.Message, &c.Status, &respondedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if respondedAt.Valid {
		c.RespondedAt = &respondedAt.Time
	}
	return c, nil
}
