package postgres

import (
	"context"
	"database/sql"

	"venturebridge/internal/domain"
)

type dealRepository struct {
	DB *sql.DB
}

func NewDealRepository(db *sql.DB) domain.DealRepository {
	return &dealRepository{DB: db}
}

const dealColumns = `id, investor_id, entrepreneur_id, startup_name, industry, amount, equity, stage, status, last_activity, created_at, updated_at`

func (r *dealRepository) Create(ctx context.Context, d *domain.Deal) error {
	query := `
		INSERT INTO deals (investor_id, entrepreneur_id, startup_name, industry, amount, equity, stage, status, last_activity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		d.InvestorID, d.EntrepreneurID, d.StartupName, d.Industry, d.Amount, d.Equity,
		d.Stage, d.Status, d.LastActivity, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
}

func (r *dealRepository) ListByInvestorID(ctx context.Context, investorID string) ([]*domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE investor_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, investorID)
}

func (r *dealRepository) ListByEntrepreneurID(ctx context.Context, entrepreneurID string) ([]*domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE entrepreneur_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, entrepreneurID)
}

func (r *dealRepository) list(ctx context.Context, query, arg string) ([]*domain.Deal, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	deals := make([]*domain.Deal, 0)
	for rows.Next() {
		d := &domain.Deal{}
		if err := rows.Scan(&d.ID, &d.InvestorID, &d.EntrepreneurID, &d.StartupName, &d.Industry, &d.Amount, &d.Equity, &d.Stage, &d.Status, &d.LastActivity, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}
