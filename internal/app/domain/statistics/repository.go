package statistics

import (
	"context"
	"fmt"

	database "github.com/FACorreiaa/go-ellarises/internal/db"
)

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	CountParticipants(ctx context.Context) (int64, error)
	CountEvents(ctx context.Context) (int64, error)
	// DonationTotals returns the number of donations and their summed amount.
	DonationTotals(ctx context.Context) (count int64, total float64, err error)
}

type PostgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountParticipants(ctx context.Context) (int64, error) {
	return r.count(ctx, "participants")
}

func (r *PostgresRepository) CountEvents(ctx context.Context) (int64, error) {
	return r.count(ctx, "events")
}

func (r *PostgresRepository) count(ctx context.Context, table string) (int64, error) {
	query, args, err := database.Psql.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count %s query: %w", table, err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (r *PostgresRepository) DonationTotals(ctx context.Context) (int64, float64, error) {
	query, args, err := database.Psql.
		Select("COUNT(*)", "COALESCE(SUM(amount), 0)::float8").
		From("donations").
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("build donation totals query: %w", err)
	}

	var (
		count int64
		total float64
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count, &total); err != nil {
		return 0, 0, fmt.Errorf("donation totals: %w", err)
	}
	return count, total, nil
}
