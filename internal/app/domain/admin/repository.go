package admin

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	database "github.com/FACorreiaa/go-ellarises/internal/db"
)

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	// UserRole returns the stored role of the user with the given email.
	UserRole(ctx context.Context, email string) (models.Role, error)
	// SetRole updates the users row and the participants row in one transaction. Both rows must exist or nothing
	// changes.
	SetRole(ctx context.Context, email string, role models.Role) error
}

type PostgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UserRole(ctx context.Context, email string) (models.Role, error) {
	query, args, err := database.Psql.Select("role").From("users").Where(sq.Eq{"email": email}).ToSql()
	if err != nil {
		return "", fmt.Errorf("build role query: %w", err)
	}

	var role string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("user not found: %w", models.ErrNotFound)
		}
		return "", fmt.Errorf("fetch role: %w", err)
	}
	return models.Role(role), nil
}

func (r *PostgresRepository) SetRole(ctx context.Context, email string, role models.Role) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		query, args, err := database.Psql.Update("users").
			Set("role", string(role)).
			Where(sq.Eq{"email": email}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build users update: %w", err)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update users role: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("user not found: %w", models.ErrNotFound)
		}

		query, args, err = database.Psql.Update("participants").
			Set("role", string(role)).
			Where(sq.Eq{"email": email}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build participants update: %w", err)
		}
		tag, err = tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update participants role: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%s: %w", email, ErrNoParticipant)
		}
		return nil
	})
}
