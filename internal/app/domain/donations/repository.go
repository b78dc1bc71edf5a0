package donations

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
	// List returns every donation with the donor's name when the email matches a participant.
	List(ctx context.Context) ([]models.Donation, error)
	ListByEmail(ctx context.Context, email string) ([]models.Donation, error)
	Get(ctx context.Context, id int64) (*models.Donation, error)
	Create(ctx context.Context, d models.Donation) (int64, error)
	Update(ctx context.Context, d models.Donation) error
	Delete(ctx context.Context, id int64) error
}

type PostgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func selectDonations() sq.SelectBuilder {
	return database.Psql.
		Select("d.id", "d.participant_email", "d.donation_date", "d.amount::float8 AS amount",
			"p.first_name", "p.last_name").
		From("donations d").
		LeftJoin("participants p ON p.email = d.participant_email").
		OrderBy("d.donation_date DESC", "d.id DESC")
}

func (r *PostgresRepository) collect(ctx context.Context, b sq.SelectBuilder) ([]models.Donation, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build donations query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Donation])
	if err != nil {
		return nil, fmt.Errorf("scan donations: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Donation, error) {
	return r.collect(ctx, selectDonations())
}

func (r *PostgresRepository) ListByEmail(ctx context.Context, email string) ([]models.Donation, error) {
	return r.collect(ctx, selectDonations().Where(sq.Eq{"d.participant_email": email}))
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Donation, error) {
	query, args, err := selectDonations().Where(sq.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build donation query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get donation %d: %w", id, err)
	}
	d, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Donation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("donation %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("scan donation %d: %w", id, err)
	}
	return d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, d models.Donation) (int64, error) {
	query, args, err := database.Psql.
		Insert("donations").
		Columns("participant_email", "donation_date", "amount").
		Values(d.ParticipantEmail, d.DonationDate, d.Amount).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build donation insert: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert donation: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, d models.Donation) error {
	query, args, err := database.Psql.
		Update("donations").
		SetMap(map[string]any{
			"participant_email": d.ParticipantEmail,
			"donation_date":     d.DonationDate,
			"amount":            d.Amount,
		}).
		Where(sq.Eq{"id": d.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build donation update: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update donation %d: %w", d.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("donation %d: %w", d.ID, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := database.Psql.Delete("donations").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build donation delete: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete donation %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("donation %d: %w", id, models.ErrNotFound)
	}
	return nil
}
