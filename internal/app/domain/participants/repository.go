package participants

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

// ErrAccountEmail rejects an email change on a participant that has a login account.
var ErrAccountEmail = fmt.Errorf("participant email belongs to a login account: %w", models.ErrValidation)

type Repository interface {
	List(ctx context.Context) ([]models.Participant, error)
	Get(ctx context.Context, id int64) (*models.Participant, error)
	Create(ctx context.Context, p models.Participant) (int64, error)
	Update(ctx context.Context, p models.Participant) error
	Delete(ctx context.Context, id int64) error
	// Options lists participants as select box entries ordered by first name.
	Options(ctx context.Context) ([]models.Option, error)
}

type PostgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var participantColumns = []string{
	"id", "email", "first_name", "last_name", "dob", "role", "phone",
	"school_or_employer", "field_of_interest", "zip", "created_at",
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Participant, error) {
	query, args, err := database.Psql.
		Select("id", "email", "first_name", "last_name", "role").
		From("participants").
		OrderBy("last_name", "first_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.Participant])
	if err != nil {
		return nil, fmt.Errorf("scan participants: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Participant, error) {
	query, args, err := database.Psql.
		Select(participantColumns...).
		From("participants").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build participant query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get participant %d: %w", id, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[models.Participant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("participant %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("scan participant %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p models.Participant) (int64, error) {
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	query, args, err := database.Psql.
		Insert("participants").
		Columns("email", "first_name", "last_name", "dob", "role", "phone",
			"school_or_employer", "field_of_interest", "zip").
		Values(p.Email, p.FirstName, p.LastName, p.DOB, string(p.Role), p.Phone,
			p.SchoolOrEmployer, p.FieldOfInterest, p.Zip).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build participant insert: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if database.IsUniqueViolation(err) {
			return 0, fmt.Errorf("participant email %s: %w", p.Email, models.ErrConflict)
		}
		return 0, fmt.Errorf("insert participant: %w", err)
	}
	return id, nil
}

// Update changes the contact and profile fields. The role is managed through the admin tools only, and the email of
// a participant with a login account stays fixed so users.email and participants.email keep matching.
func (r *PostgresRepository) Update(ctx context.Context, p models.Participant) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		email, hasAccount, err := lockForUpdate(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if hasAccount && email != p.Email {
			return fmt.Errorf("participant %d (%s): %w", p.ID, email, ErrAccountEmail)
		}

		query, args, err := database.Psql.
			Update("participants").
			SetMap(map[string]any{
				"email":              p.Email,
				"first_name":         p.FirstName,
				"last_name":          p.LastName,
				"dob":                p.DOB,
				"phone":              p.Phone,
				"school_or_employer": p.SchoolOrEmployer,
				"field_of_interest":  p.FieldOfInterest,
				"zip":                p.Zip,
			}).
			Where(sq.Eq{"id": p.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build participant update: %w", err)
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("participant email %s: %w", p.Email, models.ErrConflict)
			}
			return fmt.Errorf("update participant %d: %w", p.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("participant %d: %w", p.ID, models.ErrNotFound)
		}
		return nil
	})
}

// lockForUpdate locks the participant row and reports its current email and whether a users row shares it.
func lockForUpdate(ctx context.Context, tx pgx.Tx, id int64) (string, bool, error) {
	query, args, err := database.Psql.
		Select("p.email").
		Column("EXISTS (SELECT 1 FROM users u WHERE u.email = p.email)").
		From("participants p").
		Where(sq.Eq{"p.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build participant lock: %w", err)
	}

	var (
		email      string
		hasAccount bool
	)
	if err := tx.QueryRow(ctx, query, args...).Scan(&email, &hasAccount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, fmt.Errorf("participant %d: %w", id, models.ErrNotFound)
		}
		return "", false, fmt.Errorf("lock participant %d: %w", id, err)
	}
	return email, hasAccount, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := database.Psql.Delete("participants").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build participant delete: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete participant %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participant %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Options(ctx context.Context) ([]models.Option, error) {
	query, args, err := database.Psql.
		Select("id", "TRIM(first_name || ' ' || last_name) AS label").
		From("participants").
		OrderBy("first_name", "last_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build participant options query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list participant options: %w", err)
	}
	opts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Option])
	if err != nil {
		return nil, fmt.Errorf("scan participant options: %w", err)
	}
	return opts, nil
}
