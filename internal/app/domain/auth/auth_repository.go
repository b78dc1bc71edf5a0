package auth

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	database "github.com/FACorreiaa/go-ellarises/internal/db"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	// GetUserByEmail fetches the user row including the password hash.
	GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error)
	// CreateUserWithParticipant inserts the users row and its participants row in one transaction and returns the
	// new user id. An email already present in either table is an ErrConflict.
	CreateUserWithParticipant(ctx context.Context, user *models.UserAuth, p models.Participant) (int64, error)
}

type PostgresAuthRepo struct {
	logger *zap.Logger
	db     database.DB
}

func NewPostgresAuthRepo(db database.DB, logger *zap.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	query, args, err := database.Psql.
		Select("id", "email", "password_hash", "role", "created_at").
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	var (
		user models.UserAuth
		role string
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.Email, &user.PasswordHash, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	user.Role = models.Role(role)
	return &user, nil
}

func (r *PostgresAuthRepo) CreateUserWithParticipant(ctx context.Context, user *models.UserAuth, p models.Participant) (int64, error) {
	var userID int64
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		taken, err := emailTaken(ctx, tx, user.Email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("email already registered: %w", models.ErrConflict)
		}

		query, args, err := database.Psql.
			Insert("users").
			Columns("email", "password_hash", "role").
			Values(user.Email, user.PasswordHash, string(user.Role)).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build user insert: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&userID); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		query, args, err = database.Psql.
			Insert("participants").
			Columns("email", "first_name", "last_name", "dob", "role", "phone",
				"school_or_employer", "field_of_interest", "zip").
			Values(user.Email, p.FirstName, p.LastName, p.DOB, string(user.Role), p.Phone,
				p.SchoolOrEmployer, p.FieldOfInterest, p.Zip).
			ToSql()
		if err != nil {
			return fmt.Errorf("build participant insert: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, fmt.Errorf("email already registered: %w", models.ErrConflict)
		}
		if !errors.Is(err, models.ErrConflict) {
			r.logger.Error("Error registering user", zap.Error(err))
		}
		return 0, err
	}

	r.logger.Info("User registered", zap.Int64("user_id", userID))
	return userID, nil
}

func emailTaken(ctx context.Context, tx pgx.Tx, email string) (bool, error) {
	query, args, err := database.Psql.
		Select().
		Column(sq.Expr("EXISTS (SELECT 1 FROM users WHERE email = ?) OR EXISTS (SELECT 1 FROM participants WHERE email = ?)",
			email, email)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build email check: %w", err)
	}

	var taken bool
	if err := tx.QueryRow(ctx, query, args...).Scan(&taken); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}
