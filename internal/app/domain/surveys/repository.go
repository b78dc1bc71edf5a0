package surveys

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
	// List returns every survey with participant and event names, newest first.
	List(ctx context.Context) ([]models.Survey, error)
	Get(ctx context.Context, id int64) (*models.Survey, error)
	// Create stores a survey. An unknown participant or event is an ErrValidation.
	Create(ctx context.Context, s models.Survey) (int64, error)
	Update(ctx context.Context, s models.Survey) error
	Delete(ctx context.Context, id int64) error
}

type PostgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func selectSurveys() sq.SelectBuilder {
	return database.Psql.
		Select("s.id", "s.participant_id", "s.event_id", "s.satisfaction_rating", "s.usefulness_rating",
			"s.recommend_rating", "s.comments", "s.created_at",
			"TRIM(CONCAT(p.first_name, ' ', p.last_name)) AS participant_name",
			"COALESCE(e.name, '') AS event_name").
		From("surveys s").
		LeftJoin("participants p ON p.id = s.participant_id").
		LeftJoin("events e ON e.id = s.event_id")
}

func mapWriteError(err error, what string) error {
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: unknown participant or event: %w", what, models.ErrValidation)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Survey, error) {
	query, args, err := selectSurveys().OrderBy("s.created_at DESC", "s.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build surveys query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Survey])
	if err != nil {
		return nil, fmt.Errorf("scan surveys: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Survey, error) {
	query, args, err := selectSurveys().Where(sq.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build survey query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get survey %d: %w", id, err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Survey])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("survey %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("scan survey %d: %w", id, err)
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s models.Survey) (int64, error) {
	query, args, err := database.Psql.
		Insert("surveys").
		Columns("participant_id", "event_id", "satisfaction_rating", "usefulness_rating", "recommend_rating", "comments").
		Values(s.ParticipantID, s.EventID, s.SatisfactionRating, s.UsefulnessRating, s.RecommendRating, s.Comments).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build survey insert: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err, "insert survey")
	}
	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, s models.Survey) error {
	query, args, err := database.Psql.
		Update("surveys").
		SetMap(map[string]any{
			"participant_id":      s.ParticipantID,
			"event_id":            s.EventID,
			"satisfaction_rating": s.SatisfactionRating,
			"usefulness_rating":   s.UsefulnessRating,
			"recommend_rating":    s.RecommendRating,
			"comments":            s.Comments,
		}).
		Where(sq.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build survey update: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("update survey %d", s.ID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("survey %d: %w", s.ID, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := database.Psql.Delete("surveys").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build survey delete: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete survey %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("survey %d: %w", id, models.ErrNotFound)
	}
	return nil
}
