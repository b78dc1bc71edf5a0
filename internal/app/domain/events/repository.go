package events

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
	// List returns events with the most recent date first.
	List(ctx context.Context) ([]models.Event, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, e models.Event) (int64, error)
	Update(ctx context.Context, e models.Event) error
	Delete(ctx context.Context, id int64) error
	// Options lists events as select box entries ordered by name.
	Options(ctx context.Context) ([]models.Option, error)
}

type PostgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var eventColumns = []string{"id", "name", "event_date", "event_type", "description", "location", "created_at"}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Event, error) {
	query, args, err := database.Psql.Select(eventColumns...).From("events").OrderBy("event_date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build events query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Event])
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return events, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Event, error) {
	query, args, err := database.Psql.Select(eventColumns...).From("events").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	e, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Event])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("event %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("scan event %d: %w", id, err)
	}
	return e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, e models.Event) (int64, error) {
	query, args, err := database.Psql.
		Insert("events").
		Columns("name", "event_date", "event_type", "description", "location").
		Values(e.Name, e.EventDate, e.EventType, e.Description, e.Location).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build event insert: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, e models.Event) error {
	query, args, err := database.Psql.
		Update("events").
		SetMap(map[string]any{
			"name":        e.Name,
			"event_date":  e.EventDate,
			"event_type":  e.EventType,
			"description": e.Description,
			"location":    e.Location,
		}).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build event update: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update event %d: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %d: %w", e.ID, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := database.Psql.Delete("events").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build event delete: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Options(ctx context.Context) ([]models.Option, error) {
	query, args, err := database.Psql.Select("id", "name AS label").From("events").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event options query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list event options: %w", err)
	}
	opts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Option])
	if err != nil {
		return nil, fmt.Errorf("scan event options: %w", err)
	}
	return opts, nil
}
