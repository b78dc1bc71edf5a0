package milestones

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	database "github.com/FACorreiaa/go-ellarises/internal/db"
)

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	// Summary returns one row per participant, including participants without milestones.
	Summary(ctx context.Context) ([]models.MilestoneSummary, error)
	// ListForEmail returns a participant's milestones, oldest first.
	ListForEmail(ctx context.Context, email string) ([]models.Milestone, error)
	Add(ctx context.Context, m models.Milestone) (int64, error)
}

type PostgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// titleCount counts milestones whose title matches any keyword of cat, case-insensitively.
func titleCount(cat category) sq.Sqlizer {
	or := sq.Or{}
	for _, kw := range cat.keywords {
		or = append(or, sq.ILike{"m.title": "%" + kw + "%"})
	}
	return sq.ConcatExpr("COALESCE(SUM(CASE WHEN ", or, " THEN 1 ELSE 0 END), 0) AS "+cat.column)
}

func (r *PostgresRepository) Summary(ctx context.Context) ([]models.MilestoneSummary, error) {
	builder := database.Psql.
		Select("p.id", "p.first_name", "p.last_name", "p.email",
			"COUNT(m.id) AS milestone_count", "MIN(m.milestone_date) AS first_milestone_date")
	for _, cat := range categories {
		builder = builder.Column(titleCount(cat))
	}
	query, args, err := builder.
		From("participants p").
		LeftJoin("milestones m ON m.participant_email = p.email").
		GroupBy("p.id", "p.first_name", "p.last_name", "p.email").
		OrderBy("p.last_name", "p.first_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build milestone summary query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("milestone summary: %w", err)
	}
	summary, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.MilestoneSummary])
	if err != nil {
		return nil, fmt.Errorf("scan milestone summary: %w", err)
	}
	return summary, nil
}

func (r *PostgresRepository) ListForEmail(ctx context.Context, email string) ([]models.Milestone, error) {
	query, args, err := database.Psql.
		Select("id", "participant_email", "title", "milestone_date").
		From("milestones").
		Where(sq.Eq{"participant_email": email}).
		OrderBy("milestone_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build milestones query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Milestone])
	if err != nil {
		return nil, fmt.Errorf("scan milestones: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Add(ctx context.Context, m models.Milestone) (int64, error) {
	query, args, err := database.Psql.
		Insert("milestones").
		Columns("participant_email", "title", "milestone_date").
		Values(m.ParticipantEmail, m.Title, m.MilestoneDate).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build milestone insert: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert milestone: %w", err)
	}
	return id, nil
}
