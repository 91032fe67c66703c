package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyamithra/backend/internal/domain/opportunity"
)

type postgresOpportunityRepo struct {
	db *pgxpool.Pool
}

func NewPostgresOpportunityRepo(db *pgxpool.Pool) opportunity.Repository {
	return &postgresOpportunityRepo{db: db}
}

const opportunityColumns = `id, title, company, opportunity_type, description, url, source, skill_tags, level, location, salary_range, deadline, is_expired, created_at, updated_at`

func scanOpportunity(row pgx.Row) (*opportunity.Opportunity, error) {
	o := &opportunity.Opportunity{}
	var skillTags []byte

	err := row.Scan(
		&o.ID,
		&o.Title,
		&o.Company,
		&o.Type,
		&o.Description,
		&o.URL,
		&o.Source,
		&skillTags,
		&o.Level,
		&o.Location,
		&o.SalaryRange,
		&o.Deadline,
		&o.IsExpired,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skillTags, &o.SkillTags); err != nil {
		o.SkillTags = []string{}
	}
	return o, nil
}

func (r *postgresOpportunityRepo) FindByTitleAndSource(ctx context.Context, title, source string) (*opportunity.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE title = $1 AND source = $2`
	o, err := scanOpportunity(r.db.QueryRow(ctx, query, title, source))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query opportunity: %w", err)
	}
	return o, nil
}

func (r *postgresOpportunityRepo) Save(ctx context.Context, o *opportunity.Opportunity) error {
	skillTags, err := json.Marshal(o.SkillTags)
	if err != nil {
		return fmt.Errorf("failed to marshal skill_tags: %w", err)
	}

	query := `
		INSERT INTO opportunities (id, title, company, opportunity_type, description, url, source, skill_tags, level, location, salary_range, deadline, is_expired, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.db.Exec(ctx, query,
		o.ID, o.Title, o.Company, o.Type, o.Description, o.URL, o.Source,
		skillTags, o.Level, o.Location, o.SalaryRange, o.Deadline, o.IsExpired, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save opportunity: %w", err)
	}
	return nil
}

func (r *postgresOpportunityRepo) List(ctx context.Context, f opportunity.Filter) ([]*opportunity.Opportunity, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}

	builder := psql.Select(opportunityColumns).
		From("opportunities").
		Where(sq.Eq{"is_expired": false}).
		OrderBy("created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	if f.Type != "" {
		builder = builder.Where(sq.Eq{"opportunity_type": f.Type})
	}
	if f.Level != "" {
		builder = builder.Where(sq.Eq{"level": f.Level})
	}
	if f.Source != "" {
		builder = builder.Where(sq.Eq{"source": f.Source})
	}

	sql, args, _ := builder.ToSql()
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunities: %w", err)
	}
	defer rows.Close()

	opportunities := make([]*opportunity.Opportunity, 0)
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opportunity row: %w", err)
		}
		opportunities = append(opportunities, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opportunity rows: %w", err)
	}
	return opportunities, nil
}

func (r *postgresOpportunityRepo) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE opportunities
		SET is_expired = TRUE, updated_at = NOW()
		WHERE is_expired = FALSE AND deadline IS NOT NULL AND deadline < $1
	`
	cmdTag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire opportunities: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
