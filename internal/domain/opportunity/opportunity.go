package opportunity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeJob        Type = "job"
	TypeInternship Type = "internship"
	TypeCourse     Type = "course"
)

// Opportunity is an AI-curated course, internship, or job pointer to a real
// platform. Rows are deduplicated by (title, source) on insert and expired
// by a time-based sweep, never deleted.
type Opportunity struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Type        Type       `json:"opportunity_type"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	SkillTags   []string   `json:"skill_tags"`
	Level       string     `json:"level"`
	Location    string     `json:"location"`
	SalaryRange string     `json:"salary_range"`
	Deadline    *time.Time `json:"deadline"`
	IsExpired   bool       `json:"is_expired"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Filter struct {
	Type   Type
	Level  string
	Source string
	Limit  int
	Offset int
}

type Repository interface {
	FindByTitleAndSource(ctx context.Context, title, source string) (*Opportunity, error)
	Save(ctx context.Context, o *Opportunity) error
	List(ctx context.Context, f Filter) ([]*Opportunity, error)
	MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
