package roadmap

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type SkillStatus string

const (
	StatusLocked    SkillStatus = "locked"
	StatusUnlocked  SkillStatus = "unlocked"
	StatusCompleted SkillStatus = "completed"
)

type LevelName string

const (
	LevelBeginner     LevelName = "Beginner"
	LevelIntermediate LevelName = "Intermediate"
	LevelAdvanced     LevelName = "Advanced"
)

// LevelOrder is the fixed tier sequence of every roadmap document.
var LevelOrder = []LevelName{LevelBeginner, LevelIntermediate, LevelAdvanced}

// PassThresholds maps each level to the quiz score (0-100) required to pass.
var PassThresholds = map[LevelName]int{
	LevelBeginner:     70,
	LevelIntermediate: 80,
	LevelAdvanced:     85,
}

// ThresholdFor returns the pass threshold for a level, defaulting to the
// Beginner threshold for unknown level names.
func ThresholdFor(level LevelName) int {
	if t, ok := PassThresholds[level]; ok {
		return t
	}
	return PassThresholds[LevelBeginner]
}

var (
	ErrRoadmapNotFound = errors.New("roadmap not found")
	ErrSkillNotFound   = errors.New("skill not found in roadmap")
	ErrInvalidStatus   = errors.New("invalid skill status")
)

// Skill is a node in the prerequisite graph. IDs are stable strings scoped
// to the owning document, not database keys.
type Skill struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Prerequisites  []string    `json:"prerequisites"`
	EstimatedHours int         `json:"estimated_hours"`
	Order          int         `json:"order"`
	Status         SkillStatus `json:"status"`
}

type Level struct {
	Name          LevelName `json:"name"`
	PassThreshold int       `json:"pass_threshold"`
	Skills        []Skill   `json:"skills"`
}

// Document is the full roadmap structure persisted as one JSONB column.
// Skills are not separate rows: every mutation is a read-modify-write of
// the whole document.
type Document struct {
	Levels []Level `json:"levels"`
}

type Roadmap struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	TargetRole    string    `json:"target_role"`
	CurrentSkills []string  `json:"current_skills"`
	SkillGaps     []string  `json:"skill_gaps"`
	Data          Document  `json:"roadmap_data"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ValidStatus(s SkillStatus) bool {
	switch s {
	case StatusLocked, StatusUnlocked, StatusCompleted:
		return true
	}
	return false
}

// FindSkill locates a skill by id anywhere in the level list.
func (d *Document) FindSkill(skillID string) *Skill {
	for li := range d.Levels {
		for si := range d.Levels[li].Skills {
			if d.Levels[li].Skills[si].ID == skillID {
				return &d.Levels[li].Skills[si]
			}
		}
	}
	return nil
}

// UpdateSkillStatus overwrites the status of one skill and returns the ids
// of skills unlocked as a result. When the new status is completed, a single
// propagation pass unlocks every locked skill whose prerequisite list
// contains the completed id and whose prerequisites are now all completed.
// Propagation does not cascade transitively: each intermediate skill needs
// its own completion event.
func (d *Document) UpdateSkillStatus(skillID string, newStatus SkillStatus) ([]string, error) {
	if !ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	skill := d.FindSkill(skillID)
	if skill == nil {
		return nil, ErrSkillNotFound
	}
	skill.Status = newStatus

	if newStatus == StatusCompleted {
		return d.propagateUnlocks(skillID), nil
	}
	return nil, nil
}

func (d *Document) propagateUnlocks(completedID string) []string {
	var unlocked []string
	for li := range d.Levels {
		for si := range d.Levels[li].Skills {
			s := &d.Levels[li].Skills[si]
			if s.Status != StatusLocked || !contains(s.Prerequisites, completedID) {
				continue
			}
			if d.allCompleted(s.Prerequisites) {
				s.Status = StatusUnlocked
				unlocked = append(unlocked, s.ID)
			}
		}
	}
	return unlocked
}

func (d *Document) allCompleted(skillIDs []string) bool {
	for _, id := range skillIDs {
		s := d.FindSkill(id)
		if s == nil || s.Status != StatusCompleted {
			return false
		}
	}
	return true
}

// NormalizeStatuses applies the creation-time status rule, overriding
// whatever the generator's model produced: the first Beginner skill and any
// Beginner skill without prerequisites start unlocked, everything else
// starts locked.
func (d *Document) NormalizeStatuses() {
	for li := range d.Levels {
		for si := range d.Levels[li].Skills {
			s := &d.Levels[li].Skills[si]
			if li == 0 && (si == 0 || len(s.Prerequisites) == 0) {
				s.Status = StatusUnlocked
			} else {
				s.Status = StatusLocked
			}
		}
	}
}

func (d *Document) level(name LevelName) *Level {
	for i := range d.Levels {
		if d.Levels[i].Name == name {
			return &d.Levels[i]
		}
	}
	return nil
}

// LevelComplete reports whether every skill in the named level is completed.
// An unknown level is never complete.
func (d *Document) LevelComplete(name LevelName) bool {
	lvl := d.level(name)
	if lvl == nil {
		return false
	}
	for _, s := range lvl.Skills {
		if s.Status != StatusCompleted {
			return false
		}
	}
	return true
}

// IncompleteSkills lists the names of unfinished skills in a level, for UI
// display alongside a negative unlock decision.
func (d *Document) IncompleteSkills(name LevelName) []string {
	lvl := d.level(name)
	if lvl == nil {
		return nil
	}
	var incomplete []string
	for _, s := range lvl.Skills {
		if s.Status != StatusCompleted {
			incomplete = append(incomplete, s.Name)
		}
	}
	return incomplete
}

// Progress returns completed and total skill counts across all levels.
func (d *Document) Progress() (completed, total int) {
	for _, lvl := range d.Levels {
		for _, s := range lvl.Skills {
			total++
			if s.Status == StatusCompleted {
				completed++
			}
		}
	}
	return completed, total
}

// Validate checks the expected generated shape: exactly three levels named
// Beginner, Intermediate, Advanced in that order, each with at least one
// skill carrying an id.
func (d *Document) Validate() error {
	if len(d.Levels) != len(LevelOrder) {
		return errors.New("roadmap must have exactly 3 levels")
	}
	for i, lvl := range d.Levels {
		if lvl.Name != LevelOrder[i] {
			return errors.New("roadmap levels must be Beginner, Intermediate, Advanced in order")
		}
		if len(lvl.Skills) == 0 {
			return errors.New("roadmap level has no skills")
		}
		for _, s := range lvl.Skills {
			if s.ID == "" {
				return errors.New("roadmap skill is missing an id")
			}
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

type Repository interface {
	Save(ctx context.Context, r *Roadmap) error
	UpdateData(ctx context.Context, r *Roadmap) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*Roadmap, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*Roadmap, error)
	DeactivateByUser(ctx context.Context, userID uuid.UUID) error
}
