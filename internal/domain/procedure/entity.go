// internal/domain/procedure/entity.go
package procedure

import "context"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Step is one instruction of a maintenance procedure
type Step struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url,omitempty"`
	EstimatedTime string   `json:"estimated_time"`
	Tools         []string `json:"tools"`
	SafetyNotes   string   `json:"safety_notes,omitempty"`
}

type Procedure struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Duration    string     `json:"duration"`
	Difficulty  Difficulty `json:"difficulty"`
	Steps       []Step     `json:"steps"`
}

// Summary is the list view of a procedure
type Summary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Duration    string     `json:"duration"`
	Difficulty  Difficulty `json:"difficulty"`
	StepCount   int        `json:"step_count"`
}

func (p *Procedure) Summary() Summary {
	return Summary{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Duration:    p.Duration,
		Difficulty:  p.Difficulty,
		StepCount:   len(p.Steps),
	}
}

// HasStep reports whether stepID belongs to the procedure
func (p *Procedure) HasStep(stepID string) bool {
	for _, s := range p.Steps {
		if s.ID == stepID {
			return true
		}
	}
	return false
}

// Progress is a user's checklist state for one procedure
type Progress struct {
	ProcedureID    string   `json:"procedure_id"`
	CompletedSteps []string `json:"completed_steps"`
	TotalSteps     int      `json:"total_steps"`
	AllCompleted   bool     `json:"all_completed"`
	NextStep       string   `json:"next_step,omitempty"`
}

// ProgressStore persists completed step ids per user and procedure
type ProgressStore interface {
	Completed(ctx context.Context, userID, procedureID string) ([]string, error)
	Toggle(ctx context.Context, userID, procedureID, stepID string) (bool, error)
	Reset(ctx context.Context, userID, procedureID string) error
}
