// internal/service/procedure/procedure.go
package procedure

import (
	"context"
	"fmt"

	"uav-maintenance-service/internal/domain/procedure"
	xerrors "uav-maintenance-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type ProcedureService struct {
	catalog  []procedure.Procedure
	byID     map[string]*procedure.Procedure
	progress procedure.ProgressStore
	logger   *zap.Logger
}

func NewProcedureService(catalog []procedure.Procedure, progress procedure.ProgressStore, logger *zap.Logger) *ProcedureService {
	byID := make(map[string]*procedure.Procedure, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}
	return &ProcedureService{
		catalog:  catalog,
		byID:     byID,
		progress: progress,
		logger:   logger,
	}
}

// List returns procedure summaries in catalog order
func (s *ProcedureService) List() []procedure.Summary {
	out := make([]procedure.Summary, 0, len(s.catalog))
	for i := range s.catalog {
		out = append(out, s.catalog[i].Summary())
	}
	return out
}

// Get returns a procedure with its steps
func (s *ProcedureService) Get(id string) (*procedure.Procedure, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return p, nil
}

// Progress returns the user's checklist state
func (s *ProcedureService) Progress(ctx context.Context, userID, procedureID string) (*procedure.Progress, error) {
	p, err := s.Get(procedureID)
	if err != nil {
		return nil, err
	}

	completed, err := s.progress.Completed(ctx, userID, procedureID)
	if err != nil {
		return nil, err
	}

	return buildProgress(p, completed), nil
}

// ToggleStep flips the completion of one step
func (s *ProcedureService) ToggleStep(ctx context.Context, userID, procedureID, stepID string) (*procedure.Progress, error) {
	p, err := s.Get(procedureID)
	if err != nil {
		return nil, err
	}
	if !p.HasStep(stepID) {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, fmt.Sprintf("step %s not in procedure %s", stepID, procedureID))
	}

	done, err := s.progress.Toggle(ctx, userID, procedureID, stepID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("procedure step toggled",
		zap.String("user_id", userID),
		zap.String("procedure_id", procedureID),
		zap.String("step_id", stepID),
		zap.Bool("completed", done),
	)

	return s.Progress(ctx, userID, procedureID)
}

// Reset clears the user's progress
func (s *ProcedureService) Reset(ctx context.Context, userID, procedureID string) error {
	if _, err := s.Get(procedureID); err != nil {
		return err
	}
	return s.progress.Reset(ctx, userID, procedureID)
}

// buildProgress orders completed steps by the procedure and ignores stale ids
func buildProgress(p *procedure.Procedure, completed []string) *procedure.Progress {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}

	progress := &procedure.Progress{
		ProcedureID:    p.ID,
		CompletedSteps: make([]string, 0, len(completed)),
		TotalSteps:     len(p.Steps),
	}
	for _, step := range p.Steps {
		if done[step.ID] {
			progress.CompletedSteps = append(progress.CompletedSteps, step.ID)
		} else if progress.NextStep == "" {
			progress.NextStep = step.ID
		}
	}
	progress.AllCompleted = len(p.Steps) > 0 && len(progress.CompletedSteps) == len(p.Steps)
	return progress
}
