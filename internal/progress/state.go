package progress

import "time"

// Status is the completion state of a step or module.
type Status string

const (
	StatusNotStarted Status = "not_started"
	// StatusInProgress is part of the stored format, but the engine never
	// writes it for steps; steps go straight to completed.
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Label returns the display label for a status.
func (s Status) Label() string {
	switch s {
	case StatusNotStarted, "":
		return "Not started"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// StepProgress records completion of one step.
type StepProgress struct {
	StepID      string     `json:"step_id"`
	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ModuleProgress records per-step completion within one module.
type ModuleProgress struct {
	ModuleID    string                   `json:"module_id"`
	Status      Status                   `json:"status"`
	StartedAt   time.Time                `json:"started_at"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
	Steps       map[string]*StepProgress `json:"steps"`
}

// NewModuleProgress creates the record for a module on its first step
// completion.
func NewModuleProgress(moduleID string, now time.Time) *ModuleProgress {
	return &ModuleProgress{
		ModuleID:  moduleID,
		Status:    StatusInProgress,
		StartedAt: now,
		Steps:     make(map[string]*StepProgress),
	}
}

// IsCompleted reports whether the module has reached the completed state.
func (m *ModuleProgress) IsCompleted() bool {
	return m.Status == StatusCompleted
}

// CompleteStep marks a step completed. It returns false if the step was
// already completed, in which case the first completion time is kept.
func (m *ModuleProgress) CompleteStep(stepID string, now time.Time) bool {
	if m.Steps == nil {
		m.Steps = make(map[string]*StepProgress)
	}
	if sp, ok := m.Steps[stepID]; ok && sp.Status == StatusCompleted {
		return false
	}
	at := now
	m.Steps[stepID] = &StepProgress{
		StepID:      stepID,
		Status:      StatusCompleted,
		CompletedAt: &at,
	}
	return true
}

// StepCompleted reports whether a step has been completed.
func (m *ModuleProgress) StepCompleted(stepID string) bool {
	sp, ok := m.Steps[stepID]
	return ok && sp.Status == StatusCompleted
}

// CountCompleted returns how many of the given steps are completed.
// Records for steps outside the list are ignored.
func (m *ModuleProgress) CountCompleted(stepIDs []string) int {
	n := 0
	for _, id := range stepIDs {
		if m.StepCompleted(id) {
			n++
		}
	}
	return n
}

// AllCompleted reports whether every given step is completed.
func (m *ModuleProgress) AllCompleted(stepIDs []string) bool {
	return m.CountCompleted(stepIDs) == len(stepIDs)
}

// MarkCompleted transitions the module to completed. It returns false if
// the module was already completed; CompletedAt is never overwritten.
func (m *ModuleProgress) MarkCompleted(now time.Time) bool {
	if m.IsCompleted() {
		return false
	}
	at := now
	m.Status = StatusCompleted
	m.CompletedAt = &at
	return true
}

// Clone returns a deep copy of the record.
func (m *ModuleProgress) Clone() *ModuleProgress {
	if m == nil {
		return nil
	}
	c := *m
	if m.CompletedAt != nil {
		at := *m.CompletedAt
		c.CompletedAt = &at
	}
	c.Steps = make(map[string]*StepProgress, len(m.Steps))
	for id, sp := range m.Steps {
		cp := *sp
		if sp.CompletedAt != nil {
			at := *sp.CompletedAt
			cp.CompletedAt = &at
		}
		c.Steps[id] = &cp
	}
	return &c
}
