package progress

import "time"

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// Snapshot is the full serializable progression state handed to the
// persistence layer.
type Snapshot struct {
	Version        int                        `json:"version"`
	CatalogVersion string                     `json:"catalog_version"`
	Sequence       int64                      `json:"sequence"`
	SavedAt        time.Time                  `json:"saved_at"`
	Progress       map[string]*ModuleProgress `json:"progress"`
	User           UserProgress               `json:"user"`
}

// NewSnapshot returns an empty first-launch snapshot.
func NewSnapshot(catalogVersion string) *Snapshot {
	return &Snapshot{
		Version:        SnapshotVersion,
		CatalogVersion: catalogVersion,
		Progress:       make(map[string]*ModuleProgress),
		User:           NewUserProgress(),
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Progress = make(map[string]*ModuleProgress, len(s.Progress))
	for id, mp := range s.Progress {
		c.Progress[id] = mp.Clone()
	}
	c.User = s.User.Clone()
	return &c
}

// Normalize fills in defaults for fields an older or hand-edited snapshot
// may lack.
func (s *Snapshot) Normalize() {
	if s.Version == 0 {
		s.Version = SnapshotVersion
	}
	if s.Progress == nil {
		s.Progress = make(map[string]*ModuleProgress)
	}
	for id, mp := range s.Progress {
		if mp == nil {
			delete(s.Progress, id)
			continue
		}
		if mp.ModuleID == "" {
			mp.ModuleID = id
		}
		if mp.Status == "" {
			mp.Status = StatusNotStarted
		}
		if mp.Steps == nil {
			mp.Steps = make(map[string]*StepProgress)
		}
		for stepID, sp := range mp.Steps {
			if sp == nil {
				delete(mp.Steps, stepID)
				continue
			}
			if sp.StepID == "" {
				sp.StepID = stepID
			}
			if sp.Status == "" {
				sp.Status = StatusNotStarted
			}
		}
	}
	s.User.ensureSets()
}
