package catalog

// Level is the skill tier a track belongs to.
type Level string

const (
	LevelNovice       Level = "novice"
	LevelIntermediate Level = "intermediate"
	LevelMaster       Level = "master"
)

// AllLevels returns all levels in progression order.
func AllLevels() []Level {
	return []Level{LevelNovice, LevelIntermediate, LevelMaster}
}

// DisplayName returns a human-readable label for the level.
func (l Level) DisplayName() string {
	switch l {
	case LevelNovice:
		return "Novice"
	case LevelIntermediate:
		return "Intermediate"
	case LevelMaster:
		return "Master"
	default:
		return string(l)
	}
}

func (l Level) valid() bool {
	switch l {
	case LevelNovice, LevelIntermediate, LevelMaster:
		return true
	}
	return false
}

// StepType is the kind of content a step presents.
type StepType string

const (
	StepArticle   StepType = "article"
	StepQuiz      StepType = "quiz"
	StepChecklist StepType = "checklist"
)

// AllStepTypes returns every known step type.
func AllStepTypes() []StepType {
	return []StepType{StepArticle, StepQuiz, StepChecklist}
}

// Valid reports whether t is one of the known step types.
func (t StepType) Valid() bool {
	switch t {
	case StepArticle, StepQuiz, StepChecklist:
		return true
	}
	return false
}

// Icon returns the display icon for a step type.
func (t StepType) Icon() string {
	switch t {
	case StepArticle:
		return "📖"
	case StepQuiz:
		return "❓"
	case StepChecklist:
		return "☑️"
	default:
		return "?"
	}
}

// Step is the smallest content unit within a module.
type Step struct {
	ID      string
	Type    StepType
	Title   string
	Content string
}

// BadgeDescriptor is display metadata attached to a module. It is never
// issued as an earned badge.
type BadgeDescriptor struct {
	Name        string
	Description string
	Icon        string
}

// Badge is the achievement issued when every module in a track is completed.
type Badge struct {
	ID          string
	TrackID     string
	Name        string
	Description string
	Icon        string
}

// Module is a unit of curriculum within a track.
type Module struct {
	ID       string
	TrackID  string
	Title    string
	Summary  string
	Steps    []Step
	XPReward int
	Badge    *BadgeDescriptor
}

// StepIDs returns the module's step IDs in catalog order.
func (m Module) StepIDs() []string {
	ids := make([]string, len(m.Steps))
	for i, s := range m.Steps {
		ids[i] = s.ID
	}
	return ids
}

// HasStep reports whether stepID belongs to the module.
func (m Module) HasStep(stepID string) bool {
	for _, s := range m.Steps {
		if s.ID == stepID {
			return true
		}
	}
	return false
}

// Track is a skill tier gating a set of modules behind an XP threshold.
type Track struct {
	ID          string
	Level       Level
	Title       string
	Description string
	XPRequired  int
	ModuleIDs   []string
	Badge       Badge
}
