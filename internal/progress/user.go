package progress

// XPPerLevel is the experience needed to advance one level.
const XPPerLevel = 100

// LevelForXP derives the level from cumulative XP.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 0
	}
	return xp / XPPerLevel
}

// XPToNextLevel returns the XP still needed to reach the next level.
func XPToNextLevel(xp int) int {
	return (LevelForXP(xp)+1)*XPPerLevel - max(xp, 0)
}

// Percentage returns round(100 * completed / total), or 0 when total is 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

// UserProgress is the per-user aggregate of XP, level, unlocks, completed
// modules, and earned badges.
type UserProgress struct {
	TotalXP          int   `json:"total_xp"`
	CurrentLevel     int   `json:"current_level"`
	UnlockedTracks   IDSet `json:"unlocked_tracks"`
	CompletedModules IDSet `json:"completed_modules"`
	EarnedBadges     IDSet `json:"earned_badges"`
}

// NewUserProgress returns the zero-value aggregate created at first launch.
func NewUserProgress() UserProgress {
	return UserProgress{
		UnlockedTracks:   NewIDSet(),
		CompletedModules: NewIDSet(),
		EarnedBadges:     NewIDSet(),
	}
}

// AddXP grants xp and re-derives the level. It reports whether the level
// increased.
func (u *UserProgress) AddXP(xp int) bool {
	before := u.CurrentLevel
	u.TotalXP += xp
	u.CurrentLevel = LevelForXP(u.TotalXP)
	return u.CurrentLevel > before
}

// Clone returns a deep copy of the aggregate.
func (u UserProgress) Clone() UserProgress {
	u.UnlockedTracks = u.UnlockedTracks.Clone()
	u.CompletedModules = u.CompletedModules.Clone()
	u.EarnedBadges = u.EarnedBadges.Clone()
	return u
}

// ensureSets replaces nil sets left by decoding an older snapshot.
func (u *UserProgress) ensureSets() {
	if u.UnlockedTracks == nil {
		u.UnlockedTracks = NewIDSet()
	}
	if u.CompletedModules == nil {
		u.CompletedModules = NewIDSet()
	}
	if u.EarnedBadges == nil {
		u.EarnedBadges = NewIDSet()
	}
}
