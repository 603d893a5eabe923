package catalog

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// validate performs all structural checks on the given definitions.
// Returns a *MalformedContentError describing all problems found, or nil.
func validate(version string, tracks []Track, modules []Module) error {
	var errs []string

	if !semver.IsValid(canonicalVersion(version)) {
		errs = append(errs, fmt.Sprintf("catalog version %q is not a semantic version", version))
	}
	if len(tracks) == 0 {
		errs = append(errs, "catalog declares no tracks")
	}

	trackSet := make(map[string]*Track, len(tracks))
	badgeSet := make(map[string]bool, len(tracks))
	entryTracks := 0
	for i := range tracks {
		t := &tracks[i]
		if t.ID == "" {
			errs = append(errs, fmt.Sprintf("track at index %d has an empty ID", i))
			continue
		}
		if trackSet[t.ID] != nil {
			errs = append(errs, fmt.Sprintf("duplicate track ID: %q", t.ID))
		}
		trackSet[t.ID] = t

		if !t.Level.valid() {
			errs = append(errs, fmt.Sprintf("track %q has unknown level %q", t.ID, t.Level))
		}
		if t.XPRequired < 0 {
			errs = append(errs, fmt.Sprintf("track %q: xp_required must be >= 0, got %d", t.ID, t.XPRequired))
		}
		if t.XPRequired == 0 {
			entryTracks++
		}
		if len(t.ModuleIDs) == 0 {
			errs = append(errs, fmt.Sprintf("track %q has no modules", t.ID))
		}

		switch {
		case t.Badge.ID == "":
			errs = append(errs, fmt.Sprintf("track %q has no badge", t.ID))
		case badgeSet[t.Badge.ID]:
			errs = append(errs, fmt.Sprintf("duplicate badge ID: %q", t.Badge.ID))
		}
		badgeSet[t.Badge.ID] = true
		if t.Badge.TrackID != "" && t.Badge.TrackID != t.ID {
			errs = append(errs, fmt.Sprintf("badge %q belongs to track %q but is declared on %q", t.Badge.ID, t.Badge.TrackID, t.ID))
		}
	}
	if len(tracks) > 0 && entryTracks == 0 {
		errs = append(errs, "no entry track found (at least one track must have xp_required = 0)")
	}

	moduleSet := make(map[string]*Module, len(modules))
	for i := range modules {
		m := &modules[i]
		if m.ID == "" {
			errs = append(errs, fmt.Sprintf("module at index %d has an empty ID", i))
			continue
		}
		if moduleSet[m.ID] != nil {
			errs = append(errs, fmt.Sprintf("duplicate module ID: %q", m.ID))
		}
		moduleSet[m.ID] = m

		if trackSet[m.TrackID] == nil {
			errs = append(errs, fmt.Sprintf("module %q references nonexistent track %q", m.ID, m.TrackID))
		}
		if m.XPReward < 0 {
			errs = append(errs, fmt.Sprintf("module %q: xp_reward must be >= 0, got %d", m.ID, m.XPReward))
		}
		if len(m.Steps) == 0 {
			errs = append(errs, fmt.Sprintf("module %q has no steps", m.ID))
		}

		stepSet := make(map[string]bool, len(m.Steps))
		for j, s := range m.Steps {
			if s.ID == "" {
				errs = append(errs, fmt.Sprintf("module %q step %d has an empty ID", m.ID, j))
				continue
			}
			if stepSet[s.ID] {
				errs = append(errs, fmt.Sprintf("module %q has duplicate step ID %q", m.ID, s.ID))
			}
			stepSet[s.ID] = true
			if !s.Type.Valid() {
				errs = append(errs, fmt.Sprintf("module %q step %q has unknown type %q", m.ID, s.ID, s.Type))
			}
		}
	}

	// Track membership and module ownership must agree in both directions.
	listedBy := make(map[string]string, len(modules))
	for _, t := range tracks {
		for _, moduleID := range t.ModuleIDs {
			m := moduleSet[moduleID]
			if m == nil {
				errs = append(errs, fmt.Sprintf("track %q references nonexistent module %q", t.ID, moduleID))
				continue
			}
			if prev, ok := listedBy[moduleID]; ok {
				errs = append(errs, fmt.Sprintf("module %q is listed by both track %q and track %q", moduleID, prev, t.ID))
				continue
			}
			listedBy[moduleID] = t.ID
			if m.TrackID != t.ID {
				errs = append(errs, fmt.Sprintf("track %q lists module %q which belongs to track %q", t.ID, moduleID, m.TrackID))
			}
		}
	}
	for _, m := range modules {
		if _, ok := listedBy[m.ID]; !ok && trackSet[m.TrackID] != nil {
			errs = append(errs, fmt.Sprintf("module %q is not listed by its track %q", m.ID, m.TrackID))
		}
	}

	if len(errs) > 0 {
		return &MalformedContentError{Problems: errs}
	}
	return nil
}

// canonicalVersion adds the "v" prefix that x/mod/semver expects.
func canonicalVersion(v string) string {
	if v == "" || v[0] == 'v' {
		return v
	}
	return "v" + v
}

// SameMajor reports whether two catalog versions share a major version.
// Invalid versions never match.
func SameMajor(a, b string) bool {
	va, vb := canonicalVersion(a), canonicalVersion(b)
	if !semver.IsValid(va) || !semver.IsValid(vb) {
		return false
	}
	return semver.Major(va) == semver.Major(vb)
}

// CompareVersions compares two catalog versions using semver ordering.
func CompareVersions(a, b string) int {
	return semver.Compare(canonicalVersion(a), canonicalVersion(b))
}
