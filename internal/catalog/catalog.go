package catalog

import (
	"slices"
	"sort"
)

// Catalog holds the immutable track/module/step definitions with
// precomputed indices. A Catalog is safe for concurrent reads.
type Catalog struct {
	version    string
	tracks     []Track
	modules    []Module
	trackByID  map[string]*Track
	moduleByID map[string]*Module
	byTrack    map[string][]Module
	byLevel    map[Level][]Track
}

// New validates the definitions and builds a Catalog from them.
// It returns a *MalformedContentError if the definitions violate the
// structural contract.
func New(version string, tracks []Track, modules []Module) (*Catalog, error) {
	if err := validate(version, tracks, modules); err != nil {
		return nil, err
	}
	return build(version, tracks, modules), nil
}

func build(version string, tracks []Track, modules []Module) *Catalog {
	c := &Catalog{
		version:    version,
		tracks:     slices.Clone(tracks),
		modules:    slices.Clone(modules),
		trackByID:  make(map[string]*Track, len(tracks)),
		moduleByID: make(map[string]*Module, len(modules)),
		byTrack:    make(map[string][]Module, len(tracks)),
		byLevel:    make(map[Level][]Track),
	}

	// Unlock order: threshold ascending, declaration order on ties.
	sort.SliceStable(c.tracks, func(i, j int) bool {
		return c.tracks[i].XPRequired < c.tracks[j].XPRequired
	})

	for i := range c.tracks {
		c.trackByID[c.tracks[i].ID] = &c.tracks[i]
		c.byLevel[c.tracks[i].Level] = append(c.byLevel[c.tracks[i].Level], c.tracks[i])
	}
	for i := range c.modules {
		c.moduleByID[c.modules[i].ID] = &c.modules[i]
	}

	// Modules per track follow the track's declared order, not the module list.
	for _, t := range c.tracks {
		ordered := make([]Module, 0, len(t.ModuleIDs))
		for _, id := range t.ModuleIDs {
			if m, ok := c.moduleByID[id]; ok {
				ordered = append(ordered, *m)
			}
		}
		c.byTrack[t.ID] = ordered
	}

	return c
}

// Version returns the catalog's semantic version.
func (c *Catalog) Version() string {
	return c.version
}

// Tracks returns all tracks ordered by unlock threshold.
func (c *Catalog) Tracks() []Track {
	return slices.Clone(c.tracks)
}

// ByLevel returns the tracks of a given level.
func (c *Catalog) ByLevel(level Level) []Track {
	return slices.Clone(c.byLevel[level])
}

// Modules returns all modules in declaration order.
func (c *Catalog) Modules() []Module {
	return slices.Clone(c.modules)
}

// Track returns a track by ID.
func (c *Catalog) Track(id string) (Track, error) {
	t, ok := c.trackByID[id]
	if !ok {
		return Track{}, &NotFoundError{Kind: "track", ID: id}
	}
	return *t, nil
}

// Module returns a module by ID.
func (c *Catalog) Module(id string) (Module, error) {
	m, ok := c.moduleByID[id]
	if !ok {
		return Module{}, &NotFoundError{Kind: "module", ID: id}
	}
	return *m, nil
}

// Step resolves a step within a module. A step ID that exists only in a
// different module is reported as not found.
func (c *Catalog) Step(moduleID, stepID string) (Step, error) {
	m, ok := c.moduleByID[moduleID]
	if !ok {
		return Step{}, &NotFoundError{Kind: "module", ID: moduleID}
	}
	for _, s := range m.Steps {
		if s.ID == stepID {
			return s, nil
		}
	}
	return Step{}, &NotFoundError{Kind: "step", ID: stepID, ModuleID: moduleID}
}

// ModulesByTrack returns the modules of a track in the track's order.
func (c *Catalog) ModulesByTrack(trackID string) ([]Module, error) {
	if _, ok := c.trackByID[trackID]; !ok {
		return nil, &NotFoundError{Kind: "track", ID: trackID}
	}
	return slices.Clone(c.byTrack[trackID]), nil
}

// Badges returns every track badge in track order.
func (c *Catalog) Badges() []Badge {
	badges := make([]Badge, 0, len(c.tracks))
	for _, t := range c.tracks {
		badges = append(badges, t.Badge)
	}
	return badges
}

// EntryTracks returns the tracks that are unlocked from the start
// (zero XP threshold).
func (c *Catalog) EntryTracks() []Track {
	var result []Track
	for _, t := range c.tracks {
		if t.XPRequired <= 0 {
			result = append(result, t)
		}
	}
	return result
}
