package catalog

import (
	"errors"
	"testing"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	return c
}

func TestDefault_Loads(t *testing.T) {
	c := mustDefault(t)
	if c.Version() != "1.0.0" {
		t.Errorf("Version() = %q, want %q", c.Version(), "1.0.0")
	}
	if got := len(c.Tracks()); got != 3 {
		t.Errorf("got %d tracks, want 3", got)
	}
	if got := len(c.Modules()); got != 17 {
		t.Errorf("got %d modules, want 17", got)
	}
}

func TestModule_LeaveNoTrace(t *testing.T) {
	c := mustDefault(t)
	m, err := c.Module("leave-no-trace")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Steps) != 9 {
		t.Errorf("got %d steps, want 9", len(m.Steps))
	}
	if m.XPReward != 50 {
		t.Errorf("XPReward = %d, want 50", m.XPReward)
	}
	if m.TrackID != "novice" {
		t.Errorf("TrackID = %q, want novice", m.TrackID)
	}
	if m.Badge == nil || m.Badge.Name != "Steward" {
		t.Errorf("Badge = %+v, want Steward descriptor", m.Badge)
	}
}

func TestModule_NotFound(t *testing.T) {
	c := mustDefault(t)
	_, err := c.Module("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "module" {
		t.Errorf("err = %#v, want module NotFoundError", err)
	}
}

func TestStep_BelongsToOtherModule(t *testing.T) {
	c := mustDefault(t)

	if _, err := c.Step("leave-no-trace", "lnt-quiz"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ess-quiz exists, but in ten-essentials.
	_, err := c.Step("leave-no-trace", "ess-quiz")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	want := `step "ess-quiz" not found in module "leave-no-trace"`
	if err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}
}

func TestTracks_OrderedByThreshold(t *testing.T) {
	c := mustDefault(t)
	tracks := c.Tracks()
	for i := 1; i < len(tracks); i++ {
		if tracks[i].XPRequired < tracks[i-1].XPRequired {
			t.Errorf("track %q (xp %d) sorted after %q (xp %d)",
				tracks[i].ID, tracks[i].XPRequired, tracks[i-1].ID, tracks[i-1].XPRequired)
		}
	}
	if tracks[0].ID != "novice" {
		t.Errorf("first track = %q, want novice", tracks[0].ID)
	}
}

func TestModulesByTrack_FollowsTrackOrder(t *testing.T) {
	c := mustDefault(t)
	track, err := c.Track("intermediate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	modules, err := c.ModulesByTrack("intermediate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(modules) != len(track.ModuleIDs) {
		t.Fatalf("got %d modules, want %d", len(modules), len(track.ModuleIDs))
	}
	for i, m := range modules {
		if m.ID != track.ModuleIDs[i] {
			t.Errorf("modules[%d] = %q, want %q", i, m.ID, track.ModuleIDs[i])
		}
	}

	if _, err := c.ModulesByTrack("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBadges_OnePerTrack(t *testing.T) {
	c := mustDefault(t)
	badges := c.Badges()
	if len(badges) != len(c.Tracks()) {
		t.Fatalf("got %d badges, want %d", len(badges), len(c.Tracks()))
	}
	for _, b := range badges {
		if b.TrackID == "" {
			t.Errorf("badge %q has no track", b.ID)
		}
	}
}

func TestEntryTracks(t *testing.T) {
	c := mustDefault(t)
	entry := c.EntryTracks()
	if len(entry) != 1 || entry[0].ID != "novice" {
		t.Errorf("EntryTracks() = %v, want [novice]", entry)
	}
	if got := c.ByLevel(LevelMaster); len(got) != 1 {
		t.Errorf("ByLevel(master) = %d tracks, want 1", len(got))
	}
}

func TestModule_StepIDs(t *testing.T) {
	m := Module{Steps: []Step{{ID: "a"}, {ID: "b"}}}
	ids := m.StepIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("StepIDs() = %v, want [a b]", ids)
	}
	if !m.HasStep("b") || m.HasStep("c") {
		t.Error("HasStep returned the wrong answer")
	}
}
