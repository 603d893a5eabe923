package components

import (
	"strings"
	"testing"
)

func TestProgressBarFill(t *testing.T) {
	tests := []struct {
		name       string
		percent    int
		wantFilled int
	}{
		{"empty", 0, 0},
		{"half", 50, 10},
		{"full", 100, 20},
		{"clamped high", 140, 20},
		{"clamped low", -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewProgressBar("", tt.percent, false, 20).View()
			if got := strings.Count(view, "█"); got != tt.wantFilled {
				t.Errorf("filled = %d, want %d", got, tt.wantFilled)
			}
			if got := strings.Count(view, "█") + strings.Count(view, "░"); got != 20 {
				t.Errorf("bar width = %d, want 20", got)
			}
		})
	}
}

func TestProgressBarPercentLabel(t *testing.T) {
	view := NewProgressBar("Fire", 67, true, 40).View()
	if !strings.Contains(view, "67%") {
		t.Errorf("view %q missing percentage", view)
	}
	if !strings.Contains(view, "Fire") {
		t.Errorf("view %q missing label", view)
	}
}

func TestBadgeLine(t *testing.T) {
	if got := BadgeLine("*", "Steward", "", false); !strings.Contains(got, "locked") {
		t.Errorf("unearned badge %q should say locked", got)
	}
	if got := BadgeLine("*", "Steward", "Packed it out", true); !strings.Contains(got, "Packed it out") {
		t.Errorf("earned badge %q missing description", got)
	}
}
