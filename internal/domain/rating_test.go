package domain

import "testing"

func TestRatingTier(t *testing.T) {
	tests := []struct {
		name       string
		difficulty string
		platform   string
		wantOK     bool
		wantTier   string
	}{
		{"newbie", "800", PlatformCodeForces, true, "Newbie"},
		{"pupil lower bound", "1200", PlatformCodeForces, true, "Pupil"},
		{"specialist", "1599", PlatformCodeForces, true, "Specialist"},
		{"candidate master lower bound", "1900", "codeforces", true, "Candidate Master"},
		{"master", "2300", PlatformCodeForces, true, "Master"},
		{"grandmaster", "3500", PlatformCodeForces, true, "Grandmaster"},
		{"label on codeforces", "Hard", PlatformCodeForces, false, ""},
		{"empty difficulty", "", PlatformCodeForces, false, ""},
		{"other platform", "1400", PlatformLeetCode, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := RatingTier(tt.difficulty, tt.platform)
			if ok != tt.wantOK {
				t.Fatalf("RatingTier() ok = %v, want %v", ok, tt.wantOK)
			}
			if tier.Name != tt.wantTier {
				t.Errorf("RatingTier() = %q, want %q", tier.Name, tt.wantTier)
			}
		})
	}
}
