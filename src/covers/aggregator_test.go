package covers

import "testing"

// TestSelectCandidateExclusion makes sure no excluded album can ever win the
// selection no matter its score.
func TestSelectCandidateExclusion(t *testing.T) {
	candidates := []Candidate{
		{Album: "First Album", Score: scoreTitleMatch, Provider: ProviderNetEase},
		{Album: "Second Album", Score: scoreArtistMatch, Provider: ProviderNetEase},
	}
	exclude := map[string]struct{}{
		"First Album": {},
	}

	selected := selectCandidate(candidates, exclude)
	if selected == nil {
		t.Fatal("expected a candidate but got none")
	}
	if selected.Album != "Second Album" {
		t.Errorf("selected the excluded album: %s", selected.Album)
	}

	exclude["Second Album"] = struct{}{}
	if selected := selectCandidate(candidates, exclude); selected != nil {
		t.Errorf("expected no candidate but got album %s", selected.Album)
	}
}

// TestSelectCandidateDeduplication checks that for repeated albums the first
// discovered candidate wins, preserving the provider priority order.
func TestSelectCandidateDeduplication(t *testing.T) {
	candidates := []Candidate{
		{URL: "first", Album: "Album", Score: scoreArtistMatch},
		{URL: "second", Album: "Album", Score: scoreArtistMatch},
		{URL: "third", Album: "Album", Score: scoreArtistMatch},
	}

	selected := selectCandidate(candidates, nil)
	if selected == nil {
		t.Fatal("expected a candidate but got none")
	}
	if selected.URL != "first" {
		t.Errorf("expected the first duplicate to win but got %s", selected.URL)
	}
}

// TestSelectCandidateScoring checks that an exact title hit always ranks at
// or above an artist-only match regardless of discovery order and that ties
// are broken by discovery order.
func TestSelectCandidateScoring(t *testing.T) {
	candidates := []Candidate{
		{URL: "alternate", Album: "Compilation", Score: scoreArtistMatch},
		{URL: "exact", Album: "The Real One", Score: scoreTitleMatch},
		{URL: "exact-later", Album: "Another Real One", Score: scoreTitleMatch},
	}

	selected := selectCandidate(candidates, nil)
	if selected == nil {
		t.Fatal("expected a candidate but got none")
	}
	if selected.URL != "exact" {
		t.Errorf("expected the first exact title match to win but got %s", selected.URL)
	}
}

// TestSelectCandidateEmpty makes sure an empty input is a normal outcome.
func TestSelectCandidateEmpty(t *testing.T) {
	if selected := selectCandidate(nil, nil); selected != nil {
		t.Errorf("expected no candidate from empty input, got %s", selected.Album)
	}
}

// TestMatchScoreIsBinary checks that only the two score tiers exist.
func TestMatchScoreIsBinary(t *testing.T) {
	tests := []struct {
		queried  string
		reported string
		want     int
	}{
		{"Shape of You", "Shape of You", scoreTitleMatch},
		{"shape of you", "Shape of You (Acoustic)", scoreTitleMatch},
		{"Shape of You", "Perfect", scoreArtistMatch},
		{"", "Perfect", scoreArtistMatch},
		{"Shape of You", "", scoreArtistMatch},
	}

	for _, test := range tests {
		got := matchScore(test.queried, test.reported)
		if got != test.want {
			t.Errorf(
				"matchScore(%q, %q) = %d, expected %d",
				test.queried,
				test.reported,
				got,
				test.want,
			)
		}
		if got != scoreTitleMatch && got != scoreArtistMatch {
			t.Errorf("score %d is outside the two defined tiers", got)
		}
	}
}

// TestArtistMatches checks the bidirectional substring gate.
func TestArtistMatches(t *testing.T) {
	tests := []struct {
		queried  string
		reported string
		want     bool
	}{
		{"Ed Sheeran", "Ed Sheeran", true},
		{"ed sheeran", "Ed Sheeran feat. Beyoncé", true},
		{"Ed Sheeran feat. Beyoncé", "Ed Sheeran", true},
		{"Ed Sheeran", "Taylor Swift", false},
		{"", "Taylor Swift", false},
		{"Ed Sheeran", "", false},
	}

	for _, test := range tests {
		if got := artistMatches(test.queried, test.reported); got != test.want {
			t.Errorf(
				"artistMatches(%q, %q) = %t, expected %t",
				test.queried,
				test.reported,
				got,
				test.want,
			)
		}
	}
}
