package covers

import "sort"

// selectCandidate picks the best candidate among the ones reported by a
// single provider.
//
// Candidates whose album is in the exclude set are dropped so that a "try
// another cover" re-roll never repeats a previously shown result. The rest
// are deduplicated by album name, first occurrence wins. The sort is stable
// and only by score, so among equally scored candidates the one discovered
// first keeps its lead.
//
// It returns nil when nothing survives the filtering. That is a normal
// outcome, not an error.
func selectCandidate(
	candidates []Candidate,
	exclude map[string]struct{},
) *Candidate {
	seen := make(map[string]struct{}, len(candidates))

	var kept []Candidate
	for _, cand := range candidates {
		if _, ok := exclude[cand.Album]; ok {
			continue
		}
		if _, ok := seen[cand.Album]; ok {
			continue
		}

		seen[cand.Album] = struct{}{}
		kept = append(kept, cand)
	}

	if len(kept) < 1 {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	return &kept[0]
}
