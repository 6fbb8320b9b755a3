package pipeline

import "sort"

// Shortlist ranks candidates by score (descending, stable) and selects at
// most maxCandidates of them in two passes: first everyone at or above the
// threshold, then a backfill from the remaining top-ranked candidates so a
// strict threshold never starves the shortlist.
//
// The IsShortlisted flag is mutated on the shared records, so callers holding
// the same pointers observe the selection. Result length is always
// min(maxCandidates, len(candidates)) and the result is sorted by score
// descending. Concurrent shortlisting over overlapping candidate sets is not
// safe; callers serialize per job.
func Shortlist(candidates []*ScoredCandidate, maxCandidates int, threshold float64) []*ScoredCandidate {
	ranked := make([]*ScoredCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	shortlisted := make([]*ScoredCandidate, 0, maxCandidates)

	// Threshold pass.
	for _, c := range ranked {
		if len(shortlisted) >= maxCandidates {
			break
		}
		if c.MatchScore >= threshold {
			c.IsShortlisted = true
			shortlisted = append(shortlisted, c)
		}
	}

	// Backfill pass: take the best remaining regardless of threshold.
	if len(shortlisted) < maxCandidates {
		for _, c := range ranked {
			if len(shortlisted) >= maxCandidates {
				break
			}
			if c.IsShortlisted {
				continue
			}
			c.IsShortlisted = true
			shortlisted = append(shortlisted, c)
		}
	}

	return shortlisted
}
