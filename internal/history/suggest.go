package history

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance caps how far a candidate may be from the typed prefix
// before it stops counting as a plausible completion.
const maxSuggestDistance = 3

// SuggestPlaces ranks previously used places against the partial input,
// preferring prefix matches, then small edit distances. Empty input returns
// the most recently used places unchanged.
func (s *Store) SuggestPlaces(input string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	places, err := s.Places(100)
	if err != nil {
		return nil, err
	}
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		if len(places) > limit {
			places = places[:limit]
		}
		return places, nil
	}

	type scored struct {
		place string
		rank  int
		dist  int
	}
	var candidates []scored
	for _, p := range places {
		lower := strings.ToLower(p)
		switch {
		case lower == input:
			candidates = append(candidates, scored{p, 0, 0})
		case strings.HasPrefix(lower, input):
			candidates = append(candidates, scored{p, 1, len(lower) - len(input)})
		default:
			d := levenshtein.ComputeDistance(input, lower)
			if d <= maxSuggestDistance {
				candidates = append(candidates, scored{p, 2, d})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].rank != candidates[j].rank {
			return candidates[i].rank < candidates[j].rank
		}
		return candidates[i].dist < candidates[j].dist
	})

	out := make([]string, 0, limit)
	for _, c := range candidates {
		out = append(out, c.place)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
