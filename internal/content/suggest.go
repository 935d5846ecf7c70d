package content

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggestLimit is the largest edit distance accepted for an id of length n.
func suggestLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// Closest returns the candidate nearest to id by edit distance, or false when
// none is within the limit for its length. Ties resolve to the smaller id.
func Closest(id string, candidates []string) (string, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return "", false
	}
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	best, bestDist := "", -1
	for _, cand := range sorted {
		d := levenshtein.ComputeDistance(id, cand)
		if d > suggestLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best, bestDist >= 0
}

// SpeciesIDs lists every species id in ascending order.
func (c *Catalogs) SpeciesIDs() []string {
	all := c.Species.All()
	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = s.ID
	}
	sort.Strings(ids)
	return ids
}

// EnemyIDs lists every enemy id in ascending order.
func (c *Catalogs) EnemyIDs() []string {
	all := c.Enemies.All()
	ids := make([]string, len(all))
	for i, e := range all {
		ids[i] = e.ID
	}
	sort.Strings(ids)
	return ids
}
