package storage

import (
	"sort"
	"strings"

	"github.com/Veraticus/penny/internal/model"
	"github.com/sahilm/fuzzy"
)

// MatchCandidates keeps the candidates whose name contains query or is
// contained in it, ignoring case. Exact names come first, then names that
// fuzzy-match the query by score, then the rest in their given order.
func MatchCandidates(query string, candidates []model.Candidate) []model.Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matched []model.Candidate
	for _, c := range candidates {
		name := strings.ToLower(strings.TrimSpace(c.DisplayName))
		if name == "" {
			continue
		}
		if strings.Contains(name, q) || strings.Contains(q, name) {
			matched = append(matched, c)
		}
	}
	if len(matched) < 2 {
		return matched
	}

	names := make([]string, len(matched))
	for i, c := range matched {
		names[i] = strings.ToLower(c.DisplayName)
	}
	scores := make(map[int]int, len(matched))
	for _, m := range fuzzy.Find(q, names) {
		scores[m.Index] = m.Score
	}

	order := make([]int, len(matched))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		ea, eb := names[ia] == q, names[ib] == q
		if ea != eb {
			return ea
		}
		sa, okA := scores[ia]
		sb, okB := scores[ib]
		if okA != okB {
			return okA
		}
		return sa > sb
	})

	ranked := make([]model.Candidate, len(order))
	for i, idx := range order {
		ranked[i] = matched[idx]
	}
	return ranked
}
