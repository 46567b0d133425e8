// Package grouping clusters catalog entities into exact and similar
// duplicate groups.
package grouping

import (
	"strings"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/similarity"
)

type Options struct {
	// Threshold is the minimum fuzzy score; zero means similarity.FuzzyThreshold.
	Threshold float64
	// CanCompare gates every pairing; nil allows all pairs.
	CanCompare CompareFunc
}

type Result struct {
	Exact   []domain.DuplicateGroup
	Similar []domain.DuplicateGroup
}

func (r Result) Len() int { return len(r.Exact) + len(r.Similar) }

type candidate struct {
	entity domain.CatalogEntity
	norm   string
}

// Build runs the exact pass, then the fuzzy pass over whatever the exact
// pass left ungrouped. An entity lands in at most one group. Output order
// follows input order.
func Build(entities []domain.CatalogEntity, opts Options) Result {
	if opts.Threshold <= 0 {
		opts.Threshold = similarity.FuzzyThreshold
	}
	canCompare := opts.CanCompare
	if canCompare == nil {
		canCompare = func(domain.Category, domain.Category) bool { return true }
	}

	cands := uniqueCandidates(entities)
	placed := make([]bool, len(cands))

	var res Result
	for _, bucket := range exactBuckets(cands) {
		ds := newDisjointSet(len(bucket))
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				if canCompare(cands[bucket[i]].entity.Category, cands[bucket[j]].entity.Category) {
					ds.union(i, j)
				}
			}
		}
		for _, comp := range ds.components(2) {
			members := make([]domain.CatalogEntity, 0, len(comp))
			for _, local := range comp {
				idx := bucket[local]
				placed[idx] = true
				members = append(members, cands[idx].entity)
			}
			res.Exact = append(res.Exact, newGroup(domain.MatchExact, displayName(members[0].Name), similarity.ExactScore, members))
		}
	}

	var rest []int
	for i, c := range cands {
		if !placed[i] && c.norm != "" {
			rest = append(rest, i)
		}
	}
	ds := newDisjointSet(len(rest))
	best := make([]float64, len(rest))
	type edge struct {
		a, b  int
		score float64
	}
	var edges []edge
	for i := 0; i < len(rest); i++ {
		ci := cands[rest[i]]
		for j := i + 1; j < len(rest); j++ {
			cj := cands[rest[j]]
			if !canCompare(ci.entity.Category, cj.entity.Category) {
				continue
			}
			score := similarity.NormalizedSimilarity(ci.norm, cj.norm)
			if !similarity.IsSimilar(score, opts.Threshold) {
				continue
			}
			ds.union(i, j)
			edges = append(edges, edge{a: i, b: j, score: score})
		}
	}
	for _, e := range edges {
		r := ds.find(e.a)
		best[r] = max(best[r], e.score)
	}
	for _, comp := range ds.components(2) {
		members := make([]domain.CatalogEntity, 0, len(comp))
		rep := rest[comp[0]]
		for _, local := range comp {
			idx := rest[local]
			members = append(members, cands[idx].entity)
			if cands[idx].norm < cands[rep].norm {
				rep = idx
			}
		}
		score := best[ds.find(comp[0])]
		res.Similar = append(res.Similar, newGroup(domain.MatchSimilar, displayName(cands[rep].entity.Name), score, members))
	}
	return res
}

func uniqueCandidates(entities []domain.CatalogEntity) []candidate {
	seen := make(map[string]struct{}, len(entities))
	out := make([]candidate, 0, len(entities))
	for _, e := range entities {
		key := e.Ref().Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, candidate{entity: e, norm: similarity.Normalize(e.Name)})
	}
	return out
}

// exactBuckets groups candidate indexes by normalized name, keeping only
// names shared by two or more entities. Blank names never match.
func exactBuckets(cands []candidate) [][]int {
	pos := map[string]int{}
	var buckets [][]int
	for i, c := range cands {
		if c.norm == "" {
			continue
		}
		p, ok := pos[c.norm]
		if !ok {
			p = len(buckets)
			pos[c.norm] = p
			buckets = append(buckets, nil)
		}
		buckets[p] = append(buckets[p], i)
	}
	out := buckets[:0]
	for _, b := range buckets {
		if len(b) >= 2 {
			out = append(out, b)
		}
	}
	return out
}

func newGroup(kind domain.MatchKind, name string, score float64, members []domain.CatalogEntity) domain.DuplicateGroup {
	return domain.DuplicateGroup{
		Name:       name,
		Kind:       kind,
		Similarity: score,
		Members:    members,
		Signature:  Signature(name, members),
	}
}

func displayName(s string) string { return strings.TrimSpace(s) }
