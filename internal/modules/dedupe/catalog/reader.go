// Package catalog assembles the enriched entity list that duplicate
// detection runs over.
package catalog

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/similarity"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

type EntitySource interface {
	ListEntities(ctx context.Context, category domain.Category) ([]domain.EntityRecord, error)
	// RelationshipCounts returns junction-row counts keyed by entity id.
	RelationshipCounts(ctx context.Context, category domain.Category) (map[uint]int, error)
}

type ImageIndex interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	GetPublicURL(key string) string
}

type Reader struct {
	log        *logger.Logger
	entities   EntitySource
	images     ImageIndex
	layout     domain.ImageLayout
	categories []domain.Category
	limit      int
}

// NewReader builds a reader over every mergeable category. images may be nil,
// in which case no entity reports an image.
func NewReader(log *logger.Logger, entities EntitySource, images ImageIndex, layout domain.ImageLayout) *Reader {
	return &Reader{
		log:        log.With("module", "dedupe.catalog"),
		entities:   entities,
		images:     images,
		layout:     layout,
		categories: domain.MergeableCategories(),
		limit:      8,
	}
}

type categoryResult struct {
	records []domain.EntityRecord
	counts  map[uint]int
	images  map[uint]string
}

// Read fetches every category concurrently. Any single failure cancels the
// rest and no partial catalog is returned.
func (r *Reader) Read(ctx context.Context) ([]domain.CatalogEntity, error) {
	results := make([]categoryResult, len(r.categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, cat := range r.categories {
		i, cat := i, cat
		g.Go(func() error {
			recs, err := r.entities.ListEntities(gctx, cat)
			if err != nil {
				return domain.CatalogRead(cat, err)
			}
			results[i].records = recs
			return nil
		})
		g.Go(func() error {
			counts, err := r.entities.RelationshipCounts(gctx, cat)
			if err != nil {
				return domain.CatalogRead(cat, err)
			}
			results[i].counts = counts
			return nil
		})
		g.Go(func() error {
			imgs, err := r.imageIndex(gctx, cat)
			if err != nil {
				return domain.CatalogRead(cat, err)
			}
			results[i].images = imgs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.Warn("catalog read failed", "error", err)
		return nil, err
	}

	var out []domain.CatalogEntity
	for i, cat := range r.categories {
		res := results[i]
		for _, rec := range res.records {
			e := domain.CatalogEntity{
				ID:                rec.ID,
				Category:          cat,
				Name:              rec.Name,
				SecondaryName:     rec.SecondaryName,
				RelationshipCount: res.counts[rec.ID],
			}
			if url, ok := res.images[rec.ID]; ok {
				e.HasImage = true
				e.ImageURL = url
			}
			out = append(out, e)
		}
	}
	r.log.Debug("catalog read", "entities", len(out), "categories", len(r.categories))
	return out, nil
}

// imageIndex maps entity ids to public image URLs for one category. Keys
// that are not a direct child of the category prefix, or whose filename does
// not parse to an id, are ignored.
func (r *Reader) imageIndex(ctx context.Context, cat domain.Category) (map[uint]string, error) {
	out := map[uint]string{}
	if r.images == nil {
		return out, nil
	}
	keys, err := r.images.ListKeys(ctx, r.layout.CategoryPrefix(cat))
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		id, ok := r.layout.IDInCategory(cat, k)
		if !ok {
			continue
		}
		if _, seen := out[id]; !seen {
			out[id] = r.images.GetPublicURL(k)
		}
	}
	return out, nil
}

type SearchQuery struct {
	Text     string
	Category domain.Category
	Limit    int
}

// Search ranks catalog entities against a free-text query for the manual
// merge picker. Results score at least the fuzzy threshold unless the query
// is contained in the name.
func (r *Reader) Search(ctx context.Context, q SearchQuery) ([]domain.CatalogEntity, error) {
	text := similarity.Normalize(q.Text)
	if text == "" {
		return nil, domain.Validation("search", "query is required")
	}
	if q.Category != "" && !q.Category.Mergeable() {
		return nil, domain.Validation("search", "unknown category "+string(q.Category))
	}
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	all, err := r.Read(ctx)
	if err != nil {
		return nil, err
	}

	type hit struct {
		e     domain.CatalogEntity
		score float64
	}
	var hits []hit
	for _, e := range all {
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		name := similarity.Normalize(e.Name)
		score := similarity.NormalizedSimilarity(text, name)
		if strings.Contains(name, text) || strings.Contains(similarity.Normalize(e.SecondaryName), text) {
			score = max(score, similarity.ContainmentScore)
		}
		if !similarity.IsSimilar(score, similarity.FuzzyThreshold) && score < similarity.ExactScore {
			continue
		}
		hits = append(hits, hit{e: e, score: score})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].e.RelationshipCount > hits[j].e.RelationshipCount
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]domain.CatalogEntity, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.e)
	}
	return out, nil
}
