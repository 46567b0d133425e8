package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityRef identifies an entity. IDs are unique only within a category.
type EntityRef struct {
	ID       uint     `json:"id"`
	Category Category `json:"category"`
}

// Key is the "category:id" form used to index entities across categories.
func (r EntityRef) Key() string {
	return fmt.Sprintf("%s:%d", r.Category, r.ID)
}

func (r EntityRef) String() string { return r.Key() }

// ParseEntityRef accepts "category:id".
func ParseEntityRef(raw string) (EntityRef, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return EntityRef{}, fmt.Errorf("invalid entity ref %q; expected category:id", raw)
	}
	cat, err := ParseCategory(parts[0])
	if err != nil {
		return EntityRef{}, err
	}
	id, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil || id == 0 {
		return EntityRef{}, fmt.Errorf("invalid entity id in %q", raw)
	}
	return EntityRef{ID: uint(id), Category: cat}, nil
}

// EntityRecord is a full entity row projected onto the category-neutral shape.
type EntityRecord struct {
	ID            uint     `json:"id"`
	Category      Category `json:"category"`
	Name          string   `json:"name"`
	SecondaryName string   `json:"secondary_name,omitempty"`
	Description   string   `json:"description,omitempty"`
}

func (e EntityRecord) Ref() EntityRef { return EntityRef{ID: e.ID, Category: e.Category} }

// RelationshipRow is a junction row linking an entity to a lecture.
type RelationshipRow struct {
	ID           uint   `json:"id"`
	LectureID    uint   `json:"lecture_id"`
	EntityID     uint   `json:"entity_id"`
	RelationType string `json:"relation_type,omitempty"`
}

// CatalogEntity is an entity enriched with derived relationship and image data.
type CatalogEntity struct {
	ID                uint     `json:"id"`
	Category          Category `json:"category"`
	Name              string   `json:"name"`
	SecondaryName     string   `json:"secondary_name,omitempty"`
	RelationshipCount int      `json:"relationship_count"`
	HasImage          bool     `json:"has_image"`
	ImageURL          string   `json:"image_url,omitempty"`
}

func (e CatalogEntity) Ref() EntityRef { return EntityRef{ID: e.ID, Category: e.Category} }

type MatchKind string

const (
	MatchExact   MatchKind = "exact"
	MatchSimilar MatchKind = "similar"
)

func ParseMatchKind(raw string) (MatchKind, error) {
	switch k := MatchKind(strings.ToLower(strings.TrimSpace(raw))); k {
	case MatchExact, MatchSimilar:
		return k, nil
	default:
		return "", fmt.Errorf("unknown section %q", raw)
	}
}

// DuplicateGroup is derived on every scan and never stored; only its
// signature is persisted through history.
type DuplicateGroup struct {
	Name       string          `json:"name"`
	Kind       MatchKind       `json:"kind"`
	Similarity float64         `json:"similarity"`
	Members    []CatalogEntity `json:"members"`
	Signature  string          `json:"signature"`
}
