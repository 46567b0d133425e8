package merge

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/yungbote/medialib-admin/internal/domain"
)

// memCatalog is an in-memory catalog with the same uniqueness rules as the
// relational schema.
type memCatalog struct {
	entities map[domain.Category]map[uint]domain.EntityRecord
	rows     map[domain.Category]map[uint]domain.RelationshipRow
	nextID   uint

	failInsertRows bool
	// failDeleteIn makes DeleteRelationships fail for one category.
	failDeleteIn domain.Category
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		entities: map[domain.Category]map[uint]domain.EntityRecord{},
		rows:     map[domain.Category]map[uint]domain.RelationshipRow{},
		nextID:   1000,
	}
}

func (m *memCatalog) put(rec domain.EntityRecord) domain.EntityRef {
	if m.entities[rec.Category] == nil {
		m.entities[rec.Category] = map[uint]domain.EntityRecord{}
	}
	m.entities[rec.Category][rec.ID] = rec
	return rec.Ref()
}

func (m *memCatalog) link(c domain.Category, entityID uint, lectures ...uint) {
	if m.rows[c] == nil {
		m.rows[c] = map[uint]domain.RelationshipRow{}
	}
	for _, l := range lectures {
		m.nextID++
		m.rows[c][m.nextID] = domain.RelationshipRow{ID: m.nextID, LectureID: l, EntityID: entityID, RelationType: "discussed"}
	}
}

func (m *memCatalog) lectures(ref domain.EntityRef) []uint {
	var out []uint
	for _, r := range m.rows[ref.Category] {
		if r.EntityID == ref.ID {
			out = append(out, r.LectureID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m *memCatalog) exists(ref domain.EntityRef) bool {
	_, ok := m.entities[ref.Category][ref.ID]
	return ok
}

func (m *memCatalog) GetEntity(ctx context.Context, ref domain.EntityRef) (*domain.EntityRecord, error) {
	rec, ok := m.entities[ref.Category][ref.ID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memCatalog) InsertEntity(ctx context.Context, rec domain.EntityRecord) (uint, error) {
	m.nextID++
	rec.ID = m.nextID
	m.put(rec)
	return rec.ID, nil
}

func (m *memCatalog) FillEntity(ctx context.Context, ref domain.EntityRef, rec domain.EntityRecord) error {
	cur, ok := m.entities[ref.Category][ref.ID]
	if !ok {
		return errors.New("no row")
	}
	if strings.TrimSpace(cur.SecondaryName) == "" {
		cur.SecondaryName = rec.SecondaryName
	}
	if strings.TrimSpace(cur.Description) == "" {
		cur.Description = rec.Description
	}
	m.entities[ref.Category][ref.ID] = cur
	return nil
}

func (m *memCatalog) DeleteEntity(ctx context.Context, ref domain.EntityRef) error {
	delete(m.entities[ref.Category], ref.ID)
	return nil
}

func (m *memCatalog) ListRelationships(ctx context.Context, ref domain.EntityRef) ([]domain.RelationshipRow, error) {
	var out []domain.RelationshipRow
	for _, r := range m.rows[ref.Category] {
		if r.EntityID == ref.ID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCatalog) conflicts(c domain.Category, lecture, entity uint, skip uint) bool {
	for id, r := range m.rows[c] {
		if id != skip && r.LectureID == lecture && r.EntityID == entity {
			return true
		}
	}
	return false
}

func (m *memCatalog) Retarget(ctx context.Context, c domain.Category, ids []uint, entityID uint) error {
	for _, id := range ids {
		r := m.rows[c][id]
		if m.conflicts(c, r.LectureID, entityID, id) {
			return errors.New("unique violation")
		}
		r.EntityID = entityID
		m.rows[c][id] = r
	}
	return nil
}

func (m *memCatalog) InsertRelationships(ctx context.Context, c domain.Category, rows []domain.RelationshipRow) (int, error) {
	if m.failInsertRows {
		return 0, errors.New("insert failed")
	}
	n := 0
	for _, r := range rows {
		if m.conflicts(c, r.LectureID, r.EntityID, 0) {
			continue
		}
		m.link(c, r.EntityID, r.LectureID)
		n++
	}
	return n, nil
}

func (m *memCatalog) DeleteRelationships(ctx context.Context, c domain.Category, ids []uint) error {
	if c == m.failDeleteIn {
		return errors.New("delete rows failed")
	}
	for _, id := range ids {
		delete(m.rows[c], id)
	}
	return nil
}

type memImages struct {
	objects  map[string]bool
	failCopy bool
	failList bool
}

func newMemImages(keys ...string) *memImages {
	m := &memImages{objects: map[string]bool{}}
	for _, k := range keys {
		m.objects[k] = true
	}
	return m
}

func (m *memImages) KeyExists(ctx context.Context, key string) (bool, error) {
	return m.objects[key], nil
}

func (m *memImages) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if m.failList {
		return nil, errors.New("list denied")
	}
	var out []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *memImages) CopyObject(ctx context.Context, src, dst string) error {
	if m.failCopy {
		return errors.New("copy denied")
	}
	if !m.objects[src] {
		return errors.New("object not found")
	}
	m.objects[dst] = true
	return nil
}

func (m *memImages) DeleteFile(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}
