package catalog

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/platform/dbctx"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

// CatalogRepo reads and rewrites the mergeable category tables and their
// lecture junction tables. Table and column names come from
// domain.CategorySpec, never from callers.
type CatalogRepo interface {
	ListEntities(dbc dbctx.Context, category domain.Category) ([]domain.EntityRecord, error)
	GetEntity(dbc dbctx.Context, ref domain.EntityRef) (*domain.EntityRecord, error)
	InsertEntity(dbc dbctx.Context, rec domain.EntityRecord) (uint, error)
	FillBlankFields(dbc dbctx.Context, ref domain.EntityRef, rec domain.EntityRecord) error
	DeleteEntity(dbc dbctx.Context, ref domain.EntityRef) error

	RelationshipCounts(dbc dbctx.Context, category domain.Category) (map[uint]int, error)
	ListRelationships(dbc dbctx.Context, ref domain.EntityRef) ([]domain.RelationshipRow, error)
	RetargetRelationships(dbc dbctx.Context, category domain.Category, rowIDs []uint, entityID uint) error
	InsertRelationships(dbc dbctx.Context, category domain.Category, rows []domain.RelationshipRow) (int, error)
	DeleteRelationships(dbc dbctx.Context, category domain.Category, rowIDs []uint) error
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	repoLog := baseLog.With("repo", "CatalogRepo")
	return &catalogRepo{db: db, log: repoLog}
}

func specFor(c domain.Category) (domain.CategorySpec, error) {
	spec, ok := domain.SpecFor(c)
	if !ok {
		return domain.CategorySpec{}, fmt.Errorf("category %q has no table", c)
	}
	return spec, nil
}

func entityColumns(spec domain.CategorySpec) string {
	return fmt.Sprintf(
		"id, %s AS name, COALESCE(%s, '') AS secondary_name, COALESCE(%s, '') AS description",
		spec.NameColumn, spec.SecondaryColumn, spec.DescriptionColumn,
	)
}

func (r *catalogRepo) ListEntities(dbc dbctx.Context, category domain.Category) ([]domain.EntityRecord, error) {
	spec, err := specFor(category)
	if err != nil {
		return nil, err
	}
	var rows []domain.EntityRecord
	if err := dbc.DB(r.db).
		Table(spec.Table).
		Select(entityColumns(spec)).
		Order("id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Category = category
	}
	return rows, nil
}

func (r *catalogRepo) GetEntity(dbc dbctx.Context, ref domain.EntityRef) (*domain.EntityRecord, error) {
	spec, err := specFor(ref.Category)
	if err != nil {
		return nil, err
	}
	var rec domain.EntityRecord
	err = dbc.DB(r.db).
		Table(spec.Table).
		Select(entityColumns(spec)).
		Where("id = ?", ref.ID).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.Category = ref.Category
	return &rec, nil
}

func newModel(rec domain.EntityRecord) (interface{}, func() uint, error) {
	switch rec.Category {
	case domain.CategoryDirectors:
		m := &domain.Director{Name: rec.Name, HebrewName: rec.SecondaryName, Description: rec.Description}
		return m, func() uint { return m.ID }, nil
	case domain.CategoryWriters:
		m := &domain.Writer{Name: rec.Name, HebrewName: rec.SecondaryName, Description: rec.Description}
		return m, func() uint { return m.ID }, nil
	case domain.CategoryPhilosophers:
		m := &domain.Philosopher{Name: rec.Name, HebrewName: rec.SecondaryName, Description: rec.Description}
		return m, func() uint { return m.ID }, nil
	case domain.CategoryPainters:
		m := &domain.Painter{Name: rec.Name, HebrewName: rec.SecondaryName, Description: rec.Description}
		return m, func() uint { return m.ID }, nil
	case domain.CategoryFilms:
		m := &domain.Film{Title: rec.Name, HebrewTitle: rec.SecondaryName, Description: rec.Description}
		return m, func() uint { return m.ID }, nil
	case domain.CategoryBooks:
		m := &domain.Book{Title: rec.Name, HebrewTitle: rec.SecondaryName, Description: rec.Description}
		return m, func() uint { return m.ID }, nil
	case domain.CategoryPaintings:
		m := &domain.Painting{Title: rec.Name, HebrewTitle: rec.SecondaryName, Description: rec.Description}
		return m, func() uint { return m.ID }, nil
	default:
		return nil, nil, fmt.Errorf("category %q has no table", rec.Category)
	}
}

func (r *catalogRepo) InsertEntity(dbc dbctx.Context, rec domain.EntityRecord) (uint, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return 0, fmt.Errorf("insert %s: name is required", rec.Category)
	}
	model, id, err := newModel(rec)
	if err != nil {
		return 0, err
	}
	if err := dbc.DB(r.db).Create(model).Error; err != nil {
		return 0, err
	}
	return id(), nil
}

func (r *catalogRepo) FillBlankFields(dbc dbctx.Context, ref domain.EntityRef, rec domain.EntityRecord) error {
	spec, err := specFor(ref.Category)
	if err != nil {
		return err
	}
	fill := map[string]string{
		spec.SecondaryColumn:   strings.TrimSpace(rec.SecondaryName),
		spec.DescriptionColumn: strings.TrimSpace(rec.Description),
	}
	for col, val := range fill {
		if val == "" {
			continue
		}
		if err := dbc.DB(r.db).
			Table(spec.Table).
			Where("id = ?", ref.ID).
			Where(fmt.Sprintf("(%s IS NULL OR %s = '')", col, col)).
			Update(col, val).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *catalogRepo) DeleteEntity(dbc dbctx.Context, ref domain.EntityRef) error {
	spec, err := specFor(ref.Category)
	if err != nil {
		return err
	}
	return dbc.DB(r.db).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", spec.Table), ref.ID).Error
}

func (r *catalogRepo) RelationshipCounts(dbc dbctx.Context, category domain.Category) (map[uint]int, error) {
	spec, err := specFor(category)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		EntityID uint
		N        int
	}
	if err := dbc.DB(r.db).
		Table(spec.RelationTable).
		Select(fmt.Sprintf("%s AS entity_id, COUNT(*) AS n", spec.ForeignKey)).
		Group(spec.ForeignKey).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]int, len(rows))
	for _, row := range rows {
		out[row.EntityID] = row.N
	}
	return out, nil
}

func (r *catalogRepo) ListRelationships(dbc dbctx.Context, ref domain.EntityRef) ([]domain.RelationshipRow, error) {
	spec, err := specFor(ref.Category)
	if err != nil {
		return nil, err
	}
	var rows []domain.RelationshipRow
	if err := dbc.DB(r.db).
		Table(spec.RelationTable).
		Select(fmt.Sprintf("id, lecture_id, %s AS entity_id, relation_type", spec.ForeignKey)).
		Where(fmt.Sprintf("%s = ?", spec.ForeignKey), ref.ID).
		Order("id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *catalogRepo) RetargetRelationships(dbc dbctx.Context, category domain.Category, rowIDs []uint, entityID uint) error {
	if len(rowIDs) == 0 {
		return nil
	}
	spec, err := specFor(category)
	if err != nil {
		return err
	}
	return dbc.DB(r.db).
		Table(spec.RelationTable).
		Where("id IN ?", rowIDs).
		Update(spec.ForeignKey, entityID).Error
}

func (r *catalogRepo) InsertRelationships(dbc dbctx.Context, category domain.Category, rows []domain.RelationshipRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	spec, err := specFor(category)
	if err != nil {
		return 0, err
	}
	values := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		relType := row.RelationType
		if relType == "" {
			relType = "discussed"
		}
		values = append(values, map[string]interface{}{
			"lecture_id":    row.LectureID,
			spec.ForeignKey: row.EntityID,
			"relation_type": relType,
		})
	}
	res := dbc.DB(r.db).
		Table(spec.RelationTable).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(values)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *catalogRepo) DeleteRelationships(dbc dbctx.Context, category domain.Category, rowIDs []uint) error {
	if len(rowIDs) == 0 {
		return nil
	}
	spec, err := specFor(category)
	if err != nil {
		return err
	}
	return dbc.DB(r.db).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE id IN ?", spec.RelationTable), rowIDs).Error
}
