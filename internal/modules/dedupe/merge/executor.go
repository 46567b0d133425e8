// Package merge consolidates two catalog entities into one.
//
// The relational store and the image store cannot share a transaction, so
// every step runs on its own and the losing entity is deleted only after its
// relationships have been moved. A retry after a crash at any point reruns
// cleanly.
package merge

import (
	"context"
	"fmt"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

type Outcome struct {
	Kept    domain.EntityRef `json:"kept"`
	Deleted domain.EntityRef `json:"deleted"`
	// MigratedRows counts junction rows now pointing at Kept.
	MigratedRows int `json:"migrated_rows"`
	// DroppedDuplicates counts rows discarded because Kept already linked
	// the same lecture.
	DroppedDuplicates int              `json:"dropped_duplicates"`
	FilledFields      bool             `json:"filled_fields"`
	Image             ImageCarryResult `json:"image"`
}

// Warnings lists the best-effort steps that did not succeed.
func (o *Outcome) Warnings() []string {
	if o == nil || !o.Image.Failed() {
		return nil
	}
	return []string{"image carry-over failed: " + o.Image.Reason}
}

type Executor struct {
	log       *logger.Logger
	entities  EntityStore
	relations RelationshipStore
	images    ImageStore
	layout    domain.ImageLayout
}

// NewExecutor wires the stores. images may be nil to skip image carry-over.
func NewExecutor(log *logger.Logger, entities EntityStore, relations RelationshipStore, images ImageStore, layout domain.ImageLayout) *Executor {
	return &Executor{
		log:       log.With("module", "dedupe.merge"),
		entities:  entities,
		relations: relations,
		images:    images,
		layout:    layout,
	}
}

func validatePair(op string, keep, del domain.EntityRef) error {
	if !keep.Category.Mergeable() || !del.Category.Mergeable() {
		return domain.Validation(op, fmt.Sprintf("categories %s and %s must both be mergeable", keep.Category, del.Category))
	}
	if keep.ID == 0 || del.ID == 0 {
		return domain.Validation(op, "entity ids are required")
	}
	if keep == del {
		return domain.Validation(op, "keep and delete must be different entities")
	}
	return nil
}

// Merge folds del into keep: relationships move to keep, del's row is
// deleted, then del's image is carried over if keep has none.
func (e *Executor) Merge(ctx context.Context, keep, del domain.EntityRef) (*Outcome, error) {
	const op = "merge"
	if err := validatePair(op, keep, del); err != nil {
		return nil, err
	}
	log := e.log.With("keep", keep.Key(), "delete", del.Key())

	delRec, err := e.fetch(ctx, op, del)
	if err != nil {
		return nil, err
	}
	keepRec, err := e.fetch(ctx, op, keep)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Kept: keep, Deleted: del}
	if keep.Category != del.Category {
		mapped := mapFields(*delRec, keep.Category)
		if needsFill(*keepRec, mapped) {
			if err := e.entities.FillEntity(ctx, keep, mapped); err != nil {
				return nil, domain.PartialMigration(op, del, fmt.Errorf("fill fields on %s: %w", keep.Key(), err))
			}
			out.FilledFields = true
		}
	}

	moved, dropped, err := e.migrate(ctx, op, keep, del)
	if err != nil {
		log.Warn("relationship migration failed; delete aborted", "error", err)
		return nil, err
	}
	out.MigratedRows, out.DroppedDuplicates = moved, dropped

	if err := e.entities.DeleteEntity(ctx, del); err != nil {
		return nil, fmt.Errorf("delete %s: %w", del.Key(), err)
	}

	out.Image = e.carryImage(ctx, keep, del)
	log.Info("entities merged",
		"migrated_rows", out.MigratedRows,
		"dropped_duplicates", out.DroppedDuplicates,
		"image", out.Image.Status,
	)
	return out, nil
}

// Reclassify moves an entity into another category by inserting a mapped
// copy, migrating its relationships and deleting the original. The copy is
// removed again if migration fails.
func (e *Executor) Reclassify(ctx context.Context, src domain.EntityRef, to domain.Category) (*Outcome, error) {
	const op = "reclassify"
	if !src.Category.Mergeable() || !to.Mergeable() {
		return nil, domain.Validation(op, fmt.Sprintf("categories %s and %s must both be mergeable", src.Category, to))
	}
	if src.Category == to {
		return nil, domain.Validation(op, "target category must differ from the source")
	}
	rec, err := e.fetch(ctx, op, src)
	if err != nil {
		return nil, err
	}

	newID, err := e.entities.InsertEntity(ctx, mapFields(*rec, to))
	if err != nil {
		return nil, fmt.Errorf("insert %s copy of %s: %w", to, src.Key(), err)
	}
	target := domain.EntityRef{ID: newID, Category: to}
	log := e.log.With("source", src.Key(), "target", target.Key())

	moved, dropped, err := e.migrate(ctx, op, target, src)
	if err != nil {
		e.rollbackInsert(ctx, log, target)
		log.Warn("relationship migration failed; reclassify rolled back", "error", err)
		return nil, err
	}

	if err := e.entities.DeleteEntity(ctx, src); err != nil {
		return nil, fmt.Errorf("delete %s: %w", src.Key(), err)
	}
	out := &Outcome{Kept: target, Deleted: src, MigratedRows: moved, DroppedDuplicates: dropped}
	out.Image = e.carryImage(ctx, target, src)
	log.Info("entity reclassified", "migrated_rows", moved, "image", out.Image.Status)
	return out, nil
}

// rollbackInsert removes a freshly inserted entity and any junction rows
// already copied onto it. The source entity is untouched either way.
func (e *Executor) rollbackInsert(ctx context.Context, log *logger.Logger, target domain.EntityRef) {
	if rows, err := e.relations.ListRelationships(ctx, target); err == nil && len(rows) > 0 {
		if err := e.relations.DeleteRelationships(ctx, target.Category, rowIDs(rows)); err != nil {
			log.Error("rollback of copied relationships failed", "error", err)
		}
	}
	if err := e.entities.DeleteEntity(ctx, target); err != nil {
		log.Error("rollback of inserted entity failed", "error", err)
	}
}

func (e *Executor) fetch(ctx context.Context, op string, ref domain.EntityRef) (*domain.EntityRecord, error) {
	rec, err := e.entities.GetEntity(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch %s: %w", op, ref.Key(), err)
	}
	if rec == nil {
		return nil, domain.NotFound(op, ref)
	}
	return rec, nil
}

// migrate moves every junction row of del onto keep, dropping rows whose
// lecture keep already links.
func (e *Executor) migrate(ctx context.Context, op string, keep, del domain.EntityRef) (moved, dropped int, err error) {
	delRows, err := e.relations.ListRelationships(ctx, del)
	if err != nil {
		return 0, 0, domain.PartialMigration(op, del, err)
	}
	if len(delRows) == 0 {
		return 0, 0, nil
	}
	keepRows, err := e.relations.ListRelationships(ctx, keep)
	if err != nil {
		return 0, 0, domain.PartialMigration(op, del, err)
	}
	linked := make(map[uint]struct{}, len(keepRows))
	for _, r := range keepRows {
		linked[r.LectureID] = struct{}{}
	}

	var fresh []domain.RelationshipRow
	var dupIDs []uint
	for _, r := range delRows {
		if _, ok := linked[r.LectureID]; ok {
			dupIDs = append(dupIDs, r.ID)
			continue
		}
		linked[r.LectureID] = struct{}{}
		fresh = append(fresh, r)
	}

	if keep.Category == del.Category {
		if len(dupIDs) > 0 {
			if err := e.relations.DeleteRelationships(ctx, del.Category, dupIDs); err != nil {
				return 0, 0, domain.PartialMigration(op, del, err)
			}
		}
		if len(fresh) > 0 {
			if err := e.relations.Retarget(ctx, keep.Category, rowIDs(fresh), keep.ID); err != nil {
				return 0, 0, domain.PartialMigration(op, del, err)
			}
		}
		return len(fresh), len(dupIDs), nil
	}

	copies := make([]domain.RelationshipRow, 0, len(fresh))
	for _, r := range fresh {
		copies = append(copies, domain.RelationshipRow{LectureID: r.LectureID, EntityID: keep.ID, RelationType: r.RelationType})
	}
	written := 0
	if len(copies) > 0 {
		written, err = e.relations.InsertRelationships(ctx, keep.Category, copies)
		if err != nil {
			return 0, 0, domain.PartialMigration(op, del, err)
		}
	}
	if err := e.relations.DeleteRelationships(ctx, del.Category, rowIDs(delRows)); err != nil {
		return 0, 0, domain.PartialMigration(op, del, err)
	}
	return written, len(delRows) - written, nil
}

func rowIDs(rows []domain.RelationshipRow) []uint {
	out := make([]uint, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}
