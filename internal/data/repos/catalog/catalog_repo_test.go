package catalog

import (
	"context"
	"testing"

	"github.com/yungbote/medialib-admin/internal/data/repos/testutil"
	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/platform/dbctx"
)

func lectureIDs(t *testing.T, repo CatalogRepo, dbc dbctx.Context, ref domain.EntityRef) map[uint]bool {
	t.Helper()
	rows, err := repo.ListRelationships(dbc, ref)
	if err != nil {
		t.Fatalf("ListRelationships(%s): %v", ref.Key(), err)
	}
	out := map[uint]bool{}
	for _, r := range rows {
		if r.EntityID != ref.ID {
			t.Fatalf("ListRelationships entity: want=%d got=%d", ref.ID, r.EntityID)
		}
		out[r.LectureID] = true
	}
	return out
}

func TestCatalogRepoEntities(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCatalogRepo(db, testutil.Logger(t))

	book := testutil.SeedBook(t, ctx, tx, "Ficciones", "")
	testutil.SeedBook(t, ctx, tx, "The Aleph", "האלף")

	recs, err := repo.ListEntities(dbc, domain.CategoryBooks)
	if err != nil || len(recs) != 2 {
		t.Fatalf("ListEntities: err=%v len=%d", err, len(recs))
	}
	if recs[0].Name != "Ficciones" || recs[0].Category != domain.CategoryBooks {
		t.Fatalf("ListEntities[0]: got=%+v", recs[0])
	}
	if recs[1].SecondaryName != "האלף" {
		t.Fatalf("ListEntities secondary: want=%q got=%q", "האלף", recs[1].SecondaryName)
	}

	ref := domain.EntityRef{ID: book.ID, Category: domain.CategoryBooks}
	got, err := repo.GetEntity(dbc, ref)
	if err != nil || got == nil || got.Name != "Ficciones" {
		t.Fatalf("GetEntity: err=%v got=%+v", err, got)
	}
	missing, err := repo.GetEntity(dbc, domain.EntityRef{ID: 9999, Category: domain.CategoryBooks})
	if err != nil || missing != nil {
		t.Fatalf("GetEntity missing: err=%v got=%+v", err, missing)
	}

	if err := repo.FillBlankFields(dbc, ref, domain.EntityRecord{SecondaryName: "בדיונות", Description: "stories"}); err != nil {
		t.Fatalf("FillBlankFields: %v", err)
	}
	if err := repo.FillBlankFields(dbc, ref, domain.EntityRecord{Description: "overwritten"}); err != nil {
		t.Fatalf("FillBlankFields second: %v", err)
	}
	got, _ = repo.GetEntity(dbc, ref)
	if got.SecondaryName != "בדיונות" || got.Description != "stories" {
		t.Fatalf("FillBlankFields: got=%+v", got)
	}

	newID, err := repo.InsertEntity(dbc, domain.EntityRecord{Category: domain.CategoryFilms, Name: "Ficciones", Description: "stories"})
	if err != nil || newID == 0 {
		t.Fatalf("InsertEntity: err=%v id=%d", err, newID)
	}
	film, err := repo.GetEntity(dbc, domain.EntityRef{ID: newID, Category: domain.CategoryFilms})
	if err != nil || film == nil || film.Name != "Ficciones" || film.Description != "stories" {
		t.Fatalf("GetEntity inserted: err=%v got=%+v", err, film)
	}
	if _, err := repo.InsertEntity(dbc, domain.EntityRecord{Category: domain.CategoryFilms, Name: " "}); err == nil {
		t.Fatalf("InsertEntity blank name: want error")
	}
	if _, err := repo.ListEntities(dbc, domain.CategoryThemes); err == nil {
		t.Fatalf("ListEntities themes: want error")
	}

	if err := repo.DeleteEntity(dbc, ref); err != nil {
		t.Fatalf("DeleteEntity: %v", err)
	}
	if got, _ := repo.GetEntity(dbc, ref); got != nil {
		t.Fatalf("DeleteEntity: row still present")
	}
}

func TestCatalogRepoRelationships(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCatalogRepo(db, testutil.Logger(t))

	keep := testutil.SeedDirector(t, ctx, tx, "Andrei Tarkovsky")
	dup := testutil.SeedDirector(t, ctx, tx, "Andrey Tarkovsky")
	film := testutil.SeedFilm(t, ctx, tx, "Tarkovsky")
	l1 := testutil.SeedLecture(t, ctx, tx, "Sculpting in Time")
	l2 := testutil.SeedLecture(t, ctx, tx, "Mirror")
	l3 := testutil.SeedLecture(t, ctx, tx, "Stalker")

	keepRef := domain.EntityRef{ID: keep.ID, Category: domain.CategoryDirectors}
	dupRef := domain.EntityRef{ID: dup.ID, Category: domain.CategoryDirectors}
	filmRef := domain.EntityRef{ID: film.ID, Category: domain.CategoryFilms}
	testutil.Link(t, ctx, tx, keepRef, l1.ID)
	testutil.Link(t, ctx, tx, dupRef, l2.ID)
	testutil.Link(t, ctx, tx, dupRef, l3.ID)
	testutil.Link(t, ctx, tx, filmRef, l1.ID)

	counts, err := repo.RelationshipCounts(dbc, domain.CategoryDirectors)
	if err != nil {
		t.Fatalf("RelationshipCounts: %v", err)
	}
	if counts[keep.ID] != 1 || counts[dup.ID] != 2 {
		t.Fatalf("RelationshipCounts: got=%v", counts)
	}

	rows, err := repo.ListRelationships(dbc, dupRef)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListRelationships: err=%v len=%d", err, len(rows))
	}
	if rows[0].RelationType != "discussed" {
		t.Fatalf("ListRelationships relation type: got=%q", rows[0].RelationType)
	}

	if err := repo.RetargetRelationships(dbc, domain.CategoryDirectors, []uint{rows[0].ID}, keep.ID); err != nil {
		t.Fatalf("RetargetRelationships: %v", err)
	}
	if got := lectureIDs(t, repo, dbc, keepRef); !got[l1.ID] || !got[l2.ID] || len(got) != 2 {
		t.Fatalf("after retarget keep lectures: got=%v", got)
	}

	// l1 already links the film; only l3 is new.
	n, err := repo.InsertRelationships(dbc, domain.CategoryFilms, []domain.RelationshipRow{
		{LectureID: l1.ID, EntityID: film.ID},
		{LectureID: l3.ID, EntityID: film.ID, RelationType: "mentioned"},
	})
	if err != nil || n != 1 {
		t.Fatalf("InsertRelationships: err=%v n=%d", err, n)
	}
	if got := lectureIDs(t, repo, dbc, filmRef); !got[l1.ID] || !got[l3.ID] || len(got) != 2 {
		t.Fatalf("film lectures: got=%v", got)
	}

	if err := repo.DeleteRelationships(dbc, domain.CategoryDirectors, []uint{rows[1].ID}); err != nil {
		t.Fatalf("DeleteRelationships: %v", err)
	}
	if got := lectureIDs(t, repo, dbc, dupRef); len(got) != 0 {
		t.Fatalf("dup lectures after delete: got=%v", got)
	}
}
