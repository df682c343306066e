package services_test

import (
	"path/filepath"
	"testing"

	"dressmarket/internal/domain"
	"dressmarket/internal/repos"
	"dressmarket/internal/services"
)

func testSuggest(t *testing.T) (*services.SuggestService, *repos.DressRepo) {
	t.Helper()
	db := testDB(t)
	dresses := repos.NewDressRepo(db)
	svc := services.NewSuggestService(repos.NewShopRepo(db), dresses)
	if err := svc.Rebuild(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	return svc, dresses
}

func TestSuggestQueryAfterRebuild(t *testing.T) {
	svc, _ := testSuggest(t)

	if svc.IndexSize() == 0 {
		t.Fatal("index empty after rebuild")
	}
	g := svc.Query("saree")
	if len(g.Dresses) == 0 {
		t.Fatalf("no dress suggestions for 'saree': %+v", g)
	}
}

func TestSuggestRebuildPicksUpCatalogChanges(t *testing.T) {
	svc, dresses := testSuggest(t)

	if g := svc.Query("velvet wrap"); !g.Empty() {
		t.Fatalf("unexpected hits before insert: %+v", g)
	}

	err := dresses.Create(domain.Dress{ID: "drs-new", ShopID: "shop-meera", Name: "Velvet Wrap"})
	if err != nil {
		t.Fatal(err)
	}

	// Not visible until the next rebuild.
	if g := svc.Query("velvet wrap"); !g.Empty() {
		t.Fatal("index changed without a rebuild")
	}
	if err := svc.Rebuild(); err != nil {
		t.Fatal(err)
	}
	g := svc.Query("velvet wrap")
	if len(g.Dresses) == 0 {
		t.Fatalf("new dress missing after rebuild: %+v", g)
	}
}

func TestSuggestSnapshotLifecycle(t *testing.T) {
	svc, _ := testSuggest(t)
	path := filepath.Join(t.TempDir(), "suggestions.bin")

	if err := svc.SaveSnapshot(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A cold service restores the saved index without touching the catalog.
	db := testDB(t)
	cold := services.NewSuggestService(repos.NewShopRepo(db), repos.NewDressRepo(db))
	if err := cold.RestoreSnapshot(path); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if cold.IndexSize() != svc.IndexSize() {
		t.Fatalf("restored size %d != saved size %d", cold.IndexSize(), svc.IndexSize())
	}
	if g := cold.Query("saree"); len(g.Dresses) == 0 {
		t.Fatal("restored index does not answer queries")
	}
}
