package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"dressmarket/internal/repos"
)

func TestOwnerConsoleRequiresOwnerRole(t *testing.T) {
	app, _, _ := newTestApp(t)

	// Anonymous: redirect to login.
	s := newSession(t, app)
	if resp := s.get("/owner/"); resp.StatusCode != http.StatusFound {
		t.Fatalf("anonymous: status %d, want redirect", resp.StatusCode)
	}

	// Signed-in customer: forbidden.
	s.login("asha@dressmarket.test", "Passw0rd!")
	resp := s.get("/owner/")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("customer: status %d, want 403", resp.StatusCode)
	}

	// Owner: dashboard lists their shop.
	o := newSession(t, app)
	o.login("meera@dressmarket.test", "Passw0rd!")
	resp = o.get("/owner/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner: status %d", resp.StatusCode)
	}
	if body := bodyOf(t, resp); !strings.Contains(body, "Meera Boutique") {
		t.Fatal("dashboard missing the owner's shop")
	}
}

func TestOwnerCannotTouchAnotherShop(t *testing.T) {
	app, _, _ := newTestApp(t)

	o := newSession(t, app)
	o.login("meera@dressmarket.test", "Passw0rd!")

	// shop-rosa belongs to u-rosa.
	if resp := o.get("/owner/shops/shop-rosa"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("cross-shop read: status %d, want 403", resp.StatusCode)
	}
	resp := o.post("/owner/shops/shop-rosa/dresses/drs-003/stock", url.Values{"stock": {"99"}})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("cross-shop write: status %d, want 403", resp.StatusCode)
	}
}

func TestOwnerStockUpdate(t *testing.T) {
	app, db, _ := newTestApp(t)

	o := newSession(t, app)
	o.login("meera@dressmarket.test", "Passw0rd!")

	resp := o.post("/owner/shops/shop-meera/dresses/drs-002/stock", url.Values{"stock": {"10"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("stock update: status %d", resp.StatusCode)
	}
	if st, _ := repos.NewDressRepo(db).Stock("drs-002"); !st.Valid || st.Int64 != 10 {
		t.Fatalf("stock not persisted: %+v", st)
	}

	// Blank stock switches the dress to untracked.
	resp = o.post("/owner/shops/shop-meera/dresses/drs-002/stock", url.Values{"stock": {""}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("untrack: status %d", resp.StatusCode)
	}
	if st, _ := repos.NewDressRepo(db).Stock("drs-002"); st.Valid {
		t.Fatalf("stock should be untracked, got %+v", st)
	}

	if resp := o.post("/owner/shops/shop-meera/dresses/drs-002/stock", url.Values{"stock": {"-4"}}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("negative stock: status %d, want 400", resp.StatusCode)
	}
}

func TestOwnerDressLifecycleRefreshesSuggestions(t *testing.T) {
	app, _, deps := newTestApp(t)

	o := newSession(t, app)
	o.login("meera@dressmarket.test", "Passw0rd!")

	resp := o.post("/owner/shops/shop-meera/dresses", url.Values{
		"name": {"Velvet Wrap"}, "brand": {"Zara"}, "category": {"Party Wear"},
		"size": {"M"}, "price": {"120.00"}, "stock": {"4"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("create: status %d", resp.StatusCode)
	}

	// The new dress is findable and suggestible immediately.
	g := deps.Suggest.Query("velvet")
	if len(g.Dresses) == 0 {
		t.Fatal("suggestion index not rebuilt after create")
	}

	body := bodyOf(t, o.get("/owner/shops/shop-meera"))
	if !strings.Contains(body, "Velvet Wrap") {
		t.Fatal("inventory missing the new dress")
	}

	// Deactivation hides it from the index again.
	var dressID string
	for _, it := range g.Dresses {
		if it.Category == "Dress" {
			dressID = it.ID
		}
	}
	if dressID == "" {
		t.Fatalf("no display suggestion found: %+v", g.Dresses)
	}
	resp = o.post("/owner/shops/shop-meera/dresses/"+dressID+"/delete", url.Values{})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("deactivate: status %d", resp.StatusCode)
	}
	if g := deps.Suggest.Query("velvet"); len(g.Dresses) != 0 {
		t.Fatalf("deactivated dress still suggested: %+v", g.Dresses)
	}
}
