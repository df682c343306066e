package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestSearchRejectsInvalidQuery(t *testing.T) {
	app, _, _ := newTestApp(t)
	s := newSession(t, app)

	for _, q := range []string{
		"%3Cscript%3Ealert(1)%3C/script%3E",
		"a",
		"semi%3Bcolon",
	} {
		resp := s.get("/search?q=" + q)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("q=%s: status %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestSearchFindsSeededDresses(t *testing.T) {
	app, _, _ := newTestApp(t)
	s := newSession(t, app)

	body := bodyOf(t, s.get("/search?q=gown"))
	if !strings.Contains(body, "Elegant Gown") {
		t.Fatal("search results missing the seeded gown")
	}
	if !strings.Contains(body, "Meera Boutique") {
		t.Fatal("results should show the shop name")
	}
}

// A fresh /search load with no q restores the session's last query.
func TestSearchRestoresLastQuery(t *testing.T) {
	app, _, _ := newTestApp(t)
	s := newSession(t, app)

	if resp := s.get("/search?q=saree"); resp.StatusCode != http.StatusOK {
		t.Fatalf("first search: %d", resp.StatusCode)
	}

	body := bodyOf(t, s.get("/search"))
	if !strings.Contains(body, "saree") {
		t.Fatal("bare /search should re-run the last query")
	}
	if !strings.Contains(body, "Classic Saree") {
		t.Fatal("restored query should render its results")
	}
}

func TestSearchBlankForNewSession(t *testing.T) {
	app, _, _ := newTestApp(t)
	s := newSession(t, app)

	resp := s.get("/search")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body := bodyOf(t, resp)
	if strings.Contains(body, "Elegant Gown") || strings.Contains(body, "Classic Saree") {
		t.Fatal("new session should get an empty search page")
	}
}

func TestSearchSizeFilter(t *testing.T) {
	app, _, _ := newTestApp(t)
	s := newSession(t, app)

	// "length" hits both seeded descriptions; the size filter keeps one.
	body := bodyOf(t, s.get("/search?q=length"))
	if !strings.Contains(body, "Elegant Gown") || !strings.Contains(body, "Party Wear Skirt") {
		t.Fatal("expected both dresses for 'length'")
	}

	body = bodyOf(t, s.get("/search?q=length&size=S"))
	if !strings.Contains(body, "Party Wear Skirt") {
		t.Fatal("size S should keep the skirt")
	}
	if strings.Contains(body, "Elegant Gown") {
		t.Fatal("size S should exclude the size M gown")
	}

	if resp := s.get("/search?q=length&size=XXXL"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bogus size: status %d, want 400", resp.StatusCode)
	}
}
