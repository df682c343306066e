package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestCartAddAndView(t *testing.T) {
	app, _, _ := newTestApp(t)
	s := newSession(t, app)

	resp := s.post("/cart", url.Values{"dressId": {"drs-001"}, "qty": {"2"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("add: status %d", resp.StatusCode)
	}

	body := bodyOf(t, s.get("/cart"))
	if !strings.Contains(body, "Elegant Gown") {
		t.Fatal("cart page missing the added dress")
	}
	if !strings.Contains(body, "299.98") {
		t.Fatal("cart total should be 2 x 149.99")
	}
}

func TestCartAddConflictRendersCartWithError(t *testing.T) {
	app, _, _ := newTestApp(t)
	s := newSession(t, app)

	resp := s.post("/cart", url.Values{"dressId": {"drs-003"}, "qty": {"1"}})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("out-of-stock add: status %d, want 409", resp.StatusCode)
	}
	if body := bodyOf(t, resp); !strings.Contains(body, "out of stock") {
		t.Fatal("conflict should surface the stock message")
	}

	resp = s.post("/cart", url.Values{"dressId": {"drs-002"}, "qty": {"5"}})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("insufficient add: status %d, want 409", resp.StatusCode)
	}
	if body := bodyOf(t, resp); !strings.Contains(body, "Only 3 left") {
		t.Fatal("conflict should name the remaining stock")
	}

	// Neither rejected attempt wrote a line.
	if body := bodyOf(t, s.get("/cart")); !strings.Contains(body, "Your cart is empty") {
		t.Fatal("rejected adds must leave the cart empty")
	}
}

func TestCartQuantityUpdateAndRemove(t *testing.T) {
	app, _, _ := newTestApp(t)
	s := newSession(t, app)

	s.post("/cart", url.Values{"dressId": {"drs-002"}, "qty": {"1"}})

	resp := s.post("/cart/qty", url.Values{"dressId": {"drs-002"}, "qty": {"3"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("qty update: status %d", resp.StatusCode)
	}

	resp = s.post("/cart/qty", url.Values{"dressId": {"drs-002"}, "qty": {"4"}})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("qty beyond stock: status %d, want 409", resp.StatusCode)
	}

	// Zero removes the line.
	resp = s.post("/cart/qty", url.Values{"dressId": {"drs-002"}, "qty": {"0"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("qty zero: status %d", resp.StatusCode)
	}
	if body := bodyOf(t, s.get("/cart")); !strings.Contains(body, "Your cart is empty") {
		t.Fatal("line should be removed at qty zero")
	}

	s.post("/cart", url.Values{"dressId": {"drs-001"}, "qty": {"1"}})
	resp = s.post("/cart/remove", url.Values{"dressId": {"drs-001"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("remove: status %d", resp.StatusCode)
	}
	if body := bodyOf(t, s.get("/cart")); !strings.Contains(body, "Your cart is empty") {
		t.Fatal("cart should be empty after remove")
	}
}

func TestCartIsPerSession(t *testing.T) {
	app, _, _ := newTestApp(t)

	a := newSession(t, app)
	b := newSession(t, app)

	a.post("/cart", url.Values{"dressId": {"drs-001"}, "qty": {"1"}})

	if body := bodyOf(t, b.get("/cart")); strings.Contains(body, "Elegant Gown") {
		t.Fatal("one session's cart leaked into another")
	}
}
