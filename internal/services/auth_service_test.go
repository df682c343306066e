package services_test

import (
	"errors"
	"testing"

	"dressmarket/internal/repos"
	"dressmarket/internal/services"
)

func testAuth(t *testing.T) *services.AuthService {
	t.Helper()
	db := testDB(t)
	return &services.AuthService{Users: repos.NewUserRepo(db), Carts: repos.NewCartRepo(db)}
}

func TestLoginSuccess(t *testing.T) {
	auth := testAuth(t)

	u, err := auth.Login("sess-1", "asha@dressmarket.test", "Passw0rd!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != "u-asha" || u.Role != "CUSTOMER" {
		t.Fatalf("unexpected user: %+v", u)
	}

	cur, err := auth.CurrentUser("sess-1")
	if err != nil || cur.ID != "u-asha" {
		t.Fatalf("session not bound: %+v err=%v", cur, err)
	}

	if err := auth.Logout("sess-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.CurrentUser("sess-1"); err == nil {
		t.Fatal("session should be unbound after logout")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	auth := testAuth(t)

	if _, err := auth.Login("s", "asha@dressmarket.test", "wrong"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := auth.Login("s", "nobody@dressmarket.test", "Passw0rd!"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("unknown email: %v", err)
	}
}

func TestLoginUnconfirmedEmail(t *testing.T) {
	auth := testAuth(t)

	// Seeded u-ben never confirmed their address.
	_, err := auth.Login("s", "ben@dressmarket.test", "Passw0rd!")
	if !errors.Is(err, services.ErrEmailNotConfirmed) {
		t.Fatalf("expected ErrEmailNotConfirmed, got %v", err)
	}
}

func TestLoginMergesAnonymousCart(t *testing.T) {
	db := testDB(t)
	carts := repos.NewCartRepo(db)
	auth := &services.AuthService{Users: repos.NewUserRepo(db), Carts: carts}

	cartID, err := carts.EnsureCart("sess-anon")
	if err != nil {
		t.Fatal(err)
	}
	if err := carts.AddItem(cartID, "drs-001", 1, 149.99); err != nil {
		t.Fatal(err)
	}

	if _, err := auth.Login("sess-anon", "asha@dressmarket.test", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}

	var userCart string
	if err := db.Get(&userCart, `SELECT id FROM carts WHERE user_id='u-asha'`); err != nil {
		t.Fatalf("cart not attached to user: %v", err)
	}
	rows, _, err := carts.View(userCart)
	if err != nil || len(rows) != 1 {
		t.Fatalf("merged cart wrong: %+v err=%v", rows, err)
	}
}

func TestLoginRestoresCartOnNewSession(t *testing.T) {
	db := testDB(t)
	carts := repos.NewCartRepo(db)
	auth := &services.AuthService{Users: repos.NewUserRepo(db), Carts: carts}

	cartID, err := carts.EnsureCart("sess-laptop")
	if err != nil {
		t.Fatal(err)
	}
	if err := carts.AddItem(cartID, "drs-001", 2, 149.99); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Login("sess-laptop", "asha@dressmarket.test", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}

	// Same shopper on another device, nothing added before signing in.
	if _, err := auth.Login("sess-phone", "asha@dressmarket.test", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}
	cartID, err = carts.EnsureCart("sess-phone")
	if err != nil {
		t.Fatal(err)
	}
	rows, _, err := carts.View(cartID)
	if err != nil || len(rows) != 1 || rows[0].Qty != 2 {
		t.Fatalf("new session should see the saved cart: %+v err=%v", rows, err)
	}
}

func TestRegister(t *testing.T) {
	auth := testAuth(t)

	u, err := auth.Register("new@dressmarket.test", "Nina", "Str0ng-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != "CUSTOMER" || u.EmailConfirmed {
		t.Fatalf("new account shape wrong: %+v", u)
	}

	// Unconfirmed accounts cannot sign in yet.
	if _, err := auth.Login("s", "new@dressmarket.test", "Str0ng-pass"); !errors.Is(err, services.ErrEmailNotConfirmed) {
		t.Fatalf("expected ErrEmailNotConfirmed, got %v", err)
	}

	// Duplicate email is rejected by the unique index.
	if _, err := auth.Register("new@dressmarket.test", "Other", "Str0ng-pass"); err == nil {
		t.Fatal("duplicate registration should fail")
	}
}
