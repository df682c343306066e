package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"dressmarket/internal/config"
	"dressmarket/internal/http/handlers"
	"dressmarket/internal/repos"
	"dressmarket/internal/services"
)

// newTestApp wires the full storefront the way cmd/dressmarket does, minus
// rate limiters so tests control throttling explicitly where they need it.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB, *handlers.Deps) {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", MediaDir: t.TempDir()}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	userRepo := repos.NewUserRepo(db)
	cartRepo := repos.NewCartRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Carts: cartRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	deps := handlers.NewDeps(db, cfg, authSvc)
	if err := deps.Suggest.Rebuild(); err != nil {
		t.Fatalf("rebuild suggestions: %v", err)
	}

	app.Get("/", deps.ShopHandler.Home)
	app.Get("/shop/:id", deps.ShopHandler.Detail)
	app.Get("/dress/:id", deps.DressHandler.Detail)
	app.Get("/search", deps.SearchHandler.Search)

	api := app.Group("/api/v1")
	api.Get("/suggestions", deps.SuggestHandler.Query)
	api.Get("/availability", deps.StockHandler.Availability)
	api.Get("/stock/validate", deps.StockHandler.Validate)

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/qty", deps.CartHandler.UpdateQty)
	app.Post("/cart/remove", deps.CartHandler.Remove)

	app.Get("/login", authH.LoginForm)
	app.Post("/login", authH.Login)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Post("/logout", authH.Logout)

	profile := app.Group("/profile", handlers.RequireUser(authSvc))
	profile.Get("/", deps.ProfileHandler.View)
	profile.Post("/", deps.ProfileHandler.Save)
	profile.Post("/addresses", deps.ProfileHandler.AddAddress)
	profile.Post("/preferences", deps.ProfileHandler.SavePreferences)

	owner := app.Group("/owner", handlers.RequireOwner(authSvc))
	owner.Get("/", deps.OwnerHandler.Dashboard)
	owner.Get("/shops/:id", deps.OwnerHandler.Inventory)
	owner.Post("/shops/:id", deps.OwnerHandler.UpdateShop)
	owner.Post("/shops/:id/dresses", deps.OwnerHandler.CreateDress)
	owner.Post("/shops/:id/dresses/:dressId", deps.OwnerHandler.UpdateDress)
	owner.Post("/shops/:id/dresses/:dressId/stock", deps.OwnerHandler.UpdateStock)
	owner.Post("/shops/:id/dresses/:dressId/delete", deps.OwnerHandler.DeactivateDress)

	return app, db, deps
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// session carries the cookies a browser would across requests.
type session struct {
	t    *testing.T
	app  *fiber.App
	csrf string
	sid  string
}

func newSession(t *testing.T, app *fiber.App) *session {
	t.Helper()
	s := &session{t: t, app: app}
	resp := s.get("/login")
	if s.csrf == "" {
		s.csrf = extractCookie(resp, "csrf_")
	}
	if s.csrf == "" {
		t.Fatal("no csrf token issued")
	}
	return s
}

func (s *session) do(req *http.Request) *http.Response {
	s.t.Helper()
	if s.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: s.sid})
	}
	if s.csrf != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: s.csrf})
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		s.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	if v := extractCookie(resp, "sid"); v != "" {
		s.sid = v
	}
	if v := extractCookie(resp, "csrf_"); v != "" {
		s.csrf = v
	}
	return resp
}

func (s *session) get(path string) *http.Response {
	return s.do(httptest.NewRequest("GET", path, nil))
}

func (s *session) post(path string, form url.Values) *http.Response {
	form.Set("csrf", s.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *session) login(email, password string) {
	s.t.Helper()
	resp := s.post("/login", url.Values{"email": {email}, "password": {password}})
	if resp.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(resp.Body)
		s.t.Fatalf("login %s: status %d, body %s", email, resp.StatusCode, body)
	}
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
