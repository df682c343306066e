package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"dressmarket/internal/config"
	"dressmarket/internal/http/handlers"
	applog "dressmarket/internal/log"
	"dressmarket/internal/repos"
	"dressmarket/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.SeedFile != "" {
		if err := repos.SeedFromYAML(db, cfg.SeedFile); err != nil {
			log.Fatalf("seed from %s: %v", cfg.SeedFile, err)
		}
		log.Printf("[seed] loaded catalog from %s", cfg.SeedFile)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	cartRepo := repos.NewCartRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Carts: cartRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Image uploads are the largest accepted bodies
	app.Server().MaxRequestBodySize = 6 << 20

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			formTok := c.FormValue("csrf")
			applog.Security(c, "csrf.fail", map[string]any{"form": formTok})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /static -> ./web/static")
	log.Printf("[static] /media  -> %s", mediaDir)

	app.Static("/static", "./web/static")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)

	// Warm the suggestion index: snapshot first for a fast start, then a
	// fresh build from the live catalog.
	if cfg.SnapshotFile != "" {
		if err := deps.Suggest.RestoreSnapshot(cfg.SnapshotFile); err == nil {
			log.Printf("[suggest] restored %d entries from %s", deps.Suggest.IndexSize(), cfg.SnapshotFile)
		}
	}
	if err := deps.Suggest.Rebuild(); err != nil {
		log.Fatalf("build suggestion index: %v", err)
	}
	log.Printf("[suggest] index ready, %d entries", deps.Suggest.IndexSize())
	if cfg.SnapshotFile != "" {
		if err := deps.Suggest.SaveSnapshot(cfg.SnapshotFile); err != nil {
			log.Printf("[warn] could not write suggestion snapshot: %v", err)
		}
	}

	// Public pages
	app.Get("/", deps.ShopHandler.Home)
	app.Get("/shop/:id", deps.ShopHandler.Detail)
	app.Get("/dress/:id", deps.DressHandler.Detail)
	app.Get("/search", limiter.New(limiter.Config{Max: 30, Expiration: time.Minute}), deps.SearchHandler.Search)

	// API
	api := app.Group("/api/v1")
	suggestLimiter := limiter.New(limiter.Config{
		Max:        60,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|suggest"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.suggest.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/suggestions", suggestLimiter, deps.SuggestHandler.Query)
	api.Get("/availability", deps.StockHandler.Availability)
	api.Get("/stock/validate", deps.StockHandler.Validate)

	// Cart
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/qty", deps.CartHandler.UpdateQty)
	app.Post("/cart/remove", deps.CartHandler.Remove)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Post("/logout", authH.Logout)

	// Customer profile
	profile := app.Group("/profile", handlers.RequireUser(authSvc))
	profile.Get("/", deps.ProfileHandler.View)
	profile.Post("/", deps.ProfileHandler.Save)
	profile.Post("/avatar", deps.ProfileHandler.UploadAvatar)
	profile.Post("/addresses", deps.ProfileHandler.AddAddress)
	profile.Post("/addresses/delete", deps.ProfileHandler.DeleteAddress)
	profile.Post("/preferences", deps.ProfileHandler.SavePreferences)

	// Owner console
	owner := app.Group("/owner", handlers.RequireOwner(authSvc))
	owner.Get("/", deps.OwnerHandler.Dashboard)
	owner.Get("/shops/:id", deps.OwnerHandler.Inventory)
	owner.Post("/shops/:id", deps.OwnerHandler.UpdateShop)
	owner.Post("/shops/:id/image", deps.OwnerHandler.UploadImage)
	owner.Post("/shops/:id/dresses", deps.OwnerHandler.CreateDress)
	owner.Post("/shops/:id/dresses/:dressId", deps.OwnerHandler.UpdateDress)
	owner.Post("/shops/:id/dresses/:dressId/stock", deps.OwnerHandler.UpdateStock)
	owner.Post("/shops/:id/dresses/:dressId/image", deps.OwnerHandler.UploadImage)
	owner.Post("/shops/:id/dresses/:dressId/delete", deps.OwnerHandler.DeactivateDress)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
