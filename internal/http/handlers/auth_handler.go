package handlers

import (
	"errors"
	"time"

	"dressmarket/internal/log"
	"dressmarket/internal/services"
	"dressmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return render(c, "login", fiber.Map{"Err": "", "CSRFToken": tok})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	tok := c.Cookies("csrf_")
	if _, ok := validate.Email(email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": tok})
	}
	if !validate.Password(pass) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": tok})
	}

	_, err := h.Auth.Login(sid, email, pass)
	if errors.Is(err, services.ErrEmailNotConfirmed) {
		// Distinct message: the credentials were right.
		log.Security(c, "auth.login.unconfirmed", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Please confirm your email address before signing in", "CSRFToken": tok})
	}
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": tok})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return render(c, "register", fiber.Map{"Err": "", "CSRFToken": tok})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	tok := c.Cookies("csrf_")
	email, okE := validate.Email(c.FormValue("email"))
	name, okN := validate.Name(c.FormValue("name"))
	pass := c.FormValue("password")
	if !okE || !okN || !validate.Password(pass) {
		log.Security(c, "auth.register.fail", map[string]any{"email": email})
		return c.Status(400).Render("register", fiber.Map{
			"Err": "Check your details: valid email, a name, and a strong password are required", "CSRFToken": tok,
		})
	}
	if _, err := h.Auth.Register(email, name, pass); err != nil {
		log.Error(c, "auth.register.fail", err, map[string]any{"email": email})
		return c.Status(400).Render("register", fiber.Map{"Err": "Could not create the account", "CSRFToken": tok})
	}
	log.Audit(c, "auth.register", map[string]any{"email": email})
	return render(c, "login", fiber.Map{"Err": "Account created. Confirm your email, then sign in.", "CSRFToken": tok})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
