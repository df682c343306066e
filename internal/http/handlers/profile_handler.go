package handlers

import (
	"io"
	"strings"

	"dressmarket/internal/domain"
	applog "dressmarket/internal/log"
	"dressmarket/internal/media"
	"dressmarket/internal/services"
	"dressmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	Profile *services.ProfileService
	Media   *media.Store
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func (h *ProfileHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	p, err := h.Profile.Get(u.ID)
	if err != nil {
		applog.Error(c, "profile.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your profile"})
	}
	addrs, err := h.Profile.Addresses(u.ID)
	if err != nil {
		applog.Error(c, "profile.addresses.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your profile"})
	}
	prefs, err := h.Profile.Preferences(u.ID)
	if err != nil {
		applog.Error(c, "profile.preferences.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your profile"})
	}
	return render(c, "profile", fiber.Map{"Profile": p, "Addresses": addrs, "Prefs": prefs})
}

func (h *ProfileHandler) Save(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	name, okN := validate.Name(c.FormValue("full_name"))
	phone := strings.TrimSpace(c.FormValue("phone"))
	if phone != "" {
		if p, okP := validate.Phone(phone); okP {
			phone = p
		} else {
			return c.Status(400).SendString("invalid phone")
		}
	}
	if !okN {
		return c.Status(400).SendString("name must be 1-50 characters")
	}
	if err := h.Profile.Save(u.ID, name, phone); err != nil {
		applog.Error(c, "profile.save.fail", err, nil)
		return c.Status(500).SendString("Could not save profile")
	}
	applog.Audit(c, "profile.save", map[string]any{"user": u.ID})
	return c.Redirect("/profile")
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(400).SendString("missing avatar file")
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(400).SendString("could not read upload")
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return c.Status(400).SendString("could not read upload")
	}

	path, err := h.Media.Save(media.BucketAvatars, u.ID, raw)
	if err != nil {
		applog.Error(c, "profile.avatar.fail", err, nil)
		return c.Status(400).SendString("Could not process the image")
	}
	if err := h.Profile.Profiles.SetAvatar(u.ID, path); err != nil {
		applog.Error(c, "profile.avatar.save.fail", err, nil)
		return c.Status(500).SendString("Could not save the image")
	}
	applog.Audit(c, "profile.avatar", map[string]any{"user": u.ID})
	return c.Redirect("/profile")
}

func (h *ProfileHandler) AddAddress(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	line1 := strings.TrimSpace(c.FormValue("line1"))
	if line1 == "" {
		return c.Status(400).SendString("address line is required")
	}
	postal := strings.TrimSpace(c.FormValue("postal_code"))
	if postal != "" {
		if p, ok := validate.PostalCode(postal); ok {
			postal = p
		} else {
			return c.Status(400).SendString("invalid postal code")
		}
	}
	err := h.Profile.AddAddress(
		u.ID,
		strings.TrimSpace(c.FormValue("label")),
		line1,
		strings.TrimSpace(c.FormValue("line2")),
		strings.TrimSpace(c.FormValue("city")),
		strings.TrimSpace(c.FormValue("region")),
		postal,
		c.FormValue("is_default") == "on",
	)
	if err != nil {
		applog.Error(c, "profile.address.add.fail", err, nil)
		return c.Status(500).SendString("Could not save address")
	}
	applog.Audit(c, "profile.address.add", map[string]any{"user": u.ID})
	return c.Redirect("/profile")
}

func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	id, ok := validate.ID(c.FormValue("addressId"))
	if !ok {
		return c.Status(400).SendString("missing addressId")
	}
	if err := h.Profile.DeleteAddress(u.ID, id); err != nil {
		applog.Error(c, "profile.address.delete.fail", err, nil)
		return c.Status(500).SendString("Could not delete address")
	}
	return c.Redirect("/profile")
}

func (h *ProfileHandler) SavePreferences(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	split := func(s string) []string {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	v := services.PreferenceView{
		Sizes:      split(c.FormValue("sizes")),
		Colors:     split(c.FormValue("colors")),
		Categories: split(c.FormValue("categories")),
	}
	if err := h.Profile.SavePreferences(u.ID, v); err != nil {
		applog.Error(c, "profile.preferences.save.fail", err, nil)
		return c.Status(500).SendString("Could not save preferences")
	}
	applog.Audit(c, "profile.preferences.save", map[string]any{"user": u.ID})
	return c.Redirect("/profile")
}
