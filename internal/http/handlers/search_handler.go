package handlers

import (
	"strings"

	"dressmarket/internal/log"
	"dressmarket/internal/repos"
	"dressmarket/internal/services"
	"dressmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Catalog  *services.CatalogService
	Sessions *repos.UserRepo
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	sid := ensureSID(c)
	rawQ := c.Query("q")

	if strings.TrimSpace(rawQ) == "" {
		// Initial page load: restore the session's last query, if any.
		if last, err := h.Sessions.LastSearchQuery(sid); err == nil && last != "" {
			rawQ = last
		} else {
			return render(c, "search", fiber.Map{"Q": "", "Category": "", "Size": "", "Color": "", "Dresses": []any{}, "Count": 0})
		}
	}

	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
			"Q": "", "Category": "", "Size": "", "Color": "", "Dresses": []any{}, "Count": 0,
			"Err": "Enter a valid keyword (letters, numbers, comma, hyphen)",
		})
	}

	category := strings.TrimSpace(c.Query("category"))
	size := strings.TrimSpace(c.Query("size"))
	if size != "" {
		if s, okS := validate.Size(size); okS {
			size = s
		} else {
			log.Security(c, "validation.fail", map[string]any{"field": "size"})
			return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
				"Q": q, "Category": category, "Size": "", "Color": "", "Dresses": []any{}, "Count": 0,
				"Err": "Invalid size filter",
			})
		}
	}
	color := strings.TrimSpace(c.Query("color"))

	dresses, err := h.Catalog.Search(strings.ToLower(q), category, size, color, 1, 20)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load results. Please retry."})
	}

	// Persist for restore-on-load. Best effort; the page still renders.
	if err := h.Sessions.SaveSearchQuery(sid, q); err != nil {
		log.Error(c, "search.save_query", err, nil)
	}

	return render(c, "search", fiber.Map{
		"Q": q, "Category": category, "Size": size, "Color": color,
		"Dresses": dresses, "Count": len(dresses),
	})
}
