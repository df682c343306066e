package handlers

import (
	"dressmarket/internal/log"
	"dressmarket/internal/services"
	"dressmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type DressHandler struct {
	Catalog *services.CatalogService
	Stock   *services.StockService
}

func (h *DressHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "dress"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This dress is no longer available"})
	}
	d, err := h.Catalog.GetDress(id)
	if err != nil || d.ID == "" || !d.Active {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This dress is no longer available"})
	}
	avail, err := h.Stock.CheckAvailability(id)
	if err != nil {
		log.Error(c, "dress.availability", err, nil)
	}
	shop, _ := h.Catalog.GetShop(d.ShopID)
	return render(c, "dress", fiber.Map{"D": d, "Shop": shop, "Availability": avail})
}
