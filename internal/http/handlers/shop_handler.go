package handlers

import (
	"dressmarket/internal/services"
	"dressmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ShopHandler struct {
	Catalog *services.CatalogService
}

func (h *ShopHandler) Home(c *fiber.Ctx) error {
	shops, err := h.Catalog.ListShops()
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "home", fiber.Map{"Shops": shops})
}

func (h *ShopHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}
	s, err := h.Catalog.GetShop(id)
	if err != nil || s.ID == "" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}
	dresses, err := h.Catalog.ListDressesByShop(id, 1, 24)
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "shop", fiber.Map{"Shop": s, "Dresses": dresses})
}
