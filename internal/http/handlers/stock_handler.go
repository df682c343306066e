package handlers

import (
	"strings"

	"dressmarket/internal/services"
	"dressmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	Stock *services.StockService
	Cart  *services.CartService
}

// Availability answers the dress page's stock poll.
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	dressID := strings.TrimSpace(c.Query("dressId"))
	if _, ok := validate.ID(dressID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing or invalid dressId",
		})
	}

	avail, err := h.Stock.CheckAvailability(dressID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not check availability",
		})
	}
	return c.JSON(avail)
}

// Validate exposes the advisory guard directly: the add-to-cart form calls
// it before submitting so the common out-of-stock case never reaches the
// mutation path. The answer is advisory; the cart mutation re-checks.
func (h *StockHandler) Validate(c *fiber.Ctx) error {
	dressID := strings.TrimSpace(c.Query("dressId"))
	if _, ok := validate.ID(dressID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing or invalid dressId",
		})
	}
	qty := validate.Qty(c.Query("qty"))

	res := h.Cart.Guard.Check(dressID, qty)
	return c.JSON(res)
}
