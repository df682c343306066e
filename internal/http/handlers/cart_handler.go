package handlers

import (
	applog "dressmarket/internal/log"
	"dressmarket/internal/services"
	"dressmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	dressID, ok := validate.ID(c.FormValue("dressId"))
	if !ok {
		return c.Status(400).SendString("missing dressId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	res, err := h.Cart.Add(sid, dressID, qty)
	if err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"dress": dressID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not update the cart"})
	}
	if !res.OK {
		applog.Info(c, "cart.add.rejected", map[string]any{"dress": dressID, "code": string(res.Code), "stock": res.CurrentStock})
		cv, verr := h.Cart.View(sid)
		if verr != nil {
			return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
		}
		return c.Status(fiber.StatusConflict).Render("cart", fiber.Map{"Cart": cv, "Err": res.Message})
	}
	applog.Audit(c, "cart.add", map[string]any{"dress": dressID, "qty": qty})
	return c.Redirect("/cart")
}

func (h *CartHandler) UpdateQty(c *fiber.Ctx) error {
	sid := ensureSID(c)
	dressID, ok := validate.ID(c.FormValue("dressId"))
	if !ok {
		return c.Status(400).SendString("missing dressId")
	}
	qty := validate.Qty(c.FormValue("qty"))
	if c.FormValue("qty") == "0" {
		qty = 0
	}

	res, err := h.Cart.UpdateQuantity(sid, dressID, qty)
	if err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"dress": dressID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not update the cart"})
	}
	if !res.OK {
		applog.Info(c, "cart.update.rejected", map[string]any{"dress": dressID, "code": string(res.Code)})
		cv, verr := h.Cart.View(sid)
		if verr != nil {
			return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
		}
		return c.Status(fiber.StatusConflict).Render("cart", fiber.Map{"Cart": cv, "Err": res.Message})
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	dressID, ok := validate.ID(c.FormValue("dressId"))
	if !ok {
		return c.Status(400).SendString("missing dressId")
	}
	if err := h.Cart.Remove(sid, dressID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"dress": dressID})
		return c.Status(500).SendString("Could not remove item")
	}
	applog.Audit(c, "cart.remove", map[string]any{"dress": dressID})
	return c.Redirect("/cart")
}
