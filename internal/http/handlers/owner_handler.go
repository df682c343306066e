package handlers

import (
	"database/sql"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"dressmarket/internal/domain"
	applog "dressmarket/internal/log"
	"dressmarket/internal/media"
	"dressmarket/internal/repos"
	"dressmarket/internal/services"
	"dressmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// OwnerHandler is the shop-owner console: inventory CRUD, stock updates,
// and image uploads, all scoped to shops the signed-in owner owns. Catalog
// mutations trigger a suggestion index rebuild so typeahead stays current.
type OwnerHandler struct {
	Shops   *repos.ShopRepo
	Dresses *repos.DressRepo
	Media   *media.Store
	Suggest *services.SuggestService
}

// ownShop loads a shop and verifies the current user owns it.
func (h *OwnerHandler) ownShop(c *fiber.Ctx, shopID string) (domain.Shop, bool) {
	u := currentUser(c)
	if u == nil {
		return domain.Shop{}, false
	}
	s, err := h.Shops.Get(shopID)
	if err != nil || s.OwnerID != u.ID {
		applog.Security(c, "access.denied.shop", map[string]any{"shop": shopID})
		return domain.Shop{}, false
	}
	return s, true
}

func (h *OwnerHandler) rebuildIndex(c *fiber.Ctx) {
	if err := h.Suggest.Rebuild(); err != nil {
		applog.Error(c, "suggest.rebuild.fail", err, nil)
	}
}

// GET /owner
func (h *OwnerHandler) Dashboard(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	shops, err := h.Shops.ByOwner(u.ID)
	if err != nil {
		applog.Error(c, "owner.shops.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your shops"})
	}
	return render(c, "owner_dashboard", fiber.Map{"Shops": shops})
}

// GET /owner/shops/:id
func (h *OwnerHandler) Inventory(c *fiber.Ctx) error {
	shopID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}
	s, owned := h.ownShop(c, shopID)
	if !owned {
		return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
	}
	dresses, err := h.Dresses.ListByShop(shopID, 1, 200)
	if err != nil {
		applog.Error(c, "owner.inventory.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	return render(c, "owner_inventory", fiber.Map{"Shop": s, "Dresses": dresses})
}

// POST /owner/shops/:id
func (h *OwnerHandler) UpdateShop(c *fiber.Ctx) error {
	shopID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing shop id")
	}
	if _, owned := h.ownShop(c, shopID); !owned {
		return c.Status(fiber.StatusForbidden).SendString("access denied")
	}
	name, okN := validate.Name(c.FormValue("name"))
	if !okN {
		return c.Status(400).SendString("shop name is required")
	}

	// Specialties arrive comma-separated and are stored as JSON text.
	var specialties []string
	for _, part := range strings.Split(c.FormValue("specialties"), ",") {
		if p := strings.TrimSpace(part); p != "" {
			specialties = append(specialties, p)
		}
	}
	if specialties == nil {
		specialties = []string{}
	}
	specJSON, _ := json.Marshal(specialties)

	err := h.Shops.UpdateProfile(
		shopID,
		name,
		strings.TrimSpace(c.FormValue("business_name")),
		strings.TrimSpace(c.FormValue("location")),
		strings.TrimSpace(c.FormValue("phone")),
		strings.TrimSpace(c.FormValue("hours")),
		string(specJSON),
	)
	if err != nil {
		applog.Error(c, "owner.shop.save.fail", err, map[string]any{"shop": shopID})
		return c.Status(400).SendString("could not save shop")
	}
	applog.Audit(c, "owner.shop.save", map[string]any{"shop": shopID})
	h.rebuildIndex(c)
	return c.Redirect("/owner/shops/" + shopID)
}

func dressFromForm(c *fiber.Ctx, id, shopID string) (domain.Dress, error) {
	d := domain.Dress{
		ID:          id,
		ShopID:      shopID,
		Name:        strings.TrimSpace(c.FormValue("name")),
		Color:       strings.TrimSpace(c.FormValue("color")),
		Category:    strings.TrimSpace(c.FormValue("category")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Material:    strings.TrimSpace(c.FormValue("material")),
		Brand:       strings.TrimSpace(c.FormValue("brand")),
		Active:      c.FormValue("active", "on") == "on",
	}
	if d.Name == "" {
		return d, fiber.NewError(fiber.StatusBadRequest, "dress name is required")
	}
	if sz := c.FormValue("size"); sz != "" {
		s, ok := validate.Size(sz)
		if !ok {
			return d, fiber.NewError(fiber.StatusBadRequest, "invalid size")
		}
		d.Size = s
	}
	if ps := strings.TrimSpace(c.FormValue("price")); ps != "" {
		p, err := strconv.ParseFloat(ps, 64)
		if err != nil || p < 0 {
			return d, fiber.NewError(fiber.StatusBadRequest, "invalid price")
		}
		d.Price = sql.NullFloat64{Float64: p, Valid: true}
	}
	if ss := strings.TrimSpace(c.FormValue("stock")); ss != "" {
		n, err := strconv.Atoi(ss)
		if err != nil || n < 0 {
			return d, fiber.NewError(fiber.StatusBadRequest, "invalid stock")
		}
		d.Stock = sql.NullInt64{Int64: int64(n), Valid: true}
	}
	return d, nil
}

// POST /owner/shops/:id/dresses
func (h *OwnerHandler) CreateDress(c *fiber.Ctx) error {
	shopID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing shop id")
	}
	if _, owned := h.ownShop(c, shopID); !owned {
		return c.Status(fiber.StatusForbidden).SendString("access denied")
	}
	d, err := dressFromForm(c, uuid.NewString(), shopID)
	if err != nil {
		return err
	}
	if err := h.Dresses.Create(d); err != nil {
		applog.Error(c, "owner.dress.create.fail", err, map[string]any{"shop": shopID})
		return c.Status(400).SendString("could not create dress")
	}
	applog.Audit(c, "owner.dress.create", map[string]any{"shop": shopID, "dress": d.ID})
	h.rebuildIndex(c)
	return c.Redirect("/owner/shops/" + shopID)
}

// POST /owner/shops/:id/dresses/:dressId
func (h *OwnerHandler) UpdateDress(c *fiber.Ctx) error {
	shopID, okS := validate.ID(c.Params("id"))
	dressID, okD := validate.ID(c.Params("dressId"))
	if !okS || !okD {
		return c.Status(400).SendString("missing id")
	}
	if _, owned := h.ownShop(c, shopID); !owned {
		return c.Status(fiber.StatusForbidden).SendString("access denied")
	}
	d, err := dressFromForm(c, dressID, shopID)
	if err != nil {
		return err
	}
	if prev, gerr := h.Dresses.Get(dressID); gerr == nil {
		d.ImageURL = prev.ImageURL
	}
	if err := h.Dresses.Update(d); err != nil {
		applog.Error(c, "owner.dress.update.fail", err, map[string]any{"dress": dressID})
		return c.Status(400).SendString("could not update dress")
	}
	applog.Audit(c, "owner.dress.update", map[string]any{"dress": dressID})
	h.rebuildIndex(c)
	return c.Redirect("/owner/shops/" + shopID)
}

// POST /owner/shops/:id/dresses/:dressId/stock
func (h *OwnerHandler) UpdateStock(c *fiber.Ctx) error {
	shopID, okS := validate.ID(c.Params("id"))
	dressID, okD := validate.ID(c.Params("dressId"))
	if !okS || !okD {
		return c.Status(400).SendString("missing id")
	}
	if _, owned := h.ownShop(c, shopID); !owned {
		return c.Status(fiber.StatusForbidden).SendString("access denied")
	}

	var stock *int
	if ss := strings.TrimSpace(c.FormValue("stock")); ss != "" {
		n, err := strconv.Atoi(ss)
		if err != nil || n < 0 {
			return c.Status(400).SendString("invalid stock")
		}
		stock = &n
	} // empty = stop tracking stock

	if err := h.Dresses.UpsertStock(dressID, stock); err != nil {
		applog.Error(c, "owner.stock.save.fail", err, map[string]any{"dress": dressID})
		return c.Status(400).SendString("could not save stock")
	}
	applog.Audit(c, "owner.stock.save", map[string]any{"dress": dressID, "stock": stock})
	return c.Redirect("/owner/shops/" + shopID)
}

// POST /owner/shops/:id/dresses/:dressId/delete
func (h *OwnerHandler) DeactivateDress(c *fiber.Ctx) error {
	shopID, okS := validate.ID(c.Params("id"))
	dressID, okD := validate.ID(c.Params("dressId"))
	if !okS || !okD {
		return c.Status(400).SendString("missing id")
	}
	if _, owned := h.ownShop(c, shopID); !owned {
		return c.Status(fiber.StatusForbidden).SendString("access denied")
	}
	if err := h.Dresses.Deactivate(dressID, shopID); err != nil {
		applog.Error(c, "owner.dress.delete.fail", err, map[string]any{"dress": dressID})
		return c.Status(400).SendString("could not remove dress")
	}
	applog.Audit(c, "owner.dress.delete", map[string]any{"dress": dressID})
	h.rebuildIndex(c)
	return c.Redirect("/owner/shops/" + shopID)
}

// POST /owner/shops/:id/image and /owner/shops/:id/dresses/:dressId/image
func (h *OwnerHandler) UploadImage(c *fiber.Ctx) error {
	shopID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing shop id")
	}
	if _, owned := h.ownShop(c, shopID); !owned {
		return c.Status(fiber.StatusForbidden).SendString("access denied")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).SendString("missing image file")
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

	dressID := c.Params("dressId")
	if dressID == "" {
		path, err := h.Media.Save(media.BucketShops, shopID, raw)
		if err != nil {
			applog.Error(c, "owner.shop.image.fail", err, map[string]any{"shop": shopID})
			return c.Status(400).SendString("could not process the image")
		}
		if err := h.Shops.SetImage(shopID, path); err != nil {
			return c.Status(500).SendString("could not save the image")
		}
		applog.Audit(c, "owner.shop.image", map[string]any{"shop": shopID})
		return c.Redirect("/owner/shops/" + shopID)
	}

	if _, ok := validate.ID(dressID); !ok {
		return c.Status(400).SendString("invalid dress id")
	}
	d, err := h.Dresses.Get(dressID)
	if err != nil || d.ShopID != shopID {
		return c.Status(404).SendString("dress not found")
	}
	path, err := h.Media.Save(media.BucketDresses, dressID, raw)
	if err != nil {
		applog.Error(c, "owner.dress.image.fail", err, map[string]any{"dress": dressID})
		return c.Status(400).SendString("could not process the image")
	}
	d.ImageURL = path
	if err := h.Dresses.Update(d); err != nil {
		return c.Status(500).SendString("could not save the image")
	}
	applog.Audit(c, "owner.dress.image", map[string]any{"dress": dressID})
	return c.Redirect("/owner/shops/" + shopID)
}
