package handlers

import (
	"strconv"

	"dressmarket/internal/services"
	"dressmarket/internal/suggest"
	"dressmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SuggestHandler struct {
	Suggest *services.SuggestService
}

// Query serves the typeahead endpoint. The client sends a monotonically
// increasing seq with each debounced request and drops any response whose
// echoed seq is older than the last one it issued, so late-arriving answers
// for earlier keystrokes never overwrite newer ones.
func (h *SuggestHandler) Query(c *fiber.Ctx) error {
	// Mid-typing input is sanitized, never rejected: runes outside the query
	// alphabet are stripped and the rest capped before matching.
	q := validate.SanitizeQ(c.Query("q"))
	seq, _ := strconv.ParseInt(c.Query("seq", "0"), 10, 64)

	g := h.Suggest.Query(q)
	if g.Shops == nil {
		g.Shops = []suggest.Item{}
	}
	if g.Dresses == nil {
		g.Dresses = []suggest.Item{}
	}
	return c.JSON(fiber.Map{
		"seq":             seq,
		"query":           q,
		"showSuggestions": !g.Empty(),
		"shops":           g.Shops,
		"dresses":         g.Dresses,
	})
}
