package services

import (
	"database/sql"
	"errors"
	"sync"

	"dressmarket/internal/repos"
	"dressmarket/internal/stockguard"
)

// CartService runs every quantity-increasing mutation through the stock guard
// middleware before the authoritative transactional mutation in the repo.
// The guard's single-flight flag is scoped per session, so one shopper's
// double-click is rejected without blocking anyone else.
type CartService struct {
	Carts   *repos.CartRepo
	Dresses *repos.DressRepo
	Guard   *stockguard.Guard

	mu     sync.Mutex
	guards map[string]*sessionGuard
}

// sessionGuard refcounts a session's middleware so the entry lives only while
// a mutation for that session is in flight. Overlapping calls share the flag;
// the map never accumulates one entry per session the process has ever seen.
type sessionGuard struct {
	mw   *stockguard.Middleware
	refs int
}

func NewCartService(carts *repos.CartRepo, dresses *repos.DressRepo) *CartService {
	return &CartService{
		Carts:   carts,
		Dresses: dresses,
		Guard:   stockguard.New(dresses),
		guards:  make(map[string]*sessionGuard),
	}
}

func (s *CartService) acquireGuard(sessionID string) *stockguard.Middleware {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.guards[sessionID]
	if !ok {
		g = &sessionGuard{mw: stockguard.NewMiddleware(s.Guard, stockguard.Options{})}
		s.guards[sessionID] = g
	}
	g.refs++
	return g.mw
}

func (s *CartService) releaseGuard(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.guards[sessionID]; ok {
		g.refs--
		if g.refs <= 0 {
			delete(s.guards, sessionID)
		}
	}
}

func (s *CartService) Add(sessionID, dressID string, qty int) (stockguard.Result, error) {
	if qty < 1 {
		qty = 1
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return stockguard.Result{}, err
	}
	d, err := s.Dresses.Get(dressID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return stockguard.Result{
			DressID:      dressID,
			RequestedQty: qty,
			CurrentStock: stockguard.UntrackedStock,
			Code:         stockguard.CodeDressNotFound,
			Message:      "This dress is no longer available.",
		}, nil
	case err != nil:
		// Infrastructure failure, not a missing dress.
		return stockguard.Result{
			DressID:      dressID,
			RequestedQty: qty,
			CurrentStock: stockguard.UntrackedStock,
			Code:         stockguard.CodeValidationError,
			Message:      "Could not verify stock. Please try again.",
		}, nil
	}
	price := 0.0
	if d.Price.Valid {
		price = d.Price.Float64
	}
	mw := s.acquireGuard(sessionID)
	defer s.releaseGuard(sessionID)
	return mw.Run(dressID, qty, func() error {
		return s.Carts.AddItem(cartID, dressID, qty, price)
	})
}

func (s *CartService) UpdateQuantity(sessionID, dressID string, qty int) (stockguard.Result, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return stockguard.Result{}, err
	}
	if qty <= 0 {
		// Removal needs no stock check.
		if err := s.Carts.RemoveItem(cartID, dressID); err != nil {
			return stockguard.Result{}, err
		}
		return stockguard.Result{OK: true, DressID: dressID, CurrentStock: stockguard.UntrackedStock, Message: "Removed from cart."}, nil
	}
	mw := s.acquireGuard(sessionID)
	defer s.releaseGuard(sessionID)
	return mw.Run(dressID, qty, func() error {
		return s.Carts.SetQty(cartID, dressID, qty)
	})
}

func (s *CartService) Remove(sessionID, dressID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, dressID)
}

type CartView struct {
	Items []repos.CartItemRow
	Total float64
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, total, err := s.Carts.View(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: total}, nil
}

func (s *CartService) Clear(sessionID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}
