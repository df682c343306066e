package repos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// StockConflictError is returned by the authoritative cart mutations when the
// requested quantity cannot be satisfied. Current is the stock observed inside
// the mutation's transaction.
type StockConflictError struct {
	DressID string
	Current int64
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (have %d)", e.DressID, e.Current)
}

// CurrentStock reports the observed stock; the guard middleware matches on it.
func (e *StockConflictError) CurrentStock() int64 { return e.Current }

// CartItemRow carries the dress snapshot fields the cart page renders.
type CartItemRow struct {
	DressID    string  `db:"dress_id"`
	Name       string  `db:"name"`
	Size       string  `db:"size"`
	Color      string  `db:"color"`
	Category   string  `db:"category"`
	ImageURL   string  `db:"image_url"`
	ShopID     string  `db:"shop_id"`
	Qty        int     `db:"qty"`
	PriceAtAdd float64 `db:"price_at_add"`
	Subtotal   float64 `db:"subtotal"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// AddItem is the authoritative add-to-cart: inside one transaction the dress's
// current stock is compared against the cart line's new total quantity, and
// the upsert only happens when it fits. NULL stock means untracked and always
// fits.
func (r *CartRepo) AddItem(cartID, dressID string, qty int, price float64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var stock sql.NullInt64
	if err := tx.Get(&stock, `SELECT stock FROM dresses WHERE id=? AND active=1`, dressID); err != nil {
		return err
	}
	var existing int
	if err := tx.Get(&existing, `SELECT COALESCE(SUM(qty),0) FROM cart_items WHERE cart_id=? AND dress_id=?`, cartID, dressID); err != nil {
		return err
	}
	if stock.Valid && stock.Int64 < int64(existing+qty) {
		return &StockConflictError{DressID: dressID, Current: stock.Int64}
	}

	if _, err := tx.Exec(`
		INSERT INTO cart_items(cart_id,dress_id,qty,price_at_add,created_at)
		VALUES(?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,dress_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, dressID, qty, price); err != nil {
		return err
	}
	return tx.Commit()
}

// SetQty replaces a line's quantity with the same transactional stock check.
// A qty of zero removes the line.
func (r *CartRepo) SetQty(cartID, dressID string, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(cartID, dressID)
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var stock sql.NullInt64
	if err := tx.Get(&stock, `SELECT stock FROM dresses WHERE id=? AND active=1`, dressID); err != nil {
		return err
	}
	if stock.Valid && stock.Int64 < int64(qty) {
		return &StockConflictError{DressID: dressID, Current: stock.Int64}
	}

	res, err := tx.Exec(`
		UPDATE cart_items SET qty=?, updated_at=CURRENT_TIMESTAMP
		WHERE cart_id=? AND dress_id=?
	`, qty, cartID, dressID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func (r *CartRepo) RemoveItem(cartID, dressID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id=? AND dress_id=?`, cartID, dressID)
	return err
}

func (r *CartRepo) View(cartID string) ([]CartItemRow, float64, error) {
	rows := []CartItemRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.dress_id, d.name, d.size, d.color, d.category, d.image_url, d.shop_id,
	         ci.qty, ci.price_at_add, (ci.qty*ci.price_at_add) AS subtotal
	  FROM cart_items ci JOIN dresses d ON d.id = ci.dress_id
	  WHERE ci.cart_id = ?
	  ORDER BY d.name
	`, cartID); err != nil {
		return nil, 0, err
	}
	total := 0.0
	for _, it := range rows {
		total += it.Subtotal
	}
	return rows, total, nil
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// MergeForLogin attaches the signed-in user to their cart. An anonymous cart
// built under this session is folded into the user's existing cart, and the
// surviving cart is re-keyed to the current session so every later lookup by
// sid resolves it.
func (r *CartRepo) MergeForLogin(userID, sid string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var anonID, userCartID sql.NullString

	if err := tx.Get(&anonID, `SELECT id FROM carts WHERE session_id=?`, sid); err != nil && err != sql.ErrNoRows {
		return err
	}
	if err := tx.Get(&userCartID, `SELECT id FROM carts WHERE user_id=? ORDER BY updated_at DESC LIMIT 1`, userID); err != nil && err != sql.ErrNoRows {
		return err
	}

	switch {
	case !anonID.Valid && !userCartID.Valid:
		// First sign-in with nothing in a cart yet.

	case anonID.Valid && !userCartID.Valid:
		if _, err := tx.Exec(`UPDATE carts SET user_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, userID, anonID.String); err != nil {
			return err
		}

	case !anonID.Valid:
		// Returning user on a fresh session: hand their cart to this sid.
		if _, err := tx.Exec(`UPDATE carts SET session_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, sid, userCartID.String); err != nil {
			return err
		}

	case anonID.String == userCartID.String:
		// The session cart already belongs to this user.

	default:
		type line struct {
			DressID    string  `db:"dress_id"`
			Qty        int     `db:"qty"`
			PriceAtAdd float64 `db:"price_at_add"`
		}
		var lines []line
		if err := tx.Select(&lines, `SELECT dress_id, qty, price_at_add FROM cart_items WHERE cart_id=?`, anonID.String); err != nil {
			return err
		}
		for _, it := range lines {
			_, err := tx.Exec(`
				INSERT INTO cart_items(cart_id, dress_id, qty, price_at_add, created_at, updated_at)
				VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
				ON CONFLICT(cart_id, dress_id) DO UPDATE SET
				  qty = qty + excluded.qty,
				  updated_at = CURRENT_TIMESTAMP
			`, userCartID.String, it.DressID, it.Qty, it.PriceAtAdd)
			if err != nil {
				return err
			}
		}
		if _, err := tx.Exec(`DELETE FROM carts WHERE id=?`, anonID.String); err != nil {
			return err
		}
		// The merged cart follows the user onto the session they are on now.
		if _, err := tx.Exec(`UPDATE carts SET session_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, sid, userCartID.String); err != nil {
			return err
		}
	}

	_, _ = tx.Exec(`UPDATE sessions SET user_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?`, userID, sid)

	return tx.Commit()
}
