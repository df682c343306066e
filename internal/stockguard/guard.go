// Package stockguard implements the advisory stock pre-check that runs before
// cart mutations. The check is an optimization only: it saves a round through
// the cart path for the common out-of-stock case, but the authoritative
// decision is the cart repo's transactional check. Two guards can both pass
// and then race; the cart transaction rejects the loser.
package stockguard

import (
	"database/sql"
	"errors"
	"fmt"
)

type Code string

const (
	CodeOutOfStock        Code = "OUT_OF_STOCK"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeDressNotFound     Code = "DRESS_NOT_FOUND"
	CodeValidationError   Code = "VALIDATION_ERROR"
	CodeCartError         Code = "CART_ERROR"
)

// UntrackedStock marks dresses whose shop does not track stock; the guard
// always passes those.
const UntrackedStock = -1

// Result is the guard's answer. Callers branch on OK instead of handling
// errors for the common rejection cases.
type Result struct {
	OK           bool   `json:"isValid"`
	DressID      string `json:"dressId"`
	RequestedQty int    `json:"requestedQty"`
	CurrentStock int    `json:"currentStock"`
	Code         Code   `json:"code,omitempty"`
	Message      string `json:"message"`
}

// Error is the throwing entry point's wrapper around a rejected Result.
type Error struct{ Result Result }

func (e *Error) Error() string {
	return fmt.Sprintf("stock validation failed (%s): %s", e.Result.Code, e.Result.Message)
}

// StockReader reads the current stock column for a dress. sql.ErrNoRows
// means the dress does not exist; an invalid NullInt64 means untracked.
type StockReader interface {
	Stock(dressID string) (sql.NullInt64, error)
}

type Guard struct {
	Stocks StockReader
}

func New(stocks StockReader) *Guard { return &Guard{Stocks: stocks} }

// Check validates that qty units of a dress can be added. It never returns
// an error; read failures surface as a VALIDATION_ERROR result.
func (g *Guard) Check(dressID string, qty int) Result {
	if qty < 1 {
		qty = 1
	}
	res := Result{DressID: dressID, RequestedQty: qty, CurrentStock: UntrackedStock}

	stock, err := g.Stocks.Stock(dressID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res.Code = CodeDressNotFound
		res.Message = "This dress is no longer available."
		return res
	case err != nil:
		res.Code = CodeValidationError
		res.Message = "Could not verify stock. Please try again."
		return res
	}

	if !stock.Valid {
		res.OK = true
		res.Message = "Stock not tracked for this dress."
		return res
	}

	res.CurrentStock = int(stock.Int64)
	switch {
	case stock.Int64 <= 0:
		res.Code = CodeOutOfStock
		res.Message = "This dress is out of stock."
	case stock.Int64 < int64(qty):
		res.Code = CodeInsufficientStock
		res.Message = fmt.Sprintf("Only %d left in stock.", stock.Int64)
	default:
		res.OK = true
		res.Message = fmt.Sprintf("%d in stock.", stock.Int64)
	}
	return res
}

// MustCheck is the error-returning entry point for callers that prefer to
// propagate a failure instead of branching on Result.OK.
func (g *Guard) MustCheck(dressID string, qty int) (Result, error) {
	res := g.Check(dressID, qty)
	if !res.OK {
		return res, &Error{Result: res}
	}
	return res, nil
}
