package stockguard

import (
	"errors"
	"sync/atomic"
)

// Options configure a Middleware instance.
type Options struct {
	// Notify, when set, receives every rejected result (toast-style surface).
	Notify func(Result)
	// FailHard makes Run return an *Error for rejections instead of only a
	// Result, for callers that want error propagation.
	FailHard bool
}

// stockConflict is how the authoritative mutation reports a business-rule
// rejection. Matched structurally so this package stays decoupled from the
// storage layer.
type stockConflict interface {
	error
	CurrentStock() int64
}

// Middleware wraps the guard pre-check plus an authoritative mutation into a
// single attempt: idle -> checking -> {invalid -> rejected | valid ->
// mutating -> {settled | remote-rejected}}. Only one attempt may be in
// flight per instance; a concurrent call is rejected immediately.
type Middleware struct {
	Guard *Guard
	Opts  Options

	busy atomic.Bool
}

func NewMiddleware(g *Guard, opts Options) *Middleware {
	return &Middleware{Guard: g, Opts: opts}
}

// Run executes the pre-check and, if it passes, the mutation. The mutation is
// the authoritative tier; when it fails for a reason other than a stock
// conflict, the guard's direct table read runs again as a fallback so the
// caller still gets a stock-shaped answer where one exists.
func (m *Middleware) Run(dressID string, qty int, mutate func() error) (Result, error) {
	if !m.busy.CompareAndSwap(false, true) {
		res := Result{
			DressID:      dressID,
			RequestedQty: qty,
			CurrentStock: UntrackedStock,
			Code:         CodeCartError,
			Message:      "Stock validation already in progress.",
		}
		return m.reject(res)
	}
	defer m.busy.Store(false)

	pre := m.Guard.Check(dressID, qty)
	if !pre.OK {
		return m.reject(pre)
	}

	err := mutate()
	if err == nil {
		return pre, nil
	}

	var conflict stockConflict
	if errors.As(err, &conflict) {
		res := Result{DressID: dressID, RequestedQty: qty, CurrentStock: int(conflict.CurrentStock())}
		if conflict.CurrentStock() <= 0 {
			res.Code = CodeOutOfStock
			res.Message = "This dress is out of stock."
		} else {
			res.Code = CodeInsufficientStock
			res.Message = "Not enough stock for the requested quantity."
		}
		return m.reject(res)
	}

	// Infrastructure failure on the authoritative path: re-run the direct
	// table check so the caller at least learns whether stock was the issue.
	fallback := m.Guard.Check(dressID, qty)
	if !fallback.OK {
		return m.reject(fallback)
	}
	res := Result{
		DressID:      dressID,
		RequestedQty: qty,
		CurrentStock: fallback.CurrentStock,
		Code:         CodeCartError,
		Message:      "Could not update the cart. Please try again.",
	}
	return m.reject(res)
}

func (m *Middleware) reject(res Result) (Result, error) {
	if m.Opts.Notify != nil {
		m.Opts.Notify(res)
	}
	if m.Opts.FailHard {
		return res, &Error{Result: res}
	}
	return res, nil
}
