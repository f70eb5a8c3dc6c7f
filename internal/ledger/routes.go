package ledger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/davr-ledger/davr-ledger/internal/shared"
)

// keyByOwner rate limits per authenticated ledger rather than per IP, since
// all requests here carry an owner in the context.
func keyByOwner(r *http.Request) (string, error) {
	return shared.OwnerFromContext(r.Context()), nil
}

// MountRoutes attaches the ledger API routes. Closing is rate limited a bit
// harder since each close opens a fresh period.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/start", h.startLedger)
	r.Get("/period", h.currentPeriod)
	r.Post("/sales", h.recordSale)
	r.Post("/purchases", h.recordPurchase)
	r.Post("/expenses", h.recordExpense)
	r.With(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(keyByOwner))).Post("/close", h.closePeriod)
	r.Get("/report", h.report)
	r.Get("/reminder", h.getReminder)
	r.Put("/reminder", h.setReminder)
}
