package ledger

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/platform/httpx"
	"github.com/davr-ledger/davr-ledger/internal/reminders"
	"github.com/davr-ledger/davr-ledger/internal/reports"
	"github.com/davr-ledger/davr-ledger/internal/shared"
	"github.com/davr-ledger/davr-ledger/internal/transactions"
)

// LedgerService is the facade surface the handler needs.
type LedgerService interface {
	StartLedger(ctx context.Context, ownerID string, openingStockCost int64) (periods.Period, error)
	CurrentPeriod(ctx context.Context, ownerID string) (*periods.Period, error)
	RecordSale(ctx context.Context, ownerID string, date *time.Time, cash, card int64) (transactions.DailySale, error)
	RecordPurchase(ctx context.Context, ownerID string, date *time.Time, totalCost int64, note string) (transactions.Purchase, error)
	RecordExpense(ctx context.Context, ownerID string, date *time.Time, amount int64, note string) (transactions.Expense, error)
	CloseAndRoll(ctx context.Context, ownerID string, closingStockCost int64) (reports.Report, periods.Period, error)
	Report(ctx context.Context, ownerID string) (reports.Report, error)
	PreviewClose(ctx context.Context, ownerID string, closingStockCost int64) (reports.Report, error)
	GetReminderSetting(ctx context.Context, ownerID string) (reminders.Setting, error)
	SetReminderSetting(ctx context.Context, ownerID string, hour, minute int, enabled bool) (reminders.Setting, error)
}

// Handler serves the ledger JSON API.
type Handler struct {
	logger   *slog.Logger
	service  LedgerService
	validate *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service LedgerService) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) owner(r *http.Request) string {
	return shared.OwnerFromContext(r.Context())
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) startLedger(w http.ResponseWriter, r *http.Request) {
	var req startLedgerRequest
	if !h.decode(w, r, &req) {
		return
	}
	period, err := h.service.StartLedger(r.Context(), h.owner(r), req.OpeningStockCost)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toPeriodResponse(period))
}

func (h *Handler) currentPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.service.CurrentPeriod(r.Context(), h.owner(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if period == nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no open period; start one first")
		return
	}
	httpx.JSON(w, http.StatusOK, toPeriodResponse(*period))
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req recordSaleRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if _, err := h.service.RecordSale(r.Context(), h.owner(r), date, req.Cash, req.Card); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ackResponse{Recorded: true})
}

func (h *Handler) recordPurchase(w http.ResponseWriter, r *http.Request) {
	var req recordPurchaseRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if _, err := h.service.RecordPurchase(r.Context(), h.owner(r), date, req.TotalCost, req.Note); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ackResponse{Recorded: true})
}

func (h *Handler) recordExpense(w http.ResponseWriter, r *http.Request) {
	var req recordExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if _, err := h.service.RecordExpense(r.Context(), h.owner(r), date, req.Amount, req.Note); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ackResponse{Recorded: true})
}

func (h *Handler) closePeriod(w http.ResponseWriter, r *http.Request) {
	var req closePeriodRequest
	if !h.decode(w, r, &req) {
		return
	}
	report, next, err := h.service.CloseAndRoll(r.Context(), h.owner(r), req.ClosingStockCost)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, closeResponse{Report: report, NewPeriod: toPeriodResponse(next)})
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	ownerID := h.owner(r)

	if raw := r.URL.Query().Get("preview_closing"); raw != "" {
		closing, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "preview_closing must be an integer")
			return
		}
		report, err := h.service.PreviewClose(r.Context(), ownerID, closing)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, report)
		return
	}

	report, err := h.service.Report(r.Context(), ownerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) getReminder(w http.ResponseWriter, r *http.Request) {
	setting, err := h.service.GetReminderSetting(r.Context(), h.owner(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, setting)
}

func (h *Handler) setReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderSettingRequest
	if !h.decode(w, r, &req) {
		return
	}
	setting, err := h.service.SetReminderSetting(r.Context(), h.owner(r), req.Hour, req.Minute, req.Enabled)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, setting)
}
