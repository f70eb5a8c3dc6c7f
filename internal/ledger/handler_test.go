package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/reminders"
	"github.com/davr-ledger/davr-ledger/internal/reports"
	"github.com/davr-ledger/davr-ledger/internal/shared"
	"github.com/davr-ledger/davr-ledger/internal/transactions"
)

type stubService struct {
	period  *periods.Period
	report  reports.Report
	next    periods.Period
	setting reminders.Setting
	err     error

	saleCash int64
	saleCard int64
	saleDate *time.Time
	closing  int64
}

func (s *stubService) StartLedger(ctx context.Context, ownerID string, openingStockCost int64) (periods.Period, error) {
	if s.err != nil {
		return periods.Period{}, s.err
	}
	return *s.period, nil
}

func (s *stubService) CurrentPeriod(ctx context.Context, ownerID string) (*periods.Period, error) {
	return s.period, s.err
}

func (s *stubService) RecordSale(ctx context.Context, ownerID string, date *time.Time, cash, card int64) (transactions.DailySale, error) {
	if s.err != nil {
		return transactions.DailySale{}, s.err
	}
	s.saleCash, s.saleCard, s.saleDate = cash, card, date
	return transactions.DailySale{CashAmount: cash, CardAmount: card}, nil
}

func (s *stubService) RecordPurchase(ctx context.Context, ownerID string, date *time.Time, totalCost int64, note string) (transactions.Purchase, error) {
	if s.err != nil {
		return transactions.Purchase{}, s.err
	}
	return transactions.Purchase{TotalCost: totalCost, Note: note}, nil
}

func (s *stubService) RecordExpense(ctx context.Context, ownerID string, date *time.Time, amount int64, note string) (transactions.Expense, error) {
	if s.err != nil {
		return transactions.Expense{}, s.err
	}
	return transactions.Expense{Amount: amount, Note: note}, nil
}

func (s *stubService) CloseAndRoll(ctx context.Context, ownerID string, closingStockCost int64) (reports.Report, periods.Period, error) {
	if s.err != nil {
		return reports.Report{}, periods.Period{}, s.err
	}
	s.closing = closingStockCost
	return s.report, s.next, nil
}

func (s *stubService) Report(ctx context.Context, ownerID string) (reports.Report, error) {
	return s.report, s.err
}

func (s *stubService) PreviewClose(ctx context.Context, ownerID string, closingStockCost int64) (reports.Report, error) {
	if s.err != nil {
		return reports.Report{}, s.err
	}
	s.closing = closingStockCost
	return s.report, nil
}

func (s *stubService) GetReminderSetting(ctx context.Context, ownerID string) (reminders.Setting, error) {
	return s.setting, s.err
}

func (s *stubService) SetReminderSetting(ctx context.Context, ownerID string, hour, minute int, enabled bool) (reminders.Setting, error) {
	if s.err != nil {
		return reminders.Setting{}, s.err
	}
	return reminders.Setting{OwnerID: ownerID, Hour: hour, Minute: minute, Enabled: enabled}, nil
}

func newTestRouter(svc LedgerService) http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/ledger", h.MountRoutes)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(shared.ContextWithOwner(req.Context(), "owner-1"))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func samplePeriod() *periods.Period {
	return &periods.Period{
		ID:               1,
		OwnerID:          "owner-1",
		StartDate:        time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		OpeningStockCost: 1_000_000,
		Status:           periods.StatusOpen,
	}
}

func TestStartLedgerCreated(t *testing.T) {
	svc := &stubService{period: samplePeriod()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/ledger/start", `{"opening_stock_cost":1000000}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp periodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2024-01-01", resp.StartDate)
	require.Equal(t, "2024-01-15", resp.EndDate)
	require.Equal(t, "OPEN", resp.Status)
}

func TestStartLedgerRejectsNegativeOpening(t *testing.T) {
	router := newTestRouter(&stubService{period: samplePeriod()})

	rec := doRequest(t, router, http.MethodPost, "/ledger/start", `{"opening_stock_cost":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartLedgerConflict(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("%w: open period exists", shared.ErrConflict)}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/ledger/start", `{"opening_stock_cost":0}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var problem struct {
		Title  string `json:"title"`
		Status int    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, http.StatusConflict, problem.Status)
}

func TestCurrentPeriodNotFoundWhenNoneOpen(t *testing.T) {
	router := newTestRouter(&stubService{period: nil})

	rec := doRequest(t, router, http.MethodGet, "/ledger/period", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordSaleDefaultsDateToToday(t *testing.T) {
	svc := &stubService{period: samplePeriod()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/ledger/sales", `{"cash":100,"card":50}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(100), svc.saleCash)
	require.Equal(t, int64(50), svc.saleCard)
	require.Nil(t, svc.saleDate)
}

func TestRecordSaleWithExplicitDate(t *testing.T) {
	svc := &stubService{period: samplePeriod()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/ledger/sales", `{"date":"2024-01-03","cash":100,"card":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.saleDate)
	require.Equal(t, time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), *svc.saleDate)
}

func TestRecordSaleRejectsMalformedDate(t *testing.T) {
	router := newTestRouter(&stubService{period: samplePeriod()})

	rec := doRequest(t, router, http.MethodPost, "/ledger/sales", `{"date":"03/01/2024","cash":100}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordSaleWithoutOpenPeriod(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("%w: owner owner-1", shared.ErrNoOpenPeriod)}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/ledger/sales", `{"cash":100}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRecordPurchaseAndExpense(t *testing.T) {
	svc := &stubService{period: samplePeriod()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/ledger/purchases", `{"total_cost":300000,"note":"restock"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/ledger/expenses", `{"amount":120000,"note":"rent"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var ack ackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	require.True(t, ack.Recorded)
}

func TestClosePeriodReturnsReportAndNewPeriod(t *testing.T) {
	cogs := int64(2_500_000)
	svc := &stubService{
		report: reports.Report{PeriodID: 1, Final: true, COGS: &cogs},
		next: periods.Period{
			ID:               2,
			StartDate:        time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC),
			EndDate:          time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC),
			OpeningStockCost: 7_200_000,
			Status:           periods.StatusOpen,
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/ledger/close", `{"closing_stock_cost":7200000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(7_200_000), svc.closing)

	var resp closeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Report.Final)
	require.Equal(t, "2024-01-16", resp.NewPeriod.StartDate)
	require.Equal(t, int64(7_200_000), resp.NewPeriod.OpeningStockCost)
}

func TestCloseRateLimitKeyedByOwnerNotIP(t *testing.T) {
	svc := &stubService{report: reports.Report{Final: true}, next: *samplePeriod()}
	router := newTestRouter(svc)

	send := func(owner, remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/ledger/close", strings.NewReader(`{"closing_stock_cost":0}`))
		req = req.WithContext(shared.ContextWithOwner(req.Context(), owner))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	// Rotating the source address must not reset the budget.
	for i := 0; i < 10; i++ {
		addr := fmt.Sprintf("10.0.0.%d:1234", i+1)
		require.Equal(t, http.StatusOK, send("owner-1", addr))
	}
	require.Equal(t, http.StatusTooManyRequests, send("owner-1", "10.0.0.99:1234"))

	// A different owner keeps their own budget.
	require.Equal(t, http.StatusOK, send("owner-2", "10.0.0.99:1234"))
}

func TestReportPreviewClosing(t *testing.T) {
	svc := &stubService{report: reports.Report{PeriodID: 1, Final: true}}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/ledger/report?preview_closing=500000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(500_000), svc.closing)
}

func TestReportPreviewClosingMustBeInteger(t *testing.T) {
	router := newTestRouter(&stubService{})

	rec := doRequest(t, router, http.MethodGet, "/ledger/report?preview_closing=lots", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReminderRoundtrip(t *testing.T) {
	svc := &stubService{setting: reminders.Setting{Hour: 21, Minute: 0, Enabled: true}}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/ledger/reminder", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPut, "/ledger/reminder", `{"hour":8,"minute":30,"enabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var setting reminders.Setting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &setting))
	require.Equal(t, 8, setting.Hour)
	require.Equal(t, 30, setting.Minute)
	require.False(t, setting.Enabled)
}

func TestSetReminderRejectsBadTime(t *testing.T) {
	router := newTestRouter(&stubService{})

	rec := doRequest(t, router, http.MethodPut, "/ledger/reminder", `{"hour":24,"minute":0,"enabled":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
