package ledger

import (
	"fmt"
	"time"

	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/reports"
	"github.com/davr-ledger/davr-ledger/internal/shared"
)

const dateLayout = "2006-01-02"

type startLedgerRequest struct {
	OpeningStockCost int64 `json:"opening_stock_cost" validate:"gte=0"`
}

type recordSaleRequest struct {
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Cash int64  `json:"cash" validate:"gte=0"`
	Card int64  `json:"card" validate:"gte=0"`
}

type recordPurchaseRequest struct {
	Date      string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TotalCost int64  `json:"total_cost" validate:"gte=0"`
	Note      string `json:"note" validate:"max=500"`
}

type recordExpenseRequest struct {
	Date   string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Amount int64  `json:"amount" validate:"gte=0"`
	Note   string `json:"note" validate:"max=500"`
}

type closePeriodRequest struct {
	ClosingStockCost int64 `json:"closing_stock_cost" validate:"gte=0"`
}

type reminderSettingRequest struct {
	Hour    int  `json:"hour" validate:"gte=0,lte=23"`
	Minute  int  `json:"minute" validate:"gte=0,lte=59"`
	Enabled bool `json:"enabled"`
}

type periodResponse struct {
	ID               int64  `json:"id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	OpeningStockCost int64  `json:"opening_stock_cost"`
	ClosingStockCost *int64 `json:"closing_stock_cost,omitempty"`
	Status           string `json:"status"`
}

type closeResponse struct {
	Report    reports.Report `json:"report"`
	NewPeriod periodResponse `json:"new_period"`
}

type ackResponse struct {
	Recorded bool `json:"recorded"`
}

func toPeriodResponse(p periods.Period) periodResponse {
	return periodResponse{
		ID:               p.ID,
		StartDate:        p.StartDate.Format(dateLayout),
		EndDate:          p.EndDate.Format(dateLayout),
		OpeningStockCost: p.OpeningStockCost,
		ClosingStockCost: p.ClosingStockCost,
		Status:           string(p.Status),
	}
}

// parseDate turns an optional "2006-01-02" string into a date pointer.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", shared.ErrValidation)
	}
	return &d, nil
}
