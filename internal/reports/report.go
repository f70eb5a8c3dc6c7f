// Package reports derives financial summaries from a period and its totals.
package reports

import (
	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/transactions"
)

const dateLayout = "2006-01-02"

// Report summarises one period. COGS, gross and net are only present when a
// closing stock valuation is available; on an open period without one the
// report is partial and Final is false.
type Report struct {
	PeriodID         int64  `json:"period_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Sales            int64  `json:"sales"`
	Cash             int64  `json:"cash"`
	Card             int64  `json:"card"`
	Purchases        int64  `json:"purchases"`
	Expenses         int64  `json:"expenses"`
	OpeningStockCost int64  `json:"opening_stock_cost"`
	ClosingStockCost *int64 `json:"closing_stock_cost,omitempty"`
	Final            bool   `json:"final"`
	COGS             *int64 `json:"cogs,omitempty"`
	GrossProfit      *int64 `json:"gross_profit,omitempty"`
	NetProfit        *int64 `json:"net_profit,omitempty"`
}

// Summarize computes the report for a period. Pure: no I/O, deterministic.
// A closed period yields a final report; an open one a partial report.
func Summarize(p periods.Period, totals transactions.Totals) Report {
	if p.ClosingStockCost != nil {
		return SummarizeWithClosing(p, totals, *p.ClosingStockCost)
	}
	return partial(p, totals)
}

// SummarizeWithClosing computes a final report using the given closing stock
// valuation, either the recorded one or a hypothetical value for preview.
// COGS may be negative when inventory grew and net may be negative on a
// loss; neither is clamped.
func SummarizeWithClosing(p periods.Period, totals transactions.Totals, closingStockCost int64) Report {
	r := partial(p, totals)
	cogs := p.OpeningStockCost + totals.Purchases - closingStockCost
	gross := r.Sales - cogs
	net := gross - totals.Expenses

	r.ClosingStockCost = &closingStockCost
	r.Final = true
	r.COGS = &cogs
	r.GrossProfit = &gross
	r.NetProfit = &net
	return r
}

func partial(p periods.Period, totals transactions.Totals) Report {
	return Report{
		PeriodID:         p.ID,
		StartDate:        p.StartDate.Format(dateLayout),
		EndDate:          p.EndDate.Format(dateLayout),
		Sales:            totals.Cash + totals.Card,
		Cash:             totals.Cash,
		Card:             totals.Card,
		Purchases:        totals.Purchases,
		Expenses:         totals.Expenses,
		OpeningStockCost: p.OpeningStockCost,
	}
}
