package models

// StatementType identifies one of the three annual statements served
// by the fundamentals view. The value doubles as part of the cache key,
// which must be (ticker, statement type) — never the client handle.
type StatementType string

const (
	StatementBalanceSheet    StatementType = "balance_sheet"
	StatementIncomeStatement StatementType = "income_statement"
	StatementCashFlow        StatementType = "cash_flow"
)

// StatementRow is one line item of a financial statement with one
// value per reporting period, aligned with Statement.Periods.
// Values stay strings: upstream reports magnitudes as decimal strings
// or "None", and the view renders them verbatim.
type StatementRow struct {
	Item   string   `json:"item"`
	Values []string `json:"values"`
}

// Statement is an annual financial statement transposed into period
// columns: Periods holds the fiscal period-end dates (newest first, as
// reported), and each row carries that many values.
type Statement struct {
	Ticker  string        `json:"ticker"`
	Type    StatementType `json:"type"`
	Periods []string      `json:"periods"`
	Rows    []StatementRow `json:"rows"`
}
