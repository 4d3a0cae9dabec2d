package tuimsg

import "github.com/shopspring/decimal"

// CalculateRequestMsg asks the root model to run a calculation and a
// comparison for the entered income
type CalculateRequestMsg struct {
	Income       decimal.Decimal
	Currency     string
	Jurisdiction string
}

// NoIncomeMsg reports that the entered amount was not a positive income
type NoIncomeMsg struct{}
