package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxResult_MonthlyNetIncome(t *testing.T) {
	r := &TaxResult{NetIncome: decimal.RequireFromString("43692.5")}
	assert.Equal(t, "3641.04", r.MonthlyNetIncome().StringFixed(2))
}

func TestTaxResult_MarginalRate(t *testing.T) {
	assert.True(t, (&TaxResult{}).MarginalRate().IsZero())

	r := &TaxResult{TaxSlabs: []TaxSlabResult{
		{Rate: decimal.NewFromInt(10)},
		{Rate: decimal.NewFromInt(12)},
		{Rate: decimal.NewFromInt(22)},
	}}
	assert.True(t, r.MarginalRate().Equal(decimal.NewFromInt(22)))
}

func TestNotificationType_DefaultPriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, NotificationTaxPayment.DefaultPriority())
	assert.Equal(t, PriorityLow, NotificationPolicyUpdate.DefaultPriority())
	assert.Equal(t, PriorityMedium, NotificationInvestment.DefaultPriority())
}
