package notify

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Reminder offsets, in days before the due date
var (
	PaymentReminderDays  = []int{15, 7, 3, 1}
	DeadlineReminderDays = []int{30, 15, 7}
)

// InvestmentScheme is the tax-saving scheme named in deadline reminders
const InvestmentScheme = "Section 80C"

var quarterMonths = []time.Month{time.March, time.June, time.September, time.December}

const dateLayout = "Jan 2, 2006"

// NextTaxPaymentDate returns the 15th of the first quarter month strictly
// after now's month, wrapping to March of the following year.
func NextTaxPaymentDate(now time.Time) time.Time {
	month, ok := lo.Find(quarterMonths, func(m time.Month) bool { return m > now.Month() })
	year := now.Year()
	if !ok {
		month = quarterMonths[0]
		year++
	}
	return time.Date(year, month, 15, 0, 0, 0, 0, now.Location())
}

// ShouldRemindForTaxSaving reports whether now falls in the January to March
// investment window.
func ShouldRemindForTaxSaving(now time.Time) bool {
	return now.Month() >= time.January && now.Month() <= time.March
}

// InvestmentDeadline returns March 31 of now's year
func InvestmentDeadline(now time.Time) time.Time {
	return time.Date(now.Year(), time.March, 31, 0, 0, 0, 0, now.Location())
}

// DaysUntil counts whole days from now to target, rounding partial days up
func DaysUntil(now, target time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

// SavingsOpportunities suggests investments for large incomes. Thresholds
// apply to the amount as entered.
func SavingsOpportunities(calc domain.Calculation) []domain.SavingsOpportunity {
	income := calc.OriginalAmount
	tenth := income.Mul(decimal.NewFromFloat(0.1))

	var out []domain.SavingsOpportunity
	if income.GreaterThan(decimal.NewFromInt(500000)) {
		out = append(out, domain.SavingsOpportunity{
			Title:            "Maximize your 80C investments",
			Description:      "Invest in PPF, ELSS, or insurance to save taxes under Section 80C",
			PotentialSavings: decimal.Min(tenth, decimal.NewFromInt(150000)),
		})
	}
	if income.GreaterThan(decimal.NewFromInt(1000000)) {
		out = append(out, domain.SavingsOpportunity{
			Title:            "Consider NPS Investment",
			Description:      "Additional tax benefit under Section 80CCD(1B) for NPS investment",
			PotentialSavings: decimal.Min(tenth, decimal.NewFromInt(50000)),
		})
	}
	return out
}

func newNotification(t domain.NotificationType, title, message string, due *time.Time, now time.Time) domain.Notification {
	return domain.Notification{
		ID:        uuid.NewString(),
		Type:      t,
		Title:     title,
		Message:   message,
		Priority:  t.DefaultPriority(),
		DueDate:   due,
		CreatedAt: now,
	}
}

// NewTaxPaymentReminder builds a payment reminder. A nil calc omits the
// installment amount.
func NewTaxPaymentReminder(due time.Time, calc *domain.Calculation, now time.Time) domain.Notification {
	msg := fmt.Sprintf("You have a tax payment due on %s", due.Format(dateLayout))
	if calc != nil {
		installment := calc.Result.TotalTax.Div(decimal.NewFromInt(4)).Round(2)
		msg = fmt.Sprintf("You have a tax payment of %s due on %s",
			output.FormatCurrency(installment, calc.Result.Currency), due.Format(dateLayout))
	}
	return newNotification(domain.NotificationTaxPayment, "Tax Payment Reminder", msg, &due, now)
}

// NewInvestmentDeadlineReminder builds a deadline reminder for scheme
func NewInvestmentDeadlineReminder(scheme string, deadline, now time.Time) domain.Notification {
	msg := fmt.Sprintf("Deadline approaching for %s investment - %s", scheme, deadline.Format(dateLayout))
	return newNotification(domain.NotificationDeadline, "Investment Deadline Reminder", msg, &deadline, now)
}

// NewPolicyUpdate builds a policy-update notification, typically from a news
// headline.
func NewPolicyUpdate(title, summary string, now time.Time) domain.Notification {
	return newNotification(domain.NotificationPolicyUpdate, "Tax Policy Update", title+": "+summary, nil, now)
}

// NewSavingsNotification wraps a savings opportunity
func NewSavingsNotification(opp domain.SavingsOpportunity, currency string, now time.Time) domain.Notification {
	msg := fmt.Sprintf("%s - Potential savings: %s", opp.Title, output.FormatCurrency(opp.PotentialSavings, currency))
	return newNotification(domain.NotificationInvestment, "Tax Saving Opportunity", msg, nil, now)
}

// DueReminders returns the date-driven reminders that fall due at now. calc,
// when known, supplies the installment amount.
func DueReminders(now time.Time, calc *domain.Calculation) []domain.Notification {
	var out []domain.Notification

	payment := NextTaxPaymentDate(now)
	if lo.Contains(PaymentReminderDays, DaysUntil(now, payment)) {
		out = append(out, NewTaxPaymentReminder(payment, calc, now))
	}

	if ShouldRemindForTaxSaving(now) {
		deadline := InvestmentDeadline(now)
		if lo.Contains(DeadlineReminderDays, DaysUntil(now, deadline)) {
			out = append(out, NewInvestmentDeadlineReminder(InvestmentScheme, deadline, now))
		}
	}
	return out
}
