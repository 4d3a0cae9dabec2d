package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationType classifies a reminder
type NotificationType string

const (
	NotificationTaxPayment   NotificationType = "TAX_PAYMENT"
	NotificationDeadline     NotificationType = "DEADLINE"
	NotificationPolicyUpdate NotificationType = "POLICY_UPDATE"
	NotificationInvestment   NotificationType = "INVESTMENT"
)

// Priority is the urgency attached to a notification
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultPriority returns the priority a notification type carries unless
// overridden.
func (t NotificationType) DefaultPriority() Priority {
	switch t {
	case NotificationTaxPayment:
		return PriorityHigh
	case NotificationPolicyUpdate:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Notification is a single reminder emitted by the scheduler
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Priority  Priority         `json:"priority"`
	DueDate   *time.Time       `json:"dueDate,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// SavingsOpportunity is an investment suggestion derived from a calculation
type SavingsOpportunity struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	PotentialSavings decimal.Decimal `json:"potentialSavings"`
}

// Article is a tax news item
type Article struct {
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"urlToImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}
