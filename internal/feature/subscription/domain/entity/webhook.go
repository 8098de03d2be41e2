package entity

import "time"

// Gateway event types that change subscription state.
const (
	EventCheckoutCompleted    = "checkout.session.completed"
	EventInvoicePaymentFailed = "invoice.payment_failed"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
)

// WebhookEvent is a verified gateway event reduced to the fields billing needs.
type WebhookEvent struct {
	ID   string
	Type string
	// UserID comes from the metadata the checkout attached; empty when absent.
	UserID         string
	SubscriptionID string
	// PaymentID is the payment intent id, else the invoice id, else the session id.
	PaymentID   string
	AmountTotal int64
	Currency    string
}

// GatewaySubscription is the gateway's view of a subscription.
type GatewaySubscription struct {
	ID          string
	PriceID     string
	PeriodStart time.Time
	PeriodEnd   time.Time
}
