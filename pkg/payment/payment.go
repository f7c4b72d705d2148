// Package payment abstracts the checkout provider behind a small Gateway
// interface so services and tests do not depend on the Stripe SDK directly.
package payment

// CheckoutParams describes a single-item checkout session to create.
type CheckoutParams struct {
	ProductName   string
	UnitAmount    int64 // minor units (cents)
	Currency      string
	Quantity      int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Session is the provider-neutral view of a checkout session.
type Session struct {
	ID            string
	URL           string
	PaymentStatus string // "paid", "unpaid", "no_payment_required"
	AmountTotal   int64
	CustomerEmail string
	Metadata      map[string]string
}

// Paid reports whether the session has been settled.
func (s Session) Paid() bool { return s.PaymentStatus == "paid" }

// Gateway is the checkout provider.
type Gateway interface {
	CreateSession(p CheckoutParams) (Session, error)
	RetrieveSession(id string) (Session, error)
}
