package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// StripeGateway implements Gateway on top of Stripe Checkout.
type StripeGateway struct{}

// NewStripeGateway sets the API key and returns the gateway.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) CreateSession(p CheckoutParams) (Session, error) {
	qty := p.Quantity
	if qty < 1 {
		qty = 1
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ProductName),
					},
					UnitAmount: stripe.Int64(p.UnitAmount),
				},
				Quantity: stripe.Int64(qty),
			},
		},
		CustomerEmail: stripe.String(p.CustomerEmail),
		SuccessURL:    stripe.String(p.SuccessURL),
		CancelURL:     stripe.String(p.CancelURL),
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := session.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("payment: create checkout session: %w", err)
	}
	return fromStripe(s), nil
}

func (g *StripeGateway) RetrieveSession(id string) (Session, error) {
	s, err := session.Get(id, nil)
	if err != nil {
		return Session{}, fmt.Errorf("payment: retrieve session %s: %w", id, err)
	}
	return fromStripe(s), nil
}

func fromStripe(s *stripe.CheckoutSession) Session {
	out := Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Metadata:      s.Metadata,
	}
	if s.CustomerEmail != "" {
		out.CustomerEmail = s.CustomerEmail
	} else if s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	return out
}
