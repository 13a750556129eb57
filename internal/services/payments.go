package services

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var ErrPaymentsDisabled = errors.New("payment provider is not configured")

// PaymentGateway creates card payment intents with an external provider.
type PaymentGateway interface {
	// CreatePaymentIntent reserves amountInCents and returns the client secret
	// the browser uses to confirm the charge.
	CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error)
}

type StripeGateway struct {
	api      *client.API
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	return &StripeGateway{
		api:      client.New(secretKey, nil),
		currency: currency,
	}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountInCents),
		Currency:           stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}

// BreakerGateway stops calling the provider while it keeps failing.
type BreakerGateway struct {
	next    PaymentGateway
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerGateway(next PaymentGateway, breaker *gobreaker.CircuitBreaker) *BreakerGateway {
	return &BreakerGateway{next: next, breaker: breaker}
}

func (g *BreakerGateway) CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error) {
	res, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.CreatePaymentIntent(ctx, amountInCents)
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

// DisabledGateway is used when no provider key is configured.
type DisabledGateway struct{}

func (DisabledGateway) CreatePaymentIntent(context.Context, int64) (string, error) {
	return "", ErrPaymentsDisabled
}
