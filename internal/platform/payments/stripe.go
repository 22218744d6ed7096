package payments

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Gateway creates payment intents against Stripe. The amount arrives in major
// currency units from the client and is forwarded in minor units.
type Gateway struct {
	api      *client.API
	currency string
	Enabled  bool
}

func NewGateway(secretKey, currency string) *Gateway {
	g := &Gateway{
		currency: currency,
		Enabled:  secretKey != "",
	}
	if g.Enabled {
		g.api = &client.API{}
		g.api.Init(secretKey, nil)
	}
	return g
}

func (g *Gateway) CreateIntent(ctx context.Context, amountMajor int64) (clientSecret string, err error) {
	if !g.Enabled {
		return "", errors.New("payment gateway disabled (missing STRIPE_SECRET_KEY)")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMajor * 100),
		Currency: stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
