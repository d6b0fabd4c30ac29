package stripe

import (
	"context"
	"fmt"
	"strings"

	"pet-nutrition-service/config"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
)

// Client wraps the Stripe operations used by the scan pipeline: resolving
// whether a user holds the premium subscription and minting checkout URLs.
type Client struct {
	config *config.Config
}

// NewClient creates a new Stripe client
func NewClient(cfg *config.Config) *Client {
	stripego.Key = cfg.StripeSecretKey
	return &Client{config: cfg}
}

// IsSubscribed reports whether the account email holds an active premium
// subscription. A missing Stripe customer record is not an error; it means
// the user never subscribed.
func (c *Client) IsSubscribed(ctx context.Context, email string) (bool, error) {
	custParams := &stripego.CustomerListParams{Email: stripego.String(email)}
	custParams.Context = ctx
	custParams.Limit = stripego.Int64(1)

	custIter := customer.List(custParams)
	if !custIter.Next() {
		if err := custIter.Err(); err != nil {
			return false, fmt.Errorf("failed to look up customer: %w", err)
		}
		return false, nil
	}

	subParams := &stripego.SubscriptionListParams{
		Customer: stripego.String(custIter.Customer().ID),
		Price:    stripego.String(c.config.StripePremiumPriceID),
		Status:   stripego.String(string(stripego.SubscriptionStatusActive)),
	}
	subParams.Context = ctx
	subParams.Limit = stripego.Int64(1)

	subIter := subscription.List(subParams)
	if subIter.Next() {
		return true, nil
	}
	if err := subIter.Err(); err != nil {
		return false, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return false, nil
}

// CreateCheckoutSession mints a Stripe Checkout URL for the premium
// subscription and returns it for the client to redirect to.
func (c *Client) CreateCheckoutSession(ctx context.Context, email string) (string, error) {
	if c.config.StripePremiumPriceID == "" {
		return "", fmt.Errorf("premium price not configured")
	}

	frontendURL := strings.TrimRight(c.config.FrontendURL, "/")
	params := &stripego.CheckoutSessionParams{
		Mode:          stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		CustomerEmail: stripego.String(email),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				Price:    stripego.String(c.config.StripePremiumPriceID),
				Quantity: stripego.Int64(1),
			},
		},
		SuccessURL: stripego.String(frontendURL + "/billing/success"),
		CancelURL:  stripego.String(frontendURL + "/billing/cancel"),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.URL, nil
}
