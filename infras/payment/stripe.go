package payment

//go:generate go run go.uber.org/mock/mockgen -source=./stripe.go -destination=./mocks/stripe_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"kaamdham/config"
	"kaamdham/infras/otel"
	"kaamdham/shared/constant"
)

// Gateway wraps the card processor behind the two calls the engagement
// services need. Amounts are in the smallest currency unit.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, referenceID string) (intentID, clientSecret string, err error)
	CancelIntent(ctx context.Context, intentID string) (err error)
}

type stripeGateway struct {
	api    *client.API
	config *config.Config
	otel   otel.Otel
}

func NewGateway(cfg *config.Config, ot otel.Otel) Gateway {
	api := &client.API{}
	api.Init(cfg.External.Stripe.SecretKey, nil)

	return &stripeGateway{
		api:    api,
		config: cfg,
		otel:   ot,
	}
}

// CreateIntent implements Gateway.
func (g *stripeGateway) CreateIntent(ctx context.Context, amount int64, referenceID string) (intentID, clientSecret string, err error) {
	_, scope := g.otel.NewScope(ctx, constant.OtelPaymentScopeName, constant.OtelPaymentScopeName+".CreateIntent")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("payment.reference_id", referenceID)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.config.External.Stripe.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("reference_id", referenceID)

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		log.Error().Err(err).Str("referenceID", referenceID).Msg("Failed to create payment intent")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return intent.ID, intent.ClientSecret, nil
}

// CancelIntent implements Gateway.
func (g *stripeGateway) CancelIntent(ctx context.Context, intentID string) (err error) {
	_, scope := g.otel.NewScope(ctx, constant.OtelPaymentScopeName, constant.OtelPaymentScopeName+".CancelIntent")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("payment.intent_id", intentID)

	_, err = g.api.PaymentIntents.Cancel(intentID, nil)
	if err != nil {
		log.Error().Err(err).Str("intentID", intentID).Msg("Failed to cancel payment intent")

		return fmt.Errorf("failed to cancel payment intent: %w", err)
	}

	return nil
}
