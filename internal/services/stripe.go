package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/config"
	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

const eventPaymentIntentSucceeded = "payment_intent.succeeded"

// IntentCreator is the subset of the Stripe PaymentIntents API used here.
type IntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type PaymentIntentRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
	Currency  string          `json:"currency" validate:"required,len=3"`
	UserID    string          `json:"userId" validate:"required,objectid"`
	SessionID string          `json:"sessionId" validate:"required,objectid"`
}

type StripeService struct {
	intents       IntentCreator
	payments      *PaymentService
	webhookSecret string
	logger        *slog.Logger
}

func NewStripeService(cfg config.StripeConfig, payments *PaymentService, logger *slog.Logger) *StripeService {
	intents := &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.SecretKey}
	return NewStripeServiceWithIntents(intents, cfg.WebhookSecret, payments, logger)
}

func NewStripeServiceWithIntents(intents IntentCreator, webhookSecret string, payments *PaymentService, logger *slog.Logger) *StripeService {
	return &StripeService{intents: intents, payments: payments, webhookSecret: webhookSecret, logger: logger}
}

// MinorUnits converts a major-unit amount to the integer Stripe expects.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreatePaymentIntent opens an intent and records a pending payment for it.
// It returns the intent's client secret.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (string, error) {
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return "", apperr.InvalidErr("Invalid ID", []apperr.FieldIssue{{Field: "userId", Message: "Invalid id"}})
	}
	sessionID, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		return "", apperr.InvalidErr("Invalid ID", []apperr.FieldIssue{{Field: "sessionId", Message: "Invalid id"}})
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(req.Amount)),
		Currency: stripe.String(strings.ToLower(req.Currency)),
	}
	params.Context = ctx
	params.AddMetadata("userId", req.UserID)
	params.AddMetadata("sessionId", req.SessionID)

	intent, err := s.intents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Msg != "" {
			return "", apperr.GatewayRequestErr(se.Msg, err)
		}
		return "", apperr.Wrap(fmt.Errorf("create payment intent: %w", err))
	}

	_, err = s.payments.CreatePayment(ctx, &models.Payment{
		UserID:          userID,
		SessionID:       sessionID,
		Amount:          req.Amount.StringFixed(2),
		PaymentStatus:   models.PaymentPending,
		StripePaymentID: intent.ID,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "payment intent created but not recorded", "intent", intent.ID, "err", err)
		return "", err
	}

	s.logger.InfoContext(ctx, "payment intent created", "intent", intent.ID, "amount", intent.Amount, "currency", intent.Currency)
	return intent.ClientSecret, nil
}

// HandleWebhook verifies the event signature and settles the payment on
// payment_intent.succeeded. Other event types are acknowledged and ignored.
func (s *StripeService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.logger.WarnContext(ctx, "webhook signature verification failed", "err", err)
		return apperr.InvalidErr("Webhook Error: "+err.Error(), nil)
	}

	if event.Type != eventPaymentIntentSucceeded {
		s.logger.DebugContext(ctx, "webhook event ignored", "type", event.Type)
		return nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return apperr.InvalidErr("Webhook Error: invalid payment intent", nil)
	}

	userID, uerr := primitive.ObjectIDFromHex(intent.Metadata["userId"])
	sessionID, serr := primitive.ObjectIDFromHex(intent.Metadata["sessionId"])
	if uerr != nil || serr != nil {
		return apperr.InvalidErr("Missing metadata in payment intent", nil)
	}

	payment, err := s.payments.CompleteIntent(ctx, intent.ID, userID, sessionID)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return apperr.InvalidErr("Payment record not found", nil)
		}
		return err
	}

	s.logger.InfoContext(ctx, "payment completed", "payment", payment.ID.Hex(), "intent", intent.ID)
	return nil
}
