package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

type PaymentService struct {
	payments collection[models.Payment]
}

func NewPaymentService(db *mongo.Database) *PaymentService {
	return &PaymentService{payments: newCollection[models.Payment](db, "payments", "payment", true)}
}

// EnsureIndexes creates the lookup index used by the Stripe webhook.
func (s *PaymentService) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "session_id", Value: 1}}},
		{Keys: bson.D{{Key: "stripe_payment_id", Value: 1}}},
	}
	if _, err := s.payments.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("create payments indexes: %w", err)
	}
	return nil
}

func (s *PaymentService) CreatePayment(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	amount, err := normalizeAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	p.ID = primitive.NewObjectID()
	p.Amount = amount
	if p.PaymentStatus == "" {
		p.PaymentStatus = models.PaymentPending
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	if p.PaymentDate == "" {
		p.PaymentDate = p.CreatedAt.UTC().Format(time.RFC3339)
	}

	if _, err := s.payments.insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) PaymentList(ctx context.Context, limit int64) ([]models.Payment, error) {
	return s.payments.list(ctx, nil, limit)
}

func (s *PaymentService) GetPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	return s.payments.get(ctx, id)
}

func (s *PaymentService) UpdatePayment(ctx context.Context, id primitive.ObjectID, p *models.Payment) (*models.Payment, error) {
	amount, err := normalizeAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	p.Amount = amount
	if p.PaymentStatus == "" {
		p.PaymentStatus = models.PaymentPending
	}
	return s.payments.replace(ctx, id, p)
}

func (s *PaymentService) DeletePayment(ctx context.Context, id primitive.ObjectID) error {
	return s.payments.remove(ctx, id)
}

// CompleteIntent marks the payment created for intentID as completed. A
// payment that was never bound to an intent is matched by (user, session)
// instead, newest first.
func (s *PaymentService) CompleteIntent(ctx context.Context, intentID string, userID, sessionID primitive.ObjectID) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"payment_status":    models.PaymentCompleted,
		"stripe_payment_id": intentID,
		"payment_date":      now.UTC().Format(time.RFC3339),
		"updated_at":        now,
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetReturnDocument(options.After)

	for _, filter := range intentFilters(intentID, userID, sessionID) {
		var out models.Payment
		err := s.payments.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
		if err == nil {
			return &out, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.PersistenceErr(fmt.Errorf("complete payment for intent %s: %w", intentID, err))
		}
	}
	return nil, s.payments.notFound()
}

// intentFilters lists the lookups CompleteIntent tries, in order.
func intentFilters(intentID string, userID, sessionID primitive.ObjectID) []bson.M {
	return []bson.M{
		{"stripe_payment_id": intentID},
		{"user_id": userID, "session_id": sessionID, "stripe_payment_id": bson.M{"$in": bson.A{nil, ""}}},
	}
}

// normalizeAmount renders a positive amount with exactly two decimal places.
func normalizeAmount(raw string) (string, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return "", apperr.InvalidErr("Validation error", []apperr.FieldIssue{{Field: "amount", Message: "Must be greater than 0"}})
	}
	return d.StringFixed(2), nil
}
