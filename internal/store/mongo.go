package store

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
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

const TransactionsCollection = "mpesa_transactions"

type transactionDoc struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty"`
	MerchantRequestID  string               `bson:"merchant_request_id"`
	CheckoutRequestID  string               `bson:"checkout_request_id"`
	PhoneNumber        string               `bson:"phone_number"`
	Amount             primitive.Decimal128 `bson:"amount"`
	ReferenceCode      string               `bson:"reference_code"`
	Description        string               `bson:"description"`
	TransactionDate    time.Time            `bson:"transaction_date"`
	MpesaReceiptNumber *string              `bson:"mpesa_receipt_number"`
	ResultCode         *int                 `bson:"result_code"`
	ResultDescription  *string              `bson:"result_description"`
	IsComplete         bool                 `bson:"is_complete"`
	IsSuccessful       *bool                `bson:"is_successful"`
	Status             string               `bson:"status"`
	CallbackMetadata   *string              `bson:"callback_metadata"`
	CreatedAt          time.Time            `bson:"created_at"`
	UpdatedAt          time.Time            `bson:"updated_at"`
}

func toDoc(t *models.Transaction) (transactionDoc, error) {
	amount, err := primitive.ParseDecimal128(t.Amount.StringFixed(2))
	if err != nil {
		return transactionDoc{}, fmt.Errorf("convert amount %s: %w", t.Amount, err)
	}
	return transactionDoc{
		MerchantRequestID:  t.MerchantRequestID,
		CheckoutRequestID:  t.CheckoutRequestID,
		PhoneNumber:        t.PhoneNumber,
		Amount:             amount,
		ReferenceCode:      t.ReferenceCode,
		Description:        t.Description,
		TransactionDate:    t.TransactionDate,
		MpesaReceiptNumber: t.MpesaReceiptNumber,
		ResultCode:         t.ResultCode,
		ResultDescription:  t.ResultDescription,
		IsComplete:         t.IsComplete,
		IsSuccessful:       t.IsSuccessful,
		Status:             string(t.Status),
		CallbackMetadata:   t.CallbackMetadata,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}, nil
}

func (d transactionDoc) model() (models.Transaction, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parse amount %s: %w", d.Amount, err)
	}
	return models.Transaction{
		ID:                 d.ID.Hex(),
		MerchantRequestID:  d.MerchantRequestID,
		CheckoutRequestID:  d.CheckoutRequestID,
		PhoneNumber:        d.PhoneNumber,
		Amount:             amount,
		ReferenceCode:      d.ReferenceCode,
		Description:        d.Description,
		TransactionDate:    d.TransactionDate,
		MpesaReceiptNumber: d.MpesaReceiptNumber,
		ResultCode:         d.ResultCode,
		ResultDescription:  d.ResultDescription,
		IsComplete:         d.IsComplete,
		IsSuccessful:       d.IsSuccessful,
		Status:             models.TransactionStatus(d.Status),
		CallbackMetadata:   d.CallbackMetadata,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}, nil
}

type Mongo struct {
	collection *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{collection: db.Collection(TransactionsCollection)}
}

// EnsureIndexes creates the unique checkout id index and the listing index.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "checkout_request_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("create transaction indexes: %w", err)
	}
	return nil
}

func (s *Mongo) Create(ctx context.Context, t *models.Transaction) error {
	doc, err := toDoc(t)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	t.ID = doc.ID.Hex()
	return nil
}

func (s *Mongo) ApplyCallback(ctx context.Context, r models.CallbackResult) (bool, error) {
	successful := r.Successful()
	update := bson.M{
		"$set": bson.M{
			"result_code":          r.ResultCode,
			"result_description":   r.ResultDescription,
			"is_complete":          true,
			"is_successful":        successful,
			"status":               string(r.Status()),
			"mpesa_receipt_number": r.ReceiptNumber,
			"callback_metadata":    r.Metadata,
			"updated_at":           r.UpdatedAt,
		},
	}
	res, err := s.collection.UpdateOne(ctx, bson.M{"checkout_request_id": r.CheckoutRequestID}, update)
	if err != nil {
		return false, fmt.Errorf("update transaction %s: %w", r.CheckoutRequestID, err)
	}
	return res.MatchedCount > 0, nil
}

func (s *Mongo) GetByCheckoutID(ctx context.Context, checkoutRequestID string) (*models.Transaction, error) {
	var doc transactionDoc
	err := s.collection.FindOne(ctx, bson.M{"checkout_request_id": checkoutRequestID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch transaction %s: %w", checkoutRequestID, err)
	}
	t, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Mongo) List(ctx context.Context) ([]models.Transaction, error) {
	cur, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []transactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	out := make([]models.Transaction, 0, len(docs))
	for _, d := range docs {
		t, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Mongo) Ping(ctx context.Context) error {
	return s.collection.Database().Client().Ping(ctx, readpref.Primary())
}
