package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS mpesa_transactions (
    id                   SERIAL PRIMARY KEY,
    merchant_request_id  VARCHAR(100)  NOT NULL,
    checkout_request_id  VARCHAR(100)  NOT NULL UNIQUE,
    phone_number         VARCHAR(15)   NOT NULL,
    amount               NUMERIC(10,2) NOT NULL CHECK (amount > 0),
    reference_code       VARCHAR(50)   NOT NULL,
    description          VARCHAR(255)  NOT NULL,
    transaction_date     TIMESTAMPTZ   NOT NULL DEFAULT now(),
    mpesa_receipt_number VARCHAR(50),
    result_code          INTEGER,
    result_description   VARCHAR(255),
    is_complete          BOOLEAN       NOT NULL DEFAULT false,
    is_successful        BOOLEAN,
    status               VARCHAR(16)   NOT NULL DEFAULT 'PENDING',
    callback_metadata    TEXT,
    created_at           TIMESTAMPTZ   NOT NULL DEFAULT now(),
    updated_at           TIMESTAMPTZ   NOT NULL DEFAULT now()
)`

const selectColumns = `id, merchant_request_id, checkout_request_id, phone_number, amount,
    reference_code, description, transaction_date, mpesa_receipt_number, result_code,
    result_description, is_complete, is_successful, status, callback_metadata, created_at, updated_at`

// Postgres is the relational transaction store, driven through lib/pq.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create mpesa_transactions: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, t *models.Transaction) error {
	var id int64
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO mpesa_transactions(merchant_request_id, checkout_request_id, phone_number, amount,
            reference_code, description, transaction_date, is_complete, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id
    `, t.MerchantRequestID, t.CheckoutRequestID, t.PhoneNumber, t.Amount.StringFixed(2),
		t.ReferenceCode, t.Description, t.TransactionDate, t.IsComplete, string(t.Status),
		t.CreatedAt, t.UpdatedAt).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	t.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Postgres) ApplyCallback(ctx context.Context, r models.CallbackResult) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
        UPDATE mpesa_transactions
           SET result_code=$2, result_description=$3, is_complete=true, is_successful=$4,
               status=$5, mpesa_receipt_number=$6, callback_metadata=$7, updated_at=$8
         WHERE checkout_request_id=$1
    `, r.CheckoutRequestID, r.ResultCode, r.ResultDescription, r.Successful(),
		string(r.Status()), r.ReceiptNumber, r.Metadata, r.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("update transaction %s: %w", r.CheckoutRequestID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *Postgres) GetByCheckoutID(ctx context.Context, checkoutRequestID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM mpesa_transactions WHERE checkout_request_id=$1 LIMIT 1`, checkoutRequestID)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch transaction %s: %w", checkoutRequestID, err)
	}
	return t, nil
}

func (s *Postgres) List(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM mpesa_transactions ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(sc scanner) (*models.Transaction, error) {
	var (
		t          models.Transaction
		id         int64
		receipt    sql.NullString
		code       sql.NullInt64
		desc       sql.NullString
		successful sql.NullBool
		metadata   sql.NullString
		status     string
	)
	err := sc.Scan(&id, &t.MerchantRequestID, &t.CheckoutRequestID, &t.PhoneNumber, &t.Amount,
		&t.ReferenceCode, &t.Description, &t.TransactionDate, &receipt, &code,
		&desc, &t.IsComplete, &successful, &status, &metadata, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.ID = strconv.FormatInt(id, 10)
	t.Status = models.TransactionStatus(status)
	if receipt.Valid {
		t.MpesaReceiptNumber = &receipt.String
	}
	if code.Valid {
		c := int(code.Int64)
		t.ResultCode = &c
	}
	if desc.Valid {
		t.ResultDescription = &desc.String
	}
	if successful.Valid {
		t.IsSuccessful = &successful.Bool
	}
	if metadata.Valid {
		t.CallbackMetadata = &metadata.String
	}
	return &t, nil
}
