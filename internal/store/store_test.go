package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

func ptr[T any](v T) *T { return &v }

func pending(checkoutID string, createdAt time.Time) *models.Transaction {
	return models.NewPendingTransaction("m-"+checkoutID, checkoutID, "254712345678",
		decimal.RequireFromString("150.5"), "REF-1", "Payment", createdAt)
}

// testTransactionStore runs the behaviour every backend must share.
func testTransactionStore(t *testing.T, st TransactionStore) {
	ctx := t.Context()
	base := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("create and get", func(t *testing.T) {
		id := "ws_CO_" + uuid.NewString()
		tx := pending(id, base)
		require.NoError(t, st.Create(ctx, tx))
		assert.NotEmpty(t, tx.ID)

		got, err := st.GetByCheckoutID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.CheckoutRequestID)
		assert.True(t, decimal.RequireFromString("150.50").Equal(got.Amount))
		assert.Equal(t, models.StatusPending, got.Status)
		assert.False(t, got.IsComplete)
		assert.Nil(t, got.IsSuccessful)
		assert.Nil(t, got.MpesaReceiptNumber)
		assert.Nil(t, got.ResultCode)
	})

	t.Run("duplicate checkout id", func(t *testing.T) {
		id := "ws_CO_" + uuid.NewString()
		require.NoError(t, st.Create(ctx, pending(id, base)))
		assert.ErrorIs(t, st.Create(ctx, pending(id, base)), ErrDuplicate)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := st.GetByCheckoutID(ctx, "ws_CO_"+uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("apply success callback", func(t *testing.T) {
		id := "ws_CO_" + uuid.NewString()
		require.NoError(t, st.Create(ctx, pending(id, base)))

		res := models.CallbackResult{
			CheckoutRequestID: id,
			ResultCode:        0,
			ResultDescription: "The service request is processed successfully.",
			ReceiptNumber:     ptr("ABC123"),
			Metadata:          ptr(`{"Item":[{"Name":"MpesaReceiptNumber","Value":"ABC123"}]}`),
			UpdatedAt:         base.Add(time.Minute),
		}
		matched, err := st.ApplyCallback(ctx, res)
		require.NoError(t, err)
		assert.True(t, matched)

		got, err := st.GetByCheckoutID(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.IsComplete)
		require.NotNil(t, got.IsSuccessful)
		assert.True(t, *got.IsSuccessful)
		assert.Equal(t, models.StatusSuccess, got.Status)
		assert.Equal(t, "ABC123", *got.MpesaReceiptNumber)
		assert.Equal(t, 0, *got.ResultCode)
		assert.JSONEq(t, *res.Metadata, *got.CallbackMetadata)

		// a second delivery leaves the same state
		matched, err = st.ApplyCallback(ctx, res)
		require.NoError(t, err)
		assert.True(t, matched)
		again, err := st.GetByCheckoutID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, *got.MpesaReceiptNumber, *again.MpesaReceiptNumber)
		assert.Equal(t, got.Status, again.Status)
	})

	t.Run("apply failure callback", func(t *testing.T) {
		id := "ws_CO_" + uuid.NewString()
		require.NoError(t, st.Create(ctx, pending(id, base)))

		matched, err := st.ApplyCallback(ctx, models.CallbackResult{
			CheckoutRequestID: id,
			ResultCode:        1032,
			ResultDescription: "Request cancelled by user",
			UpdatedAt:         base.Add(time.Minute),
		})
		require.NoError(t, err)
		assert.True(t, matched)

		got, err := st.GetByCheckoutID(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.IsComplete)
		require.NotNil(t, got.IsSuccessful)
		assert.False(t, *got.IsSuccessful)
		assert.Equal(t, models.StatusFailed, got.Status)
		assert.Nil(t, got.MpesaReceiptNumber)
		assert.Nil(t, got.CallbackMetadata)
		assert.Equal(t, 1032, *got.ResultCode)
		assert.Equal(t, "Request cancelled by user", *got.ResultDescription)
	})

	t.Run("apply unmatched callback", func(t *testing.T) {
		matched, err := st.ApplyCallback(ctx, models.CallbackResult{
			CheckoutRequestID: "ws_CO_" + uuid.NewString(),
			ResultCode:        0,
			UpdatedAt:         base,
		})
		require.NoError(t, err)
		assert.False(t, matched)
	})

	t.Run("list oldest first", func(t *testing.T) {
		ids := []string{"ws_CO_" + uuid.NewString(), "ws_CO_" + uuid.NewString(), "ws_CO_" + uuid.NewString()}
		// inserted out of order
		require.NoError(t, st.Create(ctx, pending(ids[2], base.Add(3*time.Hour))))
		require.NoError(t, st.Create(ctx, pending(ids[0], base.Add(1*time.Hour))))
		require.NoError(t, st.Create(ctx, pending(ids[1], base.Add(2*time.Hour))))

		all, err := st.List(ctx)
		require.NoError(t, err)

		var seen []string
		for i, tx := range all {
			if i > 0 {
				assert.False(t, tx.CreatedAt.Before(all[i-1].CreatedAt))
			}
			for _, id := range ids {
				if tx.CheckoutRequestID == id {
					seen = append(seen, id)
				}
			}
		}
		assert.Equal(t, ids, seen)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, st.Ping(ctx))
	})
}
