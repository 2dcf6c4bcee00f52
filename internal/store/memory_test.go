package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	testTransactionStore(t, NewMemory())
}

func TestMemoryReturnsCopies(t *testing.T) {
	st := NewMemory()
	tx := pending("ws_CO_copy", time.Now())
	require.NoError(t, st.Create(t.Context(), tx))

	got, err := st.GetByCheckoutID(t.Context(), "ws_CO_copy")
	require.NoError(t, err)
	got.Description = "changed"

	again, err := st.GetByCheckoutID(t.Context(), "ws_CO_copy")
	require.NoError(t, err)
	assert.Equal(t, "Payment", again.Description)
}

func TestMemoryListBreaksTiesByInsertion(t *testing.T) {
	st := NewMemory()
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	ids := []string{"ws_CO_c", "ws_CO_a", "ws_CO_d", "ws_CO_b", "ws_CO_e"}
	for _, id := range ids {
		require.NoError(t, st.Create(t.Context(), pending(id, at)))
	}
	require.NoError(t, st.Create(t.Context(), pending("ws_CO_early", at.Add(-time.Minute))))

	for range 20 {
		all, err := st.List(t.Context())
		require.NoError(t, err)
		got := make([]string, 0, len(all))
		for _, tx := range all {
			got = append(got, tx.CheckoutRequestID)
		}
		assert.Equal(t, append([]string{"ws_CO_early"}, ids...), got)
	}
}
