package swap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapUpstreamStatus(t *testing.T) {
	cases := map[string]Status{
		"SUCCESS":            StatusSuccess,
		"FAILED":             StatusFailed,
		"REFUNDED":           StatusRefunded,
		"PENDING_DEPOSIT":    StatusProcessing,
		"KNOWN_DEPOSIT_TX":   StatusProcessing,
		"PROCESSING":         StatusProcessing,
		"INCOMPLETE_DEPOSIT": StatusProcessing,
		"":                   StatusProcessing,
		"SOME_FUTURE_STATE":  StatusProcessing,
	}
	for upstream, want := range cases {
		assert.Equal(t, want, mapUpstreamStatus(upstream), "upstream %q", upstream)
	}
}

func TestGetTransactionStatusSuccess(t *testing.T) {
	f := newFakeService(t)
	f.statusBody = statusResponse("SUCCESS", []string{"0xdesthash1", "0xdesthash2"})
	a := testAdapter(t, f)

	tx := &NormalizedTxResponse{ID: f.depositAddress}
	status, err := a.GetTransactionStatus(context.Background(), tx)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, status.Status)
	// First destination hash wins.
	assert.Equal(t, "0xdesthash1", status.TxHash)
}

func TestGetTransactionStatusProcessingNoHash(t *testing.T) {
	f := newFakeService(t)
	f.statusBody = statusResponse("PENDING_DEPOSIT", nil)
	a := testAdapter(t, f)

	status, err := a.GetTransactionStatus(context.Background(), &NormalizedTxResponse{ID: f.depositAddress})
	require.NoError(t, err)

	assert.Equal(t, StatusProcessing, status.Status)
	assert.Empty(t, status.TxHash)
}

func TestGetTransactionStatusIdempotent(t *testing.T) {
	f := newFakeService(t)
	f.statusBody = statusResponse("REFUNDED", nil)
	a := testAdapter(t, f)

	tx := &NormalizedTxResponse{ID: f.depositAddress}
	first, err := a.GetTransactionStatus(context.Background(), tx)
	require.NoError(t, err)
	second, err := a.GetTransactionStatus(context.Background(), tx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
