package swap

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosschain-swap/pkg/assets"
	"crosschain-swap/pkg/chains"
)

func TestGetQuoteIsDry(t *testing.T) {
	f := newFakeService(t)
	a := testAdapter(t, f)

	fetchQuote(t, a, evmQuoteParams())

	call := f.quoteCall(0)
	assert.Equal(t, true, call["dry"])
	assert.Equal(t, "EXACT_INPUT", call["swapType"])
	assert.Equal(t, "ORIGIN_CHAIN", call["depositType"])
	assert.Equal(t, "DESTINATION_CHAIN", call["recipientType"])
	assert.EqualValues(t, 100, call["slippageTolerance"])
}

func TestGetQuoteDeadlines(t *testing.T) {
	f := newFakeService(t)
	a := testAdapter(t, f)

	// Non-Bitcoin sources get a 20 minute deadline.
	fetchQuote(t, a, evmQuoteParams())
	assertDeadlineRoughly(t, f.quoteCall(0), 20*time.Minute)

	// Bitcoin sources get an hour.
	p := evmQuoteParams()
	p.FromChain = chains.Bitcoin
	p.FromToken = assets.Token{Chain: chains.Bitcoin, Symbol: "BTC", Decimals: 8, Native: true}
	p.Amount = "100000"
	fetchQuote(t, a, p)
	assertDeadlineRoughly(t, f.quoteCall(1), time.Hour)
}

func assertDeadlineRoughly(t *testing.T, call map[string]interface{}, want time.Duration) {
	t.Helper()
	raw, ok := call["deadline"].(string)
	require.True(t, ok, "deadline missing from quote request")
	deadline, err := time.Parse(time.RFC3339Nano, raw)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(want), deadline, time.Minute)
}

func TestGetQuoteNormalization(t *testing.T) {
	f := newFakeService(t)
	f.quoteResponder = func(call int, req map[string]interface{}) map[string]interface{} {
		return defaultQuoteResponse(req, f.depositAddress, map[string]interface{}{
			"amountOut":          "2000000000",
			"amountOutFormatted": "2",
			"amountInUsd":        "3000",
			"amountOutUsd":       "2970",
		})
	}
	a := testAdapter(t, f)

	p := evmQuoteParams()
	p.FeeBps = 25
	p.FeeReceiver = "fees.near"
	quote := fetchQuote(t, a, p)

	assert.Equal(t, "1", quote.FormattedInputAmount)
	assert.Equal(t, "2", quote.FormattedOutputAmount)
	assert.Equal(t, "2000000000", quote.OutputAmount.String())
	assert.InDelta(t, 2.0, quote.Rate, 1e-9)
	assert.InDelta(t, 1.0, quote.PriceImpact, 1e-9)
	assert.InDelta(t, 0.25, quote.PlatformFeePercent, 1e-9)
	assert.Equal(t, ZeroAddress, quote.ContractAddress)
}

func TestGetQuotePriceImpactUnknown(t *testing.T) {
	f := newFakeService(t)
	f.quoteResponder = func(call int, req map[string]interface{}) map[string]interface{} {
		return defaultQuoteResponse(req, f.depositAddress, map[string]interface{}{
			"amountInUsd":  "0",
			"amountOutUsd": "2970",
		})
	}
	a := testAdapter(t, f)

	quote := fetchQuote(t, a, evmQuoteParams())
	assert.True(t, math.IsNaN(quote.PriceImpact))
}

func TestGetQuoteAppFees(t *testing.T) {
	f := newFakeService(t)
	a := testAdapter(t, f)

	p := evmQuoteParams()
	p.FeeBps = 30
	p.FeeReceiver = "Fees.Near"
	fetchQuote(t, a, p)

	call := f.quoteCall(0)
	fees, ok := call["appFees"].([]interface{})
	require.True(t, ok, "appFees missing")
	require.Len(t, fees, 1)
	fee := fees[0].(map[string]interface{})
	assert.Equal(t, "fees.near", fee["recipient"])
	assert.EqualValues(t, 30, fee["fee"])
}

func TestGetQuoteValidation(t *testing.T) {
	f := newFakeService(t)
	a := testAdapter(t, f)
	ctx := context.Background()

	p := evmQuoteParams()
	p.Amount = "1.5"
	_, err := a.GetQuote(ctx, p)
	assert.Error(t, err)

	p = evmQuoteParams()
	p.Amount = "-5"
	_, err = a.GetQuote(ctx, p)
	assert.Error(t, err)

	p = evmQuoteParams()
	p.Recipient = ""
	_, err = a.GetQuote(ctx, p)
	assert.Error(t, err)

	p = evmQuoteParams()
	p.FromChain = chains.EVM(999999)
	_, err = a.GetQuote(ctx, p)
	assert.ErrorIs(t, err, ErrUnsupportedAsset)

	// Nothing should have reached the service.
	assert.Equal(t, 0, f.quoteCallCount())
}

func TestGetQuoteUpstreamError(t *testing.T) {
	f := newFakeService(t)
	f.quoteErrors = 1
	a := testAdapter(t, f)

	_, err := a.GetQuote(context.Background(), evmQuoteParams())
	assert.ErrorIs(t, err, ErrUpstreamQuote)
	assert.Contains(t, err.Error(), "no route found")
}

func TestGetQuoteRefundToDefaultsToSender(t *testing.T) {
	f := newFakeService(t)
	a := testAdapter(t, f)

	p := evmQuoteParams()
	p.RefundTo = ""
	fetchQuote(t, a, p)

	call := f.quoteCall(0)
	assert.Equal(t, p.Sender, call["refundTo"])
	assert.Equal(t, "ORIGIN_CHAIN", call["refundType"])
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "1", formatUnits("1000000000000000000", 18))
	assert.Equal(t, "1.5", formatUnits("1500000", 6))
	assert.Equal(t, "0.00000001", formatUnits("1", 8))
	assert.Equal(t, "0", formatUnits("not-a-number", 18))
}
