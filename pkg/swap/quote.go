package swap

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"
	"github.com/shopspring/decimal"

	"crosschain-swap/pkg/assets"
	"crosschain-swap/pkg/chains"
)

const (
	swapTypeExactInput   = "EXACT_INPUT"
	depositOriginChain   = "ORIGIN_CHAIN"
	refundOriginChain    = "ORIGIN_CHAIN"
	recipientDestination = "DESTINATION_CHAIN"

	// Bitcoin finality is slow enough to warrant a longer quote deadline.
	bitcoinQuoteDeadline = time.Hour
	defaultQuoteDeadline = 20 * time.Minute
)

// GetQuote resolves both assets, requests a dry (non-binding) quote and
// normalizes it. The returned quote is for display and acceptance only;
// ExecuteSwap always re-quotes binding before moving funds.
func (a *Adapter) GetQuote(ctx context.Context, p QuoteParams) (*NormalizedQuote, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}

	list, err := a.tokenList(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamQuote, err)
	}

	fromAssetID, err := assets.Resolve(list, p.FromToken)
	if err != nil {
		return nil, err
	}
	toAssetID, err := assets.Resolve(list, p.ToToken)
	if err != nil {
		return nil, err
	}

	req := a.buildQuoteRequest(p, fromAssetID, toAssetID, p.SlippageBps, true)

	resp, err := a.client.GetQuote(ctx, *req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamQuote, err)
	}

	return normalizeQuote(p, resp)
}

func validateParams(p QuoteParams) error {
	amount, ok := new(big.Int).SetString(p.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return fmt.Errorf("amount must be a positive integer in smallest units, got %q", p.Amount)
	}
	if p.Recipient == "" {
		return fmt.Errorf("recipient address is required")
	}
	if p.Sender == "" {
		return fmt.Errorf("sender address is required")
	}
	if !chains.IsSupported(p.FromChain) || !chains.IsSupported(p.ToChain) {
		return fmt.Errorf("%w: chain pair %s -> %s", ErrUnsupportedAsset, p.FromChain, p.ToChain)
	}
	return nil
}

// buildQuoteRequest assembles a 1Click quote request. It is also used by
// the executor's binding re-quote, which never carries a correlation id:
// the request is built fresh each time, so the settlement service issues a
// fresh deposit address.
func (a *Adapter) buildQuoteRequest(p QuoteParams, fromAssetID, toAssetID string, slippageBps int32, dry bool) *oneclick.QuoteRequest {
	refundTo := p.RefundTo
	if refundTo == "" {
		refundTo = p.Sender
	}

	req := oneclick.NewQuoteRequest(
		dry,
		swapTypeExactInput,
		float32(slippageBps),
		fromAssetID,
		depositOriginChain,
		toAssetID,
		p.Amount,
		refundTo,
		refundOriginChain,
		p.Recipient,
		recipientDestination,
		quoteDeadline(p.FromChain),
	)
	if a.referral != "" {
		req.SetReferral(a.referral)
	}
	if p.FeeReceiver != "" && p.FeeBps > 0 {
		req.SetAppFees([]oneclick.AppFee{{
			Recipient: strings.ToLower(p.FeeReceiver),
			Fee:       float32(p.FeeBps),
		}})
	}
	return req
}

func quoteDeadline(from chains.ChainRef) time.Time {
	if from == chains.Bitcoin {
		return time.Now().Add(bitcoinQuoteDeadline)
	}
	return time.Now().Add(defaultQuoteDeadline)
}

func normalizeQuote(p QuoteParams, resp *oneclick.QuoteResponse) (*NormalizedQuote, error) {
	q := resp.GetQuote()

	outputAmount, ok := new(big.Int).SetString(q.GetAmountOut(), 10)
	if !ok {
		return nil, fmt.Errorf("%w: bad amountOut %q", ErrUpstreamQuote, q.GetAmountOut())
	}

	formattedIn := formatUnits(p.Amount, p.FromToken.Decimals)
	formattedOut := formatUnits(q.GetAmountOut(), p.ToToken.Decimals)

	inputUsd := parseUsd(q.GetAmountInUsd())
	outputUsd := parseUsd(q.GetAmountOutUsd())

	priceImpact := math.NaN()
	if inputUsd != 0 && outputUsd != 0 {
		priceImpact = (inputUsd - outputUsd) * 100 / inputUsd
	}

	var rate float64
	fIn, _ := strconv.ParseFloat(formattedIn, 64)
	fOut, _ := strconv.ParseFloat(formattedOut, 64)
	if fIn != 0 {
		rate = fOut / fIn
	}

	return &NormalizedQuote{
		Params:                p,
		OutputAmount:          outputAmount,
		FormattedInputAmount:  formattedIn,
		FormattedOutputAmount: formattedOut,
		InputUsd:              inputUsd,
		OutputUsd:             outputUsd,
		PriceImpact:           priceImpact,
		Rate:                  rate,
		TimeEstimate:          float64(q.GetTimeEstimate()),
		ContractAddress:       ZeroAddress,
		PlatformFeePercent:    float64(p.FeeBps) * 100 / 10_000,
		Raw:                   resp,
	}, nil
}

// formatUnits shifts a smallest-unit integer string into a decimal amount
// string ("1000000000000000000", 18 -> "1").
func formatUnits(amount string, decimals int32) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "0"
	}
	return d.Shift(-decimals).String()
}

func parseUsd(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
