package swap

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"

	"crosschain-swap/pkg/chains"
	"crosschain-swap/pkg/signer"
)

// ExecuteSwap runs one swap to completion: binding re-quote, safety
// guards, chain-family specific transfer, confirmation where the chain
// model requires it, and the final transaction record.
//
// A single call is sequential; callers must not start a second execution
// against the same quote. Broadcast is the point of no return.
func (a *Adapter) ExecuteSwap(ctx context.Context, quote *NormalizedQuote, signers signer.Signers) (*NormalizedTxResponse, error) {
	if quote == nil || quote.Raw == nil {
		return nil, fmt.Errorf("quote is missing its upstream payload")
	}
	p := quote.Params

	refreshed, err := a.revalidate(ctx, quote)
	if err != nil {
		return nil, err
	}

	refreshedQuote := refreshed.GetQuote()
	depositAddress := refreshedQuote.GetDepositAddress()

	res := &NormalizedTxResponse{
		Sender:       p.Sender,
		ID:           depositAddress,
		Adapter:      AdapterName,
		SourceChain:  p.FromChain,
		TargetChain:  p.ToChain,
		InputAmount:  p.Amount,
		OutputAmount: quote.OutputAmount.String(),
		SourceToken:  p.FromToken,
		TargetToken:  p.ToToken,
		Timestamp:    time.Now(),
	}

	family, ok := chains.FamilyOf(p.FromChain)
	if !ok {
		return nil, fmt.Errorf("%w: source chain %s", ErrUnsupportedAsset, p.FromChain)
	}

	switch family {
	case chains.FamilyAccountToken:
		err = a.executeNear(ctx, quote, depositAddress, signers, res)
	case chains.FamilyUTXO:
		err = a.executeBitcoin(ctx, quote, depositAddress, signers, res)
	case chains.FamilyTokenProgram:
		err = a.executeSolana(ctx, quote, depositAddress, signers, res)
	default:
		err = a.executeEVM(ctx, quote, depositAddress, signers, res)
	}
	if err != nil {
		return nil, err
	}

	a.record(res)
	return res, nil
}

// revalidate fetches a binding quote for the original request with a
// tightened slippage tolerance and runs the pre-transfer guards. All
// failures here are fatal and happen before any funds move.
func (a *Adapter) revalidate(ctx context.Context, quote *NormalizedQuote) (*oneclick.QuoteResponse, error) {
	p := quote.Params

	req := a.buildQuoteRequest(p, resolvedOriginAsset(quote), resolvedDestinationAsset(quote),
		tightenSlippage(p.SlippageBps), false)

	resp, err := a.client.GetQuote(ctx, *req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamQuote, err)
	}

	q := resp.GetQuote()
	if q.GetDepositAddress() == "" {
		return nil, ErrRevalidationFailed
	}

	echoed := resp.GetQuoteRequest()
	if unsafeAddress(echoed.GetRecipient()) || unsafeAddress(echoed.GetRefundTo()) {
		return nil, fmt.Errorf("%w: recipient %q refundTo %q",
			ErrUnsafeRecipient, echoed.GetRecipient(), echoed.GetRefundTo())
	}

	// A lower minimum output on the refresh means the tightened slippage
	// was not honored; proceeding would expose the user to worse terms
	// than they accepted.
	origQuote := quote.Raw.GetQuote()
	origMin, ok := new(big.Int).SetString(origQuote.GetMinAmountOut(), 10)
	if !ok {
		return nil, fmt.Errorf("%w: bad original minAmountOut %q", ErrUpstreamQuote, origQuote.GetMinAmountOut())
	}
	newMin, ok := new(big.Int).SetString(q.GetMinAmountOut(), 10)
	if !ok {
		return nil, fmt.Errorf("%w: bad refreshed minAmountOut %q", ErrUpstreamQuote, q.GetMinAmountOut())
	}
	if newMin.Cmp(origMin) < 0 {
		return nil, fmt.Errorf("%w: %s < %s", ErrQuoteRegression, newMin, origMin)
	}

	return resp, nil
}

// tightenSlippage shaves the accepted tolerance by 10% for the binding
// re-quote, so small favorable rate drift cannot push the execution under
// the terms the user saw. Tolerances at or below 2 bps are left alone; a
// 0 or 1 bps re-quote would be rejected upstream.
func tightenSlippage(bps int32) int32 {
	if t := bps * 9 / 10; t > 1 {
		return t
	}
	return bps
}

func unsafeAddress(addr string) bool {
	return strings.EqualFold(addr, ZeroAddress) || strings.EqualFold(addr, BTCDefaultReceiver)
}

// resolvedOriginAsset reads the asset ids the dry quote already resolved,
// so execution never re-runs list matching against a possibly changed
// token list.
func resolvedOriginAsset(quote *NormalizedQuote) string {
	req := quote.Raw.GetQuoteRequest()
	return req.GetOriginAsset()
}

func resolvedDestinationAsset(quote *NormalizedQuote) string {
	req := quote.Raw.GetQuoteRequest()
	return req.GetDestinationAsset()
}

// record persists the transaction record keyed by deposit id. Persistence
// failures are logged, never surfaced: the chain transfer already
// happened.
func (a *Adapter) record(res *NormalizedTxResponse) {
	if a.store == nil {
		return
	}
	if err := a.store.Put(res); err != nil {
		a.log.WithError(err).WithField("deposit_address", res.ID).
			Warn("failed to persist transaction record")
	}
}

// notifyDeposit tells the settlement service about a broadcast deposit.
// Best effort: the service also discovers deposits by scanning the
// address, so a failure is logged and swallowed.
func (a *Adapter) notifyDeposit(ctx context.Context, txHash, depositAddress string) {
	if err := a.client.SubmitDepositTx(ctx, txHash, depositAddress); err != nil {
		a.log.WithError(err).WithField("deposit_address", depositAddress).
			Warn("deposit notification failed")
	}
}
