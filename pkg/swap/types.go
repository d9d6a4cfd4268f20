package swap

import (
	"math/big"
	"time"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"

	"crosschain-swap/pkg/assets"
	"crosschain-swap/pkg/chains"
)

// AdapterName is reported on every transaction record.
const AdapterName = "Near Intents"

const (
	// ZeroAddress is the EVM zero-address sentinel UI layers use as a
	// "no address connected" placeholder.
	ZeroAddress = "0x0000000000000000000000000000000000000000"

	// BTCDefaultReceiver is the placeholder recipient injected before a
	// Bitcoin address is connected. Funds must never be sent toward it.
	BTCDefaultReceiver = "bc1qdefault0receiver0000000000000000000000"
)

// QuoteParams is a quote request: what to swap, where the output goes and
// the tolerances the user accepted.
type QuoteParams struct {
	FromChain chains.ChainRef
	ToChain   chains.ChainRef
	FromToken assets.Token
	ToToken   assets.Token

	// Amount is the input amount in the source token's smallest unit,
	// as a positive integer string.
	Amount string

	Sender    string
	Recipient string
	// RefundTo defaults to Sender when empty.
	RefundTo string

	// SlippageBps is the slippage tolerance in basis points.
	SlippageBps int32
	// FeeBps is the platform fee in basis points, paid to FeeReceiver.
	FeeBps      int32
	FeeReceiver string
}

// NormalizedQuote is the chain-agnostic snapshot of one settlement quote.
// Created once per fetch and read-only afterward; execution always fetches
// a fresh binding quote, so a NormalizedQuote is never reused as-is for
// the transfer.
type NormalizedQuote struct {
	Params QuoteParams

	OutputAmount          *big.Int
	FormattedInputAmount  string
	FormattedOutputAmount string

	InputUsd  float64
	OutputUsd float64
	// PriceImpact is (inputUsd-outputUsd)*100/inputUsd, NaN when either
	// USD value is unknown.
	PriceImpact float64
	Rate        float64

	// TimeEstimate is the settlement service's estimate in seconds.
	TimeEstimate float64

	// ContractAddress is the approval target for settlement paths that
	// pull funds. This path sends funds directly to a per-swap deposit
	// address, so it is always the zero address.
	ContractAddress string

	PlatformFeePercent float64

	// Raw is the upstream quote payload, retained for re-validation at
	// execution time.
	Raw *oneclick.QuoteResponse
}

// NormalizedTxResponse records one executed (or queued) swap. Immutable
// once returned; persisted locally keyed by ID so redirect-based signing
// flows can resume.
type NormalizedTxResponse struct {
	Sender string `json:"sender"`
	// ID is the settlement deposit address, unique per swap.
	ID          string          `json:"id"`
	Adapter     string          `json:"adapter"`
	SourceChain chains.ChainRef `json:"source_chain"`
	TargetChain chains.ChainRef `json:"target_chain"`

	InputAmount  string       `json:"input_amount"`
	OutputAmount string       `json:"output_amount"`
	SourceToken  assets.Token `json:"source_token"`
	TargetToken  assets.Token `json:"target_token"`

	// SourceTxHash is the chain-native transaction hash, or the deposit
	// address as a placeholder while a redirect-based signing flow is
	// still pending.
	SourceTxHash string    `json:"source_tx_hash"`
	Timestamp    time.Time `json:"timestamp"`
}

// Status is the closed set of user-facing swap states.
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusSuccess    Status = "Success"
	StatusFailed     Status = "Failed"
	StatusRefunded   Status = "Refunded"
)

// SwapStatus pairs the destination chain transaction hash (empty until
// known) with the mapped status.
type SwapStatus struct {
	TxHash string `json:"tx_hash"`
	Status Status `json:"status"`
}
