package swap

import (
	"errors"

	"crosschain-swap/pkg/assets"
)

// Fatal error categories. Each aborts the execution state machine
// immediately; the UI layer owns the user-facing wording.
var (
	// ErrUnsupportedAsset: no settlement asset id resolvable for a token.
	ErrUnsupportedAsset = assets.ErrUnsupportedAsset

	// ErrUpstreamQuote: the settlement service rejected or errored a
	// quote request. Retryable by re-invoking GetQuote.
	ErrUpstreamQuote = errors.New("upstream quote error")

	// ErrRevalidationFailed: the binding re-quote returned no deposit
	// address.
	ErrRevalidationFailed = errors.New("deposit address not found")

	// ErrUnsafeRecipient: recipient or refund address equals a sentinel
	// placeholder. Indicates a caller bug; never retried automatically.
	ErrUnsafeRecipient = errors.New("recipient or refund address is a placeholder")

	// ErrQuoteRegression: the refreshed quote's minimum output guarantee
	// decreased relative to the accepted quote.
	ErrQuoteRegression = errors.New("refreshed quote minimum output is less than expected")

	// ErrSignerUnavailable: no signer supplied for the source chain's
	// family.
	ErrSignerUnavailable = errors.New("no signer connected for source chain")

	// ErrConfirmationTimeout: the chain did not confirm the broadcast
	// transaction within the bounded wait and the fallback check also
	// failed. The transaction may still succeed later; callers should
	// allow a manual status recheck.
	ErrConfirmationTimeout = errors.New("transaction confirmation timeout")
)
