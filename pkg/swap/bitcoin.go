package swap

import (
	"context"
	"fmt"

	"crosschain-swap/pkg/signer"
)

// executeBitcoin delegates to the wallet's native send primitive. The
// wallet guarantees finality semantics itself, so there is no separate
// confirmation wait; the deposit notification afterwards is best effort.
func (a *Adapter) executeBitcoin(ctx context.Context, quote *NormalizedQuote, depositAddress string, signers signer.Signers, res *NormalizedTxResponse) error {
	if signers.Bitcoin == nil {
		return fmt.Errorf("%w: bitcoin", ErrSignerUnavailable)
	}

	txid, err := signers.Bitcoin.SendNative(ctx, depositAddress, quote.Params.Amount)
	if err != nil {
		return fmt.Errorf("bitcoin deposit failed: %w", err)
	}

	a.notifyDeposit(ctx, txid, depositAddress)

	res.SourceTxHash = txid
	return nil
}
