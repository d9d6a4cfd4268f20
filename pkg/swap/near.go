package swap

import (
	"context"
	"errors"
	"fmt"

	"crosschain-swap/pkg/signer"
)

const (
	nearFunctionCallGas = "30000000000000"
	// nearStorageDeposit covers storage registration for the deposit
	// address on the token contract (0.00125 NEAR).
	nearStorageDeposit = "1250000000000000000000"
	// ft_transfer requires exactly one attached yoctoNEAR.
	nearOneYocto = "1"
)

// executeNear batches the actions for a NEAR-side deposit: an optional
// storage registration for the deposit address, then the transfer itself.
//
// Redirect-based signers hand control to an external page and may never
// return to this process, so the pending record is persisted under the
// resumption key before signing, and the deposit address stands in for
// the transaction hash until the real one is known.
func (a *Adapter) executeNear(ctx context.Context, quote *NormalizedQuote, depositAddress string, signers signer.Signers, res *NormalizedTxResponse) error {
	if signers.Near == nil {
		return fmt.Errorf("%w: near", ErrSignerUnavailable)
	}
	accountID := signers.Near.AccountID()
	if accountID == "" {
		return fmt.Errorf("%w: near signer has no account", ErrSignerUnavailable)
	}
	p := quote.Params

	isNative := p.FromToken.AssetID == "near"

	var txs []signer.NearTransaction
	if !isNative {
		txs = append(txs, signer.NearTransaction{
			SignerID:   accountID,
			ReceiverID: p.FromToken.Address,
			Actions: []signer.NearAction{{
				Type:       "FunctionCall",
				MethodName: "storage_deposit",
				Args: map[string]interface{}{
					"account_id":        depositAddress,
					"registration_only": true,
				},
				Gas:     nearFunctionCallGas,
				Deposit: nearStorageDeposit,
			}},
		})
	}

	transfer := signer.NearTransaction{
		SignerID:   accountID,
		ReceiverID: depositAddress,
		Actions: []signer.NearAction{{
			Type:    "Transfer",
			Deposit: p.Amount,
		}},
	}
	if !isNative {
		transfer = signer.NearTransaction{
			SignerID:   accountID,
			ReceiverID: p.FromToken.Address,
			Actions: []signer.NearAction{{
				Type:       "FunctionCall",
				MethodName: "ft_transfer",
				Args: map[string]interface{}{
					"receiver_id": depositAddress,
					"amount":      p.Amount,
				},
				Gas:     nearFunctionCallGas,
				Deposit: nearOneYocto,
			}},
		}
	}
	txs = append(txs, transfer)

	res.SourceTxHash = depositAddress

	if signers.Near.Redirects() && a.store != nil {
		// Must hit disk before the signer takes over: the redirect may
		// never return here.
		if err := a.store.SavePending(res); err != nil {
			return fmt.Errorf("failed to persist pending transaction: %w", err)
		}
	}

	if _, err := signers.Near.SignAndSendTransactions(ctx, txs); err != nil {
		if signers.Near.Redirects() {
			// The remote signing page reports no reason.
			return errors.New("near signing failed")
		}
		return fmt.Errorf("near signing failed: %w", err)
	}

	return nil
}
