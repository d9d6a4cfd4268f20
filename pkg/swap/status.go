package swap

import (
	"context"
)

// GetTransactionStatus polls the settlement service for a swap's execution
// state and maps its status vocabulary onto the closed user-facing set.
// Unknown or future upstream values map to Processing. Safe to poll;
// callers own their cadence and backoff.
func (a *Adapter) GetTransactionStatus(ctx context.Context, tx *NormalizedTxResponse) (SwapStatus, error) {
	resp, err := a.client.GetExecutionStatus(ctx, tx.ID)
	if err != nil {
		return SwapStatus{}, err
	}

	details := resp.GetSwapDetails()
	txHash := ""
	if hashes := details.GetDestinationChainTxHashes(); len(hashes) > 0 {
		txHash = hashes[0].GetHash()
	}

	return SwapStatus{
		TxHash: txHash,
		Status: mapUpstreamStatus(resp.GetStatus()),
	}, nil
}

func mapUpstreamStatus(status string) Status {
	switch status {
	case "SUCCESS":
		return StatusSuccess
	case "FAILED":
		return StatusFailed
	case "REFUNDED":
		return StatusRefunded
	default:
		return StatusProcessing
	}
}
