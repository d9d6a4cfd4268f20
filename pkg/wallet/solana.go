package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaWallet is a private-key signer for Solana, implementing both
// signer.Solana and signer.SolanaChain (the executor uses the same RPC
// connection for assembly and confirmation).
type SolanaWallet struct {
	client        *rpc.Client
	privateKey    solana.PrivateKey
	publicKey     solana.PublicKey
	skipPreflight bool
	commitment    rpc.CommitmentType
}

// NewSolanaWallet connects to a Solana RPC endpoint and loads the signing
// key (Base58 encoded).
func NewSolanaWallet(rpcURL, privateKeyBase58, commitment string, skipPreflight bool) (*SolanaWallet, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC URL not configured")
	}
	if privateKeyBase58 == "" {
		return nil, fmt.Errorf("private key not configured")
	}

	privateKey, err := solana.PrivateKeyFromBase58(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &SolanaWallet{
		client:        rpc.New(rpcURL),
		privateKey:    privateKey,
		publicKey:     privateKey.PublicKey(),
		skipPreflight: skipPreflight,
		commitment:    parseCommitment(commitment),
	}, nil
}

func (w *SolanaWallet) PublicKey() solana.PublicKey { return w.publicKey }

// SignAndSend signs an assembled transaction and broadcasts it. It does
// not wait for confirmation; that is the executor's concern.
func (w *SolanaWallet) SignAndSend(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.publicKey) {
			return &w.privateKey
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	opts := rpc.TransactionOpts{
		SkipPreflight:       w.skipPreflight,
		PreflightCommitment: w.commitment,
	}

	sig, err := w.client.SendTransactionWithOpts(ctx, tx, opts)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return sig, nil
}

// RecentBlockhash returns a blockhash usable for transaction assembly.
func (w *SolanaWallet) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := w.client.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}
	return recent.Value.Blockhash, nil
}

// AccountExists checks whether an account exists on-chain.
func (w *SolanaWallet) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	info, err := w.client.GetAccountInfo(ctx, account)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return false, nil
		}
		return false, err
	}
	return info.Value != nil, nil
}

// SignatureConfirmed reports whether a transaction has reached at least
// confirmed commitment.
func (w *SolanaWallet) SignatureConfirmed(ctx context.Context, sig solana.Signature) (bool, error) {
	res, err := w.client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return false, fmt.Errorf("failed to get signature status: %w", err)
	}
	if res == nil || len(res.Value) == 0 || res.Value[0] == nil {
		return false, nil
	}

	status := res.Value[0]
	if status.Err != nil {
		return false, fmt.Errorf("transaction failed on-chain: %v", status.Err)
	}
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return true, nil
	default:
		return false, nil
	}
}

func parseCommitment(commitment string) rpc.CommitmentType {
	switch strings.ToLower(commitment) {
	case "finalized":
		return rpc.CommitmentFinalized
	case "confirmed":
		return rpc.CommitmentConfirmed
	case "processed":
		return rpc.CommitmentProcessed
	default:
		return rpc.CommitmentConfirmed
	}
}
