// Package signer defines the per-chain-family signing interfaces the swap
// executor consumes. Signer lifecycle belongs to the caller (wallet/UI
// layer); the executor only ever receives them as arguments.
package signer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// EVM signs and broadcasts a single EVM transaction. A value transfer has
// nil data; a contract call carries packed calldata and zero value.
type EVM interface {
	Address() common.Address
	SignAndSend(ctx context.Context, to common.Address, value *big.Int, data []byte) (string, error)
}

// Bitcoin exposes the wallet's native send primitive. amount is in
// satoshis (smallest unit, integer string); the returned string is the
// transaction id.
type Bitcoin interface {
	SendNative(ctx context.Context, recipient string, amount string) (string, error)
}

// Solana signs and broadcasts an assembled transaction.
type Solana interface {
	PublicKey() solana.PublicKey
	SignAndSend(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// SolanaChain is the chain RPC access the executor needs to assemble and
// confirm a Solana transaction. Usually implemented by the same wallet
// that implements Solana.
type SolanaChain interface {
	RecentBlockhash(ctx context.Context) (solana.Hash, error)
	AccountExists(ctx context.Context, account solana.PublicKey) (bool, error)
	SignatureConfirmed(ctx context.Context, sig solana.Signature) (bool, error)
}

// NearAction is one action inside a NEAR transaction, in the shape wallet
// selectors accept: a plain value transfer or a function call.
type NearAction struct {
	Type       string                 `json:"type"` // "Transfer" or "FunctionCall"
	MethodName string                 `json:"method_name,omitempty"`
	Args       map[string]interface{} `json:"args,omitempty"`
	Gas        string                 `json:"gas,omitempty"`
	Deposit    string                 `json:"deposit,omitempty"`
}

// NearTransaction is a batch of actions against one receiver.
type NearTransaction struct {
	SignerID   string       `json:"signer_id"`
	ReceiverID string       `json:"receiver_id"`
	Actions    []NearAction `json:"actions"`
}

// Near signs and broadcasts batched NEAR transactions. Redirects reports
// whether signing happens on an external page: the call may never return
// to this process, so the executor persists pending state first, and
// failures from such signers carry no detail.
type Near interface {
	AccountID() string
	Redirects() bool
	SignAndSendTransactions(ctx context.Context, txs []NearTransaction) (string, error)
}

// Signers carries whichever per-family signers the caller has connected.
// The executor picks the one matching the source chain's family and fails
// with a signer-unavailable error when it is absent.
type Signers struct {
	EVM         EVM
	Bitcoin     Bitcoin
	Solana      Solana
	SolanaChain SolanaChain
	Near        Near
}
