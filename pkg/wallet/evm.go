package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	nativeTransferGas   = uint64(21000)
	contractCallGas     = uint64(100000)
	gasEstimateHeadroom = 120 // percent
)

// EVMWallet is a private-key signer for one EVM network, implementing
// signer.EVM.
type EVMWallet struct {
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	chainID    *big.Int
	from       common.Address
}

// NewEVMWallet connects to an EVM RPC endpoint and loads the signing key.
func NewEVMWallet(rpcURL, privateKeyHex string, chainID int64) (*EVMWallet, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC URL not configured")
	}
	if privateKeyHex == "" {
		return nil, fmt.Errorf("private key not configured")
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to derive public key")
	}

	return &EVMWallet{
		client:     client,
		privateKey: privateKey,
		chainID:    big.NewInt(chainID),
		from:       crypto.PubkeyToAddress(*publicKey),
	}, nil
}

func (w *EVMWallet) Address() common.Address { return w.from }

// SignAndSend builds, signs and broadcasts one transaction. A nil data
// slice is a plain value transfer; otherwise the value/data pair is sent
// as a contract call.
func (w *EVMWallet) SignAndSend(ctx context.Context, to common.Address, value *big.Int, data []byte) (string, error) {
	nonce, err := w.client.PendingNonceAt(ctx, w.from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit := nativeTransferGas
	if len(data) > 0 {
		gasLimit = contractCallGas
		msg := ethereum.CallMsg{From: w.from, To: &to, Value: value, Data: data}
		if estimated, err := w.client.EstimateGas(ctx, msg); err == nil {
			gasLimit = estimated * gasEstimateHeadroom / 100
		}
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(w.chainID), w.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := w.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash().Hex(), nil
}

// Close closes the client connection
func (w *EVMWallet) Close() {
	if w.client != nil {
		w.client.Close()
	}
}
