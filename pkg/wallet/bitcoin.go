package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil"
	"github.com/shopspring/decimal"
)

// BitcoinWallet sends deposits through a Bitcoin Core wallet's JSON-RPC
// interface, implementing signer.Bitcoin. The node owns key management
// and coin selection; this wallet only issues sendtoaddress calls.
type BitcoinWallet struct {
	host     string
	port     int
	username string
	password string
	params   *chaincfg.Params
	client   *http.Client
}

type bitcoinRPCRequest struct {
	JSONRpc string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type bitcoinRPCResponse struct {
	Result json.RawMessage  `json:"result,omitempty"`
	Error  *bitcoinRPCError `json:"error,omitempty"`
}

type bitcoinRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewBitcoinWallet configures a Bitcoin Core wallet RPC connection.
// network selects address validation parameters ("mainnet" or "testnet").
func NewBitcoinWallet(host string, port int, username, password, network string) (*BitcoinWallet, error) {
	if host == "" || port == 0 {
		return nil, fmt.Errorf("bitcoin wallet RPC not configured")
	}

	params := &chaincfg.MainNetParams
	if network == "testnet" {
		params = &chaincfg.TestNet3Params
	}

	return &BitcoinWallet{
		host:     host,
		port:     port,
		username: username,
		password: password,
		params:   params,
		client:   &http.Client{},
	}, nil
}

// SendNative sends amount (satoshis, integer string) to recipient and
// returns the transaction id.
func (w *BitcoinWallet) SendNative(ctx context.Context, recipient string, amount string) (string, error) {
	if _, err := btcutil.DecodeAddress(recipient, w.params); err != nil {
		return "", fmt.Errorf("invalid recipient address %s: %w", recipient, err)
	}

	sats, err := decimal.NewFromString(amount)
	if err != nil || !sats.IsInteger() || sats.Sign() <= 0 {
		return "", fmt.Errorf("invalid amount: %s", amount)
	}
	// sendtoaddress takes BTC, not satoshis.
	amountBTC := sats.Shift(-8)

	balance, err := w.getBalance(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get wallet balance: %w", err)
	}
	if balance.LessThan(amountBTC) {
		return "", fmt.Errorf("insufficient balance: have %s BTC, need %s BTC", balance, amountBTC)
	}

	result, err := w.callRPC(ctx, "sendtoaddress", []interface{}{recipient, amountBTC.InexactFloat64()})
	if err != nil {
		return "", fmt.Errorf("sendtoaddress failed: %w", err)
	}

	var txid string
	if err := json.Unmarshal(result, &txid); err != nil {
		return "", fmt.Errorf("failed to parse sendtoaddress result: %w", err)
	}
	if txid == "" {
		return "", fmt.Errorf("empty transaction id returned")
	}

	return txid, nil
}

func (w *BitcoinWallet) getBalance(ctx context.Context) (decimal.Decimal, error) {
	result, err := w.callRPC(ctx, "getbalance", nil)
	if err != nil {
		return decimal.Zero, err
	}

	var balance float64
	if err := json.Unmarshal(result, &balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse balance: %w", err)
	}
	return decimal.NewFromFloat(balance), nil
}

func (w *BitcoinWallet) callRPC(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	rpcReq := bitcoinRPCRequest{
		JSONRpc: "1.0",
		ID:      "crosschain-swap",
		Method:  method,
		Params:  params,
	}

	reqBody, err := json.Marshal(rpcReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("http://%s:%d/", w.host, w.port)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.username != "" {
		req.SetBasicAuth(w.username, w.password)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var rpcResp bitcoinRPCResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("RPC returned status %d: %s", resp.StatusCode, string(body))
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error (code %d): %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	return rpcResp.Result, nil
}
