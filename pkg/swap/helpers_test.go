package swap

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"crosschain-swap/pkg/assets"
	"crosschain-swap/pkg/chains"
	"crosschain-swap/pkg/client"
	"crosschain-swap/pkg/signer"
)

// fakeService is an in-process stand-in for the 1Click settlement API. It
// records every quote request body and deposit submission so tests can
// assert on what the adapter actually sent.
type fakeService struct {
	t *testing.T

	mu          sync.Mutex
	tokens      []map[string]interface{}
	quoteCalls  []map[string]interface{}
	deposits    [][2]string // txHash, depositAddress
	statusBody  map[string]interface{}
	quoteErrors int

	// quoteResponder builds the response for a quote request; nil uses
	// defaultQuoteResponse with the service's depositAddress.
	quoteResponder func(call int, req map[string]interface{}) map[string]interface{}

	depositAddress string
	server         *httptest.Server
}

func newFakeService(t *testing.T) *fakeService {
	f := &fakeService{
		t:              t,
		depositAddress: "0xdeadbeef00000000000000000000000000000001",
		tokens:         defaultTokenList(),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeService) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/tokens"):
		_ = json.NewEncoder(w).Encode(f.tokens)

	case strings.HasSuffix(r.URL.Path, "/quote"):
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.quoteCalls = append(f.quoteCalls, req)
		if f.quoteErrors > 0 {
			f.quoteErrors--
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message": "no route found"}`))
			return
		}
		var resp map[string]interface{}
		if f.quoteResponder != nil {
			resp = f.quoteResponder(len(f.quoteCalls), req)
		} else {
			resp = defaultQuoteResponse(req, f.depositAddress, nil)
		}
		_ = json.NewEncoder(w).Encode(resp)

	case strings.HasSuffix(r.URL.Path, "/deposit/submit"):
		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)
		txHash, _ := req["txHash"].(string)
		addr, _ := req["depositAddress"].(string)
		f.deposits = append(f.deposits, [2]string{txHash, addr})
		_ = json.NewEncoder(w).Encode(map[string]interface{}{})

	case strings.HasSuffix(r.URL.Path, "/status"):
		body := f.statusBody
		if body == nil {
			body = statusResponse("PENDING_DEPOSIT", nil)
		}
		_ = json.NewEncoder(w).Encode(body)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeService) client() *client.Client {
	return client.New("test-jwt", f.server.URL)
}

func (f *fakeService) quoteCall(i int) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.quoteCalls) {
		f.t.Fatalf("quote call %d not recorded (%d calls)", i, len(f.quoteCalls))
	}
	return f.quoteCalls[i]
}

func (f *fakeService) quoteCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.quoteCalls)
}

func (f *fakeService) depositCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deposits)
}

// defaultQuoteResponse echoes the request back the way the real service
// does and fills the quote with workable defaults. overrides replaces
// individual quote fields.
func defaultQuoteResponse(req map[string]interface{}, depositAddress string, overrides map[string]interface{}) map[string]interface{} {
	quote := map[string]interface{}{
		"depositAddress":     depositAddress,
		"amountIn":           req["amount"],
		"amountInFormatted":  "1",
		"amountInUsd":        "3000",
		"amountOut":          "2950000000",
		"amountOutFormatted": "2950",
		"amountOutUsd":       "2940",
		"minAmountIn":        req["amount"],
		"minAmountOut":       "2900000000",
		"deadline":           time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		"timeEstimate":       10,
	}
	for k, v := range overrides {
		quote[k] = v
	}
	return map[string]interface{}{
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"signature":    "ed25519:test",
		"quoteRequest": req,
		"quote":        quote,
	}
}

func statusResponse(status string, destHashes []string) map[string]interface{} {
	hashes := make([]map[string]interface{}, 0, len(destHashes))
	for _, h := range destHashes {
		hashes = append(hashes, map[string]interface{}{
			"hash":        h,
			"explorerUrl": "https://explorer.example/tx/" + h,
		})
	}
	return map[string]interface{}{
		"status":    status,
		"updatedAt": time.Now().UTC().Format(time.RFC3339),
		"quoteResponse": defaultQuoteResponse(map[string]interface{}{
			"dry":               false,
			"swapType":          "EXACT_INPUT",
			"slippageTolerance": 100,
			"originAsset":       "nep141:sol.omft.near",
			"depositType":       "ORIGIN_CHAIN",
			"destinationAsset":  "nep141:eth.omft.near",
			"amount":            "1000000000",
			"refundTo":          "refund",
			"refundType":        "ORIGIN_CHAIN",
			"recipient":         "recipient",
			"recipientType":     "DESTINATION_CHAIN",
			"deadline":          time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		}, "0xdeadbeef00000000000000000000000000000001", nil),
		"swapDetails": map[string]interface{}{
			"intentHashes":             []string{},
			"nearTxHashes":             []string{},
			"originChainTxHashes":      []map[string]interface{}{},
			"destinationChainTxHashes": hashes,
		},
	}
}

func defaultTokenList() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"assetId":         "nep141:eth.omft.near",
			"decimals":        18,
			"blockchain":      "eth",
			"symbol":          "ETH",
			"price":           3000.0,
			"priceUpdatedAt":  time.Now().UTC().Format(time.RFC3339),
			"contractAddress": "",
		},
		{
			"assetId":         "nep141:eth-0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48.omft.near",
			"decimals":        6,
			"blockchain":      "eth",
			"symbol":          "USDC",
			"price":           1.0,
			"priceUpdatedAt":  time.Now().UTC().Format(time.RFC3339),
			"contractAddress": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		},
		{
			"assetId":         "nep141:btc.omft.near",
			"decimals":        8,
			"blockchain":      "btc",
			"symbol":          "BTC",
			"price":           60000.0,
			"priceUpdatedAt":  time.Now().UTC().Format(time.RFC3339),
			"contractAddress": "",
		},
		{
			"assetId":         "nep141:sol.omft.near",
			"decimals":        9,
			"blockchain":      "sol",
			"symbol":          "SOL",
			"price":           150.0,
			"priceUpdatedAt":  time.Now().UTC().Format(time.RFC3339),
			"contractAddress": "",
		},
		{
			"assetId":         "nep141:wrap.near",
			"decimals":        24,
			"blockchain":      "near",
			"symbol":          "wNEAR",
			"price":           5.0,
			"priceUpdatedAt":  time.Now().UTC().Format(time.RFC3339),
			"contractAddress": "wrap.near",
		},
	}
}

func testAdapter(t *testing.T, f *fakeService) *Adapter {
	store, err := NewStore(filepath.Join(t.TempDir(), "txs.json"))
	require.NoError(t, err)

	return New(Config{
		Client:         f.client(),
		Store:          store,
		Referral:       "test",
		ConfirmTimeout: 100 * time.Millisecond,
		PollInterval:   10 * time.Millisecond,
	})
}

func evmQuoteParams() QuoteParams {
	return QuoteParams{
		FromChain: chains.EVM(1),
		ToChain:   chains.Solana,
		FromToken: assets.Token{
			Chain:    chains.EVM(1),
			Symbol:   "ETH",
			Decimals: 18,
			Native:   true,
		},
		ToToken: assets.Token{
			Chain:    chains.Solana,
			Symbol:   "SOL",
			Decimals: 9,
			Native:   true,
		},
		Amount:      "1000000000000000000",
		Sender:      "0x1111111111111111111111111111111111111111",
		Recipient:   "8Z6nCi4uWkUXERzIMrTZ2DNDQrZLLWkYExAo4dDDDnbs",
		SlippageBps: 100,
	}
}

func fetchQuote(t *testing.T, a *Adapter, p QuoteParams) *NormalizedQuote {
	quote, err := a.GetQuote(context.Background(), p)
	require.NoError(t, err)
	return quote
}

// spyEVMSigner records every SignAndSend call.
type spyEVMSigner struct {
	mu           sync.Mutex
	calls        int
	lastTo       string
	lastValueStr string
	lastData     []byte
	hash         string
	err          error
}

func (s *spyEVMSigner) Address() common.Address {
	return common.HexToAddress("0x1111111111111111111111111111111111111111")
}

func (s *spyEVMSigner) SignAndSend(ctx context.Context, to common.Address, value *big.Int, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastTo = to.Hex()
	s.lastValueStr = value.String()
	s.lastData = data
	if s.err != nil {
		return "", s.err
	}
	if s.hash == "" {
		return "0xabc123", nil
	}
	return s.hash, nil
}

// spyBitcoinSigner records native sends.
type spyBitcoinSigner struct {
	calls     int
	recipient string
	amount    string
	err       error
}

func (s *spyBitcoinSigner) SendNative(ctx context.Context, recipient, amount string) (string, error) {
	s.calls++
	s.recipient = recipient
	s.amount = amount
	if s.err != nil {
		return "", s.err
	}
	return "btctxid01", nil
}

// fakeNearSigner can simulate redirect and in-process signers. onSign runs
// at signing time so tests can observe what was persisted first.
type fakeNearSigner struct {
	accountID string
	redirects bool
	err       error
	onSign    func(txs []signer.NearTransaction)
	signed    []signer.NearTransaction
}

func (s *fakeNearSigner) AccountID() string { return s.accountID }
func (s *fakeNearSigner) Redirects() bool   { return s.redirects }

func (s *fakeNearSigner) SignAndSendTransactions(ctx context.Context, txs []signer.NearTransaction) (string, error) {
	s.signed = txs
	if s.onSign != nil {
		s.onSign(txs)
	}
	if s.err != nil {
		return "", s.err
	}
	return "neartxhash", nil
}

// fakeSolanaSigner signs nothing and returns a fixed signature.
type fakeSolanaSigner struct {
	key solana.PublicKey
	sig solana.Signature
	err error
}

func (s *fakeSolanaSigner) PublicKey() solana.PublicKey { return s.key }

func (s *fakeSolanaSigner) SignAndSend(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if s.err != nil {
		return solana.Signature{}, s.err
	}
	return s.sig, nil
}

// fakeSolanaChain scripts confirmation behavior per call number.
type fakeSolanaChain struct {
	mu            sync.Mutex
	confirmCalls  int
	confirmFn     func(call int, ctx context.Context) (bool, error)
	accountExists bool
}

func (c *fakeSolanaChain) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	return solana.Hash{}, nil
}

func (c *fakeSolanaChain) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	return c.accountExists, nil
}

func (c *fakeSolanaChain) SignatureConfirmed(ctx context.Context, sig solana.Signature) (bool, error) {
	c.mu.Lock()
	c.confirmCalls++
	call := c.confirmCalls
	fn := c.confirmFn
	c.mu.Unlock()
	if fn == nil {
		return true, nil
	}
	return fn(call, ctx)
}
