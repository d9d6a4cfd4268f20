package swap

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosschain-swap/pkg/assets"
	"crosschain-swap/pkg/chains"
	"crosschain-swap/pkg/signer"
)

func solQuoteParams() QuoteParams {
	return QuoteParams{
		FromChain: chains.Solana,
		ToChain:   chains.EVM(1),
		FromToken: assets.Token{
			Chain:    chains.Solana,
			Symbol:   "SOL",
			Decimals: 9,
			Native:   true,
		},
		ToToken: assets.Token{
			Chain:    chains.EVM(1),
			Symbol:   "ETH",
			Decimals: 18,
			Native:   true,
		},
		Amount:      "1000000000",
		Sender:      solana.NewWallet().PublicKey().String(),
		Recipient:   "0x2222222222222222222222222222222222222222",
		SlippageBps: 100,
	}
}

func testSignature() solana.Signature {
	var sig solana.Signature
	sig[0] = 7
	return sig
}

func TestExecuteSwapSolanaConfirms(t *testing.T) {
	f := newFakeService(t)
	f.depositAddress = solana.NewWallet().PublicKey().String()
	a := testAdapter(t, f)

	quote := fetchQuote(t, a, solQuoteParams())

	sender := solana.NewWallet().PublicKey()
	sol := &fakeSolanaSigner{key: sender, sig: testSignature()}
	chain := &fakeSolanaChain{} // confirms on first poll

	res, err := a.ExecuteSwap(context.Background(), quote, signer.Signers{Solana: sol, SolanaChain: chain})
	require.NoError(t, err)
	assert.Equal(t, testSignature().String(), res.SourceTxHash)
}

func TestExecuteSwapSolanaFallbackConfirmation(t *testing.T) {
	f := newFakeService(t)
	f.depositAddress = solana.NewWallet().PublicKey().String()
	a := testAdapter(t, f)

	quote := fetchQuote(t, a, solQuoteParams())

	chain := &fakeSolanaChain{
		confirmFn: func(call int, ctx context.Context) (bool, error) {
			if call == 1 {
				// Polling path hangs until the timeout cancels it.
				<-ctx.Done()
				return false, ctx.Err()
			}
			// The single fallback check finds the transaction confirmed.
			return true, nil
		},
	}
	sol := &fakeSolanaSigner{key: solana.NewWallet().PublicKey(), sig: testSignature()}

	res, err := a.ExecuteSwap(context.Background(), quote, signer.Signers{Solana: sol, SolanaChain: chain})
	require.NoError(t, err)
	assert.Equal(t, testSignature().String(), res.SourceTxHash)
	assert.Equal(t, 2, chain.confirmCalls)
}

func TestExecuteSwapSolanaConfirmationTimeout(t *testing.T) {
	f := newFakeService(t)
	f.depositAddress = solana.NewWallet().PublicKey().String()
	a := testAdapter(t, f)

	quote := fetchQuote(t, a, solQuoteParams())

	chain := &fakeSolanaChain{
		confirmFn: func(call int, ctx context.Context) (bool, error) {
			return false, nil
		},
	}
	sol := &fakeSolanaSigner{key: solana.NewWallet().PublicKey(), sig: testSignature()}

	start := time.Now()
	_, err := a.ExecuteSwap(context.Background(), quote, signer.Signers{Solana: sol, SolanaChain: chain})
	assert.ErrorIs(t, err, ErrConfirmationTimeout)
	assert.GreaterOrEqual(t, time.Since(start), a.confirmTimeout)
}

func TestExecuteSwapSolanaSignerUnavailable(t *testing.T) {
	f := newFakeService(t)
	f.depositAddress = solana.NewWallet().PublicKey().String()
	a := testAdapter(t, f)

	quote := fetchQuote(t, a, solQuoteParams())

	_, err := a.ExecuteSwap(context.Background(), quote, signer.Signers{Solana: &fakeSolanaSigner{}})
	assert.ErrorIs(t, err, ErrSignerUnavailable)
}

func TestBuildSolanaInstructionsNative(t *testing.T) {
	p := solQuoteParams()
	sender := solana.NewWallet().PublicKey()
	recipient := solana.NewWallet().PublicKey()

	instructions, err := buildSolanaInstructions(context.Background(), &fakeSolanaChain{}, p, sender, recipient, 1_000_000_000)
	require.NoError(t, err)
	require.Len(t, instructions, 1)
	assert.Equal(t, solana.SystemProgramID, instructions[0].ProgramID())
}

func TestBuildSolanaInstructionsTokenWithMissingATA(t *testing.T) {
	p := solQuoteParams()
	p.FromToken = assets.Token{
		Chain:    chains.Solana,
		Address:  solana.NewWallet().PublicKey().String(),
		Symbol:   "USDC",
		Decimals: 6,
	}
	sender := solana.NewWallet().PublicKey()
	recipient := solana.NewWallet().PublicKey()

	// Destination token account missing: it must be created before the
	// transfer in the same transaction.
	chain := &fakeSolanaChain{accountExists: false}
	instructions, err := buildSolanaInstructions(context.Background(), chain, p, sender, recipient, 5_000_000)
	require.NoError(t, err)
	require.Len(t, instructions, 2)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, instructions[0].ProgramID())
	assert.Equal(t, solana.TokenProgramID, instructions[1].ProgramID())
}

func TestBuildSolanaInstructionsTokenWithExistingATA(t *testing.T) {
	p := solQuoteParams()
	p.FromToken = assets.Token{
		Chain:    chains.Solana,
		Address:  solana.NewWallet().PublicKey().String(),
		Symbol:   "USDC",
		Decimals: 6,
	}

	chain := &fakeSolanaChain{accountExists: true}
	instructions, err := buildSolanaInstructions(context.Background(), chain, p,
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), 5_000_000)
	require.NoError(t, err)
	require.Len(t, instructions, 1)
	assert.Equal(t, solana.TokenProgramID, instructions[0].ProgramID())
}
