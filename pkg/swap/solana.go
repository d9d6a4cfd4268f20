package swap

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"crosschain-swap/pkg/signer"
)

// executeSolana assembles one transaction (creating the recipient's
// associated token account first when it does not exist yet), submits it
// through the signer and waits for on-chain confirmation. The Solana
// signer returns before finality, so confirmation is the executor's job
// here, unlike the other families.
func (a *Adapter) executeSolana(ctx context.Context, quote *NormalizedQuote, depositAddress string, signers signer.Signers, res *NormalizedTxResponse) error {
	if signers.Solana == nil || signers.SolanaChain == nil {
		return fmt.Errorf("%w: solana", ErrSignerUnavailable)
	}
	p := quote.Params

	recipient, err := solana.PublicKeyFromBase58(depositAddress)
	if err != nil {
		return fmt.Errorf("invalid deposit address: %w", err)
	}
	amount, err := strconv.ParseUint(p.Amount, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	sender := signers.Solana.PublicKey()

	instructions, err := buildSolanaInstructions(ctx, signers.SolanaChain, p, sender, recipient, amount)
	if err != nil {
		return err
	}

	blockhash, err := signers.SolanaChain.RecentBlockhash(ctx)
	if err != nil {
		return fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(sender))
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	sig, err := signers.Solana.SignAndSend(ctx, tx)
	if err != nil {
		return fmt.Errorf("solana deposit failed: %w", err)
	}

	if err := a.waitForConfirmation(ctx, signers.SolanaChain, sig); err != nil {
		return err
	}

	res.SourceTxHash = sig.String()
	return nil
}

// buildSolanaInstructions returns the instruction sequence for a deposit:
// a system transfer for native SOL, or create-ATA (when the recipient's
// token account is missing) followed by an SPL transfer.
func buildSolanaInstructions(ctx context.Context, chain signer.SolanaChain, p QuoteParams, sender, recipient solana.PublicKey, amount uint64) ([]solana.Instruction, error) {
	if p.FromToken.Native {
		return []solana.Instruction{
			system.NewTransferInstruction(amount, sender, recipient).Build(),
		}, nil
	}

	mint, err := solana.PublicKeyFromBase58(p.FromToken.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid token mint address: %w", err)
	}

	senderTokenAccount, _, err := solana.FindAssociatedTokenAddress(sender, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive source token account: %w", err)
	}
	recipientTokenAccount, _, err := solana.FindAssociatedTokenAddress(recipient, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive destination token account: %w", err)
	}

	exists, err := chain.AccountExists(ctx, recipientTokenAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to check destination account: %w", err)
	}

	instructions := []solana.Instruction{}
	if !exists {
		instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(
			sender,    // payer
			recipient, // wallet
			mint,      // mint
		).Build())
	}

	instructions = append(instructions, token.NewTransferInstruction(
		amount,
		senderTokenAccount,
		recipientTokenAccount,
		sender,
		[]solana.PublicKey{}, // no multisig
	).Build())

	return instructions, nil
}

// waitForConfirmation races confirmation polling against the bounded
// timeout. The timer path performs exactly one fallback status check: the
// transaction may well have confirmed while the poll was stuck.
func (a *Adapter) waitForConfirmation(ctx context.Context, chain signer.SolanaChain, sig solana.Signature) error {
	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- pollConfirmation(pollCtx, chain, sig, a.pollInterval)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfirmationTimeout, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(a.confirmTimeout):
		cancel()
		confirmed, err := chain.SignatureConfirmed(ctx, sig)
		if err == nil && confirmed {
			return nil
		}
		return fmt.Errorf("%w: %s not confirmed within %s", ErrConfirmationTimeout, sig, a.confirmTimeout)
	}
}

func pollConfirmation(ctx context.Context, chain signer.SolanaChain, sig solana.Signature, interval time.Duration) error {
	for {
		confirmed, err := chain.SignatureConfirmed(ctx, sig)
		if err == nil && confirmed {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
