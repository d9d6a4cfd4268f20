package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"crosschain-swap/config"
	"crosschain-swap/pkg/chains"
	"crosschain-swap/pkg/parser"
	"crosschain-swap/pkg/signer"
	"crosschain-swap/pkg/wallet"
)

var (
	swapFromChain   string
	swapToChain     string
	swapRecipient   string
	swapRefundTo    string
	swapSender      string
	swapSlippageBps int32
	swapNoConfirm   bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Perform a cross-chain token swap",
	Long: `Swap tokens across blockchains. A non-binding quote is shown for
confirmation first; on acceptance a fresh binding quote is fetched and the
deposit is sent from the configured wallet for the source chain.

IMPORTANT:
  - You MUST specify --recipient (where you'll receive tokens)
  - You SHOULD specify --refund-to (where refunds go if the swap fails);
    it defaults to the sending wallet's address
  - The source chain needs a wallet configured (see .crosschain-swap.yaml)

Examples:
  # EVM to Solana
  crosschain-swap swap 0.5 ETH to USDC --from-chain eth --to-chain sol --recipient <sol-addr>

  # Bitcoin source (wallet RPC), refund address required
  crosschain-swap swap 0.01 BTC to USDC --from-chain btc --to-chain eth --recipient 0x123... --refund-to <btc-addr>

  # Skip the confirmation prompt
  crosschain-swap swap 1 SOL to USDC --from-chain sol --to-chain near --recipient your.near --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&swapFromChain, "from-chain", "", "Source blockchain (required)")
	swapCmd.Flags().StringVar(&swapToChain, "to-chain", "", "Destination blockchain (required)")
	swapCmd.Flags().StringVar(&swapRecipient, "recipient", "", "Recipient address on the destination chain (required)")
	swapCmd.Flags().StringVar(&swapRefundTo, "refund-to", "", "Refund address on the source chain")
	swapCmd.Flags().StringVar(&swapSender, "sender", "", "Sender address override (defaults to the wallet's address)")
	swapCmd.Flags().Int32Var(&swapSlippageBps, "slippage-bps", 0, "Slippage tolerance in basis points")
	swapCmd.Flags().BoolVarP(&swapNoConfirm, "yes", "y", false, "Skip confirmation prompt")
	_ = swapCmd.MarkFlagRequired("from-chain")
	_ = swapCmd.MarkFlagRequired("to-chain")
	_ = swapCmd.MarkFlagRequired("recipient")
}

func runSwap(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	swapReq, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	adapter, apiClient, _, err := newAdapter(cfg, verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	fromRef, err := chains.Parse(swapFromChain)
	if err != nil {
		printError(fmt.Errorf("--from-chain: %w", err))
		os.Exit(1)
	}

	signers, sender, err := buildSigners(cfg, fromRef)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if swapSender != "" {
		sender = swapSender
	}
	if sender == "" {
		printError(fmt.Errorf("no sender address; pass --sender or configure a wallet for %s", fromRef))
		os.Exit(1)
	}

	refundTo := swapRefundTo
	if refundTo == "" && fromRef == chains.Bitcoin {
		printError(fmt.Errorf("--refund-to is required for Bitcoin source swaps"))
		os.Exit(1)
	}

	ctx := context.Background()

	s := newSpinner("Fetching quote...")
	if !jsonOutput {
		s.Start()
	}

	params, err := resolveQuoteParams(ctx, apiClient, swapReq,
		swapFromChain, swapToChain, sender, swapRecipient, refundTo, swapSlippageBps, cfg)
	if err != nil {
		if !jsonOutput {
			s.Stop()
		}
		printError(err)
		os.Exit(1)
	}

	quote, err := adapter.GetQuote(ctx, params)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !jsonOutput {
		displayQuote(quote)
	}

	// Ask for confirmation
	if !swapNoConfirm && !jsonOutput {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	s = newSpinner("Executing swap...")
	if !jsonOutput {
		s.Start()
	}

	res, err := adapter.ExecuteSwap(ctx, quote, signers)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	color.Green("\n✓ Deposit sent!")
	fmt.Printf("  Deposit Address: %s\n", color.CyanString(res.ID))
	fmt.Printf("  Source Tx:       %s\n", color.HiBlackString(res.SourceTxHash))

	fmt.Println("\nYou can monitor the swap status using:")
	color.Cyan("  crosschain-swap status %s\n", res.ID)
}

// buildSigners wires the wallet configured for the source chain. Only the
// source chain's signer is needed; the settlement network delivers on the
// destination side.
func buildSigners(cfg *config.Config, from chains.ChainRef) (signer.Signers, string, error) {
	var signers signer.Signers

	family, ok := chains.FamilyOf(from)
	if !ok {
		return signers, "", fmt.Errorf("unsupported source chain: %s", from)
	}

	switch family {
	case chains.FamilyEVM:
		tag := chains.Blockchain(from)
		network, ok := cfg.Wallets.EVM[tag]
		if !ok {
			return signers, "", fmt.Errorf("no EVM wallet configured for %s (wallets.evm.%s)", from, tag)
		}
		w, err := wallet.NewEVMWallet(network.RPCURL, network.PrivateKey, network.ChainID)
		if err != nil {
			return signers, "", fmt.Errorf("EVM wallet for %s: %w", from, err)
		}
		signers.EVM = w
		return signers, w.Address().Hex(), nil

	case chains.FamilyTokenProgram:
		sol := cfg.Wallets.Solana
		w, err := wallet.NewSolanaWallet(sol.RPCURL, sol.PrivateKey, sol.Commitment, sol.SkipPreflight)
		if err != nil {
			return signers, "", fmt.Errorf("Solana wallet: %w", err)
		}
		signers.Solana = w
		signers.SolanaChain = w
		return signers, w.PublicKey().String(), nil

	case chains.FamilyUTXO:
		btc := cfg.Wallets.Bitcoin
		w, err := wallet.NewBitcoinWallet(btc.RPCHost, btc.RPCPort, btc.RPCUsername, btc.RPCPassword, btc.Network)
		if err != nil {
			return signers, "", fmt.Errorf("Bitcoin wallet: %w", err)
		}
		signers.Bitcoin = w
		// Core's wallet has no single address; the refund address stands
		// in as the sender identity.
		return signers, swapRefundTo, nil

	case chains.FamilyAccountToken:
		return signers, "", fmt.Errorf("NEAR source swaps need an interactive wallet session and are not supported from this CLI")

	default:
		return signers, "", fmt.Errorf("unsupported source chain: %s", from)
	}
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
