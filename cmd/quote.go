package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"crosschain-swap/config"
	"crosschain-swap/pkg/parser"
	"crosschain-swap/pkg/swap"
)

var (
	quoteFromChain   string
	quoteToChain     string
	quoteRecipient   string
	quoteSender      string
	quoteSlippageBps int32
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Fetch a non-binding quote for a cross-chain swap",
	Long: `Fetch and display a quote without moving any funds. The quote is
non-binding; running the swap command fetches a fresh binding quote before
any transfer happens.

Examples:
  crosschain-swap quote 1 ETH to USDC --from-chain eth --to-chain sol --recipient <sol-addr>
  crosschain-swap quote 0.01 BTC to USDC --from-chain btc --to-chain eth --recipient 0x123...`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteFromChain, "from-chain", "", "Source blockchain (required)")
	quoteCmd.Flags().StringVar(&quoteToChain, "to-chain", "", "Destination blockchain (required)")
	quoteCmd.Flags().StringVar(&quoteRecipient, "recipient", "", "Recipient address on the destination chain (required)")
	quoteCmd.Flags().StringVar(&quoteSender, "sender", "", "Sender address on the source chain (defaults to recipient)")
	quoteCmd.Flags().Int32Var(&quoteSlippageBps, "slippage-bps", 0, "Slippage tolerance in basis points")
	_ = quoteCmd.MarkFlagRequired("from-chain")
	_ = quoteCmd.MarkFlagRequired("to-chain")
	_ = quoteCmd.MarkFlagRequired("recipient")
}

func runQuote(cmd *cobra.Command, args []string) {
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

	// Display-only quote, so the sender does not need to be a wallet this
	// tool controls.
	sender := quoteSender
	if sender == "" {
		sender = quoteRecipient
	}

	ctx := context.Background()

	s := newSpinner("Fetching quote...")
	if !jsonOutput {
		s.Start()
	}

	params, err := resolveQuoteParams(ctx, apiClient, swapReq,
		quoteFromChain, quoteToChain, sender, quoteRecipient, "", quoteSlippageBps, cfg)
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

	if jsonOutput {
		printQuoteJSON(quote)
	} else {
		displayQuote(quote)
	}
}

func printQuoteJSON(quote *swap.NormalizedQuote) {
	output := map[string]interface{}{
		"source_chain":         quote.Params.FromChain.String(),
		"dest_chain":           quote.Params.ToChain.String(),
		"source_token":         quote.Params.FromToken.Symbol,
		"dest_token":           quote.Params.ToToken.Symbol,
		"source_amount":        quote.FormattedInputAmount,
		"dest_amount":          quote.FormattedOutputAmount,
		"output_amount":        quote.OutputAmount.String(),
		"rate":                 quote.Rate,
		"input_usd":            quote.InputUsd,
		"output_usd":           quote.OutputUsd,
		"price_impact":         jsonSafeFloat(quote.PriceImpact),
		"platform_fee_percent": quote.PlatformFeePercent,
		"time_estimate_sec":    quote.TimeEstimate,
	}
	jsonData, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonData))
}

// jsonSafeFloat replaces NaN with null; encoding/json rejects NaN.
func jsonSafeFloat(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}
	return f
}
