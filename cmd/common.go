package cmd

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"crosschain-swap/config"
	"crosschain-swap/pkg/assets"
	"crosschain-swap/pkg/chains"
	"crosschain-swap/pkg/client"
	"crosschain-swap/pkg/parser"
	"crosschain-swap/pkg/swap"
)

// referralID identifies this tool to the settlement service on every quote.
const referralID = "crosschain-swap"

func newAdapter(cfg *config.Config, verbose bool) (*swap.Adapter, *client.Client, *swap.Store, error) {
	apiClient := client.New(cfg.JWTToken, cfg.BaseURL)

	store, err := swap.NewStore("")
	if err != nil {
		return nil, nil, nil, err
	}

	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	adapter := swap.New(swap.Config{
		Client:   apiClient,
		Store:    store,
		Logger:   log,
		Referral: referralID,
	})

	return adapter, apiClient, store, nil
}

// resolveQuoteParams turns a parsed command plus flags into QuoteParams:
// chain names parsed, token symbols resolved against the settlement token
// list, human amount shifted into smallest units.
func resolveQuoteParams(ctx context.Context, apiClient *client.Client, req *parser.SwapRequest,
	fromChain, toChain, sender, recipient, refundTo string, slippageBps int32, cfg *config.Config) (swap.QuoteParams, error) {

	fromRef, err := chains.Parse(fromChain)
	if err != nil {
		return swap.QuoteParams{}, fmt.Errorf("--from-chain: %w", err)
	}
	toRef, err := chains.Parse(toChain)
	if err != nil {
		return swap.QuoteParams{}, fmt.Errorf("--to-chain: %w", err)
	}

	list, err := apiClient.GetTokens(ctx)
	if err != nil {
		return swap.QuoteParams{}, err
	}

	fromToken, err := assets.FromList(list, fromRef, req.SourceToken)
	if err != nil {
		return swap.QuoteParams{}, err
	}
	toToken, err := assets.FromList(list, toRef, req.DestToken)
	if err != nil {
		return swap.QuoteParams{}, err
	}

	amount, err := toSmallestUnits(req.Amount, fromToken.Decimals)
	if err != nil {
		return swap.QuoteParams{}, err
	}

	if slippageBps <= 0 {
		slippageBps = cfg.SlippageBps
	}

	return swap.QuoteParams{
		FromChain:   fromRef,
		ToChain:     toRef,
		FromToken:   fromToken,
		ToToken:     toToken,
		Amount:      amount,
		Sender:      sender,
		Recipient:   recipient,
		RefundTo:    refundTo,
		SlippageBps: slippageBps,
		FeeBps:      cfg.FeeBps,
		FeeReceiver: cfg.FeeReceiver,
	}, nil
}

// toSmallestUnits shifts a human amount into the token's smallest unit
// ("1.5", 18 -> "1500000000000000000").
func toSmallestUnits(amount string, decimals int32) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil || d.Sign() <= 0 {
		return "", fmt.Errorf("invalid amount: %s", amount)
	}
	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return "", fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	return shifted.String(), nil
}

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	return s
}

func displayQuote(q *swap.NormalizedQuote) {
	p := q.Params

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s (%s)\n",
		q.FormattedInputAmount, color.YellowString(p.FromToken.Symbol), p.FromChain)
	fmt.Printf("  To:                ~%s %s (%s)\n",
		q.FormattedOutputAmount, color.YellowString(p.ToToken.Symbol), p.ToChain)
	fmt.Printf("  Rate:              1 %s = %.6f %s\n", p.FromToken.Symbol, q.Rate, p.ToToken.Symbol)

	if q.InputUsd > 0 {
		fmt.Printf("  Value In:          $%.2f\n", q.InputUsd)
	}
	if q.OutputUsd > 0 {
		fmt.Printf("  Value Out:         $%.2f\n", q.OutputUsd)
	}
	if !math.IsNaN(q.PriceImpact) {
		impact := fmt.Sprintf("%.2f%%", q.PriceImpact)
		if q.PriceImpact > 1 {
			impact = color.RedString(impact)
		}
		fmt.Printf("  Price Impact:      %s\n", impact)
	}
	if q.PlatformFeePercent > 0 {
		fmt.Printf("  Platform Fee:      %.2f%%\n", q.PlatformFeePercent)
	}

	fmt.Printf("  Slippage:          %d bps\n", p.SlippageBps)
	fmt.Printf("  Recipient:         %s\n", color.CyanString(p.Recipient))
	fmt.Printf("  Estimated Time:    %.0f seconds\n", q.TimeEstimate)

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
