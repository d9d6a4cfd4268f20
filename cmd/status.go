package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"crosschain-swap/config"
	"crosschain-swap/pkg/swap"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <deposit-address>",
	Short: "Check the status of a swap",
	Long: `Check the execution status of a cross-chain swap by its deposit address.

Examples:
  crosschain-swap status 0x1234...abcd
  crosschain-swap status 0x1234...abcd --watch
  crosschain-swap status 0x1234...abcd --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	depositAddress := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	adapter, _, store, err := newAdapter(cfg, verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// A stored record carries the swap's full context; an address alone is
	// enough for the status query itself.
	tx, ok := store.Get(depositAddress)
	if !ok {
		tx = &swap.NormalizedTxResponse{ID: depositAddress}
	}

	ctx := context.Background()

	if watchStatus {
		watchSwapStatus(ctx, adapter, tx, jsonOutput)
	} else {
		checkSwapStatus(ctx, adapter, tx, jsonOutput)
	}
}

func checkSwapStatus(ctx context.Context, adapter *swap.Adapter, tx *swap.NormalizedTxResponse, jsonOutput bool) {
	s := newSpinner("Checking swap status...")
	if !jsonOutput {
		s.Start()
	}

	status, err := adapter.GetTransactionStatus(ctx, tx)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayStatus(status, tx)
	}
}

func watchSwapStatus(ctx context.Context, adapter *swap.Adapter, tx *swap.NormalizedTxResponse, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching swap status (Deposit Address: %s)\n", color.CyanString(tx.ID))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	// Check immediately first
	if done := checkAndDisplayStatus(ctx, adapter, tx); done {
		return
	}

	// Then check periodically until the swap reaches a terminal state
	for range ticker.C {
		if done := checkAndDisplayStatus(ctx, adapter, tx); done {
			return
		}
	}
}

func checkAndDisplayStatus(ctx context.Context, adapter *swap.Adapter, tx *swap.NormalizedTxResponse) bool {
	status, err := adapter.GetTransactionStatus(ctx, tx)
	if err != nil {
		color.Red("Error: %v", err)
		return false
	}

	displayStatus(status, tx)
	return status.Status != swap.StatusProcessing
}

func displayStatus(status swap.SwapStatus, tx *swap.NormalizedTxResponse) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SWAP STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Deposit Address: %s\n", color.CyanString(tx.ID))
	fmt.Printf("  Status:          %s\n", coloredStatus(status.Status))

	if tx.SourceTxHash != "" {
		fmt.Printf("  Deposit Tx:      %s\n", color.HiBlackString(tx.SourceTxHash))
	}
	if status.TxHash != "" {
		fmt.Printf("  Withdrawal Tx:   %s\n", color.HiBlackString(status.TxHash))
	}
	if tx.SourceToken.Symbol != "" {
		fmt.Printf("  Route:           %s (%s) -> %s (%s)\n",
			tx.SourceToken.Symbol, tx.SourceChain, tx.TargetToken.Symbol, tx.TargetChain)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func coloredStatus(status swap.Status) string {
	switch status {
	case swap.StatusSuccess:
		return color.GreenString(string(status))
	case swap.StatusProcessing:
		return color.YellowString(string(status))
	case swap.StatusFailed, swap.StatusRefunded:
		return color.RedString(string(status))
	default:
		return string(status)
	}
}
