package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crosschain-swap",
	Short: "A CLI for cross-chain swaps settled over NEAR Intents",
	Long: `crosschain-swap is a command-line tool for swapping tokens across
blockchains through the NEAR Intents settlement network. Quotes are fetched
from the 1Click API; deposits are sent from locally configured wallets.

Examples:
  crosschain-swap quote 1 ETH to USDC --from-chain eth --to-chain sol --recipient <sol-addr>
  crosschain-swap swap 1 ETH to USDC --from-chain eth --to-chain sol --recipient <sol-addr>
  crosschain-swap status <deposit-address>
  crosschain-swap list-tokens --chain sol
  crosschain-swap chains`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
