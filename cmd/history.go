package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"crosschain-swap/config"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List locally recorded swaps",
	Long: `List the swaps this tool has executed, newest first. Records live in
a local file; swaps sent from other machines will not appear here.`,
	Run: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	_, _, store, err := newAdapter(cfg, verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	records := store.List()
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(records) == 0 {
		fmt.Println("\nNo recorded swaps.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                               SWAP HISTORY")
	fmt.Println(strings.Repeat("=", 90))
	fmt.Println()

	for _, tx := range records {
		fmt.Printf("  %s  %s -> %s\n",
			tx.Timestamp.Format("2006-01-02 15:04"),
			color.YellowString("%s (%s)", tx.SourceToken.Symbol, tx.SourceChain),
			color.YellowString("%s (%s)", tx.TargetToken.Symbol, tx.TargetChain))
		fmt.Printf("      Deposit Address: %s\n", color.CyanString(tx.ID))
		fmt.Printf("      Source Tx:       %s\n", color.HiBlackString(tx.SourceTxHash))
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d swaps\n\n", len(records))
}
