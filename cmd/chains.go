package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"crosschain-swap/pkg/chains"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List supported chains",
	Long: `List every chain this tool can swap from or to, with the transaction
model family each one belongs to.`,
	Run: runChains,
}

func init() {
	rootCmd.AddCommand(chainsCmd)
}

func runChains(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	supported := chains.Supported()

	if jsonOutput {
		type chainEntry struct {
			Chain      string `json:"chain"`
			Blockchain string `json:"blockchain"`
			Family     string `json:"family"`
		}
		entries := make([]chainEntry, 0, len(supported))
		for _, ref := range supported {
			cap, _ := chains.Lookup(ref)
			entries = append(entries, chainEntry{
				Chain:      ref.String(),
				Blockchain: cap.Blockchain,
				Family:     cap.Family.String(),
			})
		}
		jsonData, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 50))
	color.Green("               SUPPORTED CHAINS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	for _, ref := range supported {
		cap, _ := chains.Lookup(ref)
		name := cap.Blockchain
		if ref.IsEVM() {
			name = fmt.Sprintf("%s (chain id %d)", cap.Blockchain, ref.EVMChainID())
		}
		fmt.Printf("  %-22s  %s\n", color.YellowString(name), cap.Family)
	}

	fmt.Println("\n" + strings.Repeat("=", 50) + "\n")
}
