package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"intents-agent/pkg/catalog"
)

var (
	filterChain  string
	filterSymbol string
)

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens", "ls"},
	Short:   "List all supported tokens",
	Long: `List all tokens tradable through the NEAR Intents 1Click API.

You can filter tokens by blockchain or symbol.

Examples:
  intents-agent tokens
  intents-agent tokens --chain near
  intents-agent tokens --symbol USDC`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterChain, "chain", "", "Filter by blockchain")
	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	app, err := buildAgent(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer app.log.Sync()

	s := spinner.New(spinner.CharSets[14], spinnerInterval)
	if !jsonOutput {
		s.Suffix = " Fetching supported tokens..."
		s.Start()
	}
	tokens, err := app.tokens.Tokens(context.Background())
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Apply filters
	filtered := tokens[:0:0]
	for _, token := range tokens {
		if filterChain != "" && !strings.EqualFold(token.Blockchain, catalog.CanonicalChain(filterChain)) &&
			!strings.EqualFold(token.Blockchain, filterChain) {
			continue
		}
		if filterSymbol != "" && !strings.Contains(strings.ToUpper(token.Symbol), strings.ToUpper(filterSymbol)) {
			continue
		}
		filtered = append(filtered, token)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(filtered, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTokens(filtered)
	}
}

func displayTokens(tokens []catalog.Token) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            SUPPORTED TOKENS")
	fmt.Println(strings.Repeat("=", 90))

	// Group tokens by blockchain
	tokensByChain := make(map[string][]catalog.Token)
	for _, token := range tokens {
		tokensByChain[token.Blockchain] = append(tokensByChain[token.Blockchain], token)
	}

	chains := make([]string, 0, len(tokensByChain))
	for chain := range tokensByChain {
		chains = append(chains, chain)
	}
	sort.Strings(chains)

	for _, chain := range chains {
		color.Cyan("\n%s", strings.ToUpper(chain))
		fmt.Println(strings.Repeat("-", 90))

		for _, token := range tokensByChain[chain] {
			address := token.ContractAddress
			if len(address) > 40 {
				address = address[:37] + "..."
			}

			fmt.Printf("  %-10s  %2d decimals  %s\n",
				color.YellowString(token.Symbol),
				catalog.Decimals(&token),
				color.HiBlackString(address))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens across %d blockchains\n\n", len(tokens), len(chains))
}
