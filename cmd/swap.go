package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"intents-agent/pkg/agent"
	"intents-agent/pkg/oneclick"
)

var (
	swapWallet      string
	swapNearAccount string
	swapNoConfirm   bool
	swapFollow      bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Perform a cross-chain token swap",
	Long: `Run one swap end to end: quote, confirm, execute, and optionally follow
settlement. The request is written the same way you would say it in chat.

Examples:
  intents-agent swap 100 USDC to SUI --wallet 0x<sui-address>
  intents-agent swap 1.5 NEAR to USDC --near-account your.near --yes
  intents-agent swap 0.1 ETH to SUI --wallet 0x<sui-address> --yes --follow`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&swapWallet, "wallet", "", "Settlement-chain (SUI) wallet address")
	swapCmd.Flags().StringVar(&swapNearAccount, "near-account", "", "Your NEAR account ID")
	swapCmd.Flags().BoolVarP(&swapNoConfirm, "yes", "y", false, "Skip confirmation prompt")
	swapCmd.Flags().BoolVar(&swapFollow, "follow", false, "Poll settlement status after the deposit is sent")
}

func runSwap(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	app, err := buildAgent(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer app.log.Sync()

	user := agent.UserContext{
		ConversationID: uuid.NewString(),
		WalletAddress:  swapWallet,
		NearAccountID:  swapNearAccount,
	}
	ctx := context.Background()

	// Quote
	request := "swap " + strings.Join(args, " ")
	s := spinner.New(spinner.CharSets[14], spinnerInterval)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}
	resp := app.agent.ProcessMessage(ctx, request, user)
	if !jsonOutput {
		s.Stop()
	}

	if resp.Type == agent.TypeError {
		emit(resp, jsonOutput)
		os.Exit(1)
	}
	emit(resp, jsonOutput)

	if resp.Type != agent.TypeQuote {
		return
	}

	// Confirm
	if !swapNoConfirm && !jsonOutput {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			return
		}
	}

	if !jsonOutput {
		s.Suffix = " Executing swap..."
		s.Start()
	}
	result := app.agent.ProcessMessage(ctx, "yes", user)
	if !jsonOutput {
		s.Stop()
	}

	emit(result, jsonOutput)
	if result.Type == agent.TypeError {
		os.Exit(1)
	}

	depositAddress, _ := result.Data["deposit_address"].(string)
	if swapFollow && depositAddress != "" {
		followSettlement(ctx, app.client, depositAddress, jsonOutput)
	} else if !jsonOutput && depositAddress != "" {
		fmt.Println("You can follow the swap with:")
		color.Cyan("  intents-agent status %s --watch\n", depositAddress)
	}
}

// followSettlement runs the bounded status poller until the swap settles or
// the attempt budget runs out.
func followSettlement(ctx context.Context, client *oneclick.Client, depositAddress string, jsonOutput bool) {
	poller := oneclick.NewPoller(client.ExecutionStatus, nil)

	var last string
	final, err := poller.Poll(ctx, depositAddress, func(st *oneclick.SwapStatus) {
		if jsonOutput || st.Status == last {
			return
		}
		last = st.Status
		fmt.Printf("  %s\n", getColoredStatus(st.Status))
	})
	if err != nil {
		printError(err)
		return
	}

	if jsonOutput {
		out, _ := json.MarshalIndent(final, "", "  ")
		fmt.Println(string(out))
		return
	}

	switch {
	case final.TimedOut:
		color.Yellow("\nStill settling. Check later with: intents-agent status %s\n", depositAddress)
	case final.Status == oneclick.StatusSuccess:
		color.Green("\nSwap complete: %s in, %s out.\n", final.AmountInFormatted, final.AmountOutFormatted)
	case final.Status == oneclick.StatusRefunded:
		color.Yellow("\nThe swap was refunded to the origin address.\n")
	default:
		color.Red("\nThe swap failed.\n")
	}
}

func emit(resp *agent.Response, jsonOutput bool) {
	if jsonOutput {
		out, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(out))
		return
	}
	printChatResponse(resp)
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
