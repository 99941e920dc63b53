package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"intents-agent/pkg/oneclick"
)

var watchStatus bool

var statusCmd = &cobra.Command{
	Use:   "status <deposit-address>",
	Short: "Check the status of a swap",
	Long: `Check the execution status of a cross-chain swap by its deposit address.

With --watch the bounded poller follows the swap until it settles, refunds,
fails, or the polling budget runs out.

Examples:
  intents-agent status 0x1234...abcd
  intents-agent status 0x1234...abcd --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates until the swap settles")
}

func runStatus(cmd *cobra.Command, args []string) {
	depositAddress := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	app, err := buildAgent(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer app.log.Sync()

	if watchStatus {
		if jsonOutput {
			fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
			os.Exit(1)
		}
		fmt.Printf("\nWatching swap status (Deposit Address: %s)\n", color.CyanString(depositAddress))
		fmt.Printf("Checking every %s. Press Ctrl+C to stop.\n\n", oneclick.DefaultPollInterval)
		followSettlement(context.Background(), app.client, depositAddress, false)
		return
	}

	s := spinner.New(spinner.CharSets[14], spinnerInterval)
	if !jsonOutput {
		s.Suffix = " Checking swap status..."
		s.Start()
	}
	status, err := app.client.ExecutionStatus(context.Background(), depositAddress)
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
		displayStatus(status, depositAddress)
	}
}

func displayStatus(status *oneclick.SwapStatus, depositAddress string) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SWAP STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Deposit Address: %s\n", color.CyanString(depositAddress))
	fmt.Printf("  Status:          %s\n", getColoredStatus(status.Status))
	if !status.UpdatedAt.IsZero() {
		fmt.Printf("  Last Updated:    %s\n", status.UpdatedAt.Format(time.DateTime))
	}

	for _, hash := range status.OriginTxHashes {
		fmt.Printf("  Deposit Tx:      %s\n", color.HiBlackString(hash))
	}
	for _, hash := range status.DestinationTxHashes {
		fmt.Printf("  Withdrawal Tx:   %s\n", color.HiBlackString(hash))
	}

	if status.AmountInFormatted != "" {
		fmt.Printf("  Amount In:       %s\n", status.AmountInFormatted)
	}
	if status.AmountOutFormatted != "" {
		fmt.Printf("  Amount Out:      %s\n", status.AmountOutFormatted)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status string) string {
	switch strings.ToUpper(status) {
	case oneclick.StatusSuccess:
		return color.GreenString(status)
	case oneclick.StatusPendingDeposit, oneclick.StatusProcessing:
		return color.YellowString(status)
	case oneclick.StatusFailed, oneclick.StatusRefunded:
		return color.RedString(status)
	case oneclick.StatusIncompleteDeposit:
		return color.MagentaString(status)
	default:
		return status
	}
}
