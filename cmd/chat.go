package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"intents-agent/pkg/agent"
)

var (
	chatWallet      string
	chatNearAccount string
	chatClientSign  bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the swap agent interactively",
	Long: `Start an interactive session with the swap agent. Type requests in plain
language; the agent quotes, confirms, and executes swaps in the conversation.

Examples:
  intents-agent chat --wallet 0x<sui-address> --near-account your.near
  > swap 100 USDC for SUI
  > yes
  > status`,
	Run: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&chatWallet, "wallet", "", "Settlement-chain (SUI) wallet address")
	chatCmd.Flags().StringVar(&chatNearAccount, "near-account", "", "Your NEAR account ID")
	chatCmd.Flags().BoolVar(&chatClientSign, "client-sign", false, "Return deposit instructions instead of signing server-side")
}

func runChat(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	app, err := buildAgent(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer app.log.Sync()

	user := agent.UserContext{
		ConversationID: uuid.NewString(),
		WalletAddress:  chatWallet,
		NearAccountID:  chatNearAccount,
		ClientSign:     chatClientSign,
	}

	color.Green("\nintents-agent ready. Type a request, \"help\" for examples, \"exit\" to quit.\n")

	reader := bufio.NewReader(os.Stdin)
	for {
		color.Set(color.FgCyan)
		fmt.Print("> ")
		color.Unset()

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Println("Bye.")
			return
		}

		s := spinner.New(spinner.CharSets[14], spinnerInterval)
		s.Suffix = " Thinking..."
		s.Start()
		resp := app.agent.ProcessMessage(context.Background(), line, user)
		s.Stop()

		printChatResponse(resp)
	}
}

func printChatResponse(resp *agent.Response) {
	switch resp.Type {
	case agent.TypeError:
		color.Red("\n%s\n", resp.Message)
	case agent.TypeQuote:
		color.Yellow("\n%s\n", resp.Message)
	case agent.TypeExecution:
		color.Green("\n%s\n", resp.Message)
	case agent.TypeDepositNeeded:
		color.Magenta("\n%s\n", resp.Message)
	default:
		fmt.Printf("\n%s\n", resp.Message)
	}

	if len(resp.SuggestedActions) > 0 {
		fmt.Printf("(%s)\n", strings.Join(resp.SuggestedActions, " / "))
	}
	fmt.Println()
}
