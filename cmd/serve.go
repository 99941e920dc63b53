package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intents-agent/pkg/agent"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the agent as an HTTP chat service",
	Long: `Expose the swap agent over HTTP. Each request carries one chat message and
the caller's identities; conversation state is keyed by conversation_id.

Examples:
  intents-agent serve
  intents-agent serve --addr :9000`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
}

type chatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`

	WalletAddress      string `json:"wallet_address,omitempty"`
	NearAccountID      string `json:"near_account_id,omitempty"`
	ImportedAccountID  string `json:"imported_account_id,omitempty"`
	ImportedPrivateKey string `json:"imported_private_key,omitempty"`
	DelegatedWalletID  string `json:"delegated_wallet_id,omitempty"`
	DelegatedSignerID  string `json:"delegated_signer_id,omitempty"`
	ClientSign         bool   `json:"client_sign,omitempty"`
}

type chatResponse struct {
	ConversationID string          `json:"conversation_id"`
	Response       *agent.Response `json:"response"`
}

func runServe(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	stack, err := buildAgent(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer stack.log.Sync()

	h := server.Default(server.WithHostPorts(serveAddr))

	h.GET("/healthz", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	h.POST("/api/chat", func(c context.Context, ctx *app.RequestContext) {
		var body chatRequest
		if err := json.Unmarshal(ctx.Request.Body(), &body); err != nil {
			ctx.JSON(consts.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if body.Message == "" {
			ctx.JSON(consts.StatusBadRequest, map[string]string{"error": "message is required"})
			return
		}

		convID := body.ConversationID
		if convID == "" {
			convID = uuid.NewString()
		}

		resp := stack.agent.ProcessMessage(c, body.Message, agent.UserContext{
			ConversationID:     convID,
			WalletAddress:      body.WalletAddress,
			NearAccountID:      body.NearAccountID,
			ImportedAccountID:  body.ImportedAccountID,
			ImportedPrivateKey: body.ImportedPrivateKey,
			DelegatedWalletID:  body.DelegatedWalletID,
			DelegatedSignerID:  body.DelegatedSignerID,
			ClientSign:         body.ClientSign,
		})

		ctx.JSON(consts.StatusOK, chatResponse{ConversationID: convID, Response: resp})
	})

	stack.log.Info("chat service listening", zap.String("addr", serveAddr))
	h.Spin()
}
