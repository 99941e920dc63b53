package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intents-agent/config"
	"intents-agent/pkg/agent"
	"intents-agent/pkg/catalog"
	"intents-agent/pkg/deposit"
	"intents-agent/pkg/oneclick"
	"intents-agent/pkg/session"
)

var rootCmd = &cobra.Command{
	Use:   "intents-agent",
	Short: "A conversational agent for cross-chain swaps using NEAR Intents 1Click API",
	Long: `intents-agent turns plain trading requests into cross-chain swaps through
the NEAR Intents 1Click API. Talk to it in the chat REPL, script it with the
swap command, or run it as an HTTP service.

Examples:
  intents-agent chat
  intents-agent swap 100 USDC to SUI
  intents-agent tokens --chain near
  intents-agent status <deposit-address> --watch
  intents-agent serve --addr :8080`,
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

// newLogger builds the process logger; verbose switches to development output.
func newLogger(verbose bool) *zap.Logger {
	if verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			return log
		}
	}
	log, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// appStack is the wired pipeline every command runs on.
type appStack struct {
	agent  *agent.Agent
	cfg    *config.Config
	client *oneclick.Client
	tokens *catalog.Cache
	log    *zap.Logger
}

// buildAgent wires the full pipeline from configuration. Every command goes
// through here so they all share the same stack.
func buildAgent(verbose bool) (*appStack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := newLogger(verbose)

	client := oneclick.NewClient(cfg.JWTToken, cfg.BaseURL, cfg.Referral, log)
	cache := catalog.NewCache(client, catalog.DefaultTTL)
	manager := deposit.NewManager(cfg, log)

	var store session.Store
	switch cfg.Session.Store {
	case "redis":
		store = session.NewRedisStore(cfg.Session.RedisAddr, cfg.Session.RedisDB, cfg.Session.RedisTTL)
	default:
		store = session.NewMemoryStore(cfg.Session.Capacity)
	}

	return &appStack{
		agent:  agent.New(cfg, client, cache, store, manager, log),
		cfg:    cfg,
		client: client,
		tokens: cache,
		log:    log,
	}, nil
}

// spinnerInterval is the refresh rate shared by all command spinners.
const spinnerInterval = 100 * time.Millisecond
