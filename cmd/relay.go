package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/drixl/drixl-go/internal/config"
	"github.com/drixl/drixl-go/internal/relay"
)

var relayPort int

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the websocket message relay",
	Long:  "Run a websocket relay that forwards drixl messages between connected agents. Agents connect to /ws?agent=ID and exchange raw messages in either wire format.",
	RunE:  runRelay,
}

func init() {
	relayCmd.Flags().IntVar(&relayPort, "port", 0, "listen port (defaults to config)")
	rootCmd.AddCommand(relayCmd)
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	port := relayPort
	if port == 0 {
		port = cfg.Relay.Port
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return relay.NewServer(port).Run(ctx)
}
