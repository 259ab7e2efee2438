package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drixl/drixl-go/internal/config"
	"github.com/drixl/drixl-go/internal/protocol"
)

var (
	buildTo       string
	buildFrom     string
	buildType     string
	buildPriority string
	buildActions  string
	buildParams   string
	buildCtxRef   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a compact drixl message",
	Long:  "Build a compact drixl message from flags.\n\nExample:\n  drixl build --to AGT2 --from AGT1 --type REQ --priority HIGH --actions ANLY,XTRCT --params input.json,out:json",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildTo, "to", "", "recipient agent id")
	buildCmd.Flags().StringVar(&buildFrom, "from", "", "sender agent id")
	buildCmd.Flags().StringVar(&buildType, "type", "REQ", "message type (REQ|RES|ERR|FIN)")
	buildCmd.Flags().StringVar(&buildPriority, "priority", "MED", "priority (HIGH|MED|LOW)")
	buildCmd.Flags().StringVar(&buildActions, "actions", "", "comma-separated verb codes")
	buildCmd.Flags().StringVar(&buildParams, "params", "", "comma-separated parameters")
	buildCmd.Flags().StringVar(&buildCtxRef, "ctx-ref", "", "context store reference id")
	buildCmd.MarkFlagRequired("to")
	buildCmd.MarkFlagRequired("from")
	buildCmd.MarkFlagRequired("actions")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	registry := makeRegistry(cfg)

	actions := splitList(buildActions)
	params := splitList(buildParams)

	if unknown := registry.Unknown(actions); len(unknown) > 0 {
		return fmt.Errorf("invalid verbs: %s (run 'drixl verbs' to list the vocabulary)",
			strings.Join(unknown, ", "))
	}

	msg, err := protocol.NewCompact(buildTo, buildFrom,
		protocol.CompactType(strings.ToUpper(buildType)),
		protocol.Priority(strings.ToUpper(buildPriority)),
		actions, params, buildCtxRef)
	if err != nil {
		return fmt.Errorf("build error: %w", err)
	}

	fmt.Println(msg.Encode())
	return nil
}
