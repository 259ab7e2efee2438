package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drixl/drixl-go/internal/config"
	"github.com/drixl/drixl-go/internal/protocol"
)

var (
	parseLenient bool
	parseJSON    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [message]",
	Short: "Parse and validate a drixl message (either format)",
	Long:  "Parse a compact or structured drixl message. The format is auto-detected. Reads from stdin when no message argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseLenient, "lenient", false, "skip unknown envelope keys instead of rejecting them")
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := readMessageArg(args)
	if err != nil {
		return err
	}
	if raw == "" {
		return fmt.Errorf("no message provided")
	}

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	registry := makeRegistry(cfg)

	format, err := protocol.DetectFormat(raw)
	if err != nil {
		return err
	}

	if format == protocol.FormatStructured {
		msg, warnings, err := protocol.DecodeStructured(raw)
		if err != nil {
			return fmt.Errorf("parse error: %w", err)
		}
		return printStructured(msg, warnings)
	}

	msg, err := protocol.DecodeCompact(raw, protocol.DecodeOptions{Strict: !parseLenient})
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if parseJSON {
		out, _ := json.MarshalIndent(msg, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Println("✓ Valid drixl message")
		fmt.Println()
		fmt.Println("Envelope:")
		fmt.Printf("  To:       %s\n", msg.To)
		fmt.Printf("  From:     %s\n", msg.From)
		fmt.Printf("  Type:     %s\n", msg.Type)
		fmt.Printf("  Priority: %s\n", msg.Priority)
		fmt.Println()
		fmt.Println("Actions:")
		for _, action := range msg.Actions {
			meaning, ok := registry.Lookup(action)
			if !ok {
				meaning = "Unknown"
			}
			fmt.Printf("  - %s (%s)\n", action, meaning)
		}
		if len(msg.Params) > 0 {
			fmt.Println()
			fmt.Println("Parameters:")
			for _, p := range msg.Params {
				fmt.Printf("  - %s\n", p)
			}
		}
		if msg.CtxRef != "" {
			fmt.Println()
			fmt.Printf("Context ref: %s\n", msg.CtxRef)
		}
	}

	for _, v := range registry.Unknown(msg.Actions) {
		fmt.Printf("⚠ Unknown verb: %s\n", v)
	}
	return nil
}

func printStructured(msg *protocol.StructuredMessage, warnings []string) error {
	if parseJSON {
		out, _ := json.MarshalIndent(msg, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Println("✓ Valid drixl structured message")
		fmt.Println()
		fmt.Printf("  MsgID:    %s\n", msg.MsgID)
		fmt.Printf("  Thread:   %s\n", msg.ThreadID)
		if msg.ReplyTo != "" {
			fmt.Printf("  ReplyTo:  %s\n", msg.ReplyTo)
		}
		fmt.Printf("  To:       %s\n", msg.To)
		fmt.Printf("  From:     %s\n", msg.From)
		fmt.Printf("  Type:     %s\n", msg.Type)
		fmt.Printf("  Priority: %s\n", msg.Priority)
		fmt.Printf("  Status:   %s\n", msg.Status)
		fmt.Printf("  Intent:   %s\n", msg.Intent)
		fmt.Println()
		fmt.Println(msg.Content)
		for _, a := range msg.Artifacts {
			fmt.Printf("\nArtifact %s (%s):\n%s\n", a.ID, a.Kind, a.Body)
		}
	}
	for _, w := range warnings {
		fmt.Printf("⚠ %s\n", w)
	}
	return nil
}
