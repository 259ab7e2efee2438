package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drixl/drixl-go/internal/protocol"
)

var (
	convertIntent  string
	convertThread  string
	convertReplyTo string
	convertStatus  string
	convertActions string
	convertParams  string
)

var convertCmd = &cobra.Command{
	Use:   "convert [message]",
	Short: "Convert a message between compact and structured formats",
	Long: "Convert a drixl message to the other format. The input format is " +
		"auto-detected. Structured input requires --actions because the " +
		"compact grammar cannot be recovered from free text.",
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertIntent, "intent", "", "intent for the structured message")
	convertCmd.Flags().StringVar(&convertThread, "thread", "", "thread id (generated when empty)")
	convertCmd.Flags().StringVar(&convertReplyTo, "reply-to", "", "msg_id being replied to")
	convertCmd.Flags().StringVar(&convertStatus, "status", "", "structured status (default PENDING)")
	convertCmd.Flags().StringVar(&convertActions, "actions", "", "comma-separated verbs (structured input only)")
	convertCmd.Flags().StringVar(&convertParams, "params", "", "comma-separated params (structured input only)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	raw, err := readMessageArg(args)
	if err != nil {
		return err
	}
	if raw == "" {
		return fmt.Errorf("no message provided")
	}

	msg, err := protocol.Decode(raw, protocol.DecodeOptions{})
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	switch m := msg.(type) {
	case *protocol.CompactMessage:
		structured, err := protocol.CompactToStructured(m, protocol.ConvertOptions{
			Intent:   convertIntent,
			ThreadID: convertThread,
			ReplyTo:  convertReplyTo,
			Status:   protocol.Status(convertStatus),
		})
		if err != nil {
			return fmt.Errorf("convert error: %w", err)
		}
		out, err := structured.Encode()
		if err != nil {
			return err
		}
		fmt.Println(out)

	case *protocol.StructuredMessage:
		compact, err := protocol.StructuredToCompact(m, splitList(convertActions), splitList(convertParams))
		if err != nil {
			return fmt.Errorf("convert error: %w", err)
		}
		fmt.Println(compact.Encode())
	}
	return nil
}
