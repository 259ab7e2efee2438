package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drixl/drixl-go/internal/protocol"
	"github.com/drixl/drixl-go/internal/tokens"
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark [message]",
	Short: "Compare token usage of drixl vs JSON and natural language",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBenchmark,
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	var msg *protocol.CompactMessage

	if len(args) > 0 {
		raw, err := readMessageArg(args)
		if err != nil {
			return err
		}
		msg, err = protocol.DecodeCompact(raw, protocol.DecodeOptions{})
		if err != nil {
			return fmt.Errorf("parse error: %w", err)
		}
	} else {
		msg, _ = protocol.NewCompact("AGT2", "AGT1", protocol.CompactRequest, protocol.PriorityHigh,
			[]string{"ANLY", "XTRCT"},
			[]string{"firewall.log", "denied_ips", "out:json"},
			"ref#1")
	}

	cmp := tokens.Compare(msg)

	fmt.Println()
	fmt.Println("Token Usage Comparison")
	fmt.Println("======================")
	fmt.Println()
	fmt.Printf("%-20s %10s %12s\n", "Format", "Tokens", "vs drixl")
	fmt.Println("--------------------------------------------")
	for _, c := range cmp.Counts {
		fmt.Printf("%-20s %10d %11.2fx\n", c.Format, c.Tokens, c.Ratio)
	}
	fmt.Println()
	fmt.Printf("✓ drixl saves ~%.0f%% tokens vs natural language\n", cmp.SavingsVsNatural)
	return nil
}
