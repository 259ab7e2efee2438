package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "drixl",
	Short: "drixl — compressed inter-agent communication protocol",
	Long:  "drixl-go implements the DRIXL wire protocol: a compact token-optimized format and a structured XML format for inter-agent messages, with conversion between the two.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
}
