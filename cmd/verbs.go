package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drixl/drixl-go/internal/config"
)

var (
	verbsSearch string
	verbsJSON   bool
)

var verbsCmd = &cobra.Command{
	Use:   "verbs",
	Short: "List the drixl verb vocabulary",
	RunE:  runVerbs,
}

func init() {
	verbsCmd.Flags().StringVar(&verbsSearch, "search", "", "filter verbs by keyword")
	verbsCmd.Flags().BoolVar(&verbsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(verbsCmd)
}

func runVerbs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	registry := makeRegistry(cfg)

	entries := registry.Entries()
	if verbsSearch != "" {
		entries = registry.Search(verbsSearch)
	}

	if verbsJSON {
		out, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	if verbsSearch != "" {
		fmt.Printf("Verbs matching %q:\n\n", verbsSearch)
	} else {
		fmt.Printf("drixl verbs (%d total):\n\n", len(entries))
	}
	for _, e := range entries {
		fmt.Printf("  %-8s %s\n", e.Code, e.Meaning)
	}
	if len(entries) == 0 && verbsSearch != "" {
		fmt.Printf("No verbs found matching %q\n", verbsSearch)
	}
	return nil
}
