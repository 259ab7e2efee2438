package cmd

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/drixl/drixl-go/internal/config"
	"github.com/drixl/drixl-go/internal/verbs"
)

// makeRegistry builds the verb registry, merging the configured custom
// vocabulary file when present.
func makeRegistry(cfg config.Config) *verbs.Registry {
	registry := verbs.NewRegistry()
	if cfg.VerbsFile != "" {
		if err := registry.LoadFile(cfg.VerbsFile); err != nil {
			log.Printf("[CLI] Custom verbs file skipped: %v", err)
		}
	}
	return registry
}

// readMessageArg returns the message from args or, when absent, from stdin.
func readMessageArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		// Shells pass "\n" literally; restore the line break.
		return strings.ReplaceAll(args[0], `\n`, "\n"), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// splitList parses a comma-separated flag value into trimmed items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
