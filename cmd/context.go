package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drixl/drixl-go/internal/config"
	"github.com/drixl/drixl-go/internal/contextstore"
)

var (
	contextBackend string
	contextTTL     time.Duration
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the shared context store",
}

var contextSetCmd = &cobra.Command{
	Use:   "set <ref> <value>",
	Short: "Store a context value under a reference id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store contextstore.Store) error {
			if err := store.Set(ctx, args[0], args[1], contextTTL); err != nil {
				return err
			}
			fmt.Printf("✓ Stored %s\n", args[0])
			return nil
		})
	},
}

var contextGetCmd = &cobra.Command{
	Use:   "get <ref>",
	Short: "Retrieve a context value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store contextstore.Store) error {
			value, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		})
	},
}

var contextDelCmd = &cobra.Command{
	Use:   "del <ref>",
	Short: "Delete a context reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store contextstore.Store) error {
			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Deleted %s\n", args[0])
			return nil
		})
	},
}

var contextListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all context references",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store contextstore.Store) error {
			refs, err := store.Refs(ctx)
			if err != nil {
				return err
			}
			for _, ref := range refs {
				fmt.Println(ref)
			}
			return nil
		})
	},
}

func init() {
	contextCmd.PersistentFlags().StringVar(&contextBackend, "backend", "redis", "store backend (memory|redis)")
	contextSetCmd.Flags().DurationVar(&contextTTL, "ttl", 0, "expiry for the value (0 = no expiry)")
	contextCmd.AddCommand(contextSetCmd, contextGetCmd, contextDelCmd, contextListCmd)
	rootCmd.AddCommand(contextCmd)
}

// withStore opens the configured backend, runs fn, and closes it. The
// memory backend is process-local, so only redis is useful from the CLI;
// memory remains selectable for smoke tests.
func withStore(fn func(context.Context, contextstore.Store) error) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := contextstore.Open(ctx, contextBackend, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("opening context store: %w", err)
	}
	defer store.Close()

	return fn(ctx, store)
}
