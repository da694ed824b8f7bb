package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/snapshot"
)

func newClearCommand() *cobra.Command {
	var cacheOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the persisted vector store",
		Long: `Delete the snapshot directory including index, items and query cache.
With --cache-only, drop only the query embedding cache and keep the
indexed content. Both operations are idempotent.

Examples:
  docsift clear
  docsift clear --cache-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No provider needed to clear local state.
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			manager := snapshot.NewManager(cfg.Storage.VectorStoreDir, cfg.AI.Dimension)

			if cacheOnly {
				if err := manager.ClearCacheOnly(); err != nil {
					return fmt.Errorf("failed to clear query cache: %w", err)
				}
				fmt.Println("Query cache cleared.")
				return nil
			}

			if err := manager.ClearAll(); err != nil {
				return fmt.Errorf("failed to clear vector store: %w", err)
			}
			fmt.Printf("Vector store at %s cleared.\n", manager.Dir())
			return nil
		},
	}

	cmd.Flags().BoolVar(&cacheOnly, "cache-only", false, "clear only the query embedding cache")

	return cmd
}
