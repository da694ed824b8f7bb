package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/content"
	"github.com/docsift/docsift/internal/formatter"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the indexed knowledge base",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), "status")
			if err != nil {
				return err
			}
			defer sess.close()

			kinds := make(map[content.Kind]int)
			for _, item := range sess.store.Items() {
				kinds[item.Kind]++
			}

			status := &formatter.Status{
				Items:         sess.store.Size(),
				Dimension:     sess.store.Dimension(),
				CachedQueries: sess.cache.Len(),
				SnapshotDir:   sess.manager.Dir(),
				Kinds:         kinds,
			}

			f, err := sess.formatter()
			if err != nil {
				return err
			}
			out, err := f.FormatStatus(status)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}
