package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/logger"
)

func newSearchCommand() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find the indexed fragments most similar to a query",
		Long: `Embed the query and list the nearest fragments in the vector store,
best match first, without generating an answer.

Examples:
  docsift search "total revenue 2023"
  docsift search --top-k 10 "safety procedures"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			sess, err := openSession(ctx, "search")
			if err != nil {
				return err
			}
			defer sess.close()

			k := topK
			if k == 0 {
				k = sess.cfg.Retrieval.TopK
			}

			results, err := sess.retriever.Retrieve(ctx, query, k)
			if err != nil {
				return err
			}

			// Persist the cached query embedding for next time.
			if err := sess.save(); err != nil {
				sess.log.Warn("failed to persist query cache", logger.Error(err))
			}

			f, err := sess.formatter()
			if err != nil {
				return err
			}
			out, err := f.FormatSearch(query, results)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of results (default from config)")

	return cmd
}
