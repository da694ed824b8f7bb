package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/ingest"
)

func newIngestCommand() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Embed staged document fragments into the vector store",
		Long: `Scan the staging directory for extracted fragments (text, tables,
images and page renders), embed each one and append it to the vector
store, then persist the snapshot.

Fragments whose embedding fails are skipped and reported; the rest of
the run continues.

Examples:
  docsift ingest
  docsift ingest --data ./data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := openSession(ctx, "ingest")
			if err != nil {
				return err
			}
			defer sess.close()

			dir := dataDir
			if dir == "" {
				dir = sess.cfg.Storage.DataDir
			}

			items, err := ingest.NewScanner(dir).Scan()
			if err != nil {
				return fmt.Errorf("failed to scan staging directory: %w", err)
			}
			if len(items) == 0 {
				fmt.Printf("No fragments found under %s\n", dir)
				return nil
			}

			pipeline := ingest.NewPipeline(sess.store, sess.provider, sess.log.WithComponent("ingest"))
			report, err := pipeline.Run(ctx, items)
			if err != nil {
				return err
			}

			if report.Added > 0 {
				if err := sess.save(); err != nil {
					return fmt.Errorf("failed to persist snapshot: %w", err)
				}
			}

			f, err := sess.formatter()
			if err != nil {
				return err
			}
			out, err := f.FormatIngest(report)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data", "d", "", "staging directory (default from config)")

	return cmd
}
