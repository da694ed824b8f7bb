package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/answer"
	"github.com/docsift/docsift/internal/logger"
)

func newAskCommand() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from the indexed documents",
		Long: `Retrieve the fragments most relevant to the question and generate a
grounded answer with source citations.

Examples:
  docsift ask "What was the operating margin in 2023?"
  docsift ask --top-k 8 "Summarize the risk factors"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			question := strings.Join(args, " ")

			sess, err := openSession(ctx, "ask")
			if err != nil {
				return err
			}
			defer sess.close()

			k := topK
			if k == 0 {
				k = sess.cfg.Retrieval.TopK
			}

			results, err := sess.retriever.Retrieve(ctx, question, k)
			if err != nil {
				return err
			}

			generator := answer.New(sess.provider, answer.Options{
				MaxTokens:   sess.cfg.AI.MaxTokens,
				Temperature: sess.cfg.AI.Temperature,
			}, sess.log.WithComponent("answer"))

			response, err := generator.Answer(ctx, question, results)
			if err != nil {
				return err
			}

			if err := sess.save(); err != nil {
				sess.log.Warn("failed to persist query cache", logger.Error(err))
			}

			f, err := sess.formatter()
			if err != nil {
				return err
			}
			out, err := f.FormatAnswer(question, response)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of fragments to ground on (default from config)")

	return cmd
}
