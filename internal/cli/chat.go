package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/answer"
	"github.com/docsift/docsift/internal/retriever"
	"github.com/docsift/docsift/internal/tui"
)

// chatService adapts a session to the TUI's Asker interface.
type chatService struct {
	sess      *session
	generator *answer.Generator
	topK      int
}

func (c *chatService) Ask(ctx context.Context, question string) (string, []retriever.Result, error) {
	results, err := c.sess.retriever.Retrieve(ctx, question, c.topK)
	if err != nil {
		return "", nil, err
	}
	response, err := c.generator.Answer(ctx, question, results)
	if err != nil {
		return "", nil, err
	}
	return response, results, nil
}

func newChatCommand() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive question answering session",
		Long: `Open a terminal chat over the indexed documents. Each question is
answered from the nearest fragments with source citations. Press
Ctrl+C or Esc to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := openSession(ctx, "chat")
			if err != nil {
				return err
			}
			defer sess.close()

			k := topK
			if k == 0 {
				k = sess.cfg.Retrieval.TopK
			}

			service := &chatService{
				sess: sess,
				generator: answer.New(sess.provider, answer.Options{
					MaxTokens:   sess.cfg.AI.MaxTokens,
					Temperature: sess.cfg.AI.Temperature,
				}, sess.log.WithComponent("answer")),
				topK: k,
			}

			summary := fmt.Sprintf("%d fragments indexed. Type a question.", sess.store.Size())
			model := tui.New(service, summary)

			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("chat session failed: %w", err)
			}

			// Queries asked during the session stay cached.
			return sess.save()
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of fragments to ground on (default from config)")

	return cmd
}
