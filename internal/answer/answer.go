// Package answer builds grounded question-answering prompts from
// retrieved content and runs them through a generation provider.
package answer

import (
	"context"
	"strings"

	"github.com/yildizm/go-promptfmt"

	"github.com/docsift/docsift/internal/ai"
	"github.com/docsift/docsift/internal/content"
	"github.com/docsift/docsift/internal/logger"
	"github.com/docsift/docsift/internal/retriever"
)

const systemPrompt = `You are a helpful assistant for question answering. Follow these rules strictly:
1. Answer questions based ONLY on the provided context
2. DO NOT include source citations inline in the text
3. If using information from images or tables, mention it naturally in the text
4. If you cannot find the answer in the context, say so clearly
5. For images, describe relevant visual elements that support your answer
6. Keep responses focused and concise while being thorough
7. When presenting tables, use proper markdown table formatting
8. At the end of your response, add a "References" section that lists all unique sources used
   Format: References\n- **[Source: filename, page X]**`

// Options tunes generation behavior.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Generator answers questions against retrieved content.
type Generator struct {
	provider ai.Generator
	opts     Options
	log      *logger.Logger
}

// New creates an answer generator.
func New(provider ai.Generator, opts Options, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.NewWithCallback("answer", nil)
	}
	return &Generator{provider: provider, opts: opts, log: log}
}

// Answer generates a grounded response to the question from the
// retrieved results. The matched items travel to the provider as
// structured grounding so image payloads reach multimodal models
// intact; the question itself is wrapped in answering instructions.
func (g *Generator) Answer(ctx context.Context, question string, results []retriever.Result) (string, error) {
	grounding := make([]*content.Item, 0, len(results))
	for _, r := range results {
		grounding = append(grounding, r.Item)
	}

	prompt := buildQuestionPrompt(question)
	req := &ai.GenerationRequest{
		SystemPrompt: prompt.SystemPrompt,
		Prompt:       prompt.String(),
		Grounding:    grounding,
		MaxTokens:    g.opts.MaxTokens,
		Temperature:  &g.opts.Temperature,
	}

	g.log.Debug("generating answer",
		logger.Query(question),
		logger.Count(len(grounding)))

	response, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

// buildQuestionPrompt wraps the user question in the answering rules.
func buildQuestionPrompt(question string) *promptfmt.Prompt {
	return promptfmt.New().
		System(systemPrompt).
		User("Question: %s", question).
		AddContext("requirements", `Please answer based on the provided context, following these requirements:
1. Provide a clear, direct answer without inline citations
2. If using information from images or tables, mention it naturally
3. If the answer isn't in the context, say so
4. Format the response in clear paragraphs with markdown
5. Include relevant quotes when appropriate
6. At the end, add a "References" section with all unique sources used in bold
   Example format:
   References
   - **[Source: filename, page X]**`).
		Build()
}
