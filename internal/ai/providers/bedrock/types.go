package bedrock

// Wire types for the Titan multimodal embedding model.

type titanEmbedRequest struct {
	InputText       string               `json:"inputText,omitempty"`
	InputImage      string               `json:"inputImage,omitempty"`
	EmbeddingConfig titanEmbeddingConfig `json:"embeddingConfig"`
}

type titanEmbeddingConfig struct {
	OutputEmbeddingLength int `json:"outputEmbeddingLength"`
}

type titanEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
	Message   string    `json:"message,omitempty"`
}

// Wire types for Anthropic messages on Bedrock.

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float64            `json:"temperature,omitempty"`
	TopP             float64            `json:"top_p,omitempty"`
	TopK             int                `json:"top_k,omitempty"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content    []anthropicBlock `json:"content"`
	StopReason string           `json:"stop_reason"`
}

func textBlock(text string) anthropicBlock {
	return anthropicBlock{Type: "text", Text: text}
}

func imageBlock(base64PNG string) anthropicBlock {
	return anthropicBlock{
		Type: "image",
		Source: &anthropicImageSource{
			Type:      "base64",
			MediaType: "image/png",
			Data:      base64PNG,
		},
	}
}
