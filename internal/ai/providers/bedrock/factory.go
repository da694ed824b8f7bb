package bedrock

import (
	"context"

	"github.com/docsift/docsift/internal/ai"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	return New(ctx, FromProviderConfig(config))
}

func (f *Factory) Type() string {
	return "bedrock"
}

func Register() error {
	return ai.RegisterProvider("bedrock", NewFactory())
}
