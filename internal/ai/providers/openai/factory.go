package openai

import (
	"context"

	"github.com/docsift/docsift/internal/ai"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, config *ai.Config) (ai.Provider, error) {
	return New(FromProviderConfig(config))
}

func (f *Factory) Type() string {
	return "openai"
}

func Register() error {
	return ai.RegisterProvider("openai", NewFactory())
}
