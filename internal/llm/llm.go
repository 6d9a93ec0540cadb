// Package llm defines the multimodal generation client used by the analysis service.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model answers without any candidate text.
var ErrEmptyResponse = errors.New("model returned no candidates")

// InlineImage is an image sent inline with the prompt.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// GenerateRequest is one prompt plus an optional image.
type GenerateRequest struct {
	Prompt string
	Image  *InlineImage
	// Model overrides the client's default model when set.
	Model string
}

// Generator produces text from a multimodal prompt.
type Generator interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (string, error)

func (f GeneratorFunc) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}
