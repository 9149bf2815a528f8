package describer

import (
	"context"
	"errors"
)

var (
	// ErrNoCaption is returned by DescribeImage when the LLM could not be
	// reached or its response carried no caption.
	ErrNoCaption = errors.New("failed to get caption")

	// ErrNoCategory is returned by Categorize when the LLM could not be reached
	// or its response carried no category.
	ErrNoCategory = errors.New("category not found")
)

// Describer captions and categorizes an image using a specific LLM.
type Describer interface {
	// Name returns the name of the backing LLM, e.g. "openai" or "llama"
	Name() string

	// DescribeImage returns a short one line English caption of the provided
	// image. The image is the base64 encoding of a full JPEG file. The provided
	// ctx is used as a parent context for the request to the LLM server.
	DescribeImage(ctx context.Context, image string) (string, error)

	// Categorize classifies a caption previously returned by DescribeImage.
	// The result is lowercased model output and is not guaranteed to be one
	// of Categories.
	Categorize(ctx context.Context, description string) (string, error)

	// IsHealthy returns whether the LLM server is healthy.
	IsHealthy() bool
}
