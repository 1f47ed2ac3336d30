package embedding

import (
	"fmt"
	"os"

	"github.com/openai/openai-go"
)

// Client wraps the OpenAI client used as the embedding backend.
type Client struct {
	client *openai.Client
}

// NewClient creates the embedding backend client. It requires
// OPENAI_API_KEY in the environment; the caller treats a failure here as
// "backend unavailable" and falls back to sparse retrieval.
func NewClient() (*Client, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	// openai-go reads OPENAI_API_KEY from the environment itself.
	client := openai.NewClient()

	return &Client{client: &client}, nil
}
