package generator

import "context"

// Prompt represents one request to the model. Stage labels the pipeline stage
// for logging and for stub implementations.
type Prompt struct {
	Stage     string
	System    string
	User      string
	MaxTokens int64
}

// LLMClient abstracts the remote generative service so it can be replaced or
// mocked. Implementations may be shared read-only across pipeline runs.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
	// CompleteStream consumes the response incrementally, invoking onDelta
	// for each text chunk, and returns the fully accumulated text.
	CompleteStream(ctx context.Context, prompt Prompt, onDelta func(string)) (string, error)
}

// LLMSettings provides base configuration to concrete implementations.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
