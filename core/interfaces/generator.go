// ABOUTME: Text generation interface for the external language model
// ABOUTME: One prompt in, one free-form response out; no streaming or history

package interfaces

import "context"

// TextGenerator sends a single prompt to a generative model and returns its text
type TextGenerator interface {
	// Generate performs one request. Implementations must honor ctx cancellation.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider in logs and errors
	Name() string
}
