package generator

import (
	"context"
	"time"
)

// Roles used in chat messages.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat message sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SamplingParams groups the generation knobs shared by every call site.
// TopK is omitted from the request when zero.
type SamplingParams struct {
	Temperature       float64
	TopP              float64
	TopK              int
	RepetitionPenalty float64
	Stop              []string
}

// DefaultStop are the end-of-turn markers of the Llama chat templates.
var DefaultStop = []string{"<|im_end|>", "<|endoftext|>"}

// DefaultModel is the Together AI model used for ad copy and EV scoring.
const DefaultModel = "meta-llama/Llama-3.3-70B-Instruct-Turbo"

// AdSampling is used for headline, description and shorten calls.
func AdSampling() SamplingParams {
	return SamplingParams{
		Temperature:       0.4,
		TopP:              0.9,
		RepetitionPenalty: 1.2,
		Stop:              append([]string(nil), DefaultStop...),
	}
}

// EVSampling is used for buyer interest scoring.
func EVSampling() SamplingParams {
	return SamplingParams{
		Temperature:       0.7,
		TopP:              0.7,
		TopK:              50,
		RepetitionPenalty: 1,
		Stop:              append([]string(nil), DefaultStop...),
	}
}

// Request is a single chat-completion call. Built per call and not modified afterwards.
type Request struct {
	Model     string
	Messages  []Message
	MaxTokens int
	Sampling  SamplingParams
}

// LLMClient abstracts the completion provider so it can be swapped or faked.
type LLMClient interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// LLMSettings is the provider configuration handed to concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}
