package generator

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"realtor_ads_automation/logging"
	"realtor_ads_automation/metrics"
)

// callSettings is the per-client model configuration shared by Agent and Scorer.
type callSettings struct {
	model    string
	sampling SamplingParams
	logger   *zap.Logger
}

// Option configures an Agent or a Scorer.
type Option func(*callSettings)

// WithModel overrides the model name sent with every request.
func WithModel(model string) Option {
	return func(c *callSettings) {
		if model != "" {
			c.model = model
		}
	}
}

// WithSampling replaces the default sampling parameters.
func WithSampling(p SamplingParams) Option {
	return func(c *callSettings) { c.sampling = p }
}

// WithLogger sets the logger; nil disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *callSettings) { c.logger = logging.OrNop(l) }
}

// Agent generates length-checked ad copy.
type Agent struct {
	llm LLMClient
	callSettings
}

// NewAgent creates an Agent with the ad sampling defaults.
func NewAgent(llm LLMClient, opts ...Option) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{
		llm: llm,
		callSettings: callSettings{
			model:    DefaultModel,
			sampling: AdSampling(),
			logger:   zap.NewNop(),
		},
	}
	for _, opt := range opts {
		opt(&a.callSettings)
	}
	return a, nil
}

// GenerateAd produces a headline and then a description. Once the headline is
// accepted it is prepended to *info, so the description prompt sees it first and
// the caller's list keeps it. Either field failing its limit after one shorten
// attempt aborts the whole call with a *ValidationError.
func (a *Agent) GenerateAd(ctx context.Context, info *Information) (AdCopy, error) {
	if info == nil || len(*info) == 0 {
		return AdCopy{}, errors.New("information is required")
	}

	headline, err := a.generateField(ctx, "headline", HeadlineInstruction, *info, HeadlineLimit)
	if err != nil {
		return AdCopy{}, err
	}
	info.Prepend(headline)

	description, err := a.generateField(ctx, "description", DescriptionInstruction, *info, DescriptionLimit)
	if err != nil {
		return AdCopy{}, err
	}
	return AdCopy{Headline: headline, Description: description}, nil
}

func (a *Agent) generateField(ctx context.Context, field, instruction string, info Information, limit int) (string, error) {
	out, err := a.complete(ctx, field, BuildPrompt(instruction, info), limit)
	if err != nil {
		return "", err
	}
	if n := charCount(out); n > limit {
		a.logger.Info("generated copy over limit, shortening",
			zap.String("field", field), zap.Int("length", n), zap.Int("limit", limit))
		metrics.AdShortens.WithLabelValues(field).Inc()
		out, err = a.Shorten(ctx, out, limit)
		if err != nil {
			return "", err
		}
	}
	if n := charCount(out); n > limit {
		a.logger.Warn("rejecting generated copy",
			zap.String("field", field), zap.Int("length", n), zap.Int("limit", limit))
		metrics.AdValidationFailures.WithLabelValues(field).Inc()
		return "", &ValidationError{Field: field, Limit: limit, Length: n}
	}
	return out, nil
}

// Shorten asks the model to bring text under limit characters. The reply is not
// checked against limit.
func (a *Agent) Shorten(ctx context.Context, text string, limit int) (string, error) {
	msgs := []Message{
		{Role: RoleSystem, Content: ShortenInstruction(limit)},
		{Role: RoleUser, Content: text},
	}
	return a.complete(ctx, "shorten", msgs, limit)
}

func (a *Agent) complete(ctx context.Context, op string, msgs []Message, maxTokens int) (string, error) {
	raw, err := a.llm.Complete(ctx, Request{
		Model:     a.model,
		Messages:  msgs,
		MaxTokens: maxTokens,
		Sampling:  a.sampling,
	})
	metrics.LLMRequests.WithLabelValues(op, metrics.Outcome(err)).Inc()
	if err != nil {
		return "", err
	}
	return CleanCompletion(raw), nil
}
