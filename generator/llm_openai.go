package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"realtor_ads_automation/logging"
)

// TogetherBaseURL is the OpenAI-compatible root of the Together AI API.
const TogetherBaseURL = "https://api.together.xyz/v1/"

// DefaultTimeout bounds a single completion request when none is configured.
const DefaultTimeout = 60 * time.Second

// OpenAILLM implements LLMClient with the openai-go SDK against any
// OpenAI-compatible chat completions endpoint (Together AI by default).
type OpenAILLM struct {
	Model  string
	Opts   []option.RequestOption
	logger *zap.Logger
}

// NewOpenAILLMFromConfig builds the client; only APIKey is required.
func NewOpenAILLMFromConfig(cfg *LLMSettings, logger *zap.Logger) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("llm api key missing; set TAI_KEY or llm.api_key")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = TogetherBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		// one request per call; callers decide whether to retry
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	return &OpenAILLM{Model: model, Opts: opts, logger: logging.OrNop(logger)}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, req Request) (string, error) {
	if len(req.Messages) == 0 {
		return "", errors.New("completion request has no messages")
	}
	if req.MaxTokens <= 0 {
		return "", fmt.Errorf("max tokens must be positive, got %d", req.MaxTokens)
	}
	model := req.Model
	if model == "" {
		model = o.Model
	}

	client := openai.NewClient(o.Opts...)

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	// Fields outside the OpenAI schema are spliced into the body.
	extra := []option.RequestOption{
		option.WithJSONSet("repetition_penalty", req.Sampling.RepetitionPenalty),
		option.WithJSONSet("stream", false),
	}
	if len(req.Sampling.Stop) > 0 {
		extra = append(extra, option.WithJSONSet("stop", req.Sampling.Stop))
	}
	if req.Sampling.TopK > 0 {
		extra = append(extra, option.WithJSONSet("top_k", req.Sampling.TopK))
	}

	// the raw body is kept so malformed replies can be reported as received
	var (
		httpResp *http.Response
		raw      []byte
	)
	extra = append(extra, option.WithResponseInto(&httpResp), option.WithResponseBodyInto(&raw))

	start := time.Now()
	_, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Sampling.Temperature),
		TopP:        openai.Float(req.Sampling.TopP),
	}, extra...)
	if err != nil {
		o.logger.Debug("completion failed", zap.String("model", model), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			body := apiErr.RawJSON()
			if body == "" {
				body = string(apiErr.DumpResponse(true))
			}
			return "", &ProviderError{StatusCode: apiErr.StatusCode, Body: body, Err: err}
		}
		pe := &ProviderError{Err: err, Body: string(raw)}
		if httpResp != nil {
			pe.StatusCode = httpResp.StatusCode
		}
		return "", pe
	}

	status := http.StatusOK
	if httpResp != nil {
		status = httpResp.StatusCode
	}
	var resp openai.ChatCompletion
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &ProviderError{StatusCode: status, Body: string(raw), Err: fmt.Errorf("decode completion: %w", err)}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{
			StatusCode: status,
			Body:       string(raw),
			Err:        errors.New("response has no choices"),
		}
	}
	o.logger.Debug("completion done",
		zap.String("model", model),
		zap.Int("max_tokens", req.MaxTokens),
		zap.Duration("elapsed", time.Since(start)))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
