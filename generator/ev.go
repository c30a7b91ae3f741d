package generator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"realtor_ads_automation/metrics"
)

// DefaultInternalDomain is the sender domain of automated outbound mail, which
// is left out of scoring.
const DefaultInternalDomain = "lgw.automatedconsultancy.com"

// Email is one message of a buyer/realtor thread.
type Email struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Type     string `json:"type"`
}

// ParseEmails turns a thread (oldest first) into user messages tagged with the
// author's side. Mail from internalDomain is dropped.
func ParseEmails(realtorEmail string, emails []Email, internalDomain string) []Message {
	if internalDomain == "" {
		internalDomain = DefaultInternalDomain
	}
	msgs := make([]Message, 0, len(emails))
	for _, e := range emails {
		if _, domain, ok := strings.Cut(e.Sender, "@"); ok && strings.EqualFold(domain, internalDomain) {
			continue
		}
		prefix := "BUYER: "
		if e.Sender == realtorEmail {
			prefix = "REALTOR: "
		}
		msgs = append(msgs, Message{Role: RoleUser, Content: prefix + e.Body})
	}
	return msgs
}

// Scorer rates buyer interest (EV) from 0 to 100.
type Scorer struct {
	MaxTokens      int
	InternalDomain string

	llm LLMClient
	callSettings
}

// NewScorer creates a Scorer with the EV sampling defaults.
func NewScorer(llm LLMClient, opts ...Option) (*Scorer, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	s := &Scorer{
		MaxTokens:      5,
		InternalDomain: DefaultInternalDomain,
		llm:            llm,
		callSettings: callSettings{
			model:    DefaultModel,
			sampling: EVSampling(),
			logger:   zap.NewNop(),
		},
	}
	for _, opt := range opts {
		opt(&s.callSettings)
	}
	return s, nil
}

// ScoreEmails parses the thread and scores it.
func (s *Scorer) ScoreEmails(ctx context.Context, realtorEmail string, emails []Email) (int, error) {
	return s.Score(ctx, ParseEmails(realtorEmail, emails, s.InternalDomain))
}

// Score sends the EV instruction followed by messages and parses the reply.
func (s *Scorer) Score(ctx context.Context, messages []Message) (int, error) {
	if len(messages) == 0 {
		return 0, errors.New("no emails to score")
	}
	msgs := make([]Message, 0, len(messages)+1)
	msgs = append(msgs, Message{Role: RoleSystem, Content: EVInstruction})
	msgs = append(msgs, messages...)

	raw, err := s.llm.Complete(ctx, Request{
		Model:     s.model,
		Messages:  msgs,
		MaxTokens: s.MaxTokens,
		Sampling:  s.sampling,
	})
	metrics.LLMRequests.WithLabelValues("ev", metrics.Outcome(err)).Inc()
	if err != nil {
		return 0, err
	}
	ev, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil || ev < 0 || ev > 100 {
		s.logger.Warn("unparseable ev reply", zap.String("reply", raw))
		return 0, fmt.Errorf("%w: %q", ErrInvalidScore, raw)
	}
	s.logger.Debug("ev scored", zap.Int("ev", ev), zap.Int("messages", len(messages)))
	return ev, nil
}
