package generator

import (
	"context"
	"errors"
	"strings"
)

// MockLLM is an offline stand-in that never calls a model. Ad prompts get the
// first line of the user input cut to MaxTokens characters; EV prompts get a
// fixed middle score.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, req Request) (string, error) {
	if len(req.Messages) == 0 {
		return "", errors.New("completion request has no messages")
	}
	if req.Messages[0].Content == EVInstruction {
		return "50", nil
	}
	var user string
	for _, msg := range req.Messages {
		if msg.Role == RoleUser {
			user = msg.Content
			break
		}
	}
	line := strings.TrimSpace(strings.SplitN(user, "\n", 2)[0])
	if r := []rune(line); req.MaxTokens > 0 && len(r) > req.MaxTokens {
		line = strings.TrimSpace(string(r[:req.MaxTokens]))
	}
	return line, nil
}
