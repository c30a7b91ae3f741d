package generator

import (
	"context"
	"sync"
	"time"
)

// Session holds one realtor's information and every ad attempt made for it.
type Session struct {
	ID          string
	Information Information
	Ad          AdCopy
	History     []Attempt

	mu    sync.Mutex
	agent *Agent
}

// SessionView is a point-in-time copy of a Session, safe to serialize.
type SessionView struct {
	ID          string      `json:"session_id"`
	Information Information `json:"information"`
	Ad          AdCopy      `json:"ad"`
	History     []Attempt   `json:"history"`
}

// NewSession creates a session; nothing is generated yet.
func NewSession(id string, info Information, agent *Agent) *Session {
	return &Session{
		ID:          id,
		Information: info.Clone(),
		agent:       agent,
	}
}

// Propose generates the first ad.
func (s *Session) Propose(ctx context.Context) (AdCopy, error) {
	return s.run(ctx)
}

// Regenerate runs another full attempt from the base information.
func (s *Session) Regenerate(ctx context.Context) (AdCopy, error) {
	return s.run(ctx)
}

func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionView{
		ID:          s.ID,
		Information: s.Information.Clone(),
		Ad:          s.Ad,
		History:     append([]Attempt(nil), s.History...),
	}
}

func (s *Session) run(ctx context.Context) (AdCopy, error) {
	// each attempt starts without headlines from earlier ones
	s.mu.Lock()
	info := s.Information.Clone()
	s.mu.Unlock()

	ad, err := s.agent.GenerateAd(ctx, &info)
	attempt := Attempt{Ad: ad, CreatedAt: time.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		attempt.Error = err.Error()
		s.History = append(s.History, attempt)
		return AdCopy{}, err
	}
	s.Ad = ad
	s.History = append(s.History, attempt)
	return ad, nil
}
