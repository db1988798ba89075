package app

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tripscout/internal/domain"
)

// AllowedModels is the set a session may be created with; the agent
// adapter decides what the name maps to upstream.
var AllowedModels = map[string]struct{}{
	"gpt-4o-mini":  {},
	"gpt-4o":       {},
	"gpt-4.1-mini": {},
}

func IsAllowedModel(m string) bool {
	_, ok := AllowedModels[m]
	return ok
}

// ChatService wraps the agent with session bookkeeping: history in, both
// sides of the exchange persisted.
type ChatService struct {
	repo  domain.SessionRepository
	agent domain.Agent
}

func NewChatService(repo domain.SessionRepository, agent domain.Agent) *ChatService {
	return &ChatService{repo: repo, agent: agent}
}

func (s *ChatService) CreateSession(ctx context.Context, model string) (domain.Session, error) {
	sess := domain.Session{ID: newSessionID(), Model: model}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	log.Info().Str("session", sess.ID).Str("model", model).Msg("session created")
	return sess, nil
}

func (s *ChatService) GetSession(ctx context.Context, id string) (domain.Session, error) {
	return s.repo.GetSession(ctx, id)
}

func (s *ChatService) ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, sessionID)
}

// Chat runs one exchange. The session is created on the fly when the
// caller brings its own ID.
func (s *ChatService) Chat(ctx context.Context, sessionID, userMessage, model string) (string, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return "", err
		}
		if cerr := s.repo.CreateSession(ctx, domain.Session{ID: sessionID, Model: model}); cerr != nil && !errors.Is(cerr, domain.ErrSessionExists) {
			return "", fmt.Errorf("ensure session: %w", cerr)
		}
	}

	history, err := s.repo.ListMessages(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	log.Info().Str("session", sessionID).Int("history", len(history)).Msg("chat request")

	if err := s.repo.SaveMessage(ctx, sessionID, domain.Message{Role: "user", Content: userMessage}); err != nil {
		return "", fmt.Errorf("save user message: %w", err)
	}

	answer, err := s.agent.Reply(ctx, history, userMessage)
	if err != nil {
		return "", fmt.Errorf("agent reply: %w", err)
	}

	if err := s.repo.SaveMessage(ctx, sessionID, domain.Message{Role: "assistant", Content: answer}); err != nil {
		// The answer exists; losing the persistence is worth a log, not a failure.
		log.Error().Str("session", sessionID).Err(err).Msg("save assistant message failed")
	}
	log.Info().Str("session", sessionID).Int("answer_len", len(answer)).Msg("chat completed")
	return answer, nil
}

func newSessionID() string {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing is effectively fatal elsewhere too; fall back
		// to a fixed-prefix zero ID rather than panicking.
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(b[:])
}
