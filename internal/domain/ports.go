package domain

import (
	"context"
	"time"
)

// PlaceProvider is one external review API. Adapters return NotFoundError
// when no candidate matches, ValidationError on a bad query, and
// UpstreamError for everything transport-shaped.
type PlaceProvider interface {
	Name() string
	SearchAndFetchReviews(ctx context.Context, query string, locationHint string) (PlaceResult, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	ListMessages(ctx context.Context, sessionID string) ([]Message, error)
	SaveMessage(ctx context.Context, sessionID string, m Message) error
}

// Cache holds rendered review summaries keyed by query and location hint.
// There is no invalidation operation: entries only age out via TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
}

// Agent is the reasoning engine. It receives the conversation so far plus
// the new user message and returns the final assistant text; tool execution
// happens behind this interface.
type Agent interface {
	Reply(ctx context.Context, history []Message, userMessage string) (string, error)
}
