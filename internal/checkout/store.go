package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"analog-alley-be/internal/pricing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// sessionTTL bounds how long an abandoned checkout lingers.
const sessionTTL = 30 * time.Minute

// Session is the working state of one checkout. Each user has at most
// one; starting a new checkout replaces the old session.
type Session struct {
	ID     uuid.UUID `json:"id"`
	UserID uint      `json:"user_id"`
	State  State     `json:"state"`

	AddressID     *uuid.UUID `json:"address_id,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`

	// Quote is recomputed on every read and mutation so the client
	// never sees a total the cart no longer supports.
	Quote pricing.Quote `json:"quote"`

	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	OrderNumber string     `json:"order_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore persists checkout sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, sess *Session) error
	// Get returns nil, nil when the user has no session.
	Get(ctx context.Context, userID uint) (*Session, error)
	Delete(ctx context.Context, userID uint) error
}

type redisStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) SessionStore {
	return &redisStore{client: client}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("checkout:session:%d", userID)
}

func (s *redisStore) Save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	// TTL is anchored to the session's own expiry so saves during the
	// flow do not extend its lifetime.
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	return s.client.Set(ctx, sessionKey(sess.UserID), payload, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, userID uint) (*Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, err
	}

	return &sess, nil
}

func (s *redisStore) Delete(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}
