package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/go-redis/redis/v8"

	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

const (
	sessionPrefix   = "stayhub:session:"
	userIndexPrefix = "stayhub:user_sessions:"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(opts Options) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// SessionStore keeps sessions as JSON values that expire with the session.
// A per-user set indexes tokens for DeleteByUser.
type SessionStore struct {
	client *goredis.Client
	Now    func() time.Time
}

func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil || session.Token == "" {
		return domainauth.ErrTokenRequired
	}
	ttl := session.TTL(s.now())
	if ttl <= 0 {
		return domainauth.ErrTTLInvalid
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	indexKey := userIndexKey(session.UserID)
	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, sessionKey(session.Token), payload, ttl)
		p.SAdd(ctx, indexKey, string(session.Token))
		p.Expire(ctx, indexKey, ttl)
		return nil
	})
	return err
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domainauth.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session domainauth.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, domainauth.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	session, err := s.Get(ctx, token)
	if errors.Is(err, domainauth.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, sessionKey(token))
		p.SRem(ctx, userIndexKey(session.UserID), string(token))
		return nil
	})
	return err
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	indexKey := userIndexKey(userID)
	tokens, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, sessionKey(domainauth.Token(t)))
	}
	keys = append(keys, indexKey)
	return s.client.Del(ctx, keys...).Err()
}

// PurgeExpired is a no-op: Redis expires keys itself.
func (s *SessionStore) PurgeExpired(context.Context) (int, error) {
	return 0, nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func sessionKey(token domainauth.Token) string {
	return sessionPrefix + string(token)
}

func userIndexKey(id domainuser.ID) string {
	return userIndexPrefix + string(id)
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
