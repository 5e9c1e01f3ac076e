package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

// UserRepository stores dashboard accounts in memory.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domainuser.ID]*domainuser.User
	byEmail map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domainuser.ID]*domainuser.User),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byEmail[domainuser.NormalizeEmail(email)]; ok {
		return cloneUser(r.byID[id]), nil
	}
	return nil, domainuser.ErrNotFound
}

// Save inserts or replaces u. An email owned by another account is rejected.
func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	if u == nil || strings.TrimSpace(string(u.ID)) == "" {
		return domainuser.ErrIDRequired
	}
	email := domainuser.NormalizeEmail(u.Email)
	if email == "" {
		return domainuser.ErrEmailRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.byEmail[email]; ok && owner != u.ID {
		return domainuser.ErrEmailAlreadyUsed
	}
	if prev, ok := r.byID[u.ID]; ok && prev.Email != email {
		delete(r.byEmail, prev.Email)
	}
	stored := cloneUser(u)
	stored.Email = email
	r.byEmail[email] = u.ID
	r.byID[u.ID] = stored
	return nil
}

func cloneUser(u *domainuser.User) *domainuser.User {
	cp := *u
	cp.Roles = append([]domainuser.Role(nil), u.Roles...)
	return &cp
}

// SessionStore keeps bearer sessions in memory. Expired sessions are
// invisible to Get and removed by PurgeExpired.
type SessionStore struct {
	Now func() time.Time

	mu     sync.RWMutex
	tokens map[domainauth.Token]*domainauth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{tokens: make(map[domainauth.Token]*domainauth.Session)}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil || session.Token == "" {
		return domainauth.ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[session.Token] = cloneSession(session)
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.tokens[token]
	if !ok || session.Expired(s.now()) {
		return nil, domainauth.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.tokens {
		if session.UserID == userID {
			delete(s.tokens, token)
		}
	}
	return nil
}

// PurgeExpired drops sessions expired at the current time.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for token, session := range s.tokens {
		if session.Expired(now) {
			delete(s.tokens, token)
			purged++
		}
	}
	return purged, nil
}

func (s *SessionStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func cloneSession(s *domainauth.Session) *domainauth.Session {
	cp := *s
	cp.Roles = append([]domainuser.Role(nil), s.Roles...)
	return &cp
}

var (
	_ domainuser.Repository   = (*UserRepository)(nil)
	_ domainauth.SessionStore = (*SessionStore)(nil)
)
