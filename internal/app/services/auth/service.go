package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"stayhub/internal/app/policies"
	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
	ErrUserBlocked        = errors.New("auth: user blocked")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

// Service issues opaque session tokens for hosts and admins.
type Service struct {
	Users      domainuser.Repository
	Sessions   domainauth.SessionStore
	Passwords  PasswordHasher
	Tokens     TokenGenerator
	SessionTTL time.Duration
	Logger     *slog.Logger
}

type CreateUserParams struct {
	Email    string `validate:"required,email"`
	Name     string `validate:"required"`
	Password string `validate:"required"`
}

type LoginParams struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type AuthResult struct {
	User  *domainuser.User
	Token string
}

type ResolveResult struct {
	User    *domainuser.User
	Session *domainauth.Session
}

// CreateHost registers a host account. Only admins may call it.
func (s *Service) CreateHost(ctx context.Context, params CreateUserParams) (*domainuser.User, error) {
	principal, ok := domainauth.PrincipalFromContext(ctx)
	if !ok {
		return nil, policies.ErrUnauthenticated
	}
	if !principal.IsAdmin() {
		return nil, policies.ErrForbidden
	}
	u, err := s.createUser(ctx, params, []domainuser.Role{domainuser.RoleHost})
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("host created", "user_id", u.ID, "by", principal.UserID)
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap admin when the email is not taken yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return nil
	}
	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return err
	}
	u, err := s.createUser(ctx, CreateUserParams{Email: email, Name: "Administrator", Password: password}, []domainuser.Role{domainuser.RoleAdmin, domainuser.RoleHost})
	if err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("bootstrap admin created", "user_id", u.ID, "email", u.Email)
	}
	return nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.Blocked {
		return nil, ErrUserBlocked
	}
	if err := s.Passwords.Compare(u.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user authenticated", "user_id", u.ID)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, domainauth.Token(token))
}

func (s *Service) ResolveToken(ctx context.Context, token string) (*ResolveResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainauth.ErrTokenRequired
	}
	session, err := s.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByID(ctx, session.UserID)
	if err != nil {
		_ = s.Sessions.Delete(ctx, session.Token)
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	if u.Blocked {
		_ = s.Sessions.DeleteByUser(ctx, u.ID)
		return nil, ErrUserBlocked
	}
	return &ResolveResult{User: u, Session: session}, nil
}

func (s *Service) createUser(ctx context.Context, params CreateUserParams, roles []domainuser.Role) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(params.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	u, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) issueSession(ctx context.Context, u *domainuser.User) (string, error) {
	token, err := s.Tokens.NewToken()
	if err != nil {
		return "", err
	}
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  domainauth.Token(token),
		UserID: u.ID,
		Roles:  append([]domainuser.Role(nil), u.Roles...),
		TTL:    s.sessionTTL(),
		Now:    time.Now(),
	})
	if err != nil {
		return "", err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Users == nil:
		return errors.New("auth: user repository required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token generator required")
	default:
		return nil
	}
}
