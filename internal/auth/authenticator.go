package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Auther turns verified credentials into token pairs. It owns no HTTP
// concerns; cookie handling lives in the server layer.
type Auther struct {
	provider IdentityProvider
	tokens   *TokenService
	logger   Logger
}

// NewAuthenticator returns a new Auther backed by the given identity store.
func NewAuthenticator(provider IdentityProvider, tokens *TokenService) *Auther {
	return &Auther{
		provider: provider,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Auther
func (s *Auther) TokenService() *TokenService {
	return s.tokens
}

// Login verifies the credentials and mints an access/refresh pair. Every
// verification failure surfaces as ErrInvalidCredentials so callers cannot
// tell unknown emails, wrong passwords, and unverified accounts apart.
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, Identity, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Info("login rejected", "email", email, "error", err)
		if goerrors.Is(err, ErrTooManyLoginAttempts) {
			return nil, nil, ErrTooManyLoginAttempts
		}
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(identity)
	if err != nil {
		return nil, nil, err
	}

	return pair, identity, nil
}

// Refresh verifies the refresh token and mints a fresh pair. The refresh
// token is rotated on every use; the role is taken from the refresh claims,
// so a role change propagates here.
func (s *Auther) Refresh(raw string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(raw)
	if err != nil {
		s.logger.Info("refresh token rejected", "error", err)
		return nil, err
	}

	return s.issuePair(claimsIdentity{claims: claims})
}

func (s *Auther) issuePair(identity Identity) (*TokenPair, error) {
	access, accessExp, err := s.tokens.IssueAccess(identity)
	if err != nil {
		s.logger.Error("failed to issue access token", "error", err)
		return nil, err
	}

	refresh, refreshExp, err := s.tokens.IssueRefresh(identity)
	if err != nil {
		s.logger.Error("failed to issue refresh token", "error", err)
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp.Unix(),
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp.Unix(),
	}, nil
}
