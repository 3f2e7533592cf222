package auth

import (
	"context"
	"reflect"
)

type Auther struct {
	provider      IdentityProvider
	signingKey    []byte
	tokenLifetime int
	issuer        string
	audience      []string
	logger        Logger
	tokenService  TokenService
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenLifetime(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:      provider,
		signingKey:    []byte(opts.GetSigningKey()),
		tokenLifetime: opts.GetTokenLifetime(),
		audience:      opts.GetAudience(),
		issuer:        opts.GetIssuer(),
		logger:        defLogger{},
		tokenService:  tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// Update the TokenService logger as well
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenLifetime,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// WithTokenService sets a custom token service
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	s.tokenService = ts
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials and mints a token for the identity. Credential
// failures pass through as the collapsed auth sentinel; the transport layer
// converts those into the single generic message.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	var err error
	var identity Identity

	if identity, err = s.provider.VerifyIdentity(ctx, identifier, password); err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrMismatchedHashAndPassword
	}

	return s.tokenService.Generate(identity)
}

// IdentityFromToken validates a token and resolves it back to a live,
// enabled identity. The account is re-checked against the store on every
// call, so disabling an account revokes access immediately regardless of the
// token's remaining lifetime.
func (s *Auther) IdentityFromToken(ctx context.Context, token string) (Identity, error) {
	identity, _, err := s.ResolveToken(ctx, token)
	return identity, err
}

// ResolveToken is IdentityFromToken plus the validated claims, for transports
// that want both in one pass.
func (s *Auther) ResolveToken(ctx context.Context, token string) (Identity, AuthClaims, error) {
	claims, err := s.tokenService.Validate(token)
	if err != nil {
		s.logger.Error("ResolveToken validation failed", "error", err)
		return nil, nil, err
	}

	identity, err := s.provider.FindIdentityByIdentifier(ctx, claims.Email())
	if err != nil {
		s.logger.Error("ResolveToken identity lookup failed", "error", err)
		return nil, nil, err
	}

	return identity, claims, nil
}

// RefreshToken exchanges a valid bearer token for a freshly minted one. The
// old token stays valid until its own expiry; there is no revocation list.
func (s *Auther) RefreshToken(ctx context.Context, token string) (string, error) {
	identity, _, err := s.ResolveToken(ctx, token)
	if err != nil {
		return "", err
	}

	return s.tokenService.Generate(identity)
}

var _ Authenticator = (*Auther)(nil)
