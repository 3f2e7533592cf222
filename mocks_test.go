package auth_test

import (
	"context"
	"sync"

	auth "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/mock"
)

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) TrackLastSeen(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	args := m.Called(ctx, identifier)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

// testIdentity implements auth.Identity
type testIdentity struct {
	id          string
	username    string
	email       string
	permissions []string
}

func (t testIdentity) ID() string            { return t.id }
func (t testIdentity) Username() string      { return t.username }
func (t testIdentity) Email() string         { return t.email }
func (t testIdentity) Permissions() []string { return t.permissions }

// testConfig implements auth.Config
type testConfig struct {
	signingKey    string
	tokenLifetime int
	issuer        string
	audience      []string
	authScheme    string
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:    "test-signing-key-keep-it-secret",
		tokenLifetime: 3600,
		issuer:        "go-identity-tests",
		authScheme:    "Bearer",
	}
}

func (c testConfig) GetSigningKey() string { return c.signingKey }
func (c testConfig) GetTokenLifetime() int { return c.tokenLifetime }
func (c testConfig) GetIssuer() string     { return c.issuer }
func (c testConfig) GetAudience() []string { return c.audience }
func (c testConfig) GetAuthScheme() string { return c.authScheme }

// captureLogger records Warn calls so guard denial reasons can be asserted
type captureLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *captureLogger) record(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, format)
}

func (l *captureLogger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

func (l *captureLogger) Debug(format string, args ...any) {}
func (l *captureLogger) Info(format string, args ...any)  {}
func (l *captureLogger) Warn(format string, args ...any)  { l.record(format) }
func (l *captureLogger) Error(format string, args ...any) {}
