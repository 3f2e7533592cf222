package auth_test

import (
	"testing"

	auth "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true, // bcrypt can hash empty strings!
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := auth.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			err = auth.ComparePasswordAndHash(tt.password, hash)
			assert.NoError(t, err)
		})
	}
}

func TestHashPasswordProducesUniqueDigests(t *testing.T) {
	first, err := auth.HashPassword("same input")
	require.NoError(t, err)

	second, err := auth.HashPassword("same input")
	require.NoError(t, err)

	// bcrypt salts every digest, so the same input never repeats
	assert.NotEqual(t, first, second)

	assert.NoError(t, auth.ComparePasswordAndHash("same input", first))
	assert.NoError(t, auth.ComparePasswordAndHash("same input", second))
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  bool
	}{
		{
			name:     "Matching password",
			password: "correct horse battery staple",
			hash:     hash,
			wantErr:  false,
		},
		{
			name:     "Wrong password",
			password: "incorrect horse",
			hash:     hash,
			wantErr:  true,
		},
		{
			name:     "Malformed digest",
			password: "correct horse battery staple",
			hash:     "not-a-bcrypt-digest",
			wantErr:  true,
		},
		{
			name:     "Empty digest",
			password: "correct horse battery staple",
			hash:     "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ComparePasswordAndHash(tt.password, tt.hash)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			// every failure mode maps to the same sentinel
			assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
		})
	}
}

func TestRandomPasswordHash(t *testing.T) {
	hash := auth.RandomPasswordHash()
	assert.NotEmpty(t, hash)

	other := auth.RandomPasswordHash()
	assert.NotEqual(t, hash, other)
}
