package auth_test

import (
	"testing"

	auth "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
)

func TestLoginRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload auth.LoginRequest
		wantErr bool
	}{
		{
			name:    "Valid payload",
			payload: auth.LoginRequest{Email: "pep@example.com", Password: "super secret"},
		},
		{
			name:    "Missing email",
			payload: auth.LoginRequest{Password: "super secret"},
			wantErr: true,
		},
		{
			name:    "Not an email",
			payload: auth.LoginRequest{Email: "peperone", Password: "super secret"},
			wantErr: true,
		},
		{
			name:    "Missing password",
			payload: auth.LoginRequest{Email: "pep@example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterUserPayloadValidate(t *testing.T) {
	valid := auth.RegisterUserPayload{
		Username: "peperone",
		Email:    "pep@example.com",
		Password: "super secret",
	}

	tests := []struct {
		name    string
		mutate  func(p *auth.RegisterUserPayload)
		wantErr bool
	}{
		{
			name:   "Valid payload",
			mutate: func(p *auth.RegisterUserPayload) {},
		},
		{
			name:    "Missing username",
			mutate:  func(p *auth.RegisterUserPayload) { p.Username = "" },
			wantErr: true,
		},
		{
			name:    "Bad email",
			mutate:  func(p *auth.RegisterUserPayload) { p.Email = "nope" },
			wantErr: true,
		},
		{
			name:    "Short password",
			mutate:  func(p *auth.RegisterUserPayload) { p.Password = "short" },
			wantErr: true,
		},
		{
			name:    "Phone must be digits",
			mutate:  func(p *auth.RegisterUserPayload) { p.Phone = "555-1234-567" },
			wantErr: true,
		},
		{
			name:   "Valid phone",
			mutate: func(p *auth.RegisterUserPayload) { p.Phone = "5551234567" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := valid
			tt.mutate(&payload)

			err := payload.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdatePasswordPayloadValidate(t *testing.T) {
	assert.NoError(t, auth.UpdatePasswordPayload{
		OldPassword: "super secret",
		NewPassword: "even more secret",
	}.Validate())

	assert.Error(t, auth.UpdatePasswordPayload{
		NewPassword: "even more secret",
	}.Validate())

	assert.Error(t, auth.UpdatePasswordPayload{
		OldPassword: "super secret",
		NewPassword: "short",
	}.Validate())
}
