package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginAndValidate(t *testing.T) {
	svc := NewAuthService()

	resp, err := svc.Login("admin", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateAdminToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.AdminID, claims.AdminID)
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	svc := NewAuthService()

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("root", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_SessionTokenRoundTrip(t *testing.T) {
	svc := NewAuthService()

	token, err := svc.GenerateSessionToken("sess-1", "inpatient")
	require.NoError(t, err)

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "inpatient", claims.FormType)
}

func TestAuthService_TokensAreNotInterchangeable(t *testing.T) {
	svc := NewAuthService()

	_, err := svc.ValidateAdminToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateSessionToken("also.garbage.here")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
