package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	token, expiresAt, err := svc.GenerateAccessToken("user-1", user.RoleAccountant)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(15*time.Minute).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "accountant", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")

	_, _, err := svc.GenerateAccessToken("user-1", user.RoleAdmin)
	assert.Error(t, err)
}

func TestActorFromContext(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")
	token, _, err := svc.GenerateAccessToken("user-7", user.RoleHR)
	require.NoError(t, err)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	actor, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-7", actor.UserID)
	assert.Equal(t, user.RoleHR, actor.Role)
}

func TestActorFromContext_NoToken(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}
