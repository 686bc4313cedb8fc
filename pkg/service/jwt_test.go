package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "hr-system/pkg/errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secreto", time.Hour, 24*time.Hour, zap.NewNop())

	access, refresh, err := svc.GenerateTokens(42)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.False(t, claims.IsRefreshToken)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, claims.IsRefreshToken)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	access, _, err := NewJWTService("uno", time.Hour, time.Hour, zap.NewNop()).GenerateTokens(1)
	require.NoError(t, err)

	_, err = NewJWTService("dos", time.Hour, time.Hour, zap.NewNop()).ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	svc := NewJWTService("secreto", -time.Minute, time.Hour, zap.NewNop())
	access, _, err := svc.GenerateTokens(1)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}
