package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrada-events/backend/internal/rbac"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", 168, false)
	id := Identity{
		UserID:    uuid.New(),
		Email:     "admin@example.com",
		Role:      rbac.RoleAdmin,
		CompanyID: uuid.New(),
	}

	token, err := svc.Generate(id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", 1, false).Generate(Identity{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 1, false).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -1, false)
	token, err := svc.Generate(Identity{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", 1, false)
	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentitySurvivesRoundTripWithNilCompany(t *testing.T) {
	svc := NewJWTService("test-secret", 168, false)
	id := Identity{UserID: uuid.New(), Email: "root@example.com", Role: rbac.RoleSuperAdmin}

	token, err := svc.Generate(id)
	require.NoError(t, err)
	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, claims.CompanyID)
	assert.Equal(t, rbac.RoleSuperAdmin, claims.Role)
}
