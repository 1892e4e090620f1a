package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/haulstead/dispatch-backend/pkg/auth"
	"github.com/haulstead/dispatch-backend/pkg/config"
	"github.com/haulstead/dispatch-backend/pkg/db/models"
	"github.com/haulstead/dispatch-backend/pkg/enums"
	pkgerrors "github.com/haulstead/dispatch-backend/pkg/errors"
	"github.com/haulstead/dispatch-backend/pkg/security"
)

type stubUserRepo struct {
	user *models.User
}

func (s stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "hauler-dispatch",
		ExpirationMinutes: 30,
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()

	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	return hash
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()

	return &models.User{
		ID:           uuid.New(),
		Email:        "dana@haulstead.test",
		PasswordHash: mustHash(t, password),
		FirstName:    "Dana",
		LastName:     "Wells",
		Role:         enums.UserRoleOffice,
		IsActive:     true,
	}
}

func TestLogin_MintsTokenWithRoleClaim(t *testing.T) {
	cfg := testJWTConfig()
	user := activeUser(t, "topsoil-route-9")
	svc, err := NewService(stubUserRepo{user: user}, cfg)
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "topsoil-route-9",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, enums.UserRoleOffice, resp.User.Role)

	claims, err := pkgauth.ParseAccessToken(cfg, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleOffice, claims.Role)
	assert.Equal(t, "Dana Wells", claims.Name)
}

func TestLogin_UniformInvalidCredentials(t *testing.T) {
	cfg := testJWTConfig()
	user := activeUser(t, "topsoil-route-9")
	svc, err := NewService(stubUserRepo{user: user}, cfg)
	require.NoError(t, err)

	cases := []LoginRequest{
		{Email: "nobody@haulstead.test", Password: "topsoil-route-9"},
		{Email: user.Email, Password: "wrong"},
		{Email: user.Email, Password: ""},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		require.Error(t, err)
		coded := pkgerrors.As(err)
		require.NotNil(t, coded)
		assert.Equal(t, pkgerrors.CodeUnauthorized, coded.Code())
		assert.Equal(t, invalidCredentialsMessage, coded.Message())
	}
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	user := activeUser(t, "topsoil-route-9")
	user.IsActive = false
	svc, err := NewService(stubUserRepo{user: user}, testJWTConfig())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "topsoil-route-9"})
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeUnauthorized, coded.Code())
}
