package service_test

import (
	"context"
	"net/http"
	"testing"

	"redecell/internal/apierror"
	"redecell/internal/auth"
	"redecell/internal/config"
	"redecell/internal/dto"
	"redecell/internal/model"
	"redecell/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (service.AuthService, *stubUserRepo, *model.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{ID: uuid.New(), Name: "Ana", Email: "ana@redecell.com.br", PasswordHash: string(hash), IsActive: true}
	repo := &stubUserRepo{
		users: map[string]*model.User{user.Email: user},
		principals: map[uuid.UUID]*auth.Principal{
			user.ID: {UserID: user.ID, Name: user.Name, Email: user.Email, Role: "caixa", Permissions: []string{auth.PermCashierOperate}},
		},
	}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 2}
	return service.NewAuthService(repo, cfg), repo, user
}

func TestAuth_Login(t *testing.T) {
	svc, _, user := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "senha123"})
	require.NoError(t, err)

	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 7200, resp.ExpiresIn)
	assert.Equal(t, []string{auth.PermCashierOperate}, resp.User.Permissions)

	sub, err := auth.ParseToken("test-secret", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sub)
}

func TestAuth_LoginRejected(t *testing.T) {
	svc, repo, user := newAuthFixture(t)
	inactive := *user
	inactive.Email = "inativo@redecell.com.br"
	inactive.IsActive = false
	repo.users[inactive.Email] = &inactive

	cases := map[string]dto.LoginRequest{
		"unknown email":  {Email: "ninguem@redecell.com.br", Password: "senha123"},
		"wrong password": {Email: user.Email, Password: "errada"},
		"inactive user":  {Email: inactive.Email, Password: "senha123"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), req)
			assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))
			assert.Equal(t, "Credenciais inválidas", err.Error())
		})
	}
}

func TestPrincipalToResponse_NeverNullPermissions(t *testing.T) {
	resp := service.PrincipalToResponse(&auth.Principal{UserID: uuid.New(), Role: auth.RoleAdmin})
	assert.NotNil(t, resp.Permissions)
	assert.Empty(t, resp.Permissions)
}
