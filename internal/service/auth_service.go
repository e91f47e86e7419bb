package service

import (
	"context"
	"errors"
	"time"

	"redecell/internal/apierror"
	"redecell/internal/auth"
	"redecell/internal/config"
	"redecell/internal/dto"
	"redecell/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const msgInvalidCredentials = "Credenciais inválidas"

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// LoadPrincipal resolves the user behind a verified token.
	LoadPrincipal(ctx context.Context, userID uuid.UUID) (*auth.Principal, error)
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apierror.Unauthorized(msgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Unauthorized(msgInvalidCredentials)
	}

	principal, err := s.repo.LoadPrincipal(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	token, err := auth.IssueToken(s.cfg.JWTSecret, user.ID, ttl)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int(ttl.Seconds()),
		User:      PrincipalToResponse(principal),
	}, nil
}

func (s *authService) LoadPrincipal(ctx context.Context, userID uuid.UUID) (*auth.Principal, error) {
	return s.repo.LoadPrincipal(ctx, userID)
}

// PrincipalToResponse renders the authenticated user for /auth endpoints.
func PrincipalToResponse(p *auth.Principal) dto.UserResponse {
	perms := p.Permissions
	if perms == nil {
		perms = []string{}
	}
	return dto.UserResponse{
		ID:          p.UserID.String(),
		Name:        p.Name,
		Email:       p.Email,
		Role:        p.Role,
		Permissions: perms,
	}
}
