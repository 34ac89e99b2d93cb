package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/avdeyev/bookhub/internal/errs"
	"github.com/avdeyev/bookhub/internal/model"
	"github.com/avdeyev/bookhub/internal/repository"
	"github.com/avdeyev/bookhub/pkg/auth"
)

const tokenTTL = 24 * time.Hour

type AuthService struct {
	log           *zap.Logger
	repo          repository.Repository
	adminUsername string
}

func NewAuthService(repo repository.Repository, adminUsername string, log *zap.Logger) *AuthService {
	return &AuthService{
		log:           log.Named("auth"),
		repo:          repo,
		adminUsername: adminUsername,
	}
}

func (s *AuthService) Register(ctx context.Context, req model.UserCreateRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}

	user, err := s.repo.CreateUser(ctx, model.User{
		Username: req.Username,
		Password: string(hash),
		IsAdmin:  req.Username == s.adminUsername,
		Phone:    req.Phone,
	})
	if err != nil {
		return model.User{}, err
	}
	s.log.Info("user registered", zap.Int("id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}

	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	claims.Profile.UserID = user.ID
	claims.Profile.Username = user.Username
	claims.Profile.IsAdmin = user.IsAdmin

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(auth.JWTKey)
	if err != nil {
		return model.AuthResponse{}, errors.Wrap(err, "sign token")
	}

	return model.AuthResponse{Token: signed, User: user}, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}
