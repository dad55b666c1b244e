// Package auth handles registration, login and token issuance.
package auth

import (
	"strings"

	"ledgerpay/internal/errors"
	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories"
	"ledgerpay/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest creates a new user.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest authenticates a user by email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued tokens and a user view.
type LoginResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type Service interface {
	Register(req RegisterRequest) (*models.User, error)
	Login(req LoginRequest) (*LoginResponse, error)
	GetUserByID(id uint) (*models.User, error)
}

type service struct {
	repo      repositories.UserRepository
	jwtSecret string
}

func NewService(repo repositories.UserRepository, jwtSecret string) Service {
	if repo == nil {
		panic("user repository is required")
	}
	if jwtSecret == "" {
		panic("jwt secret is required")
	}
	return &service{repo: repo, jwtSecret: jwtSecret}
}

func (s *service) Register(req RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	user := &models.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Login(req LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.FindByEmail(req.Email)
	if err != nil {
		// Absent user and wrong password are indistinguishable.
		return nil, errors.Unauthorized("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, errors.Unauthorized("invalid credentials")
	}

	claims := &models.UserClaims{UserID: user.ID, Email: user.Email}
	access, refresh, err := utils.GenerateTokens(claims, s.jwtSecret)
	if err != nil {
		return nil, errors.Internal("failed to issue tokens")
	}

	return &LoginResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *service) GetUserByID(id uint) (*models.User, error) {
	return s.repo.FindByID(id)
}
