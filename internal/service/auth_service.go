package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/model"
	"missionforge-backend/internal/repository"
)

// AuthService interface
type AuthService interface {
	Register(user *model.User) error
	Login(email, password string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService initializes authentication service
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" {
		return apperror.InvalidArgument("email is required")
	}
	if user.Password == "" {
		return apperror.InvalidArgument("password cannot be empty")
	}

	existing, err := s.userRepo.GetUserByEmail(user.Email)
	if err != nil {
		return apperror.DataStore("failed to check existing user", err)
	}
	if existing != nil {
		return apperror.Conflict("email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.DataStore("failed to hash password", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.CreateUser(user); err != nil {
		return apperror.DataStore("failed to store user", err)
	}
	return nil
}

func (s *authService) Login(email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, apperror.DataStore("failed to look up user", err)
	}
	if user == nil {
		return nil, apperror.Unauthenticated("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.Unauthenticated("invalid credentials")
	}

	user.Password = ""
	return user, nil
}
