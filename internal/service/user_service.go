package service

import (
	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/model"
	"missionforge-backend/internal/repository"
)

type UserService interface {
	GetProfile(userID uint) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}
	user.Password = ""
	return user, nil
}
