package service

import (
	"context"
	"errors"

	"github.com/reelhub/reelhub/internal/model"
	"github.com/reelhub/reelhub/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, &Error{Kind: KindNotFound, Message: "User not found", Err: err}
	}
	if err != nil {
		return nil, persistenceError(err)
	}
	return user, nil
}
