package service

import (
	"errors"
	"fmt"

	"github.com/dussanclaurer/Licoreria/internal/model"
	"github.com/dussanclaurer/Licoreria/internal/repository"
	"github.com/dussanclaurer/Licoreria/pkg/validator"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name"`
	Role     string `json:"role" validate:"required,oneof=ADMIN CASHIER"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type UserService interface {
	CreateUser(req *CreateUserRequest, creatorID string) (*model.UserResponse, error)
	UpdateUser(id uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.UserResponse, error)
	DeleteUser(id uuid.UUID, deleterID string) error
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
	GetAllUsers() ([]model.UserResponse, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) CreateUser(req *CreateUserRequest, creatorID string) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// Username must be unique
	if existing, _ := s.users.FindByUsername(req.Username); existing != nil {
		return nil, errors.New("username already exists")
	}

	user := &model.User{
		Username: req.Username,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(id uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.UserResponse, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		if *req.Role != model.RoleAdmin && *req.Role != model.RoleCashier {
			return nil, errors.New("role must be ADMIN or CASHIER")
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	if err := s.users.Update(user); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) DeleteUser(id uuid.UUID, deleterID string) error {
	if _, err := s.users.FindByID(id); err != nil {
		return ErrUserNotFound
	}
	return s.users.Delete(id, deleterID)
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.users.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}
