package service

import (
	"pdf_quiz_backend/internal/model"
)

// UserService 处理用户相关的业务逻辑
type UserService struct {
	Users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{Users: users}
}

func (s *UserService) ListUsers() ([]model.User, error) {
	return s.Users.List()
}
