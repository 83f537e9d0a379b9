package service

import (
	"context"
	"strings"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/cache"
	"github.com/cardmart-next/internal/config"
	"github.com/cardmart-next/internal/logger"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/repository"
)

// UserService 用户资料服务
type UserService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(cfg *config.Config, userRepo repository.UserRepository) *UserService {
	return &UserService{cfg: cfg, userRepo: userRepo}
}

// Get 获取用户资料（本人或管理员）
func (s *UserService) Get(principal *authz.Principal, userID uint) (*models.User, error) {
	if err := authz.RequireSameUserOrAdmin(principal, userID); err != nil {
		return nil, err
	}
	return s.mustGet(userID)
}

// UpdatePersonalInfo 更新姓名（仅本人）
func (s *UserService) UpdatePersonalInfo(ctx context.Context, principal *authz.Principal, userID uint, name string) (*models.User, error) {
	if err := authz.RequireSameUser(principal, userID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name must not be blank", FieldError{Field: "name", Message: "must not be blank"})
	}
	user, err := s.mustGet(userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"name": name}); err != nil {
		return nil, err
	}
	user.Name = name
	s.dropAuthState(ctx, user)
	return user, nil
}

// ChangePassword 修改密码（仅本人，需校验旧密码）
func (s *UserService) ChangePassword(ctx context.Context, principal *authz.Principal, userID uint, oldPassword, newPassword string) error {
	if err := authz.RequireSameUser(principal, userID); err != nil {
		return err
	}
	user, err := s.mustGet(userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(user.PasswordHash, oldPassword) {
		return validationError("current password is incorrect", FieldError{Field: "oldPassword", Message: "does not match"})
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"password_hash": hash}); err != nil {
		return err
	}
	s.dropAuthState(ctx, user)
	logger.Ctx(ctx).Infow("user_password_changed", "user_id", user.ID)
	return nil
}

func (s *UserService) mustGet(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFoundError("user %d not found", userID)
	}
	return user, nil
}

func (s *UserService) dropAuthState(ctx context.Context, user *models.User) {
	if err := cache.DelUserAuthState(ctx, user.Email); err != nil {
		logger.Ctx(ctx).Warnw("user_auth_state_cache_del_failed", "user_id", user.ID, "error", err)
	}
}
