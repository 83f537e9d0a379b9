package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/cardmart-next/internal/cache"
	"github.com/cardmart-next/internal/config"
	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/logger"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// SignUpInput 注册参数
type SignUpInput struct {
	Email    string
	Name     string
	Password string
}

// AuthService 注册、登录与令牌刷新
type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	tokens   *TokenService
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		cfg:      cfg,
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// SignUp 用户注册，默认授予 CUSTOMER 权限
func (s *AuthService) SignUp(input SignUpInput) (*models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name must not be blank", FieldError{Field: "name", Message: "must not be blank"})
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, newDetailError(ErrResourceAlreadyExists, "email is already registered",
			FieldError{Field: "email", Message: "already registered"})
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:                 email,
		Name:                  name,
		PasswordHash:          hash,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		Enabled:               true,
		Permissions:           models.StringArray{constants.PermissionCustomer},
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	logger.Infow("user_signed_up", "user_id", user.ID)
	return user, nil
}

// SignIn 用户登录并签发令牌对
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, unauthorizedError("bad credentials")
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !VerifyPassword(user.PasswordHash, password) {
		return nil, nil, unauthorizedError("bad credentials")
	}
	if !user.IsActive() {
		return nil, nil, unauthorizedError("account disabled")
	}

	pair, err := s.tokens.IssueTokenPair(user.Email, user.Permissions)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		logger.Ctx(ctx).Warnw("user_last_login_update_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now
	if err := cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user)); err != nil {
		logger.Ctx(ctx).Warnw("user_auth_state_cache_set_failed", "user_id", user.ID, "error", err)
	}
	return user, pair, nil
}

// Refresh 使用 Authorization 头中的刷新令牌换取新令牌对
func (s *AuthService) Refresh(authorization string) (*TokenPair, error) {
	return s.tokens.Refresh(authorization)
}

// LoadAuthState 按邮箱加载鉴权快照，缓存未命中时回源数据库
func (s *AuthService) LoadAuthState(ctx context.Context, email string) (*cache.UserAuthState, error) {
	state, hit, err := cache.GetUserAuthState(ctx, email)
	if err != nil {
		logger.Ctx(ctx).Warnw("user_auth_state_cache_get_failed", "error", err)
	}
	if hit && state != nil {
		return state, nil
	}
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	state = cache.BuildUserAuthState(user)
	if err := cache.SetUserAuthState(ctx, state); err != nil {
		logger.Ctx(ctx).Warnw("user_auth_state_cache_set_failed", "user_id", user.ID, "error", err)
	}
	return state, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", validationError("email must not be blank", FieldError{Field: "email", Message: "must not be blank"})
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", validationError("email is invalid", FieldError{Field: "email", Message: "must be a valid email address"})
	}
	return normalized, nil
}
