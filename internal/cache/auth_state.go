package cache

import (
	"context"
	"strings"
	"time"

	"github.com/cardmart-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// UserAuthState 用户鉴权快照，JWT 中间件据此判断账号状态与权限，避免每次请求查库
type UserAuthState struct {
	UserID      uint     `json:"user_id"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
	Active      bool     `json:"active"`
	UpdatedAt   int64    `json:"updated_at"`
}

func userAuthStateKey(email string) string {
	return "auth:user:" + strings.ToLower(strings.TrimSpace(email))
}

// BuildUserAuthState 从用户模型构建鉴权快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:      user.ID,
		Email:       user.Email,
		Permissions: append([]string{}, user.Permissions...),
		Active:      user.IsActive(),
		UpdatedAt:   time.Now().Unix(),
	}
}

// GetUserAuthState 获取用户鉴权快照
func GetUserAuthState(ctx context.Context, email string) (*UserAuthState, bool, error) {
	if strings.TrimSpace(email) == "" {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, userAuthStateKey(email), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入用户鉴权快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 || state.Email == "" {
		return nil
	}
	return SetJSON(ctx, userAuthStateKey(state.Email), state, authStateCacheTTL)
}

// DelUserAuthState 删除用户鉴权快照
func DelUserAuthState(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return Del(ctx, userAuthStateKey(email))
}
