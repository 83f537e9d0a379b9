package public

import (
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SignUpRequest 注册请求
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInResponse 登录响应
type SignInResponse struct {
	*service.TokenPair
	UserID      uint     `json:"userId"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// SignUp 用户注册
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	user, err := h.AuthService.SignUp(service.SignUpInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, user)
}

// SignIn 用户登录，返回访问令牌与刷新令牌
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	user, pair, err := h.AuthService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, SignInResponse{
		TokenPair:   pair,
		UserID:      user.ID,
		Email:       user.Email,
		Permissions: user.Permissions,
	})
}

// Refresh 使用 Authorization 头中的刷新令牌换取新的令牌对
func (h *Handler) Refresh(c *gin.Context) {
	pair, err := h.AuthService.Refresh(c.GetHeader("Authorization"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, pair)
}
