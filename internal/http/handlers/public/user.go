package public

import (
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UpdatePersonalInfoRequest 个人资料更新请求
type UpdatePersonalInfoRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// GetUser 获取用户资料
func (h *Handler) GetUser(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	user, err := h.UserService.Get(principal, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdatePersonalInfo 更新个人资料
func (h *Handler) UpdatePersonalInfo(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePersonalInfoRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	user, err := h.UserService.UpdatePersonalInfo(c.Request.Context(), principal, uid, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, user)
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.UserService.ChangePassword(c.Request.Context(), principal, uid, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	response.NoContent(c)
}
