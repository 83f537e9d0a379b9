package public

import (
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAddresses 用户地址簿
func (h *Handler) ListAddresses(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	addresses, err := h.UserAddressService.List(principal, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, addresses)
}

// CreateAddress 新增地址
func (h *Handler) CreateAddress(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	var req service.AddressInput
	if !handlershared.BindJSON(c, &req) {
		return
	}
	address, err := h.UserAddressService.Create(principal, uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, address)
}

// UpdateAddress 修改地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	addressID, ok := handlershared.ParamUint(c, "address_id")
	if !ok {
		return
	}
	var req service.AddressInput
	if !handlershared.BindJSON(c, &req) {
		return
	}
	address, err := h.UserAddressService.Update(principal, uid, addressID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, address)
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	addressID, ok := handlershared.ParamUint(c, "address_id")
	if !ok {
		return
	}
	if err := h.UserAddressService.Delete(principal, uid, addressID); err != nil {
		respondError(c, err)
		return
	}
	response.NoContent(c)
}
