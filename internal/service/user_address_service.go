package service

import (
	"strings"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/repository"
)

// AddressInput 地址参数（用户地址与订单地址共用）
type AddressInput struct {
	FullName   string `json:"fullName"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// validateAddress 校验必填字段，field 为错误路径前缀
func validateAddress(field string, input *AddressInput) []FieldError {
	if input == nil {
		return []FieldError{{Field: field, Message: "is required"}}
	}
	var fields []FieldError
	required := []struct {
		name  string
		value string
	}{
		{"street", input.Street},
		{"city", input.City},
		{"zipCode", input.ZipCode},
		{"country", input.Country},
	}
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			fields = append(fields, FieldError{Field: field + "." + item.name, Message: "must not be blank"})
		}
	}
	return fields
}

// toAddressFields 去除首尾空白后转换为存储字段
func (a AddressInput) toAddressFields() models.AddressFields {
	return models.AddressFields{
		FullName:   strings.TrimSpace(a.FullName),
		Street:     strings.TrimSpace(a.Street),
		Number:     strings.TrimSpace(a.Number),
		Complement: strings.TrimSpace(a.Complement),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		ZipCode:    strings.TrimSpace(a.ZipCode),
		Country:    strings.TrimSpace(a.Country),
		Phone:      strings.TrimSpace(a.Phone),
	}
}

// UserAddressService 用户地址簿服务
type UserAddressService struct {
	repo repository.UserAddressRepository
}

// NewUserAddressService 创建用户地址服务
func NewUserAddressService(repo repository.UserAddressRepository) *UserAddressService {
	return &UserAddressService{repo: repo}
}

// List 地址列表
func (s *UserAddressService) List(principal *authz.Principal, userID uint) ([]models.UserAddress, error) {
	if err := authz.RequireSameUserOrAdmin(principal, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(userID)
}

// Create 新增地址
func (s *UserAddressService) Create(principal *authz.Principal, userID uint, input AddressInput) (*models.UserAddress, error) {
	if err := authz.RequireSameUserOrAdmin(principal, userID); err != nil {
		return nil, err
	}
	if err := fieldValidation(validateAddress("address", &input)); err != nil {
		return nil, err
	}
	address := &models.UserAddress{UserID: userID, AddressFields: input.toAddressFields()}
	if err := s.repo.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

// Update 更新地址
func (s *UserAddressService) Update(principal *authz.Principal, userID, addressID uint, input AddressInput) (*models.UserAddress, error) {
	if err := authz.RequireSameUserOrAdmin(principal, userID); err != nil {
		return nil, err
	}
	if err := fieldValidation(validateAddress("address", &input)); err != nil {
		return nil, err
	}
	address, err := s.repo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, notFoundError("address %d not found", addressID)
	}
	address.AddressFields = input.toAddressFields()
	if err := s.repo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

// Delete 删除地址
func (s *UserAddressService) Delete(principal *authz.Principal, userID, addressID uint) error {
	if err := authz.RequireSameUserOrAdmin(principal, userID); err != nil {
		return err
	}
	address, err := s.repo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return notFoundError("address %d not found", addressID)
	}
	return s.repo.Delete(addressID, userID)
}
