package service

import (
	"strings"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/repository"
)

// ProductTypeService 商品类型服务
type ProductTypeService struct {
	repo        repository.ProductTypeRepository
	productRepo repository.ProductRepository
}

// NewProductTypeService 创建商品类型服务
func NewProductTypeService(repo repository.ProductTypeRepository, productRepo repository.ProductRepository) *ProductTypeService {
	return &ProductTypeService{repo: repo, productRepo: productRepo}
}

// ProductTypeInput 创建/更新商品类型输入
type ProductTypeInput struct {
	ID          uint
	Name        string
	Description string
}

// List 商品类型分页列表
func (s *ProductTypeService) List(q PageQuery) ([]models.ProductType, int64, error) {
	filter, err := normalizePageQuery(q)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(filter)
}

// Get 获取商品类型
func (s *ProductTypeService) Get(id uint) (*models.ProductType, error) {
	productType, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if productType == nil {
		return nil, notFoundError("product type %d not found", id)
	}
	return productType, nil
}

// Create 创建商品类型
func (s *ProductTypeService) Create(principal *authz.Principal, input ProductTypeInput) (*models.ProductType, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fieldValidation([]FieldError{blankField("name")})
	}
	if err := s.ensureNameFree(name, 0); err != nil {
		return nil, err
	}
	productType := &models.ProductType{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.repo.Create(productType); err != nil {
		return nil, err
	}
	return productType, nil
}

// Update 更新商品类型
func (s *ProductTypeService) Update(principal *authz.Principal, id uint, input ProductTypeInput) (*models.ProductType, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	if err := checkPathID(id, input.ID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fieldValidation([]FieldError{blankField("name")})
	}
	productType, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(name, id); err != nil {
		return nil, err
	}
	productType.Name = name
	productType.Description = strings.TrimSpace(input.Description)
	if err := s.repo.Update(productType); err != nil {
		return nil, err
	}
	return productType, nil
}

// Delete 删除商品类型，仍被商品引用时拒绝
func (s *ProductTypeService) Delete(principal *authz.Principal, id uint) error {
	if err := authz.RequireAdmin(principal); err != nil {
		return err
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	count, err := s.productRepo.CountByProductType(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return newDetailError(ErrDeleteAssociationConflict, "product type is referenced by existing products")
	}
	return s.repo.Delete(id)
}

func (s *ProductTypeService) ensureNameFree(name string, excludeID uint) error {
	count, err := s.repo.CountByName(name, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return newDetailError(ErrResourceAlreadyExists, "product type name already exists",
			FieldError{Field: "name", Message: "already exists"})
	}
	return nil
}
