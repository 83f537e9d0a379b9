package service

import (
	"strings"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/repository"
)

// ProductService 商品服务
type ProductService struct {
	repo          repository.ProductRepository
	typeRepo      repository.ProductTypeRepository
	inventoryRepo repository.InventoryRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, typeRepo repository.ProductTypeRepository, inventoryRepo repository.InventoryRepository) *ProductService {
	return &ProductService{repo: repo, typeRepo: typeRepo, inventoryRepo: inventoryRepo}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	ID            uint
	Name          string
	Description   string
	ProductTypeID uint
}

// ProductQuery 商品列表查询
type ProductQuery struct {
	PageQuery
	ProductTypeID uint
}

// List 商品分页列表
func (s *ProductService) List(q ProductQuery) ([]models.Product, int64, error) {
	filter, err := normalizePageQuery(q.PageQuery)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(repository.ProductListFilter{ListFilter: filter, ProductTypeID: q.ProductTypeID})
}

// Get 获取商品
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, notFoundError("product %d not found", id)
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(principal *authz.Principal, input ProductInput) (*models.Product, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	productType, err := s.validate(&input)
	if err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:          input.Name,
		Description:   input.Description,
		ProductTypeID: productType.ID,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	product.ProductType = productType
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(principal *authz.Principal, id uint, input ProductInput) (*models.Product, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	if err := checkPathID(id, input.ID); err != nil {
		return nil, err
	}
	productType, err := s.validate(&input)
	if err != nil {
		return nil, err
	}
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	product.Name = input.Name
	product.Description = input.Description
	product.ProductTypeID = productType.ID
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	product.ProductType = productType
	return product, nil
}

// Delete 删除商品，仍有库存条目引用时拒绝
func (s *ProductService) Delete(principal *authz.Principal, id uint) error {
	if err := authz.RequireAdmin(principal); err != nil {
		return err
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	count, err := s.inventoryRepo.CountByProduct(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return newDetailError(ErrDeleteAssociationConflict, "product is referenced by inventory items")
	}
	return s.repo.Delete(id)
}

func (s *ProductService) validate(input *ProductInput) (*models.ProductType, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	var fields []FieldError
	if input.Name == "" {
		fields = append(fields, blankField("name"))
	}
	if input.ProductTypeID == 0 {
		fields = append(fields, FieldError{Field: "productTypeId", Message: "must be positive"})
	}
	if err := fieldValidation(fields); err != nil {
		return nil, err
	}
	productType, err := s.typeRepo.GetByID(input.ProductTypeID)
	if err != nil {
		return nil, err
	}
	if productType == nil {
		return nil, notFoundError("product type %d not found", input.ProductTypeID)
	}
	return productType, nil
}
