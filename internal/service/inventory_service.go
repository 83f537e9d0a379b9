package service

import (
	"errors"
	"strings"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/repository"
)

// InventoryService 库存条目服务
type InventoryService struct {
	repo        repository.InventoryRepository
	productRepo repository.ProductRepository
	cardRepo    repository.YugiohCardRepository
	cartRepo    repository.CartRepository
}

// NewInventoryService 创建库存服务
func NewInventoryService(repo repository.InventoryRepository, productRepo repository.ProductRepository, cardRepo repository.YugiohCardRepository, cartRepo repository.CartRepository) *InventoryService {
	return &InventoryService{repo: repo, productRepo: productRepo, cardRepo: cardRepo, cartRepo: cartRepo}
}

// InventoryInput 创建/更新库存条目输入，ProductID 与 YugiohCardID 必须且只能填写一个
type InventoryInput struct {
	ID           uint
	ProductID    *uint
	YugiohCardID *uint
	Version      string
	Condition    string
	Price        models.Money
	Quantity     int
}

// InventoryQuery 库存列表查询
type InventoryQuery struct {
	PageQuery
	ProductID    uint
	YugiohCardID uint
	InStockOnly  bool
}

// Ref 由输入构造库存引用
func (in InventoryInput) Ref() (models.InventoryRef, error) {
	hasProduct := in.ProductID != nil
	hasCard := in.YugiohCardID != nil
	switch {
	case hasProduct && !hasCard && *in.ProductID > 0:
		return models.ProductRef{ID: *in.ProductID}, nil
	case hasCard && !hasProduct && *in.YugiohCardID > 0:
		return models.CardRef{ID: *in.YugiohCardID}, nil
	default:
		return nil, models.ErrInventoryRefInvalid
	}
}

// List 库存分页列表
func (s *InventoryService) List(q InventoryQuery) ([]models.InventoryItem, int64, error) {
	filter, err := normalizePageQuery(q.PageQuery)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(repository.InventoryListFilter{
		ListFilter:   filter,
		ProductID:    q.ProductID,
		YugiohCardID: q.YugiohCardID,
		InStockOnly:  q.InStockOnly,
	})
}

// Get 获取库存条目
func (s *InventoryService) Get(id uint) (*models.InventoryItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFoundError("inventory item %d not found", id)
	}
	return item, nil
}

// Create 创建库存条目
func (s *InventoryService) Create(principal *authz.Principal, input InventoryInput) (*models.InventoryItem, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	item := &models.InventoryItem{}
	if err := s.apply(item, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update 更新库存条目
func (s *InventoryService) Update(principal *authz.Principal, id uint, input InventoryInput) (*models.InventoryItem, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	if err := checkPathID(id, input.ID); err != nil {
		return nil, err
	}
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(item, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 删除库存条目，仍在购物车中时拒绝
func (s *InventoryService) Delete(principal *authz.Principal, id uint) error {
	if err := authz.RequireAdmin(principal); err != nil {
		return err
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	count, err := s.cartRepo.CountByInventoryItem(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return newDetailError(ErrDeleteAssociationConflict, "inventory item is referenced by shopping cart items")
	}
	return s.repo.Delete(id)
}

func (s *InventoryService) apply(item *models.InventoryItem, input InventoryInput) error {
	var fields []FieldError
	ref, refErr := input.Ref()
	if refErr != nil {
		fields = append(fields, FieldError{Field: "productId", Message: "exactly one of productId or yugiohCardId is required"})
	}
	condition := strings.ToUpper(strings.TrimSpace(input.Condition))
	if condition == "" {
		fields = append(fields, blankField("condition"))
	} else if !containsString(constants.Conditions, condition) {
		fields = append(fields, FieldError{Field: "condition", Message: "must be one of " + strings.Join(constants.Conditions, ", ")})
	}
	if input.Price.IsNegative() {
		fields = append(fields, FieldError{Field: "price", Message: "must not be negative"})
	}
	if input.Quantity < 0 {
		fields = append(fields, FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if err := fieldValidation(fields); err != nil {
		return err
	}

	item.Product = nil
	item.YugiohCard = nil
	switch r := ref.(type) {
	case models.ProductRef:
		product, err := s.productRepo.GetByID(r.ID)
		if err != nil {
			return err
		}
		if product == nil {
			return notFoundError("product %d not found", r.ID)
		}
		item.Product = product
	case models.CardRef:
		card, err := s.cardRepo.GetByID(r.ID)
		if err != nil {
			return err
		}
		if card == nil {
			return notFoundError("yugioh card %d not found", r.ID)
		}
		item.YugiohCard = card
	}
	if err := item.SetRef(ref); err != nil {
		if errors.Is(err, models.ErrInventoryRefInvalid) {
			return validationError(err.Error())
		}
		return err
	}
	item.Version = strings.TrimSpace(input.Version)
	item.Condition = condition
	item.Price = models.NewMoneyFromDecimal(input.Price.Decimal)
	item.Quantity = input.Quantity
	return nil
}
