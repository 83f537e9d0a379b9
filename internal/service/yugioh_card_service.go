package service

import (
	"strings"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/repository"
)

// YugiohCardService 游戏王卡牌服务
type YugiohCardService struct {
	repo          repository.YugiohCardRepository
	inventoryRepo repository.InventoryRepository
}

// NewYugiohCardService 创建卡牌服务
func NewYugiohCardService(repo repository.YugiohCardRepository, inventoryRepo repository.InventoryRepository) *YugiohCardService {
	return &YugiohCardService{repo: repo, inventoryRepo: inventoryRepo}
}

// YugiohCardInput 创建/更新卡牌输入
type YugiohCardInput struct {
	ID            uint
	Name          string
	Description   string
	CategoryID    uint
	TypeID        *uint
	Attribute     string
	Level         *int
	PendulumScale *int
	LinkValue     *int
	LinkArrows    []string
	Atk           *int
	Def           *int
}

// YugiohCardQuery 卡牌列表查询
type YugiohCardQuery struct {
	PageQuery
	CategoryID uint
	TypeID     uint
	Attribute  string
}

// List 卡牌分页列表
func (s *YugiohCardService) List(q YugiohCardQuery) ([]models.YugiohCard, int64, error) {
	filter, err := normalizePageQuery(q.PageQuery)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(repository.CardListFilter{
		ListFilter: filter,
		CategoryID: q.CategoryID,
		TypeID:     q.TypeID,
		Attribute:  strings.ToUpper(strings.TrimSpace(q.Attribute)),
	})
}

// Get 获取卡牌
func (s *YugiohCardService) Get(id uint) (*models.YugiohCard, error) {
	card, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, notFoundError("yugioh card %d not found", id)
	}
	return card, nil
}

// ListCategories 卡牌类别列表
func (s *YugiohCardService) ListCategories() ([]models.YugiohCardCategory, error) {
	return s.repo.ListCategories()
}

// ListTypes 卡牌种族列表
func (s *YugiohCardService) ListTypes() ([]models.YugiohCardType, error) {
	return s.repo.ListTypes()
}

// Create 创建卡牌
func (s *YugiohCardService) Create(principal *authz.Principal, input YugiohCardInput) (*models.YugiohCard, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	card := &models.YugiohCard{}
	if err := s.apply(card, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(card); err != nil {
		return nil, err
	}
	return card, nil
}

// Update 更新卡牌
func (s *YugiohCardService) Update(principal *authz.Principal, id uint, input YugiohCardInput) (*models.YugiohCard, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	if err := checkPathID(id, input.ID); err != nil {
		return nil, err
	}
	card, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(card, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(card); err != nil {
		return nil, err
	}
	return card, nil
}

// Delete 删除卡牌，仍有库存条目引用时拒绝
func (s *YugiohCardService) Delete(principal *authz.Principal, id uint) error {
	if err := authz.RequireAdmin(principal); err != nil {
		return err
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	count, err := s.inventoryRepo.CountByCard(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return newDetailError(ErrDeleteAssociationConflict, "yugioh card is referenced by inventory items")
	}
	return s.repo.Delete(id)
}

// apply 校验输入并写入卡牌（类别与种族须存在，字段形态须符合类别）
func (s *YugiohCardService) apply(card *models.YugiohCard, input YugiohCardInput) error {
	name := strings.TrimSpace(input.Name)
	var fields []FieldError
	if name == "" {
		fields = append(fields, blankField("name"))
	}
	if input.CategoryID == 0 {
		fields = append(fields, FieldError{Field: "categoryId", Message: "must be positive"})
	}
	if input.TypeID != nil && *input.TypeID == 0 {
		fields = append(fields, FieldError{Field: "typeId", Message: "must be positive"})
	}
	if err := fieldValidation(fields); err != nil {
		return err
	}

	category, err := s.repo.GetCategoryByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return notFoundError("yugioh card category %d not found", input.CategoryID)
	}
	var cardType *models.YugiohCardType
	if input.TypeID != nil {
		cardType, err = s.repo.GetTypeByID(*input.TypeID)
		if err != nil {
			return err
		}
		if cardType == nil {
			return notFoundError("yugioh card type %d not found", *input.TypeID)
		}
	}

	card.Name = name
	card.Description = strings.TrimSpace(input.Description)
	card.CategoryID = category.ID
	card.TypeID = input.TypeID
	card.Attribute = strings.ToUpper(strings.TrimSpace(input.Attribute))
	card.Level = input.Level
	card.PendulumScale = input.PendulumScale
	card.LinkValue = input.LinkValue
	card.LinkArrows = normalizeArrows(input.LinkArrows)
	card.Atk = input.Atk
	card.Def = input.Def

	if err := fieldValidation(ValidateCardVariant(category.Kind, card)); err != nil {
		return err
	}
	card.Category = category
	card.Type = cardType
	return nil
}

func normalizeArrows(arrows []string) models.StringArray {
	if len(arrows) == 0 {
		return nil
	}
	result := make(models.StringArray, 0, len(arrows))
	for _, arrow := range arrows {
		result = append(result, strings.ToUpper(strings.TrimSpace(arrow)))
	}
	return result
}
