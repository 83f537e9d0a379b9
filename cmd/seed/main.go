package main

import (
	"errors"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/config"
	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/logger"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/repository"
	"github.com/cardmart-next/internal/service"
)

type seedStock struct {
	Version   string
	Condition string
	Price     string
	Quantity  int
}

type seedProduct struct {
	Type  string
	Name  string
	Stock []seedStock
}

type seedCard struct {
	Category string
	Input    service.YugiohCardInput
	Stock    []seedStock
}

func intPtr(v int) *int { return &v }

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.SeedCardCatalog(models.DB); err != nil {
		stdLog.Fatalf("Failed to seed card catalog: %v", err)
	}

	db := models.DB
	typeRepo := repository.NewProductTypeRepository(db)
	productRepo := repository.NewProductRepository(db)
	cardRepo := repository.NewYugiohCardRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	typeService := service.NewProductTypeService(typeRepo, productRepo)
	productService := service.NewProductService(productRepo, typeRepo, inventoryRepo)
	cardService := service.NewYugiohCardService(cardRepo, inventoryRepo)
	inventoryService := service.NewInventoryService(inventoryRepo, productRepo, cardRepo, repository.NewCartRepository(db))
	seeder := &authz.Principal{UserID: 1, Email: "seed@cardmart.local", Permissions: []string{constants.PermissionAdmin}}

	// 添加商品类型与商品
	products := []seedProduct{
		{Type: "Booster Box", Name: "Legend of Blue Eyes White Dragon Booster Box", Stock: []seedStock{
			{Version: "LOB-EN 25th", Condition: constants.ConditionMint, Price: "89.90", Quantity: 10},
		}},
		{Type: "Structure Deck", Name: "Structure Deck: Dragon's Roar", Stock: []seedStock{
			{Version: "SD1-EN", Condition: constants.ConditionNearMint, Price: "14.99", Quantity: 25},
		}},
		{Type: "Accessory", Name: "Card Sleeves (100)", Stock: []seedStock{
			{Condition: constants.ConditionMint, Price: "2.99", Quantity: 200},
		}},
	}
	typeIDs := map[string]uint{}
	for _, p := range products {
		typeID, ok := typeIDs[p.Type]
		if !ok {
			var existing models.ProductType
			err := db.Where("name = ?", p.Type).First(&existing).Error
			if err == nil {
				typeID = existing.ID
				stdLog.Printf("Product type already exists: %s", p.Type)
			} else {
				created, err := typeService.Create(seeder, service.ProductTypeInput{Name: p.Type})
				if err != nil {
					stdLog.Printf("Failed to create product type %s: %v", p.Type, err)
					continue
				}
				typeID = created.ID
				stdLog.Printf("Created product type: %s", p.Type)
			}
			typeIDs[p.Type] = typeID
		}

		var existing models.Product
		if err := db.Where("name = ?", p.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", p.Name)
			continue
		}
		product, err := productService.Create(seeder, service.ProductInput{Name: p.Name, ProductTypeID: typeID})
		if err != nil {
			stdLog.Printf("Failed to create product %s: %v", p.Name, err)
			continue
		}
		stdLog.Printf("Created product: %s", p.Name)
		for _, s := range p.Stock {
			createStock(inventoryService, seeder, service.InventoryInput{ProductID: &product.ID}, s)
		}
	}

	// 添加卡牌
	cards := []seedCard{
		{Category: "Normal Monster", Input: service.YugiohCardInput{
			Name: "Blue-Eyes White Dragon", Attribute: constants.CardAttributeLight,
			Level: intPtr(8), Atk: intPtr(3000), Def: intPtr(2500),
		}, Stock: []seedStock{
			{Version: "LOB-EN001", Condition: constants.ConditionNearMint, Price: "4.99", Quantity: 10},
			{Version: "LOB-EN001", Condition: constants.ConditionPlayed, Price: "2.99", Quantity: 10},
		}},
		{Category: "Link Monster", Input: service.YugiohCardInput{
			Name: "Decode Talker", Attribute: constants.CardAttributeDark, Atk: intPtr(2300),
			LinkValue: intPtr(3), LinkArrows: []string{constants.LinkArrowTop, constants.LinkArrowBottomLeft, constants.LinkArrowBottomRight},
		}, Stock: []seedStock{
			{Version: "ST17-EN041", Condition: constants.ConditionMint, Price: "1.50", Quantity: 40},
		}},
		{Category: "Spell Card", Input: service.YugiohCardInput{Name: "Pot of Greed"}, Stock: []seedStock{
			{Version: "LOB-EN119", Condition: constants.ConditionExcellent, Price: "0.99", Quantity: 30},
		}},
	}
	for _, c := range cards {
		var existing models.YugiohCard
		if err := db.Where("name = ?", c.Input.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Card already exists: %s", c.Input.Name)
			continue
		}
		var category models.YugiohCardCategory
		if err := db.Where("name = ?", c.Category).First(&category).Error; err != nil {
			stdLog.Printf("Skip card %s: category %s missing", c.Input.Name, c.Category)
			continue
		}
		input := c.Input
		input.CategoryID = category.ID
		card, err := cardService.Create(seeder, input)
		if err != nil {
			var detail *service.DetailError
			if errors.As(err, &detail) {
				stdLog.Printf("Failed to create card %s: %v %+v", c.Input.Name, err, detail.Fields)
			} else {
				stdLog.Printf("Failed to create card %s: %v", c.Input.Name, err)
			}
			continue
		}
		stdLog.Printf("Created card: %s", c.Input.Name)
		for _, s := range c.Stock {
			createStock(inventoryService, seeder, service.InventoryInput{YugiohCardID: &card.ID}, s)
		}
	}

	stdLog.Printf("Seed completed")
}

func createStock(svc *service.InventoryService, seeder *authz.Principal, input service.InventoryInput, s seedStock) {
	price, err := models.NewMoneyFromString(s.Price)
	if err != nil {
		logger.Warnw("seed_invalid_price", "price", s.Price, "error", err)
		return
	}
	input.Version = s.Version
	input.Condition = s.Condition
	input.Price = price
	input.Quantity = s.Quantity
	if _, err := svc.Create(seeder, input); err != nil {
		logger.Warnw("seed_create_inventory_failed", "version", s.Version, "error", err)
	}
}
