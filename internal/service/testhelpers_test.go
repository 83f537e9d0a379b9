package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/config"
	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/metrics"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/queue"
	"github.com/cardmart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateWith(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := models.SeedCardCatalog(db); err != nil {
		t.Fatalf("seed card catalog failed: %v", err)
	}
	return db
}

func customer(id uint) *authz.Principal {
	return &authz.Principal{UserID: id, Email: fmt.Sprintf("user%d@example.com", id), Permissions: []string{constants.PermissionCustomer}}
}

func admin(id uint) *authz.Principal {
	return &authz.Principal{UserID: id, Email: fmt.Sprintf("admin%d@example.com", id), Permissions: []string{constants.PermissionCustomer, constants.PermissionAdmin}}
}

func createUserFixture(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Email:                 email,
		Name:                  "Yugi Muto",
		PasswordHash:          hash,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		Enabled:               true,
		Permissions:           models.StringArray{constants.PermissionCustomer},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createProductFixture(t *testing.T, db *gorm.DB, typeName, name string) *models.Product {
	t.Helper()
	productType := &models.ProductType{Name: typeName}
	if err := db.Create(productType).Error; err != nil {
		t.Fatalf("create product type failed: %v", err)
	}
	product := &models.Product{Name: name, ProductTypeID: productType.ID}
	if err := db.Omit("ProductType").Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createStockFixture(t *testing.T, db *gorm.DB, productID uint, price string, quantity int) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		Version:   "LOB-EN001",
		Condition: constants.ConditionNearMint,
		Price:     models.MustMoney(price),
		Quantity:  quantity,
	}
	if err := item.SetRef(models.ProductRef{ID: productID}); err != nil {
		t.Fatalf("set ref failed: %v", err)
	}
	if err := repository.NewInventoryRepository(db).Create(item); err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	return item
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var item models.InventoryItem
	if err := db.First(&item, id).Error; err != nil {
		t.Fatalf("load inventory %d failed: %v", id, err)
	}
	return item.Quantity
}

func newTestOrderService(t *testing.T, db *gorm.DB) *OrderService {
	t.Helper()
	client, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	return NewOrderService(db, repository.NewOrderRepository(db), repository.NewInventoryRepository(db), client, metrics.New("test"))
}

func testAddress(street string) *AddressInput {
	return &AddressInput{
		FullName: "Seto Kaiba",
		Street:   street,
		Number:   "1",
		City:     "Domino",
		State:    "Tokyo",
		ZipCode:  "100-0001",
		Country:  "JP",
	}
}
