//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	all := models.AllModels()
	cleanup := func() {
		for i := len(all) - 1; i >= 0; i-- {
			_ = db.Migrator().DropTable(all[i])
		}
	}
	cleanup()

	if err := models.MigrateWith(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		cleanup()
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresConditionalStockDecrement(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	item := createInventoryFixture(t, db, 2)
	repo := NewInventoryRepository(db)

	affected, err := repo.DecreaseStock(item.ID, 2)
	if err != nil || affected != 1 {
		t.Fatalf("decrease want 1 row got %d err=%v", affected, err)
	}
	affected, err = repo.DecreaseStock(item.ID, 1)
	if err != nil || affected != 0 {
		t.Fatalf("empty stock decrease want 0 rows got %d err=%v", affected, err)
	}
}

func TestPostgresProductSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	productType := &models.ProductType{Name: "Deck Box"}
	if err := db.Create(productType).Error; err != nil {
		t.Fatalf("create product type failed: %v", err)
	}
	repo := NewProductRepository(db)
	if err := repo.Create(&models.Product{Name: "Dragon Deck Box", ProductTypeID: productType.ID}); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	rows, total, err := repo.List(ProductListFilter{ListFilter: ListFilter{Page: 1, PageSize: 10, Search: "dragon", Direction: constants.SortAsc}})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("ILIKE search should match, got total=%d", total)
	}
}
