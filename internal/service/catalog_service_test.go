package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/repository"

	"gorm.io/gorm"
)

type catalogServices struct {
	types     *ProductTypeService
	products  *ProductService
	cards     *YugiohCardService
	inventory *InventoryService
	cart      *CartService
}

func newCatalogServices(db *gorm.DB) catalogServices {
	typeRepo := repository.NewProductTypeRepository(db)
	productRepo := repository.NewProductRepository(db)
	cardRepo := repository.NewYugiohCardRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	return catalogServices{
		types:     NewProductTypeService(typeRepo, productRepo),
		products:  NewProductService(productRepo, typeRepo, inventoryRepo),
		cards:     NewYugiohCardService(cardRepo, inventoryRepo),
		inventory: NewInventoryService(inventoryRepo, productRepo, cardRepo, cartRepo),
		cart:      NewCartService(cartRepo, inventoryRepo),
	}
}

func TestProductTypeLifecycle(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newCatalogServices(db)

	if _, err := svc.types.Create(customer(1), ProductTypeInput{Name: "Deck Box"}); !errors.Is(err, ErrUserUnauthorized) {
		t.Fatalf("expected customer create to be rejected, got %v", err)
	}
	productType, err := svc.types.Create(admin(1), ProductTypeInput{Name: "  Deck Box "})
	if err != nil {
		t.Fatalf("create product type failed: %v", err)
	}
	if productType.Name != "Deck Box" {
		t.Fatalf("expected trimmed name, got %q", productType.Name)
	}
	if _, err := svc.types.Create(admin(1), ProductTypeInput{Name: "Deck Box"}); !errors.Is(err, ErrResourceAlreadyExists) {
		t.Fatalf("expected duplicate name conflict, got %v", err)
	}
	if _, err := svc.types.Create(admin(1), ProductTypeInput{Name: "   "}); !errors.Is(err, ErrRequestValidation) {
		t.Fatalf("expected blank name rejected, got %v", err)
	}
	if _, err := svc.types.Update(admin(1), productType.ID, ProductTypeInput{ID: productType.ID + 1, Name: "Sleeves"}); !errors.Is(err, ErrRequestValidation) {
		t.Fatalf("expected path/body id mismatch rejected, got %v", err)
	}

	product, err := svc.products.Create(admin(1), ProductInput{Name: "Ultra Pro Deck Box", ProductTypeID: productType.ID})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := svc.types.Delete(admin(1), productType.ID); !errors.Is(err, ErrDeleteAssociationConflict) {
		t.Fatalf("expected delete association conflict, got %v", err)
	}
	if err := svc.products.Delete(admin(1), product.ID); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	if err := svc.types.Delete(admin(1), productType.ID); err != nil {
		t.Fatalf("delete product type failed: %v", err)
	}
	if _, err := svc.types.Get(productType.ID); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestProductTypeListPaginationDefaults(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newCatalogServices(db)
	for _, name := range []string{"A", "B", "C"} {
		if _, err := svc.types.Create(admin(1), ProductTypeInput{Name: name}); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}
	items, total, err := svc.types.List(PageQuery{Direction: "DESC", PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(items) != 2 || items[0].Name != "C" {
		t.Fatalf("unexpected page: total=%d items=%+v", total, items)
	}
	if _, _, err := svc.types.List(PageQuery{Direction: "sideways"}); !errors.Is(err, ErrRequestValidation) {
		t.Fatalf("expected invalid direction rejected, got %v", err)
	}
	filter, err := normalizePageQuery(PageQuery{PageSize: 1000})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if filter.Page != 1 || filter.PageSize != constants.PageSizeMax || filter.Direction != constants.SortAsc {
		t.Fatalf("unexpected normalized filter: %+v", filter)
	}
}

func TestProductRequiresExistingType(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newCatalogServices(db)
	if _, err := svc.products.Create(admin(1), ProductInput{Name: "Playmat", ProductTypeID: 77}); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected missing type rejected, got %v", err)
	}
	if _, err := svc.products.Create(admin(1), ProductInput{Name: "", ProductTypeID: 0}); !errors.Is(err, ErrRequestValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestYugiohCardCreateRunsVariantValidation(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newCatalogServices(db)

	categories, err := svc.cards.ListCategories()
	if err != nil || len(categories) == 0 {
		t.Fatalf("expected seeded categories, got %d (%v)", len(categories), err)
	}
	var monster, spell models.YugiohCardCategory
	for _, c := range categories {
		switch c.Kind {
		case constants.CardKindMonster:
			monster = c
		case constants.CardKindNonMonster:
			spell = c
		}
	}
	types, err := svc.cards.ListTypes()
	if err != nil || len(types) == 0 {
		t.Fatalf("expected seeded types, got %d (%v)", len(types), err)
	}

	card, err := svc.cards.Create(admin(1), YugiohCardInput{
		Name: "Blue-Eyes White Dragon", CategoryID: monster.ID, TypeID: &types[0].ID,
		Attribute: "light", Level: intPtr(8), Atk: intPtr(3000), Def: intPtr(2500),
	})
	if err != nil {
		t.Fatalf("create monster failed: %v", err)
	}
	if card.Attribute != constants.CardAttributeLight {
		t.Fatalf("expected normalized attribute, got %s", card.Attribute)
	}

	_, err = svc.cards.Create(admin(1), YugiohCardInput{
		Name: "Pot of Greed", CategoryID: spell.ID, Atk: intPtr(0),
	})
	var detailErr *DetailError
	if !errors.As(err, &detailErr) || !errors.Is(err, ErrRequestValidation) {
		t.Fatalf("expected variant validation error, got %v", err)
	}
	if _, err := svc.cards.Create(admin(1), YugiohCardInput{Name: "Ghost", CategoryID: 9999}); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected missing category rejected, got %v", err)
	}
	missingType := uint(9999)
	if _, err := svc.cards.Create(admin(1), YugiohCardInput{
		Name: "Ghost", CategoryID: monster.ID, TypeID: &missingType,
		Attribute: "DARK", Level: intPtr(1), Atk: intPtr(0), Def: intPtr(0),
	}); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected missing type rejected, got %v", err)
	}

	stock, err := svc.inventory.Create(admin(1), InventoryInput{YugiohCardID: &card.ID, Condition: "mint", Price: models.MustMoney("12.00"), Quantity: 2})
	if err != nil {
		t.Fatalf("create card inventory failed: %v", err)
	}
	if err := svc.cards.Delete(admin(1), card.ID); !errors.Is(err, ErrDeleteAssociationConflict) {
		t.Fatalf("expected card delete conflict, got %v", err)
	}
	if err := svc.inventory.Delete(admin(1), stock.ID); err != nil {
		t.Fatalf("delete inventory failed: %v", err)
	}
	if err := svc.cards.Delete(admin(1), card.ID); err != nil {
		t.Fatalf("delete card failed: %v", err)
	}
}

func TestInventoryRequiresExactlyOneReference(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newCatalogServices(db)
	product := createProductFixture(t, db, "Booster Box", "Metal Raiders")
	cardID := uint(1)

	cases := []InventoryInput{
		{Condition: constants.ConditionMint, Quantity: 1},
		{ProductID: &product.ID, YugiohCardID: &cardID, Condition: constants.ConditionMint, Quantity: 1},
		{ProductID: &product.ID, Condition: "SHINY", Quantity: 1},
		{ProductID: &product.ID, Condition: constants.ConditionMint, Quantity: -1},
		{ProductID: &product.ID, Condition: constants.ConditionMint, Price: models.MustMoney("-1.00")},
	}
	for i, input := range cases {
		if _, err := svc.inventory.Create(admin(1), input); !errors.Is(err, ErrRequestValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	missing := uint(4242)
	if _, err := svc.inventory.Create(admin(1), InventoryInput{ProductID: &missing, Condition: constants.ConditionMint}); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected missing product rejected, got %v", err)
	}
	item, err := svc.inventory.Create(admin(1), InventoryInput{ProductID: &product.ID, Condition: constants.ConditionGood, Price: models.MustMoney("99.90"), Quantity: 3})
	if err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	ref, err := item.Ref()
	if err != nil {
		t.Fatalf("ref failed: %v", err)
	}
	if _, ok := ref.(models.ProductRef); !ok || ref.RefID() != product.ID {
		t.Fatalf("unexpected ref %#v", ref)
	}
	if _, err := svc.inventory.Create(customer(2), InventoryInput{ProductID: &product.ID, Condition: constants.ConditionGood}); !errors.Is(err, ErrUserUnauthorized) {
		t.Fatalf("expected customer create rejected, got %v", err)
	}
}

func TestCartDuplicateLineConflicts(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newCatalogServices(db)
	owner := createUserFixture(t, db, "cart@example.com")
	other := createUserFixture(t, db, "cart-other@example.com")
	product := createProductFixture(t, db, "Single", "Summoned Skull")
	item := createStockFixture(t, db, product.ID, "1.25", 4)

	if _, err := svc.cart.AddItem(customer(owner.ID), owner.ID, item.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.cart.AddItem(customer(owner.ID), owner.ID, item.ID, 1); !errors.Is(err, ErrResourceAlreadyExists) {
		t.Fatalf("expected duplicate cart line conflict, got %v", err)
	}
	if _, err := svc.cart.AddItem(customer(owner.ID), owner.ID, 999, 1); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected missing inventory rejected, got %v", err)
	}
	if _, err := svc.cart.AddItem(customer(owner.ID), owner.ID, item.ID, 0); !errors.Is(err, ErrRequestValidation) {
		t.Fatalf("expected zero quantity rejected, got %v", err)
	}
	if _, err := svc.cart.List(customer(other.ID), owner.ID); !errors.Is(err, ErrUserUnauthorized) {
		t.Fatalf("expected other user rejected, got %v", err)
	}

	lines, err := svc.cart.List(admin(other.ID), owner.ID)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(lines) != 1 || lines[0].Subtotal.String() != "2.50" || lines[0].Name != "Summoned Skull" {
		t.Fatalf("unexpected cart lines: %+v", lines)
	}

	if err := svc.inventory.Delete(admin(1), item.ID); !errors.Is(err, ErrDeleteAssociationConflict) {
		t.Fatalf("expected inventory delete conflict while in cart, got %v", err)
	}
	if err := svc.cart.UpdateItem(customer(owner.ID), owner.ID, item.ID, 3); err != nil {
		t.Fatalf("update cart failed: %v", err)
	}
	if err := svc.cart.UpdateItem(customer(owner.ID), owner.ID, 999, 3); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected missing line on update, got %v", err)
	}
	if err := svc.cart.RemoveItem(customer(owner.ID), owner.ID, item.ID); err != nil {
		t.Fatalf("remove cart item failed: %v", err)
	}
	if err := svc.cart.RemoveItem(customer(owner.ID), owner.ID, item.ID); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected missing line on remove, got %v", err)
	}
	if err := svc.cart.Clear(customer(owner.ID), owner.ID); err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}
}

func TestConcurrentCartAddsConflictInsteadOfFailing(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newCatalogServices(db)
	owner := createUserFixture(t, db, "bakura@example.com")
	product := createProductFixture(t, db, "Single", "Change of Heart")
	item := createStockFixture(t, db, product.ID, "0.75", 10)

	const attempts = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		added    int
		conflict int
		other    []error
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.cart.AddItem(customer(owner.ID), owner.ID, item.ID, 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				added++
			case errors.Is(err, ErrResourceAlreadyExists):
				conflict++
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected cart errors: %v", other)
	}
	if added != 1 || conflict != attempts-1 {
		t.Fatalf("expected one line and %d conflicts, got added=%d conflict=%d", attempts-1, added, conflict)
	}
}
