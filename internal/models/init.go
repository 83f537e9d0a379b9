package models

import (
	"strings"

	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(email, password string, allowDefaultPassword bool) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "admin@cardmart.local"
	}

	var existing User
	err := DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		// 已存在时确保拥有管理员权限
		if !existing.HasPermission(constants.PermissionAdmin) {
			perms := append(StringArray{}, existing.Permissions...)
			perms = append(perms, constants.PermissionAdmin)
			if err := DB.Model(&existing).Update("permissions", perms).Error; err != nil {
				logger.Warnw("ensure_default_admin_permission_failed", "email", email, "error", err)
			}
		}
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	usedDefault := false
	if password == "" {
		if !allowDefaultPassword {
			logger.Warnw("default_admin_skipped", "email", email, "reason", "password_not_configured")
			return nil
		}
		password = "admin123"
		usedDefault = true
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:                 email,
		Name:                  "Administrator",
		PasswordHash:          string(hash),
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		Enabled:               true,
		Permissions:           StringArray{constants.PermissionAdmin, constants.PermissionCustomer},
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if usedDefault {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return nil
}

// defaultCardCategories 内置卡牌类别
var defaultCardCategories = []YugiohCardCategory{
	{Name: "Normal Monster", Kind: constants.CardKindMonster},
	{Name: "Effect Monster", Kind: constants.CardKindMonster},
	{Name: "Ritual Monster", Kind: constants.CardKindMonster},
	{Name: "Fusion Monster", Kind: constants.CardKindMonster},
	{Name: "Synchro Monster", Kind: constants.CardKindMonster},
	{Name: "XYZ Monster", Kind: constants.CardKindMonster},
	{Name: "Pendulum Monster", Kind: constants.CardKindMonsterPendulum},
	{Name: "Link Monster", Kind: constants.CardKindMonsterLink},
	{Name: "Spell Card", Kind: constants.CardKindNonMonster},
	{Name: "Trap Card", Kind: constants.CardKindNonMonster},
}

// defaultCardTypes 内置卡牌种族
var defaultCardTypes = []string{
	"Aqua", "Beast", "Beast-Warrior", "Cyberse", "Dinosaur", "Divine-Beast", "Dragon",
	"Fairy", "Fiend", "Fish", "Insect", "Machine", "Plant", "Psychic", "Pyro",
	"Reptile", "Rock", "Sea Serpent", "Spellcaster", "Thunder", "Warrior",
	"Winged Beast", "Wyrm", "Zombie",
}

// SeedCardCatalog 幂等写入内置卡牌类别与种族
func SeedCardCatalog(db *gorm.DB) error {
	if db == nil {
		db = DB
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, category := range defaultCardCategories {
			row := category
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		for _, name := range defaultCardTypes {
			row := YugiohCardType{Name: name}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
