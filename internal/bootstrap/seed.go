package bootstrap

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Post{},
		&model.Metadata{},
	)
}

func SeedSuperAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("role = ?", model.RoleSuperAdmin).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Superadmin user already exists, skipping seed")
		return nil
	}

	password := "superadmin"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	superAdmin := model.User{
		Username:     "superadmin",
		Email:        "superadmin@inkwell.local",
		FirstName:    "Super",
		LastName:     "Admin",
		PasswordHash: string(hashedPasswordBytes),
		Role:         model.RoleSuperAdmin,
	}

	if err := db.Create(&superAdmin).Error; err != nil {
		return err
	}

	log.Println("✅ Superadmin user seeded successfully")
	log.Println("   Email: superadmin@inkwell.local")
	log.Println("   Password: superadmin")

	return nil
}
