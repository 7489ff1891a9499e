package database

import (
	"log"

	"github.com/miga-registro/registry-api/internal/config"
	"github.com/miga-registro/registry-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DatabasePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

// Migrate creates the schema and seeds reference data. Factored out of
// Connect so tests can run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Parish{},
		&models.SacramentType{},
		&models.CeremonialRole{},
		&models.Person{},
		&models.Sacrament{},
		&models.Participation{},
		&models.MarriageDetail{},
		&models.PasswordReset{},
		&models.Proposal{},
		&models.Comment{},
		&models.AuditEntry{},
	)
	if err != nil {
		return err
	}
	return seed(db)
}

// seed inserts the static catalogs when their tables are empty. Role names
// must line up with the eligibility rule catalogs, which compare in
// canonical uppercase.
func seed(db *gorm.DB) error {
	var roleCount int64
	if err := db.Model(&models.CeremonialRole{}).Count(&roleCount).Error; err != nil {
		return err
	}
	if roleCount == 0 {
		roles := []models.CeremonialRole{
			{Name: "BAUTIZADO"},
			{Name: "COMULGADO"},
			{Name: "CONFIRMADO"},
			{Name: "CASADO"},
			{Name: "PADRINO"},
			{Name: "MADRINA"},
			{Name: "MINISTRO"},
		}
		if err := db.Create(&roles).Error; err != nil {
			return err
		}
	}

	var typeCount int64
	if err := db.Model(&models.SacramentType{}).Count(&typeCount).Error; err != nil {
		return err
	}
	if typeCount == 0 {
		types := []models.SacramentType{
			{Name: "Bautizo", Description: "Sacramento del bautismo", Active: true},
			{Name: "Comunion", Description: "Primera comunion", Active: true},
			{Name: "Confirmacion", Description: "Sacramento de la confirmacion", Active: true},
			{Name: "Matrimonio", Description: "Sacramento del matrimonio", Active: true},
		}
		if err := db.Create(&types).Error; err != nil {
			return err
		}
	}

	return nil
}
