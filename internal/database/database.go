package database

import (
	"medbase/config"
	"medbase/internal/domain"
	"medbase/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.EntityDefinition{},
		&models.FieldDefinition{},
		&models.GenericRecord{},
		&models.Patient{},
		&models.Visit{},
		&models.Appointment{},
		&models.Employee{},
		&models.StaffAppointment{},
		&models.Department{},
		&models.Position{},
		&models.Operator{},
	)
}

// Seed inserts the starter categories and system entity definitions on an
// empty database. Each block checks existence first, so it is safe to run on
// every startup.
func Seed(db *gorm.DB, log *zap.SugaredLogger) error {
	var catCount int64
	if err := db.Model(&models.Category{}).Count(&catCount).Error; err != nil {
		return err
	}
	if catCount == 0 {
		categories := []models.Category{
			{Name: "Company", Icon: "building", SortOrder: 1},
			{Name: "Patients", Icon: "people", SortOrder: 2},
			{Name: "Directories", Icon: "book", SortOrder: 3},
			{Name: "Constructor", Icon: "tools", SortOrder: 4},
		}
		if err := db.Create(&categories).Error; err != nil {
			return err
		}
		log.Infow("seeded starter categories", "count", len(categories))
	}

	var defCount int64
	if err := db.Model(&models.EntityDefinition{}).Count(&defCount).Error; err != nil {
		return err
	}
	if defCount > 0 {
		return nil
	}

	var catCompany, catPatients models.Category
	if err := db.Where("name = ?", "Company").First(&catCompany).Error; err != nil {
		return err
	}
	if err := db.Where("name = ?", "Patients").First(&catPatients).Error; err != nil {
		return err
	}

	definitions := []models.EntityDefinition{
		{Name: "Employees", EntityCode: domain.EntityEmployee, IsSystem: true, Icon: "person-badge", CategoryID: &catCompany.ID},
		{Name: "Patients", EntityCode: domain.EntityPatient, IsSystem: true, Icon: "person-heart", CategoryID: &catPatients.ID},
		{Name: "Positions", EntityCode: domain.EntityPosition, IsSystem: true, Icon: "briefcase", CategoryID: &catCompany.ID},
		{Name: "Departments", EntityCode: domain.EntityDepartment, IsSystem: true, Icon: "diagram-3", CategoryID: &catCompany.ID},
	}
	if err := db.Create(&definitions).Error; err != nil {
		return err
	}
	log.Infow("seeded system entity definitions", "count", len(definitions))
	return nil
}

// SeedAdmin ensures at least one operator account exists.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig, log *zap.SugaredLogger) error {
	var n int64
	if err := db.Model(&models.Operator{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	op := models.Operator{
		Email:        cfg.Email,
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&op).Error; err != nil {
		return err
	}
	log.Infow("seeded admin operator", "email", op.Email)
	return nil
}
