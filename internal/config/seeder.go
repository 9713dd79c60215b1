package config

import (
	"log"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the bootstrap admin account once. It only runs when
// no admin exists yet and ADMIN_PASSWORD is set, so production clusters that
// provision their admin elsewhere are left alone.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	if s.cfg.AdminSeed.Password == "" {
		log.Println("⚠️ ADMIN_PASSWORD not set, no admin account seeded")
		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.AdminSeed.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     s.cfg.AdminSeed.Name,
		Email:    s.cfg.AdminSeed.Email,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin account seeded [%s]", admin.Email)
	return nil
}
