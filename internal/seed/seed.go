package seed

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/repository"
	"commerce-backend/internal/security"
)

var seedCategories = []domain.Category{
	{Name: "Electronics", Slug: "electronics", Image: "https://images.unsplash.com/photo-1498049794561-7780e7231661?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=60"},
	{Name: "Fashion", Slug: "fashion", Image: "https://images.unsplash.com/photo-1445205170230-053b83016050?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=60"},
	{Name: "Home & Garden", Slug: "home-garden", Image: "https://images.unsplash.com/photo-1556228453-efd6c1ff04f6?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=60"},
	{Name: "Sports", Slug: "sports", Image: "https://images.unsplash.com/photo-1517649763962-0c623066013b?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=60"},
	{Name: "Furniture", Slug: "furniture", Image: "https://images.unsplash.com/photo-1555041469-a586c61ea9bc?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=60"},
	{Name: "Kitchen", Slug: "kitchen", Image: "https://images.unsplash.com/photo-1556911220-bda9f7b8b155?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=60"},
	{Name: "Accessories", Slug: "accessories", Image: "https://images.unsplash.com/photo-1523206489230-c012c64b2b48?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=60"},
}

type seedUser struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

var seedUsers = []seedUser{
	{FirstName: "Admin", LastName: "User", Email: "admin@example.com", Password: "123456", Role: domain.RoleAdmin},
	{FirstName: "John", LastName: "Doe", Email: "john@example.com", Password: "123456", Role: domain.RoleCustomer},
	{FirstName: "Jane", LastName: "Smith", Email: "jane@example.com", Password: "123456", Role: domain.RoleCustomer},
}

// Run is idempotent: rows that already exist are left untouched.
func Run(db *gorm.DB, logger *slog.Logger) error {
	categories := repository.NewCategoryRepository(db)
	for i := range seedCategories {
		c := seedCategories[i]
		if _, err := categories.FindByNameOrSlug(c.Slug); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrCategoryNotFound) {
			return fmt.Errorf("seed categories: %w", err)
		}
		if err := categories.Create(&c); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		logger.Info("seeded category", "slug", c.Slug)
	}

	users := repository.NewUserRepository(db)
	for _, u := range seedUsers {
		if _, err := users.FindByEmail(u.Email); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("seed users: %w", err)
		}
		hash, err := security.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		if err := users.Create(&domain.User{
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Email:        u.Email,
			PasswordHash: hash,
			Role:         u.Role,
		}); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		logger.Info("seeded user", "email", u.Email, "role", u.Role)
	}
	return nil
}
