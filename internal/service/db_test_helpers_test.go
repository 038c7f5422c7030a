package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.Category{},
		&domain.Product{},
		&domain.Cart{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *domain.User {
	t.Helper()
	user := &domain.User{FirstName: "Test", LastName: "User", Email: email, PasswordHash: "x", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, inStock bool) *domain.Product {
	t.Helper()
	category := &domain.Category{Name: "cat-" + name, Slug: "cat-" + name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := &domain.Product{Name: name, Price: price, CategoryID: category.ID, InStock: inStock}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func fillCart(t *testing.T, db *gorm.DB, userID uint, entries map[uint]int) {
	t.Helper()
	carts := repository.NewCartRepository(db)
	cart, err := carts.FindOrCreateByUser(userID)
	if err != nil {
		t.Fatalf("find or create cart: %v", err)
	}
	for productID, quantity := range entries {
		var product domain.Product
		if err := db.First(&product, productID).Error; err != nil {
			t.Fatalf("load product %d: %v", productID, err)
		}
		cart.Items = append(cart.Items, domain.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}
	if err := carts.Save(cart); err != nil {
		t.Fatalf("save cart: %v", err)
	}
}
