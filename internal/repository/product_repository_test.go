package repository

import (
	"errors"
	"testing"

	"commerce-backend/internal/domain"
)

func seedProducts(t *testing.T, repo ProductRepository, categoryID uint) {
	t.Helper()
	rows := []domain.Product{
		{Name: "Alpha Phone", Price: 500, CategoryID: categoryID, InStock: true, Rating: 4.5, IsNew: true},
		{Name: "Beta Laptop", Price: 1200, CategoryID: categoryID, InStock: true, Rating: 4.8},
		{Name: "Gamma Cable", Price: 9.99, CategoryID: categoryID, InStock: true, Rating: 3.1, IsOnSale: true},
	}
	for i := range rows {
		if err := repo.Create(&rows[i]); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
}

func TestProductRepositoryCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	category := mustCreate(t, db, &domain.Category{Name: "Electronics", Slug: "electronics"})

	product := &domain.Product{Name: "Phone", Price: 500, CategoryID: category.ID, InStock: true}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := repo.FindByID(product.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Category == nil || loaded.Category.Slug != "electronics" {
		t.Fatalf("expected category preloaded, got %+v", loaded.Category)
	}

	loaded.Price = 450
	if err := repo.Update(loaded); err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, err := repo.FindByID(product.ID)
	if err != nil || reloaded.Price != 450 {
		t.Fatalf("reload: %v %+v", err, reloaded)
	}

	if err := repo.Delete(product.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := repo.Delete(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("double delete: expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepositoryFindByIDsSkipsMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	category := mustCreate(t, db, &domain.Category{Name: "Electronics", Slug: "electronics"})
	seedProducts(t, repo, category.ID)

	products, err := repo.FindByIDs([]uint{1, 2, 9999})
	if err != nil {
		t.Fatalf("find by ids: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 found rows, got %d", len(products))
	}

	none, err := repo.FindByIDs(nil)
	if err != nil || len(none) != 0 {
		t.Fatalf("empty input: %v %v", none, err)
	}
}

func TestProductRepositoryListPagedFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	electronics := mustCreate(t, db, &domain.Category{Name: "Electronics", Slug: "electronics"})
	fashion := mustCreate(t, db, &domain.Category{Name: "Fashion", Slug: "fashion"})
	seedProducts(t, repo, electronics.ID)
	if err := repo.Create(&domain.Product{Name: "Shirt", Price: 25, CategoryID: fashion.ID, InStock: true}); err != nil {
		t.Fatalf("create shirt: %v", err)
	}

	t.Run("category", func(t *testing.T) {
		page, err := repo.ListPaged(ProductListQuery{CategoryID: fashion.ID})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.Total != 1 || page.Items[0].Name != "Shirt" {
			t.Fatalf("unexpected page %+v", page)
		}
	})

	t.Run("search", func(t *testing.T) {
		page, err := repo.ListPaged(ProductListQuery{Search: "Laptop"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.Total != 1 || page.Items[0].Name != "Beta Laptop" {
			t.Fatalf("unexpected page %+v", page)
		}
	})

	t.Run("price band", func(t *testing.T) {
		page, err := repo.ListPaged(ProductListQuery{MinPrice: floatPtr(100), MaxPrice: floatPtr(600)})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.Total != 1 || page.Items[0].Name != "Alpha Phone" {
			t.Fatalf("unexpected page %+v", page)
		}
	})

	t.Run("flags", func(t *testing.T) {
		page, err := repo.ListPaged(ProductListQuery{IsOnSale: true})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.Total != 1 || page.Items[0].Name != "Gamma Cable" {
			t.Fatalf("unexpected page %+v", page)
		}
	})

	t.Run("sort by price", func(t *testing.T) {
		page, err := repo.ListPaged(ProductListQuery{SortBy: "price"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(page.Items) != 4 || page.Items[0].Name != "Gamma Cable" {
			t.Fatalf("expected cheapest first, got %+v", page.Items)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := repo.ListPaged(ProductListQuery{PageRequest: PageRequest{Page: 2, PageSize: 3}})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.Total != 4 || page.TotalPages != 2 || len(page.Items) != 1 {
			t.Fatalf("unexpected pagination %+v", page)
		}
	})
}
