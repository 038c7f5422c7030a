package service

import (
	"context"
	"errors"
	"strings"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/repository"
)

type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

type ProductQuery struct {
	repository.PageRequest
	Category domain.CategoryRef
	Search   string
	MinPrice *float64
	MaxPrice *float64
	IsNew    bool
	IsOnSale bool
	SortBy   string
}

// ListProducts resolves the category reference (ID or name/slug) before
// filtering. An unknown category name yields an empty page, not an error.
func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) (repository.PageResult[domain.Product], error) {
	listQuery := repository.ProductListQuery{
		PageRequest: q.PageRequest,
		Search:      q.Search,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		IsNew:       q.IsNew,
		IsOnSale:    q.IsOnSale,
		SortBy:      q.SortBy,
	}
	if !q.Category.IsZero() {
		id, err := s.resolveCategoryRef(q.Category)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return repository.PageResult[domain.Product]{
					Page:     q.Page,
					PageSize: q.PageSize,
					Items:    []domain.Product{},
				}, nil
			}
			return repository.PageResult[domain.Product]{}, err
		}
		listQuery.CategoryID = id
	}
	return s.products.ListPaged(listQuery)
}

func (s *CatalogService) resolveCategoryRef(ref domain.CategoryRef) (uint, error) {
	if ref.ID != 0 {
		return ref.ID, nil
	}
	category, err := s.categories.FindByNameOrSlug(ref.Name)
	if err != nil {
		return 0, err
	}
	return category.ID, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.products.FindByID(id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product, category domain.CategoryRef) (*domain.Product, error) {
	id, err := s.resolveCategoryRef(category)
	if err != nil {
		return nil, err
	}
	p.CategoryID = id
	if err := s.products.Create(p); err != nil {
		return nil, err
	}
	return s.products.FindByID(p.ID)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product, category domain.CategoryRef) (*domain.Product, error) {
	if !category.IsZero() {
		id, err := s.resolveCategoryRef(category)
		if err != nil {
			return nil, err
		}
		p.CategoryID = id
	}
	if err := s.products.Update(p); err != nil {
		return nil, err
	}
	return s.products.FindByID(p.ID)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	return s.products.Delete(id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List()
}

func (s *CatalogService) GetCategory(ctx context.Context, ref domain.CategoryRef) (*domain.Category, error) {
	if ref.ID != 0 {
		return s.categories.FindByID(ref.ID)
	}
	return s.categories.FindByNameOrSlug(ref.Name)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if err := s.categories.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if err := s.categories.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return s.categories.Delete(id)
}

func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
