package repository

import (
	"context"
	"errors"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/observability"

	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type ProductListQuery struct {
	PageRequest
	CategoryID uint
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	IsNew      bool
	IsOnSale   bool
	SortBy     string
}

type ProductRepository interface {
	FindByID(id uint) (*domain.Product, error)
	FindByIDs(ids []uint) ([]domain.Product, error)
	Create(p *domain.Product) error
	Update(p *domain.Product) error
	Delete(id uint) error
	ListPaged(query ProductListQuery) (PageResult[domain.Product], error)
}

type GormProductRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &GormProductRepository{db: db} }

func (r *GormProductRepository) FindByID(id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.db.Preload("Category").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "product", "find_by_id", "not_found")
			return nil, ErrProductNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "product", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "product", "find_by_id", "success")
	return &p, nil
}

// FindByIDs bulk-loads the authoritative catalog rows for an order submission.
// Callers compare the result count against the request count; missing rows are
// not an error at this layer.
func (r *GormProductRepository) FindByIDs(ids []uint) ([]domain.Product, error) {
	var products []domain.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "product", "find_by_ids", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "product", "find_by_ids", "success")
	return products, nil
}

func (r *GormProductRepository) Create(p *domain.Product) error {
	err := r.db.Create(p).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "product", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "product", "create", "success")
	return nil
}

func (r *GormProductRepository) Update(p *domain.Product) error {
	err := r.db.Save(p).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "product", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "product", "update", "success")
	return nil
}

func (r *GormProductRepository) Delete(id uint) error {
	res := r.db.Delete(&domain.Product{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "product", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "product", "delete", "not_found")
		return ErrProductNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "product", "delete", "success")
	return nil
}

func (r *GormProductRepository) ListPaged(query ProductListQuery) (PageResult[domain.Product], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.Product]{
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	base := r.db.Model(&domain.Product{})
	if query.CategoryID != 0 {
		base = base.Where("category_id = ?", query.CategoryID)
	}
	if query.Search != "" {
		base = base.Where("name LIKE ?", "%"+query.Search+"%")
	}
	if query.MinPrice != nil {
		base = base.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		base = base.Where("price <= ?", *query.MaxPrice)
	}
	if query.IsNew {
		base = base.Where("is_new = ?", true)
	}
	if query.IsOnSale {
		base = base.Where("is_on_sale = ?", true)
	}

	if err := base.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "product", "list_paged", "error")
		return PageResult[domain.Product]{}, err
	}

	listQuery := base.Preload("Category")
	switch query.SortBy {
	case "price":
		listQuery = listQuery.Order("price ASC")
	case "name":
		listQuery = listQuery.Order("name ASC")
	case "rating":
		listQuery = listQuery.Order("rating DESC")
	default:
		listQuery = listQuery.Order("created_at DESC")
	}
	listQuery = listQuery.Order("id")

	offset := (req.Page - 1) * req.PageSize
	if err := listQuery.Offset(offset).Limit(req.PageSize).Find(&result.Items).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "product", "list_paged", "error")
		return PageResult[domain.Product]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	observability.RecordRepositoryOperation(context.Background(), "product", "list_paged", "success")
	return result, nil
}
