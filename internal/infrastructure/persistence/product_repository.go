package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductStore using GORM
// Stock mutations are conditional UPDATEs so concurrent terminals
// cannot oversell the same snapshot
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID returns a product snapshot by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByLocation returns the products visible at a location
func (r *GormProductRepository) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]catalog.Product, error) {
	var productModels []ProductModel
	if err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("name ASC").
		Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProducts(productModels), nil
}

// ListBySKU returns every location's snapshot carrying the SKU
func (r *GormProductRepository) ListBySKU(ctx context.Context, sku string) ([]catalog.Product, error) {
	var productModels []ProductModel
	if err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProducts(productModels), nil
}

// DecrementStock atomically removes quantity units from a product
// The WHERE clause carries the availability check; zero rows affected
// means either a shortfall or a missing product
func (r *GormProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, productID); err != nil {
			return err
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// AdjustStock applies a signed stock correction
func (r *GormProductRepository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ? AND stock_quantity + ? >= 0", productID, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, productID); err != nil {
			return err
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// Save creates or updates a product snapshot
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Save(model).Error
}

func toProducts(productModels []ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products
}

var _ catalog.ProductStore = (*GormProductRepository)(nil)
