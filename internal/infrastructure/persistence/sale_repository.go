package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared"
)

// GormSaleRepository implements pos.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Save creates or updates a sale with its items and tenders
// Children are replaced wholesale; a sale's line set never changes
// after finalization, only header fields do
func (r *GormSaleRepository) Save(ctx context.Context, sale *pos.Sale) error {
	model := SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&SaleItemModel{}, "sale_id = ?", sale.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&SaleTenderModel{}, "sale_id = ?", sale.ID).Error; err != nil {
			return err
		}
		return tx.Save(model).Error
	})
}

// FindByID finds a sale by ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.Sale, error) {
	var model SaleModel
	if err := r.preloaded(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a sale by its sale number
func (r *GormSaleRepository) FindByNumber(ctx context.Context, number string) (*pos.Sale, error) {
	var model SaleModel
	if err := r.preloaded(ctx).First(&model, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListRecent returns the most recent sales, newest first
func (r *GormSaleRepository) ListRecent(ctx context.Context, limit int) ([]pos.Sale, error) {
	if limit <= 0 {
		limit = 20
	}
	var saleModels []SaleModel
	if err := r.preloaded(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]pos.Sale, len(saleModels))
	for i := range saleModels {
		sales[i] = *saleModels[i].ToDomain()
	}
	return sales, nil
}

// GenerateNumber generates the next sale number as POS-YYYYMMDD-NNNN
// The sequence restarts each day; the unique index on number catches
// the race of two registers generating concurrently
func (r *GormSaleRepository) GenerateNumber(ctx context.Context) (string, error) {
	prefix := "POS-" + time.Now().Format("20060102")

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&SaleModel{}).
		Where("number LIKE ?", prefix+"-%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

func (r *GormSaleRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Tenders", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

var _ pos.SaleRepository = (*GormSaleRepository)(nil)
