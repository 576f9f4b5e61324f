package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared"
)

// GormCustomerDirectory implements pos.CustomerDirectory using GORM
// The directory is read-only except for lazily seeding the walk-in row
type GormCustomerDirectory struct {
	db *gorm.DB
}

// NewGormCustomerDirectory creates a new GormCustomerDirectory
func NewGormCustomerDirectory(db *gorm.DB) *GormCustomerDirectory {
	return &GormCustomerDirectory{db: db}
}

// FindByID resolves a customer by ID
func (r *GormCustomerDirectory) FindByID(ctx context.Context, id uuid.UUID) (*pos.Customer, error) {
	var model CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// WalkIn returns the default walk-in customer record, creating it on
// first use
func (r *GormCustomerDirectory) WalkIn(ctx context.Context) (*pos.Customer, error) {
	var model CustomerModel
	err := r.db.WithContext(ctx).First(&model, "is_walk_in = ?", true).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	model = CustomerModel{
		Name:     "Walk-in Customer",
		IsWalkIn: true,
	}
	model.fromEntity(shared.NewBaseEntity())
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a customer directory entry
func (r *GormCustomerDirectory) Save(ctx context.Context, customer *pos.Customer) error {
	model := CustomerModel{
		Name:     customer.Name,
		Email:    customer.Email,
		IsWalkIn: customer.IsWalkIn,
	}
	model.ID = customer.ID
	return r.db.WithContext(ctx).Save(&model).Error
}

var _ pos.CustomerDirectory = (*GormCustomerDirectory)(nil)
