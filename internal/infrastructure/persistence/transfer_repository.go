package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/pos"
)

// GormTransferRepository implements pos.TransferRequestStore using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// Save creates or updates a transfer request
func (r *GormTransferRepository) Save(ctx context.Context, request *pos.StockTransferRequest) error {
	model := TransferRequestModelFromDomain(request)
	return r.db.WithContext(ctx).Save(model).Error
}

// ListByStatus returns transfer requests in the given status, oldest first
func (r *GormTransferRepository) ListByStatus(ctx context.Context, status pos.TransferStatus) ([]pos.StockTransferRequest, error) {
	var requestModels []TransferRequestModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	requests := make([]pos.StockTransferRequest, len(requestModels))
	for i := range requestModels {
		requests[i] = *requestModels[i].ToDomain()
	}
	return requests, nil
}

var _ pos.TransferRequestStore = (*GormTransferRepository)(nil)
