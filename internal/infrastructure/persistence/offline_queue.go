package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/pos"
)

// GormOfflineQueue implements pos.OfflineQueue backed by the local
// SQLite file, so queued sales survive a terminal restart
type GormOfflineQueue struct {
	db *gorm.DB
}

// NewGormOfflineQueue creates a new GormOfflineQueue
func NewGormOfflineQueue(db *gorm.DB) *GormOfflineQueue {
	return &GormOfflineQueue{db: db}
}

// Enqueue appends a queued sale
func (q *GormOfflineQueue) Enqueue(ctx context.Context, sale *pos.Sale) error {
	payload, err := json.Marshal(sale)
	if err != nil {
		return fmt.Errorf("failed to serialize queued sale: %w", err)
	}
	model := &QueuedSaleModel{
		SaleID:    sale.ID,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	return q.db.WithContext(ctx).Create(model).Error
}

// Drain applies fn to each queued sale in arrival order, deleting the
// rows fn accepts; it stops at the first error so a failed sync leaves
// the remainder intact
func (q *GormOfflineQueue) Drain(ctx context.Context, fn func(ctx context.Context, sale *pos.Sale) error) error {
	var queued []QueuedSaleModel
	if err := q.db.WithContext(ctx).
		Order("id ASC").
		Find(&queued).Error; err != nil {
		return err
	}

	for i := range queued {
		var sale pos.Sale
		if err := json.Unmarshal(queued[i].Payload, &sale); err != nil {
			return fmt.Errorf("failed to deserialize queued sale %s: %w", queued[i].SaleID, err)
		}
		if err := fn(ctx, &sale); err != nil {
			return err
		}
		if err := q.db.WithContext(ctx).
			Delete(&QueuedSaleModel{}, "id = ?", queued[i].ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of queued sales
func (q *GormOfflineQueue) Len(ctx context.Context) (int, error) {
	var count int64
	if err := q.db.WithContext(ctx).
		Model(&QueuedSaleModel{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

var _ pos.OfflineQueue = (*GormOfflineQueue)(nil)
