package printing

import (
	"context"

	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/pos"
)

// LogReceiptNotifier implements pos.ReceiptNotifier by logging that a
// sale's documents are ready. Rendering and delivery run in the back
// office; the terminal only announces availability
type LogReceiptNotifier struct {
	logger *zap.Logger
}

// NewLogReceiptNotifier creates a new LogReceiptNotifier
func NewLogReceiptNotifier(logger *zap.Logger) *LogReceiptNotifier {
	return &LogReceiptNotifier{logger: logger}
}

// SaleReady announces that receipt and invoice documents can be
// produced for the sale
func (n *LogReceiptNotifier) SaleReady(ctx context.Context, sale *pos.Sale) error {
	fields := []zap.Field{
		zap.String("sale_number", sale.Number),
		zap.String("sale_id", sale.ID.String()),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.String("customer", sale.CustomerName),
	}
	if sale.CustomerEmail != "" {
		fields = append(fields, zap.String("email", sale.CustomerEmail))
	}
	n.logger.Info("sale documents available", fields...)
	return nil
}

var _ pos.ReceiptNotifier = (*LogReceiptNotifier)(nil)
