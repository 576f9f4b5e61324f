package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/pos"
)

// CartLineView is the presentation shape of one cart line
type CartLineView struct {
	ProductID     uuid.UUID        `json:"product_id"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	LineTotal     decimal.Decimal  `json:"line_total"`
	Advisory      string           `json:"advisory,omitempty"`
}

// CartView is the presentation shape of the active cart with its totals
type CartView struct {
	Mode                 pos.TransactionMode `json:"mode"`
	Lines                []CartLineView      `json:"lines"`
	Subtotal             decimal.Decimal     `json:"subtotal"`
	DiscountAmount       decimal.Decimal     `json:"discount_amount"`
	Tax                  decimal.Decimal     `json:"tax"`
	Total                decimal.Decimal     `json:"total"`
	CustomerID           uuid.UUID           `json:"customer_id"`
	CustomerName         string              `json:"customer_name"`
	VerificationRequired bool                `json:"verification_required"`
	PendingProductID     *uuid.UUID          `json:"pending_product_id,omitempty"`
}

// TenderView is the presentation shape of one accepted tender
type TenderView struct {
	ID         uuid.UUID       `json:"id"`
	MethodID   uuid.UUID       `json:"method_id"`
	MethodName string          `json:"method_name"`
	Amount     decimal.Decimal `json:"amount"`
}

// PaymentView is the presentation shape of the reconciler state
type PaymentView struct {
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Remaining   decimal.Decimal `json:"remaining"`
	ChangeDue   decimal.Decimal `json:"change_due"`
	IsFullyPaid bool            `json:"is_fully_paid"`
	Tenders     []TenderView    `json:"tenders"`
	Message     string          `json:"message,omitempty"`
}

// SaleItemView is the presentation shape of one finalized line
type SaleItemView struct {
	ProductID     uuid.UUID        `json:"product_id"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	LineTotal     decimal.Decimal  `json:"line_total"`
}

// SaleResponse is the presentation shape of a finalized sale
// It doubles as the receipt payload handed to the receipt consumer
type SaleResponse struct {
	ID             uuid.UUID       `json:"id"`
	Number         string          `json:"number"`
	Status         pos.SaleStatus  `json:"status"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	Items          []SaleItemView  `json:"items"`
	Tenders        []TenderView    `json:"tenders"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	ChangeDue      decimal.Decimal `json:"change_due"`
	IsQueued       bool            `json:"is_queued"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToSaleResponse maps a Sale aggregate to its response shape
func ToSaleResponse(sale *pos.Sale) SaleResponse {
	items := make([]SaleItemView, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemView{
			ProductID:     item.ProductID,
			SKU:           item.SKU,
			Name:          item.Name,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			OriginalPrice: item.OriginalPrice,
			LineTotal:     item.LineTotal,
		}
	}
	tenders := make([]TenderView, len(sale.Tenders))
	for i, tender := range sale.Tenders {
		tenders[i] = TenderView{
			ID:         tender.TenderID,
			MethodID:   tender.MethodID,
			MethodName: tender.MethodName,
			Amount:     tender.Amount,
		}
	}
	return SaleResponse{
		ID:             sale.ID,
		Number:         sale.Number,
		Status:         sale.Status,
		CustomerID:     sale.CustomerID,
		CustomerName:   sale.CustomerName,
		Items:          items,
		Tenders:        tenders,
		Subtotal:       sale.Subtotal,
		DiscountAmount: sale.DiscountAmount,
		Tax:            sale.Tax,
		Total:          sale.Total,
		ChangeDue:      sale.ChangeDue,
		IsQueued:       sale.IsQueued,
		CreatedAt:      sale.CreatedAt,
	}
}

// HeldOrderView is the presentation shape of a suspended order
type HeldOrderView struct {
	ID           uuid.UUID `json:"id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	LineCount    int       `json:"line_count"`
	HeldAt       time.Time `json:"held_at"`
}

// ToHeldOrderView maps a HeldOrder to its presentation shape
func ToHeldOrderView(order *pos.HeldOrder) HeldOrderView {
	return HeldOrderView{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		CustomerName: order.CustomerName,
		LineCount:    order.Cart.ItemCount(),
		HeldAt:       order.HeldAt,
	}
}

// ProductView is the presentation shape of a product on the sale screen
type ProductView struct {
	ID              uuid.UUID       `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	StockQuantity   int             `json:"stock_quantity"`
	IsAgeRestricted bool            `json:"is_age_restricted"`
	IsNotForSale    bool            `json:"is_not_for_sale"`
	IsLowStock      bool            `json:"is_low_stock"`
}

// TransferOption describes another location able to cover a product
// that is out of stock at the active location
type TransferOption struct {
	ProductID     uuid.UUID `json:"product_id"`
	LocationID    uuid.UUID `json:"location_id"`
	StockQuantity int       `json:"stock_quantity"`
}

// TransferRequestView is the presentation shape of a transfer request
type TransferRequestView struct {
	ID             uuid.UUID          `json:"id"`
	ProductID      uuid.UUID          `json:"product_id"`
	FromLocationID uuid.UUID          `json:"from_location_id"`
	ToLocationID   uuid.UUID          `json:"to_location_id"`
	Quantity       int                `json:"quantity"`
	Status         pos.TransferStatus `json:"status"`
}
