package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models
// It maps to the domain's BaseEntity
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) toEntity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) fromEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with a version for optimistic locking
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func (m *AggregateModel) toAggregateRoot() shared.BaseAggregateRoot {
	root := shared.NewBaseAggregateRoot()
	root.BaseEntity = m.toEntity()
	root.Version = m.Version
	return root
}

func (m *AggregateModel) fromAggregateRoot(a shared.BaseAggregateRoot) {
	m.fromEntity(a.BaseEntity)
	m.Version = a.Version
}

// ProductModel is the persistence shape of a product snapshot
type ProductModel struct {
	AggregateModel
	SKU             string          `gorm:"not null;index"`
	Name            string          `gorm:"not null"`
	Price           decimal.Decimal `gorm:"type:numeric;not null"`
	Cost            decimal.Decimal `gorm:"type:numeric;not null"`
	StockQuantity   int             `gorm:"not null"`
	ReorderPoint    int             `gorm:"not null;default:0"`
	LocationID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	IsAgeRestricted bool            `gorm:"not null;default:false"`
	IsNotForSale    bool            `gorm:"not null;default:false"`
}

// TableName returns the table name
func (ProductModel) TableName() string { return "products" }

// ToDomain converts the model to a domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.toAggregateRoot(),
		SKU:               m.SKU,
		Name:              m.Name,
		Price:             m.Price,
		Cost:              m.Cost,
		StockQuantity:     m.StockQuantity,
		ReorderPoint:      m.ReorderPoint,
		LocationID:        m.LocationID,
		IsAgeRestricted:   m.IsAgeRestricted,
		IsNotForSale:      m.IsNotForSale,
	}
}

// ProductModelFromDomain converts a domain product to its model
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		SKU:             p.SKU,
		Name:            p.Name,
		Price:           p.Price,
		Cost:            p.Cost,
		StockQuantity:   p.StockQuantity,
		ReorderPoint:    p.ReorderPoint,
		LocationID:      p.LocationID,
		IsAgeRestricted: p.IsAgeRestricted,
		IsNotForSale:    p.IsNotForSale,
	}
	m.fromAggregateRoot(p.BaseAggregateRoot)
	return m
}

// CustomerModel is the persistence shape of a customer directory entry
type CustomerModel struct {
	BaseModel
	Name     string `gorm:"not null"`
	Email    string
	IsWalkIn bool `gorm:"not null;default:false;index"`
}

// TableName returns the table name
func (CustomerModel) TableName() string { return "customers" }

// ToDomain converts the model to a directory customer
func (m *CustomerModel) ToDomain() *pos.Customer {
	return &pos.Customer{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		IsWalkIn: m.IsWalkIn,
	}
}

// SaleModel is the persistence shape of a finalized sale
type SaleModel struct {
	AggregateModel
	Number         string          `gorm:"not null;uniqueIndex"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName   string          `gorm:"not null"`
	CustomerEmail  string
	CashierID      uuid.UUID       `gorm:"type:uuid;not null"`
	LocationID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subtotal       decimal.Decimal `gorm:"type:numeric;not null"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric;not null"`
	Tax            decimal.Decimal `gorm:"type:numeric;not null"`
	Total          decimal.Decimal `gorm:"type:numeric;not null"`
	DiscountType   *string
	DiscountValue  *decimal.Decimal `gorm:"type:numeric"`
	ChangeDue      decimal.Decimal  `gorm:"type:numeric;not null"`
	Status         string           `gorm:"not null;index"`
	IsQueued       bool             `gorm:"not null;default:false"`
	VoidedAt       *time.Time

	Items   []SaleItemModel   `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Tenders []SaleTenderModel `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name
func (SaleModel) TableName() string { return "sales" }

// SaleItemModel is one frozen line of a sale
// Position preserves ring-up order
type SaleItemModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	SaleID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Position      int       `gorm:"not null"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null"`
	SKU           string    `gorm:"not null"`
	Name          string    `gorm:"not null"`
	Quantity      int       `gorm:"not null"`
	UnitPrice     decimal.Decimal  `gorm:"type:numeric;not null"`
	OriginalPrice *decimal.Decimal `gorm:"type:numeric"`
	LineTotal     decimal.Decimal  `gorm:"type:numeric;not null"`
}

// TableName returns the table name
func (SaleItemModel) TableName() string { return "sale_items" }

// SaleTenderModel is one accepted tender of a sale
// Position preserves acceptance order
type SaleTenderModel struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"not null"`
	TenderID   uuid.UUID       `gorm:"type:uuid;not null"`
	MethodID   uuid.UUID       `gorm:"type:uuid;not null"`
	MethodName string          `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:numeric;not null"`
}

// TableName returns the table name
func (SaleTenderModel) TableName() string { return "sale_tenders" }

// ToDomain converts the model and its children to a domain sale
func (m *SaleModel) ToDomain() *pos.Sale {
	sale := &pos.Sale{
		BaseAggregateRoot: m.toAggregateRoot(),
		Number:            m.Number,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		CustomerEmail:     m.CustomerEmail,
		CashierID:         m.CashierID,
		LocationID:        m.LocationID,
		Subtotal:          m.Subtotal,
		DiscountAmount:    m.DiscountAmount,
		Tax:               m.Tax,
		Total:             m.Total,
		ChangeDue:         m.ChangeDue,
		Status:            pos.SaleStatus(m.Status),
		IsQueued:          m.IsQueued,
		VoidedAt:          m.VoidedAt,
	}
	if m.DiscountType != nil {
		discountType := pos.DiscountType(*m.DiscountType)
		sale.DiscountType = &discountType
	}
	sale.DiscountValue = m.DiscountValue

	sale.Items = make([]pos.SaleItem, len(m.Items))
	for i, item := range m.Items {
		sale.Items[i] = pos.SaleItem{
			ProductID:     item.ProductID,
			SKU:           item.SKU,
			Name:          item.Name,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			OriginalPrice: item.OriginalPrice,
			LineTotal:     item.LineTotal,
		}
	}
	sale.Tenders = make([]pos.SaleTender, len(m.Tenders))
	for i, tender := range m.Tenders {
		sale.Tenders[i] = pos.SaleTender{
			TenderID:   tender.TenderID,
			MethodID:   tender.MethodID,
			MethodName: tender.MethodName,
			Amount:     tender.Amount,
		}
	}
	return sale
}

// SaleModelFromDomain converts a domain sale to its model tree
func SaleModelFromDomain(sale *pos.Sale) *SaleModel {
	m := &SaleModel{
		Number:         sale.Number,
		CustomerID:     sale.CustomerID,
		CustomerName:   sale.CustomerName,
		CustomerEmail:  sale.CustomerEmail,
		CashierID:      sale.CashierID,
		LocationID:     sale.LocationID,
		Subtotal:       sale.Subtotal,
		DiscountAmount: sale.DiscountAmount,
		Tax:            sale.Tax,
		Total:          sale.Total,
		DiscountValue:  sale.DiscountValue,
		ChangeDue:      sale.ChangeDue,
		Status:         string(sale.Status),
		IsQueued:       sale.IsQueued,
		VoidedAt:       sale.VoidedAt,
	}
	m.fromAggregateRoot(sale.BaseAggregateRoot)
	if sale.DiscountType != nil {
		discountType := string(*sale.DiscountType)
		m.DiscountType = &discountType
	}

	m.Items = make([]SaleItemModel, len(sale.Items))
	for i, item := range sale.Items {
		m.Items[i] = SaleItemModel{
			SaleID:        sale.ID,
			Position:      i,
			ProductID:     item.ProductID,
			SKU:           item.SKU,
			Name:          item.Name,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			OriginalPrice: item.OriginalPrice,
			LineTotal:     item.LineTotal,
		}
	}
	m.Tenders = make([]SaleTenderModel, len(sale.Tenders))
	for i, tender := range sale.Tenders {
		m.Tenders[i] = SaleTenderModel{
			SaleID:     sale.ID,
			Position:   i,
			TenderID:   tender.TenderID,
			MethodID:   tender.MethodID,
			MethodName: tender.MethodName,
			Amount:     tender.Amount,
		}
	}
	return m
}

// TransferRequestModel is the persistence shape of a transfer request
type TransferRequestModel struct {
	BaseModel
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index"`
	FromLocationID   uuid.UUID `gorm:"type:uuid;not null"`
	ToLocationID     uuid.UUID `gorm:"type:uuid;not null"`
	Quantity         int       `gorm:"not null"`
	RequestingUserID uuid.UUID `gorm:"type:uuid;not null"`
	Status           string    `gorm:"not null;index"`
}

// TableName returns the table name
func (TransferRequestModel) TableName() string { return "transfer_requests" }

// ToDomain converts the model to a domain transfer request
func (m *TransferRequestModel) ToDomain() *pos.StockTransferRequest {
	return &pos.StockTransferRequest{
		BaseEntity:       m.toEntity(),
		ProductID:        m.ProductID,
		FromLocationID:   m.FromLocationID,
		ToLocationID:     m.ToLocationID,
		Quantity:         m.Quantity,
		RequestingUserID: m.RequestingUserID,
		Status:           pos.TransferStatus(m.Status),
	}
}

// TransferRequestModelFromDomain converts a domain request to its model
func TransferRequestModelFromDomain(r *pos.StockTransferRequest) *TransferRequestModel {
	m := &TransferRequestModel{
		ProductID:        r.ProductID,
		FromLocationID:   r.FromLocationID,
		ToLocationID:     r.ToLocationID,
		Quantity:         r.Quantity,
		RequestingUserID: r.RequestingUserID,
		Status:           string(r.Status),
	}
	m.fromEntity(r.BaseEntity)
	return m
}

// QueuedSaleModel parks a finalized sale while the terminal is offline
// The full aggregate is stored as JSON so the queue survives restarts
type QueuedSaleModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Payload   []byte    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name
func (QueuedSaleModel) TableName() string { return "queued_sales" }
