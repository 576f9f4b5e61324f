package pos

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared"
)

// StockService is the terminal's view on inventory: what the active
// location can sell, which products run low, and transfer requests
// toward other locations when the shelf here is empty
type StockService struct {
	products   catalog.ProductStore
	transfers  pos.TransferRequestStore
	publisher  shared.EventPublisher
	locationID uuid.UUID
	logger     *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	products catalog.ProductStore,
	transfers pos.TransferRequestStore,
	publisher shared.EventPublisher,
	locationID uuid.UUID,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		products:   products,
		transfers:  transfers,
		publisher:  publisher,
		locationID: locationID,
		logger:     logger,
	}
}

// LocationID returns the active location this terminal sells from
func (s *StockService) LocationID() uuid.UUID {
	return s.locationID
}

// ListProducts returns the sale-screen catalog of the active location
func (s *StockService) ListProducts(ctx context.Context) ([]ProductView, error) {
	products, err := s.products.ListByLocation(ctx, s.locationID)
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = toProductView(&products[i])
	}
	return views, nil
}

// FindProduct returns one product of the active location
func (s *StockService) FindProduct(ctx context.Context, productID uuid.UUID) (*ProductView, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	view := toProductView(product)
	return &view, nil
}

// TransferOptions lists the other locations that still stock a product
// that is out of stock here
func (s *StockService) TransferOptions(ctx context.Context, productID uuid.UUID) ([]TransferOption, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	siblings, err := s.products.ListBySKU(ctx, product.SKU)
	if err != nil {
		return nil, err
	}

	options := make([]TransferOption, 0)
	for i := range siblings {
		sibling := &siblings[i]
		if sibling.LocationID == s.locationID || !sibling.InStock() {
			continue
		}
		options = append(options, TransferOption{
			ProductID:     sibling.ID,
			LocationID:    sibling.LocationID,
			StockQuantity: sibling.StockQuantity,
		})
	}
	return options, nil
}

// RequestTransfer asks another location to send one unit of a product
// toward the active location. The request is advisory; approval and
// movement happen on the other side
func (s *StockService) RequestTransfer(ctx context.Context, cashierID, productID, fromLocationID uuid.UUID) (*TransferRequestView, error) {
	if fromLocationID == s.locationID {
		return nil, shared.NewDomainError("SAME_LOCATION", "Cannot request a transfer from the active location")
	}

	request, err := pos.NewStockTransferRequest(productID, fromLocationID, s.locationID, cashierID, 1)
	if err != nil {
		return nil, err
	}
	if err := s.transfers.Save(ctx, request); err != nil {
		return nil, err
	}
	_ = s.publisher.Publish(ctx, pos.NewTransferRequestedEvent(request))

	s.logger.Info("stock transfer requested",
		zap.String("product_id", productID.String()),
		zap.String("from_location_id", fromLocationID.String()),
	)

	view := toTransferRequestView(request)
	return &view, nil
}

// ListPendingTransfers lists transfer requests still awaiting a
// decision
func (s *StockService) ListPendingTransfers(ctx context.Context) ([]TransferRequestView, error) {
	requests, err := s.transfers.ListByStatus(ctx, pos.TransferStatusPending)
	if err != nil {
		return nil, err
	}
	views := make([]TransferRequestView, len(requests))
	for i := range requests {
		views[i] = toTransferRequestView(&requests[i])
	}
	return views, nil
}

// ReceiveStock books received inventory into the active location
func (s *StockService) ReceiveStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidInput
	}
	return s.products.AdjustStock(ctx, productID, quantity)
}

func toProductView(product *catalog.Product) ProductView {
	return ProductView{
		ID:              product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		Price:           product.Price,
		StockQuantity:   product.StockQuantity,
		IsAgeRestricted: product.IsAgeRestricted,
		IsNotForSale:    product.IsNotForSale,
		IsLowStock:      product.IsBelowReorderPoint(),
	}
}

func toTransferRequestView(request *pos.StockTransferRequest) TransferRequestView {
	return TransferRequestView{
		ID:             request.ID,
		ProductID:      request.ProductID,
		FromLocationID: request.FromLocationID,
		ToLocationID:   request.ToLocationID,
		Quantity:       request.Quantity,
		Status:         request.Status,
	}
}
