package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// StockLedgerService is the read-mostly view of a store's products. The
// billing pipeline resolves barcodes through it; the authoritative stock
// decrement happens inside checkout confirmation, not here.
type StockLedgerService struct {
	storeRepo   catalog.StoreRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewStockLedgerService creates a StockLedgerService
func NewStockLedgerService(storeRepo catalog.StoreRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *StockLedgerService {
	return &StockLedgerService{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		logger:      logger.Named("stock_ledger"),
	}
}

// ResolveByBarcode finds the product a scanned barcode refers to within
// a store. NOT_FOUND is an expected outcome for unknown barcodes.
func (s *StockLedgerService) ResolveByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*catalog.Product, error) {
	return s.productRepo.FindByBarcode(ctx, storeID, barcode)
}

// ListByStore returns a page of a store's products
func (s *StockLedgerService) ListByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (shared.Paginated[ProductResponse], error) {
	products, err := s.productRepo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	total, err := s.productRepo.CountForStore(ctx, storeID, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

// GetProduct loads one product
func (s *StockLedgerService) GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// CreateProduct adds a product to a store's ledger
func (s *StockLedgerService) CreateProduct(ctx context.Context, storeID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, err
	}

	price, err := valueobject.NewMoneyINRFromString(req.UnitPrice)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price is not a valid amount")
	}

	if existing, err := s.productRepo.FindByBarcode(ctx, storeID, req.Barcode); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	product, err := catalog.NewProduct(storeID, req.Name, req.Barcode, price, req.AvailableQuantity)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("store_id", storeID.String()),
		zap.String("barcode", product.Barcode),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// RestockProduct adds quantity back to a product's availability
func (s *StockLedgerService) RestockProduct(ctx context.Context, storeID, productID uuid.UUID, quantity int64) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if err := product.Restock(quantity); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}
