package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BillHistoryService serves the bill history screens
type BillHistoryService struct {
	billRepo billing.BillRepository
	logger   *zap.Logger
}

// NewBillHistoryService creates a BillHistoryService
func NewBillHistoryService(billRepo billing.BillRepository, logger *zap.Logger) *BillHistoryService {
	return &BillHistoryService{
		billRepo: billRepo,
		logger:   logger.Named("bill_history"),
	}
}

// ListBills returns a page of a store's bills, newest first
func (s *BillHistoryService) ListBills(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (shared.Paginated[BillResponse], error) {
	bills, err := s.billRepo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return shared.Paginated[BillResponse]{}, err
	}
	total, err := s.billRepo.CountForStore(ctx, storeID)
	if err != nil {
		return shared.Paginated[BillResponse]{}, err
	}

	responses := make([]BillResponse, 0, len(bills))
	for i := range bills {
		responses = append(responses, ToBillResponse(&bills[i]))
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

// GetBill loads a single bill with its lines
func (s *BillHistoryService) GetBill(ctx context.Context, storeID, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByIDForStore(ctx, storeID, billID)
	if err != nil {
		return nil, err
	}
	response := ToBillResponse(bill)
	return &response, nil
}
